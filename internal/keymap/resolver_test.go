package keymap

import (
	"slices"
	"testing"
)

func TestResolver_DefaultBindings(t *testing.T) {
	r := NewResolver(Bindings)

	tests := []struct {
		key  string
		want Action
	}{
		{"q", ActionQuit},
		{"ctrl+c", ActionQuit},
		{" ", ActionPlayPause},
		{"n", ActionNextTrack},
		{"pgdown", ActionNextTrack},
		{"p", ActionPrevTrack},
		{"shift+right", ActionSeekForward},
		{"R", ActionCycleRepeat},
		{"S", ActionToggleShuffle},
		{"x", ActionSkipAd},
		{"o", ActionClickAd},
		{"M", ActionAdMute},
		{"m", ActionToggleMute},
		{"}", ActionAdVolumeUp},
		{"{", ActionAdVolumeDown},
		{"enter", ActionSelect},
		{"u", ActionUndo},
		{"ctrl+r", ActionRedo},
		{"unbound", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := r.Resolve(tt.key); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestResolver_KeysFor(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionSkipAd, []string{"x"}, "Skip ad", "ads"},
		{ActionVolumeUp, []string{"+", "="}, "Volume up", "playback"},
	})

	if got := r.KeysFor(ActionVolumeUp); !slices.Equal(got, []string{"+", "="}) {
		t.Errorf("KeysFor(VolumeUp) = %v, want [+ =]", got)
	}
	if got := r.KeysFor(ActionClickAd); got != nil {
		t.Errorf("KeysFor(ClickAd) = %v, want nil", got)
	}
}

func TestResolver_SameActionInSeveralContexts(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionStop, []string{"s", "esc"}, "Stop", "playback"},
		{ActionStop, []string{"s"}, "Stop ad and music", "ads"},
	})

	if got := r.KeysFor(ActionStop); !slices.Equal(got, []string{"s", "esc"}) {
		t.Errorf("KeysFor(Stop) = %v, want [s esc]", got)
	}
	if got := len(r.Help("ads")); got != 1 {
		t.Errorf("Help(ads) has %d lines, want 1", got)
	}
}

func TestResolver_Help(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
		{ActionNextTrack, []string{"n", "pgdown"}, "Next track", "playback"},
		{ActionSkipAd, []string{"x"}, "Skip ad", "ads"},
	})

	got := r.Help("playback")
	want := []string{"space  Play/pause", "n/pgdown  Next track"}
	if !slices.Equal(got, want) {
		t.Errorf("Help(playback) = %v, want %v", got, want)
	}

	if got := r.Help("queue"); got != nil {
		t.Errorf("Help(queue) = %v, want nil", got)
	}
}

func TestResolver_EmptyBindings(t *testing.T) {
	r := NewResolver(nil)

	if got := r.Resolve("x"); got != "" {
		t.Errorf("Resolve on empty resolver = %q, want empty", got)
	}
	if got := r.KeysFor(ActionSkipAd); got != nil {
		t.Errorf("KeysFor on empty resolver = %v, want nil", got)
	}
}

func TestDedupe(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"x", "o", "x"}, []string{"x", "o"}},
		{[]string{"M", "M", "M"}, []string{"M"}},
		{[]string{}, []string{}},
	}

	for _, tt := range tests {
		if got := dedupe(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("dedupe(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
