package transport

import (
	"math"
	"testing"
)

func TestClampLevel(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.4, 0.4},
		{1, 1},
		{3, 1},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := ClampLevel(tt.in); got != tt.want {
			t.Errorf("ClampLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelToVolume(t *testing.T) {
	tests := []struct {
		level float64
		want  float64
	}{
		{1, 0},
		{0.5, -1},
		{0.25, -2},
		{0, -10},
	}
	for _, tt := range tests {
		if got := levelToVolume(tt.level); got != tt.want {
			t.Errorf("levelToVolume(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestPlayer_VolumeWithoutMedia(t *testing.T) {
	p := New(0)

	p.SetVolume(0.3)
	p.SetMuted(true)

	if p.Volume() != 0.3 {
		t.Errorf("Volume() = %v, want 0.3", p.Volume())
	}
	if !p.Muted() {
		t.Error("Muted() = false, want true")
	}
	if p.State() != Stopped {
		t.Errorf("State() = %v, want Stopped", p.State())
	}
}
