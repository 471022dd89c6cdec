package keymap

// Binding maps keys to an action within a context.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "ads", "queue"
}

// Bindings contains every key binding, in help order.
var Bindings = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionHelp, []string{"?"}, "Show help", "global"},
	{ActionSwitchFocus, []string{"tab"}, "Switch focus", "global"},

	// Playback
	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionStop, []string{"s"}, "Stop", "playback"},
	{ActionNextTrack, []string{"n", "pgdown"}, "Next track", "playback"},
	{ActionPrevTrack, []string{"p", "pgup"}, "Previous track", "playback"},
	{ActionSeekForward, []string{"shift+right", "L"}, "Seek +5s", "playback"},
	{ActionSeekBack, []string{"shift+left", "H"}, "Seek -5s", "playback"},
	{ActionVolumeUp, []string{"+", "="}, "Volume up", "playback"},
	{ActionVolumeDown, []string{"-"}, "Volume down", "playback"},
	{ActionToggleMute, []string{"m"}, "Mute", "playback"},
	{ActionCycleRepeat, []string{"R"}, "Cycle repeat mode", "playback"},
	{ActionToggleShuffle, []string{"S"}, "Toggle shuffle", "playback"},
	{ActionLike, []string{"f"}, "Like track", "playback"},
	{ActionShare, []string{"y"}, "Share track", "playback"},

	// Ads
	{ActionSkipAd, []string{"x"}, "Skip ad", "ads"},
	{ActionClickAd, []string{"o"}, "Open ad link", "ads"},
	{ActionAdMute, []string{"M"}, "Mute ads", "ads"},
	{ActionAdVolumeUp, []string{"}"}, "Ad volume up", "ads"},
	{ActionAdVolumeDown, []string{"{"}, "Ad volume down", "ads"},

	// Queue panel
	{ActionMoveUp, []string{"k", "up"}, "Move up", "queue"},
	{ActionMoveDown, []string{"j", "down"}, "Move down", "queue"},
	{ActionSelect, []string{"enter"}, "Play track", "queue"},
	{ActionDelete, []string{"d", "delete"}, "Remove track", "queue"},
	{ActionClear, []string{"c"}, "Clear queue", "queue"},
	{ActionUndo, []string{"u", "ctrl+z"}, "Undo", "queue"},
	{ActionRedo, []string{"ctrl+r"}, "Redo", "queue"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range Bindings {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
