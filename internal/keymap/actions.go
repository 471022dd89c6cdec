// Package keymap defines key bindings and action dispatch for the player.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit        Action = "quit"
	ActionHelp        Action = "help"
	ActionSwitchFocus Action = "switch_focus"

	// Playback actions
	ActionPlayPause     Action = "play_pause"
	ActionStop          Action = "stop"
	ActionNextTrack     Action = "next_track"
	ActionPrevTrack     Action = "prev_track"
	ActionSeekForward   Action = "seek_forward"
	ActionSeekBack      Action = "seek_back"
	ActionVolumeUp      Action = "volume_up"
	ActionVolumeDown    Action = "volume_down"
	ActionToggleMute    Action = "toggle_mute"
	ActionCycleRepeat   Action = "cycle_repeat"
	ActionToggleShuffle Action = "toggle_shuffle"
	ActionLike          Action = "like"
	ActionShare         Action = "share"

	// Ad actions
	ActionSkipAd       Action = "skip_ad"
	ActionClickAd      Action = "click_ad"
	ActionAdMute       Action = "ad_mute"
	ActionAdVolumeUp   Action = "ad_volume_up"
	ActionAdVolumeDown Action = "ad_volume_down"

	// Queue actions
	ActionMoveUp   Action = "move_up"
	ActionMoveDown Action = "move_down"
	ActionSelect   Action = "select" // enter - play entry under cursor
	ActionDelete   Action = "delete" // d/delete - remove entry under cursor
	ActionClear    Action = "clear"
	ActionUndo     Action = "undo"
	ActionRedo     Action = "redo"
)
