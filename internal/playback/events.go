package playback

import (
	"time"

	"github.com/llehouerou/wavecast/internal/ads"
	"github.com/llehouerou/wavecast/internal/adunit"
	"github.com/llehouerou/wavecast/internal/queue"
)

// StateChange is emitted when the coordinator state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when a track starts from zero: a new track, or a
// repeat-one replay. Resuming after pause or after a mid-roll does not emit.
type TrackChange struct {
	Previous *queue.Track
	Current  *queue.Track
	Index    int
}

// QueueChange is emitted when the queue contents or cursor change.
type QueueChange struct {
	Tracks []queue.Track
	Index  int
}

// ModeChange is emitted when repeat or shuffle mode changes.
type ModeChange struct {
	RepeatMode queue.RepeatMode
	Shuffle    bool
}

// PositionChange is emitted every tick while playing and on seek.
type PositionChange struct {
	Position time.Duration
	Duration time.Duration
}

// VolumeChange is emitted when the main volume or mute changes.
type VolumeChange struct {
	Volume float64
	Muted  bool
}

// AdChange is emitted when an interstitial or banner starts or ends.
type AdChange struct {
	Active   bool
	Banner   bool
	Creative *ads.Creative
	Outcome  adunit.Outcome // set when an interstitial ends
}

// NoticeLevel grades a user-facing notice.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeError
)

// Notice is a short user-facing message.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// ErrorEvent is emitted when an operation fails.
type ErrorEvent struct {
	Operation string // e.g. "play"
	TrackID   string
	Err       error
}
