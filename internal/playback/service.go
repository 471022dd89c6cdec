package playback

import (
	"context"
	"errors"
	"time"

	"github.com/llehouerou/wavecast/internal/ads"
	"github.com/llehouerou/wavecast/internal/adunit"
	"github.com/llehouerou/wavecast/internal/queue"
)

// ErrClosed is returned by control methods after Close.
var ErrClosed = errors.New("playback service closed")

// Service is the public player contract.
type Service interface {
	// Playback control
	Play(t *queue.Track) error // nil plays (or resumes) the current queue entry
	Pause() error
	Resume() error
	Toggle() error
	Stop() error
	Next() error
	Previous() error
	Seek(position time.Duration) error
	SeekBy(delta time.Duration) error
	SetVolume(level float64)
	SetMuted(muted bool)

	// Queue
	Enqueue(tracks ...queue.Track) int
	RemoveFromQueue(index int) error
	ClearQueue()
	JumpTo(index int) error
	ToggleShuffle() bool
	ToggleRepeat() queue.RepeatMode
	Undo() bool
	Redo() bool

	// Ads
	SkipAd() bool
	ClickAd() (string, bool)
	SetAdVolume(level float64)
	SetAdMuted(muted bool)

	// Analytics
	Like()
	Share()

	// Clock
	Tick()
	Run(ctx context.Context) error

	// State queries
	State() State
	IsPlaying() bool
	CurrentTrack() *queue.Track
	Position() time.Duration
	Duration() time.Duration
	Progress() float64
	Volume() float64
	Muted() bool
	CumulativePlay() time.Duration
	Queue() []queue.Track
	QueueIndex() int
	Shuffle() bool
	RepeatMode() queue.RepeatMode
	Ad() *adunit.Status
	Banner() *ads.Creative

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}
