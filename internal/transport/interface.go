package transport

import "time"

// Interface is the owned handle to one audio output. Callers never touch
// the audio device directly; everything goes through this contract.
type Interface interface {
	// Play loads source (URL or local path) and starts it from zero,
	// replacing whatever was loaded before.
	Play(source string) error
	Stop()
	Pause()
	Resume()
	State() State
	Position() time.Duration
	Duration() time.Duration
	// Seek moves by delta; SeekTo jumps to an absolute position.
	Seek(delta time.Duration)
	SeekTo(pos time.Duration)
	SetVolume(level float64)
	Volume() float64
	SetMuted(muted bool)
	Muted() bool
	// FinishedChan receives once each time the loaded media plays to its end.
	FinishedChan() <-chan struct{}
}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)
