package transport

import "time"

// Mock is a test double for Player.
type Mock struct {
	state      State
	position   time.Duration
	duration   time.Duration
	volume     float64
	muted      bool
	playErr    error
	playCalls  []string
	seekCalls  []time.Duration
	stopCalls  int
	finishedCh chan struct{}
}

// NewMock creates a new mock transport for testing.
func NewMock() *Mock {
	return &Mock{
		state:      Stopped,
		volume:     1,
		finishedCh: make(chan struct{}, 1),
	}
}

func (m *Mock) Play(source string) error {
	m.playCalls = append(m.playCalls, source)
	m.state = Stopped
	m.position = 0
	if m.playErr != nil {
		return m.playErr
	}
	m.state = Playing
	return nil
}

func (m *Mock) Stop() {
	m.stopCalls++
	m.state = Stopped
	m.position = 0
}

func (m *Mock) Pause() {
	if m.state == Playing {
		m.state = Paused
	}
}

func (m *Mock) Resume() {
	if m.state == Paused {
		m.state = Playing
	}
}

func (m *Mock) State() State { return m.state }

func (m *Mock) Position() time.Duration { return m.position }

func (m *Mock) Duration() time.Duration { return m.duration }

func (m *Mock) Seek(d time.Duration) {
	m.seekCalls = append(m.seekCalls, d)
	m.position += d
	if m.position < 0 {
		m.position = 0
	}
}

func (m *Mock) SeekTo(pos time.Duration) {
	m.seekCalls = append(m.seekCalls, pos-m.position)
	m.position = max(pos, 0)
}

func (m *Mock) SetVolume(level float64) { m.volume = ClampLevel(level) }

func (m *Mock) Volume() float64 { return m.volume }

func (m *Mock) SetMuted(muted bool) { m.muted = muted }

func (m *Mock) Muted() bool { return m.muted }

func (m *Mock) FinishedChan() <-chan struct{} {
	return m.finishedCh
}

// Test helpers

func (m *Mock) SetState(s State) { m.state = s }

func (m *Mock) SetPlayError(err error) { m.playErr = err }

func (m *Mock) PlayCalls() []string { return m.playCalls }

func (m *Mock) SeekCalls() []time.Duration { return m.seekCalls }

func (m *Mock) StopCalls() int { return m.stopCalls }

func (m *Mock) SetDuration(d time.Duration) { m.duration = d }

func (m *Mock) SetPosition(d time.Duration) { m.position = d }

// SimulateFinished simulates the media reaching its end.
func (m *Mock) SimulateFinished() {
	select {
	case m.finishedCh <- struct{}{}:
	default:
	}
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
