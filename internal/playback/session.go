package playback

import (
	"time"

	"github.com/llehouerou/wavecast/internal/queue"
)

// Session is the in-memory playback session. It lives for one process
// and is never persisted, so pre-roll history and mid-roll cadence both
// start over on restart.
type Session struct {
	CurrentTrack   *queue.Track
	Playing        bool
	Volume         float64
	Muted          bool
	Elapsed        time.Duration
	Duration       time.Duration
	CumulativePlay time.Duration // whole seconds spent Playing; never reset

	served map[string]struct{}
}

// NewSession creates an empty session at full volume.
func NewSession() *Session {
	return &Session{
		Volume: 1,
		served: make(map[string]struct{}),
	}
}

// PreRollServed reports whether trackID already went through the pre-roll gate.
func (s *Session) PreRollServed(trackID string) bool {
	_, ok := s.served[trackID]
	return ok
}

// MarkPreRollServed records that trackID went through the pre-roll gate.
func (s *Session) MarkPreRollServed(trackID string) {
	s.served[trackID] = struct{}{}
}

// StartTrack points the session at t with the clock at zero.
func (s *Session) StartTrack(t queue.Track) {
	s.CurrentTrack = &t
	s.Elapsed = 0
	s.Duration = t.Duration
}

// Reset clears the loaded track. Cumulative play time and the pre-roll
// history survive.
func (s *Session) Reset() {
	s.CurrentTrack = nil
	s.Playing = false
	s.Elapsed = 0
	s.Duration = 0
}

// Progress returns elapsed/duration in [0, 1].
func (s *Session) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	p := float64(s.Elapsed) / float64(s.Duration)
	return min(max(p, 0), 1)
}
