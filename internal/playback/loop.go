package playback

import (
	"context"
	"time"
)

// Tick advances the session clock by one second. While playing it updates
// the elapsed time, counts cumulative play and runs the mid-roll gate;
// during an interstitial it drives the ad clock; otherwise it does nothing.
func (s *serviceImpl) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	switch s.state {
	case StateAdInterstitial:
		s.adUnit.Tick(tickInterval)
	case StatePlaying:
		s.session.Elapsed = s.transport.Position()
		s.session.CumulativePlay += tickInterval
		s.emitPositionLocked()
		s.tickBannerLocked(tickInterval)
		s.midRollLocked()
	}
}

// Run drives the coordinator until ctx is done or the service closes:
// the one-second tick plus end-of-media from both transports.
func (s *serviceImpl) Run(ctx context.Context) error {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	var adFinished <-chan struct{}
	if s.adUnit != nil {
		adFinished = s.adUnit.FinishedChan()
	}
	trackFinished := s.transport.FinishedChan()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		case <-ticker.C:
			s.Tick()
		case <-trackFinished:
			s.handleTrackFinished()
		case <-adFinished:
			s.handleAdFinished()
		}
	}
}
