package playback

import (
	"fmt"

	"github.com/llehouerou/wavecast/internal/queue"
)

// Next advances to the following track. Ignored during an interstitial.
func (s *serviceImpl) Next() error {
	return s.advance(queue.Forward)
}

// Previous steps back. At the first track without repeat-all it stays
// put; stepping back never stops playback.
func (s *serviceImpl) Previous() error {
	return s.advance(queue.Backward)
}

func (s *serviceImpl) advance(dir queue.Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.advanceLocked(dir)
}

// advanceLocked is shared by manual next/previous and end-of-track.
func (s *serviceImpl) advanceLocked(dir queue.Direction) error {
	if s.state == StateAdInterstitial {
		return nil
	}

	step := s.queue.Advance(dir)
	switch {
	case step.Stopped:
		s.stopLocked()
		return nil
	case step.Restart:
		return s.loadLocked(*step.Track)
	case step.Moved:
		s.emitQueueLocked()
		return s.startTrackLocked(*step.Track)
	default:
		return nil
	}
}

// handleTrackFinished routes end-of-media through the same path as Next.
func (s *serviceImpl) handleTrackFinished() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.state.IsActive() {
		return
	}
	if err := s.advanceLocked(queue.Forward); err != nil {
		s.logger.Debug().Err(err).Msg("advance after track end")
	}
}

// JumpTo starts the queue entry at index.
func (s *serviceImpl) JumpTo(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	t := s.queue.JumpTo(index)
	if t == nil {
		return fmt.Errorf("jump to %d: index out of range", index)
	}
	s.emitQueueLocked()
	return s.startOrDeferLocked(*t)
}
