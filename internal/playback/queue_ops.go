package playback

import (
	"fmt"

	"github.com/dustin/go-humanize/english"

	"github.com/llehouerou/wavecast/internal/queue"
)

// Enqueue appends tracks not already queued and reports how many were added.
func (s *serviceImpl) Enqueue(tracks ...queue.Track) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := s.queue.Enqueue(tracks...)
	if added > 0 {
		s.emitQueueLocked()
		s.emitNotice(NoticeInfo, fmt.Sprintf("Added %s to queue", english.Plural(added, "track", "")))
	} else if len(tracks) > 0 {
		s.emitNotice(NoticeInfo, "Already in queue")
	}
	return added
}

// RemoveFromQueue removes the entry at index. Removing the playing track
// moves on to the entry that took its place; removing the last entry
// stops playback and resets the session.
func (s *serviceImpl) RemoveFromQueue(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	removedCurrent, ok := s.queue.RemoveAt(index)
	if !ok {
		return fmt.Errorf("remove %d: index out of range", index)
	}
	s.emitQueueLocked()
	if !removedCurrent {
		return nil
	}
	return s.currentChangedLocked()
}

// ClearQueue empties the queue and stops playback.
func (s *serviceImpl) ClearQueue() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.Clear()
	s.emitQueueLocked()
	s.stopAndResetLocked()
}

// Undo reverts the last queue edit.
func (s *serviceImpl) Undo() bool {
	return s.history((*queue.PlayingQueue).Undo)
}

// Redo re-applies the last undone queue edit.
func (s *serviceImpl) Redo() bool {
	return s.history((*queue.PlayingQueue).Redo)
}

func (s *serviceImpl) history(op func(*queue.PlayingQueue) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.queue.Current()
	if !op(s.queue) {
		return false
	}
	s.emitQueueLocked()

	after := s.queue.Current()
	if before != nil && (after == nil || after.ID != before.ID) {
		if err := s.currentChangedLocked(); err != nil {
			s.logger.Debug().Err(err).Msg("start after history change")
		}
	}
	return true
}

// currentChangedLocked reacts to the track under the cursor disappearing.
func (s *serviceImpl) currentChangedLocked() error {
	cur := s.queue.Current()
	if cur == nil {
		s.stopAndResetLocked()
		return nil
	}

	switch s.state {
	case StateAdInterstitial:
		if s.pending != nil || s.resumeMain {
			s.pending = cur
			s.resumeMain = false
		}
		return nil
	case StatePlaying, StateLoading:
		return s.startTrackLocked(*cur)
	default:
		s.transport.Stop()
		s.session.StartTrack(*cur)
		if s.state != StateIdle {
			s.setStateLocked(StateStopped)
		}
		return nil
	}
}

func (s *serviceImpl) stopAndResetLocked() {
	s.stopLocked()
	s.session.Reset()
	s.lastTrack = nil
	s.clearBannerLocked()
}

// ToggleShuffle flips shuffle and returns the new state.
func (s *serviceImpl) ToggleShuffle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	on := s.queue.ToggleShuffle()
	s.emitModeLocked()
	s.emitQueueLocked()
	s.saveSettingsLocked()
	return on
}

// ToggleRepeat cycles Off → One → All → Off.
func (s *serviceImpl) ToggleRepeat() queue.RepeatMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	mode := s.queue.CycleRepeatMode()
	s.emitModeLocked()
	s.saveSettingsLocked()
	return mode
}
