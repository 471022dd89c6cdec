package playback

import (
	"fmt"
	"time"

	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/queue"
	"github.com/llehouerou/wavecast/internal/telemetry"
	"github.com/llehouerou/wavecast/internal/transport"
)

// Play starts t, adding it to the queue if needed. With a nil track it
// resumes a paused track or starts the current queue entry.
func (s *serviceImpl) Play(t *queue.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	if t == nil {
		return s.playCurrentLocked()
	}

	before := s.queue.Len()
	cur := s.queue.PlayNow(*t)
	if s.queue.Len() != before {
		s.emitQueueLocked()
	}
	return s.startOrDeferLocked(*cur)
}

func (s *serviceImpl) playCurrentLocked() error {
	switch s.state {
	case StatePaused:
		s.resumeLocked()
		return nil
	case StatePlaying, StateLoading, StateAdInterstitial:
		return nil
	}

	cur := s.queue.Current()
	if cur == nil {
		step := s.queue.Advance(queue.Forward)
		if step.Track == nil {
			return nil
		}
		cur = step.Track
	}
	return s.startTrackLocked(*cur)
}

// Pause pauses the current track.
func (s *serviceImpl) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.pauseLocked()
	return nil
}

func (s *serviceImpl) pauseLocked() {
	if s.state != StatePlaying {
		return
	}
	s.transport.Pause()
	s.session.Elapsed = s.transport.Position()
	s.setStateLocked(StatePaused)
	if t := s.session.CurrentTrack; t != nil {
		s.analyticsLocked(telemetry.ActionPause, *t, map[string]any{
			"positionSeconds": s.session.Elapsed.Seconds(),
		})
	}
}

// Resume continues a paused track. Ads are not re-checked.
func (s *serviceImpl) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.state == StatePaused {
		s.resumeLocked()
	}
	return nil
}

func (s *serviceImpl) resumeLocked() {
	s.transport.Resume()
	s.setStateLocked(StatePlaying)
}

// Toggle pauses when playing and plays otherwise.
func (s *serviceImpl) Toggle() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.state == StatePlaying {
		s.pauseLocked()
		return nil
	}
	return s.playCurrentLocked()
}

// Stop stops playback, dropping any interstitial in progress. The queue
// cursor is kept.
func (s *serviceImpl) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.stopLocked()
	return nil
}

func (s *serviceImpl) stopLocked() {
	if s.adUnit != nil && s.adUnit.Active() {
		s.adUnit.Abort()
		s.emit(func(sub *Subscription) { sub.sendAd(AdChange{Active: false}) })
	}
	s.pending = nil
	s.resumeMain = false
	s.transport.Stop()
	s.session.Elapsed = 0
	s.setStateLocked(StateStopped)
}

// Seek jumps to an absolute position in the current track.
func (s *serviceImpl) Seek(position time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.seekLocked(position)
	return nil
}

// SeekBy moves the position by delta.
func (s *serviceImpl) SeekBy(delta time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.seekLocked(s.transport.Position() + delta)
	return nil
}

func (s *serviceImpl) seekLocked(position time.Duration) {
	if !s.state.IsActive() {
		return
	}
	s.transport.SeekTo(max(position, 0))
	s.session.Elapsed = s.transport.Position()
	s.emitPositionLocked()
}

// SetVolume sets the main volume (clamped to [0, 1]) and saves it.
func (s *serviceImpl) SetVolume(level float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transport.SetVolume(transport.ClampLevel(level))
	s.session.Volume = s.transport.Volume()
	s.saveSettingsLocked()
	s.emitVolumeLocked()
}

// SetMuted mutes or unmutes the main transport and saves it.
func (s *serviceImpl) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transport.SetMuted(muted)
	s.session.Muted = muted
	s.saveSettingsLocked()
	s.emitVolumeLocked()
}

func (s *serviceImpl) emitVolumeLocked() {
	e := VolumeChange{Volume: s.session.Volume, Muted: s.session.Muted}
	s.emit(func(sub *Subscription) { sub.sendVolume(e) })
}

// startOrDeferLocked starts t, or makes it the track to start once the
// running interstitial ends.
func (s *serviceImpl) startOrDeferLocked(t queue.Track) error {
	if s.state == StateAdInterstitial {
		s.pending = &t
		s.resumeMain = false
		return nil
	}
	return s.startTrackLocked(t)
}

// startTrackLocked is the single entry for starting a track: it runs the
// pre-roll gate, then loads.
func (s *serviceImpl) startTrackLocked(t queue.Track) error {
	if c := s.preRollLocked(t); c != nil {
		s.transport.Stop()
		s.session.StartTrack(t)
		s.pending = &t
		s.resumeMain = false
		if s.presentLocked(c, t) {
			return nil
		}
		s.pending = nil
	}
	return s.loadLocked(t)
}

// loadLocked loads t into the transport and starts it from zero. A load
// failure stops playback without advancing the queue. Remote media is
// fetched here, under the lock, bounded by the transport fetch timeout.
func (s *serviceImpl) loadLocked(t queue.Track) error {
	s.setStateLocked(StateLoading)
	s.session.StartTrack(t)

	if err := s.transport.Play(t.SourceURL); err != nil {
		s.setStateLocked(StateStopped)
		s.logger.Warn().Err(err).Str("track", t.ID).Msg("media load failed")
		s.emit(func(sub *Subscription) {
			sub.sendError(ErrorEvent{Operation: "play", TrackID: t.ID, Err: err})
		})
		s.emitNotice(NoticeError, errmsg.FormatWith(errmsg.OpPlaybackStart, t.Title, err))
		return fmt.Errorf("play %s: %w", t.ID, err)
	}
	if d := s.transport.Duration(); d > 0 {
		s.session.Duration = d
	}
	s.setStateLocked(StatePlaying)

	prev := s.lastTrack
	cur := t
	s.lastTrack = &cur
	e := TrackChange{Previous: prev, Current: &cur, Index: s.queue.CurrentIndex()}
	s.emit(func(sub *Subscription) { sub.sendTrack(e) })

	s.analyticsLocked(telemetry.ActionPlay, t, nil)
	s.refreshBannerLocked(t)
	return nil
}
