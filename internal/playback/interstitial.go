package playback

import (
	"time"

	"github.com/llehouerou/wavecast/internal/ads"
	"github.com/llehouerou/wavecast/internal/adunit"
	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/queue"
	"github.com/llehouerou/wavecast/internal/telemetry"
)

func (s *serviceImpl) adsEnabled() bool {
	return s.scheduler != nil && s.adUnit != nil
}

func (s *serviceImpl) preRollLocked(t queue.Track) *ads.Creative {
	if !s.adsEnabled() {
		return nil
	}
	return s.scheduler.PreRoll(s.ctx, t.ID, s.session)
}

// midRollLocked runs the mid-roll gate after a playing tick. The main
// transport is paused before the ad starts and resumed if it cannot.
func (s *serviceImpl) midRollLocked() {
	if !s.adsEnabled() || !s.scheduler.MidRollDue(s.session.CumulativePlay) {
		return
	}
	t := s.session.CurrentTrack
	trackID := ""
	if t != nil {
		trackID = t.ID
	}
	c := s.scheduler.MidRoll(s.ctx, trackID, s.session.CumulativePlay)
	if c == nil {
		return
	}

	s.transport.Pause()
	s.pending = nil
	s.resumeMain = true
	var cur queue.Track
	if t != nil {
		cur = *t
	}
	if !s.presentLocked(c, cur) {
		s.resumeMain = false
		s.transport.Resume()
	}
}

// presentLocked hands c to the ad unit and enters AdInterstitial.
// It reports false when the creative could not be shown.
func (s *serviceImpl) presentLocked(c *ads.Creative, t queue.Track) bool {
	placement := ads.Placement{Kind: c.Kind, TrackID: t.ID, CumulativePlay: s.session.CumulativePlay}
	if err := s.adUnit.Present(c, placement, s.adDoneLocked); err != nil {
		s.logger.Warn().Err(err).Str("ad", c.ID).Msg(errmsg.Format(errmsg.OpAdPresent, err))
		return false
	}
	s.setStateLocked(StateAdInterstitial)
	cp := *c
	s.emit(func(sub *Subscription) { sub.sendAd(AdChange{Active: true, Creative: &cp}) })
	return true
}

// adDoneLocked runs inside the ad unit once its transport is released.
func (s *serviceImpl) adDoneLocked(outcome adunit.Outcome) {
	s.emit(func(sub *Subscription) { sub.sendAd(AdChange{Active: false, Outcome: outcome}) })

	pending, resume := s.pending, s.resumeMain
	s.pending = nil
	s.resumeMain = false

	switch {
	case pending != nil:
		if err := s.startTrackLocked(*pending); err != nil {
			s.logger.Debug().Err(err).Msg("start after ad")
		}
	case resume:
		s.setStateLocked(StateLoading)
		s.transport.Resume()
		s.setStateLocked(StatePlaying)
	default:
		s.setStateLocked(StateStopped)
	}
}

// handleAdFinished completes an audio ad that reached its end.
func (s *serviceImpl) handleAdFinished() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.adUnit == nil {
		return
	}
	s.adUnit.HandleFinished()
}

// SkipAd skips the running interstitial when the skip control is available.
func (s *serviceImpl) SkipAd() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.adUnit == nil || s.state != StateAdInterstitial {
		return false
	}
	return s.adUnit.Skip()
}

// ClickAd activates the call-to-action of the interstitial, or of the
// banner when no interstitial runs, and returns its URL.
func (s *serviceImpl) ClickAd() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.adUnit != nil && s.adUnit.Active() {
		return s.adUnit.Click()
	}
	if s.banner == nil || s.banner.CTA == nil {
		return "", false
	}
	s.emitter.Click(s.bannerImp)
	return s.banner.CTA.URL, true
}

// SetAdVolume sets the ad volume without touching the main player.
func (s *serviceImpl) SetAdVolume(level float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.adUnit != nil {
		s.adUnit.SetVolume(level)
	}
}

// SetAdMuted mutes ads without touching the main player.
func (s *serviceImpl) SetAdMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.adUnit != nil {
		s.adUnit.SetMuted(muted)
	}
}

// refreshBannerLocked replaces the banner when a new track starts.
func (s *serviceImpl) refreshBannerLocked(t queue.Track) {
	if s.scheduler == nil {
		return
	}
	c := s.scheduler.Banner(s.ctx, t.ID)
	if c == nil {
		s.clearBannerLocked()
		return
	}
	s.banner = c
	s.bannerLeft = c.Duration
	if s.bannerLeft <= 0 {
		s.bannerLeft = s.bannerDuration
	}
	placement := ads.Placement{Kind: ads.Banner, TrackID: t.ID}
	s.bannerImp = s.emitter.Impression(c.ID, string(c.Kind), placement.String())
	cp := *c
	s.emit(func(sub *Subscription) { sub.sendAd(AdChange{Active: true, Banner: true, Creative: &cp}) })
}

func (s *serviceImpl) tickBannerLocked(d time.Duration) {
	if s.banner == nil {
		return
	}
	s.bannerLeft -= d
	if s.bannerLeft <= 0 {
		s.emitter.Completion(s.bannerImp)
		s.clearBannerLocked()
	}
}

func (s *serviceImpl) clearBannerLocked() {
	if s.banner == nil {
		return
	}
	s.banner = nil
	s.bannerImp = nil
	s.bannerLeft = 0
	s.emit(func(sub *Subscription) { sub.sendAd(AdChange{Active: false, Banner: true}) })
}

// Like records a like for the current track.
func (s *serviceImpl) Like() {
	s.trackAction(telemetry.ActionLike)
}

// Share records a share of the current track.
func (s *serviceImpl) Share() {
	s.trackAction(telemetry.ActionShare)
}

func (s *serviceImpl) trackAction(action telemetry.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.queue.Current(); t != nil {
		s.analyticsLocked(action, *t, nil)
	}
}

// analyticsLocked sends a playback analytics event; it never waits.
func (s *serviceImpl) analyticsLocked(action telemetry.Action, t queue.Track, meta map[string]any) {
	s.emitter.Analytics(action, map[string]string{
		"trackId":  t.ID,
		"title":    t.Title,
		"artistId": t.ArtistID,
	}, meta)
}
