// Package ads decides when an ad must run and which creative to show.
//
// Every gate fails open: entitlement lookups that error, fetches that fail
// and empty inventory all resolve to "no ad", so playback is never blocked
// by monetization.
package ads

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/llehouerou/wavecast/internal/account"
	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/logging"
)

const (
	DefaultMidRollInterval = 300 * time.Second
	DefaultSkipDelay       = 5 * time.Second
)

const (
	outcomeServed   = "served"
	outcomeEmpty    = "empty"
	outcomeFailed   = "failed"
	outcomeBypassed = "bypassed"
	outcomeRepeat   = "already_served"
)

var gatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "wavecast",
	Name:      "ad_gates_total",
	Help:      "Ad gate decisions by kind and outcome.",
}, []string{"kind", "outcome"})

// Ledger is the session state the pre-roll gate consults.
type Ledger interface {
	PreRollServed(trackID string) bool
	MarkPreRollServed(trackID string)
}

// Config tunes the scheduler.
type Config struct {
	MidRollInterval time.Duration
	SkipDelay       time.Duration
}

// Scheduler implements the pre-roll, mid-roll and banner gates.
type Scheduler struct {
	inventory    Inventory
	entitlements account.Provider
	cfg          Config
	logger       zerolog.Logger
}

// NewScheduler creates a scheduler. Zero config values take defaults.
func NewScheduler(inv Inventory, entitlements account.Provider, cfg Config, logger zerolog.Logger) *Scheduler {
	if cfg.MidRollInterval <= 0 {
		cfg.MidRollInterval = DefaultMidRollInterval
	}
	if cfg.SkipDelay <= 0 {
		cfg.SkipDelay = DefaultSkipDelay
	}
	return &Scheduler{
		inventory:    inv,
		entitlements: entitlements,
		cfg:          cfg,
		logger:       logging.Component(logger, "ads"),
	}
}

// SkipDelay returns the minimum elapsed time before a skip is offered.
func (s *Scheduler) SkipDelay() time.Duration {
	return s.cfg.SkipDelay
}

// MidRollInterval returns the cumulative play time between mid-rolls.
func (s *Scheduler) MidRollInterval() time.Duration {
	return s.cfg.MidRollInterval
}

// Bypass reports whether the current user skips all ads. The plan is
// looked up on every call. A failed lookup bypasses.
func (s *Scheduler) Bypass(ctx context.Context) bool {
	if s.entitlements == nil {
		return false
	}
	tier, err := s.entitlements.CurrentPlanTier(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg(errmsg.Format(errmsg.OpPlanTier, err))
		return true
	}
	return tier.BypassesAds()
}

// PreRoll runs the pre-roll gate for a track about to start. It fires at
// most once per track per ledger; the track counts as served once the gate
// fires, even when no creative comes back.
func (s *Scheduler) PreRoll(ctx context.Context, trackID string, ledger Ledger) *Creative {
	if ledger.PreRollServed(trackID) {
		gatesTotal.WithLabelValues(string(PreRoll), outcomeRepeat).Inc()
		return nil
	}
	if s.Bypass(ctx) {
		gatesTotal.WithLabelValues(string(PreRoll), outcomeBypassed).Inc()
		return nil
	}
	ledger.MarkPreRollServed(trackID)

	c := s.fetch(ctx, Placement{Kind: PreRoll, TrackID: trackID})
	if c != nil {
		c.Skippable = false
	}
	return c
}

// MidRollDue reports whether cumulative play time sits on an exact
// multiple of the interval.
func (s *Scheduler) MidRollDue(cumulative time.Duration) bool {
	return cumulative > 0 && cumulative%s.cfg.MidRollInterval == 0
}

// MidRoll runs the mid-roll gate when due.
func (s *Scheduler) MidRoll(ctx context.Context, trackID string, cumulative time.Duration) *Creative {
	if !s.MidRollDue(cumulative) {
		return nil
	}
	if s.Bypass(ctx) {
		gatesTotal.WithLabelValues(string(MidRoll), outcomeBypassed).Inc()
		return nil
	}
	return s.fetch(ctx, Placement{Kind: MidRoll, TrackID: trackID, CumulativePlay: cumulative})
}

// Banner fetches a banner creative for the given track context.
func (s *Scheduler) Banner(ctx context.Context, trackID string) *Creative {
	if s.Bypass(ctx) {
		gatesTotal.WithLabelValues(string(Banner), outcomeBypassed).Inc()
		return nil
	}
	return s.fetch(ctx, Placement{Kind: Banner, TrackID: trackID})
}

func (s *Scheduler) fetch(ctx context.Context, p Placement) *Creative {
	kind := string(p.Kind)
	if s.inventory == nil {
		gatesTotal.WithLabelValues(kind, outcomeEmpty).Inc()
		return nil
	}

	c, err := s.inventory.FetchCreative(ctx, p.Kind, p)
	switch {
	case err != nil:
		gatesTotal.WithLabelValues(kind, outcomeFailed).Inc()
		s.logger.Warn().Err(err).Stringer("placement", p).Msg(errmsg.Format(errmsg.OpAdFetch, err))
		return nil
	case c == nil:
		gatesTotal.WithLabelValues(kind, outcomeEmpty).Inc()
		s.logger.Debug().Stringer("placement", p).Msg("no creative available")
		return nil
	}

	if c.Kind == "" {
		c.Kind = p.Kind
	}
	gatesTotal.WithLabelValues(kind, outcomeServed).Inc()
	s.logger.Debug().Str("ad", c.ID).Stringer("placement", p).Msg("creative selected")
	return c
}
