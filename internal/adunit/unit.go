// Package adunit presents one ad creative at a time on its own transport.
package adunit

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/wavecast/internal/ads"
	"github.com/llehouerou/wavecast/internal/logging"
	"github.com/llehouerou/wavecast/internal/telemetry"
	"github.com/llehouerou/wavecast/internal/transport"
)

// ErrBusy is returned by Present while another creative is showing.
var ErrBusy = errors.New("ad unit busy")

// DefaultImageDuration applies to image-only creatives without a duration.
const DefaultImageDuration = 15 * time.Second

// Outcome is how a presentation ended.
type Outcome int

const (
	Completed Outcome = iota
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Status is a read-only view of the running presentation.
type Status struct {
	Creative  ads.Creative
	Elapsed   time.Duration
	Remaining time.Duration // zero when the length is unknown
	CanSkip   bool
}

type presentation struct {
	creative  *ads.Creative
	placement ads.Placement
	imp       *telemetry.Impression
	elapsed   time.Duration
	length    time.Duration
	onDone    func(Outcome)
}

// Unit plays creatives. It is driven by its owner's event loop and is not
// safe for concurrent use.
type Unit struct {
	transport     transport.Interface
	emitter       *telemetry.Emitter
	skipDelay     time.Duration
	imageDuration time.Duration
	logger        zerolog.Logger

	active *presentation
}

// Options configures a Unit.
type Options struct {
	SkipDelay     time.Duration
	ImageDuration time.Duration
}

// New creates a unit playing audio through tr, which must not be shared
// with the main player.
func New(tr transport.Interface, emitter *telemetry.Emitter, opts Options, logger zerolog.Logger) *Unit {
	if opts.SkipDelay <= 0 {
		opts.SkipDelay = ads.DefaultSkipDelay
	}
	if opts.ImageDuration <= 0 {
		opts.ImageDuration = DefaultImageDuration
	}
	return &Unit{
		transport:     tr,
		emitter:       emitter,
		skipDelay:     opts.SkipDelay,
		imageDuration: opts.ImageDuration,
		logger:        logging.Component(logger, "adunit"),
	}
}

// Present starts c. onDone runs exactly once, after the unit's transport
// has been released, unless the presentation is aborted. A creative whose
// audio fails to load is never shown and onDone is not called.
func (u *Unit) Present(c *ads.Creative, placement ads.Placement, onDone func(Outcome)) error {
	if u.active != nil {
		return ErrBusy
	}
	if c == nil {
		return errors.New("nil creative")
	}

	length := c.Duration
	if c.HasAudio() {
		if err := u.transport.Play(c.MediaURL); err != nil {
			return fmt.Errorf("load ad %s: %w", c.ID, err)
		}
		if d := u.transport.Duration(); d > 0 {
			length = d
		}
	} else if length <= 0 {
		length = u.imageDuration
	}

	u.active = &presentation{
		creative:  c,
		placement: placement,
		length:    length,
		onDone:    onDone,
	}
	u.active.imp = u.emitter.Impression(c.ID, string(c.Kind), placement.String())

	u.logger.Debug().
		Str("ad", c.ID).
		Stringer("placement", placement).
		Dur("length", length).
		Msg("ad presented")
	return nil
}

// Active reports whether a creative is showing.
func (u *Unit) Active() bool {
	return u.active != nil
}

// Status returns the running presentation, or nil.
func (u *Unit) Status() *Status {
	p := u.active
	if p == nil {
		return nil
	}
	s := &Status{
		Creative: *p.creative,
		Elapsed:  p.elapsed,
		CanSkip:  u.CanSkip(),
	}
	if p.length > 0 && p.length > p.elapsed {
		s.Remaining = p.length - p.elapsed
	}
	return s
}

// Tick advances the presentation clock. Image-only creatives complete
// when their length has elapsed.
func (u *Unit) Tick(d time.Duration) {
	p := u.active
	if p == nil {
		return
	}
	p.elapsed += d
	if !p.creative.HasAudio() && p.elapsed >= p.length {
		u.finish(Completed)
	}
}

// HandleFinished completes an audio creative that reached its end.
func (u *Unit) HandleFinished() {
	if u.active == nil || !u.active.creative.HasAudio() {
		return
	}
	u.finish(Completed)
}

// FinishedChan signals the end of an audio creative.
func (u *Unit) FinishedChan() <-chan struct{} {
	return u.transport.FinishedChan()
}

// CanSkip reports whether the skip control is available.
func (u *Unit) CanSkip() bool {
	if u.active == nil {
		return false
	}
	return ads.SkipEligible(u.active.creative, u.active.elapsed, u.skipDelay)
}

// Skip ends the presentation early when allowed.
func (u *Unit) Skip() bool {
	if !u.CanSkip() {
		return false
	}
	u.finish(Skipped)
	return true
}

// Click reports a call-to-action activation and returns its URL.
func (u *Unit) Click() (string, bool) {
	p := u.active
	if p == nil || p.creative.CTA == nil {
		return "", false
	}
	u.emitter.Click(p.imp)
	return p.creative.CTA.URL, true
}

// Abort drops the presentation without calling its callback.
func (u *Unit) Abort() {
	if u.active == nil {
		return
	}
	u.transport.Stop()
	u.active = nil
}

// SetVolume sets the ad volume, independent of the main player.
func (u *Unit) SetVolume(level float64) { u.transport.SetVolume(level) }

// Volume returns the ad volume.
func (u *Unit) Volume() float64 { return u.transport.Volume() }

// SetMuted mutes or unmutes ads.
func (u *Unit) SetMuted(muted bool) { u.transport.SetMuted(muted) }

// Muted reports whether ads are muted.
func (u *Unit) Muted() bool { return u.transport.Muted() }

func (u *Unit) finish(outcome Outcome) {
	p := u.active
	u.active = nil
	u.transport.Stop()

	if outcome == Completed {
		u.emitter.Completion(p.imp)
	}
	u.logger.Debug().
		Str("ad", p.creative.ID).
		Stringer("outcome", outcome).
		Dur("elapsed", p.elapsed).
		Msg("ad finished")

	if p.onDone != nil {
		p.onDone(outcome)
	}
}
