// Package telemetry reports ad and playback events. Every call is
// fire-and-forget: failures are logged and counted, never retried, and
// never reach the caller.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/llehouerou/wavecast/internal/logging"
)

// defaultTimeout bounds a single delivery attempt.
const defaultTimeout = 5 * time.Second

// Options configures an Emitter.
type Options struct {
	UserID  string
	Device  DeviceInfo
	Timeout time.Duration
}

// Emitter sends events in background goroutines.
type Emitter struct {
	client  Client
	opts    Options
	logger  zerolog.Logger
	pending sync.WaitGroup
}

// NewEmitter creates an emitter. A nil client drops every event, and so
// does a nil *Emitter.
func NewEmitter(client Client, opts Options, logger zerolog.Logger) *Emitter {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Emitter{
		client: client,
		opts:   opts,
		logger: logging.Component(logger, "telemetry"),
	}
}

// Impression is one presentation of a creative. Clicks and completions
// for the presentation go through it so they share its PresentationID and,
// once known, the server's impression id.
type Impression struct {
	PresentationID string
	AdID           string
	Kind           string
	Placement      string

	mu sync.Mutex
	id string
}

// ID returns the server-assigned impression id, or "" if unresolved.
func (i *Impression) ID() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.id
}

func (i *Impression) setID(id string) {
	i.mu.Lock()
	i.id = id
	i.mu.Unlock()
}

// Impression records that a creative started and returns its handle
// immediately; the id resolves in the background.
func (e *Emitter) Impression(adID, kind, placement string) *Impression {
	imp := &Impression{
		PresentationID: uuid.NewString(),
		AdID:           adID,
		Kind:           kind,
		Placement:      placement,
	}
	if e == nil {
		return imp
	}
	ev := ImpressionEvent{
		PresentationID: imp.PresentationID,
		AdID:           adID,
		Kind:           kind,
		Placement:      placement,
		Device:         e.opts.Device,
	}
	e.send(kindImpression, func(ctx context.Context) error {
		id, err := e.client.RecordImpression(ctx, ev)
		if err != nil {
			return err
		}
		imp.setID(id)
		return nil
	})
	return imp
}

// Click records a call-to-action activation. It never waits for the
// impression id; an unresolved id is simply omitted.
func (e *Emitter) Click(imp *Impression) {
	if e == nil || imp == nil {
		return
	}
	ev := ClickEvent{
		PresentationID: imp.PresentationID,
		AdID:           imp.AdID,
		Kind:           imp.Kind,
		ImpressionID:   imp.ID(),
	}
	e.send(kindClick, func(ctx context.Context) error {
		return e.client.RecordClick(ctx, ev)
	})
}

// Completion records that the creative played to its natural end.
func (e *Emitter) Completion(imp *Impression) {
	if e == nil || imp == nil {
		return
	}
	ev := CompletionEvent{
		PresentationID: imp.PresentationID,
		AdID:           imp.AdID,
		Kind:           imp.Kind,
		Placement:      imp.Placement,
	}
	e.send(kindCompletion, func(ctx context.Context) error {
		return e.client.RecordCompletion(ctx, ev)
	})
}

// Analytics records a playback action with track context.
func (e *Emitter) Analytics(action Action, track map[string]string, metadata map[string]any) {
	if e == nil {
		return
	}
	ev := AnalyticsEvent{
		EventID:  uuid.NewString(),
		UserID:   e.opts.UserID,
		Action:   action,
		Context:  track,
		Metadata: metadata,
		At:       time.Now().UTC(),
	}
	e.send(kindAnalytics, func(ctx context.Context) error {
		return e.client.RecordAnalytics(ctx, ev)
	})
}

// Wait blocks until in-flight events finish. Only tests and shutdown
// paths that want to flush call it.
func (e *Emitter) Wait() {
	if e == nil {
		return
	}
	e.pending.Wait()
}

func (e *Emitter) send(kind string, fn func(ctx context.Context) error) {
	if e == nil || e.client == nil {
		return
	}
	e.pending.Add(1)
	go func() {
		defer e.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), e.opts.Timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			eventsTotal.WithLabelValues(kind, resultFailed).Inc()
			e.logger.Warn().Err(err).Str("event", kind).Msg("telemetry delivery failed")
			return
		}
		eventsTotal.WithLabelValues(kind, resultSent).Inc()
		e.logger.Debug().Str("event", kind).Msg("telemetry delivered")
	}()
}
