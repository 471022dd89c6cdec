package playback

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/wavecast/internal/ads"
	"github.com/llehouerou/wavecast/internal/adunit"
	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/logging"
	"github.com/llehouerou/wavecast/internal/queue"
	"github.com/llehouerou/wavecast/internal/state"
	"github.com/llehouerou/wavecast/internal/telemetry"
	"github.com/llehouerou/wavecast/internal/transport"
)

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

// tickInterval drives elapsed time, cumulative play time and ad clocks.
const tickInterval = time.Second

// DefaultBannerDuration is how long a banner stays up without its own duration.
const DefaultBannerDuration = 15 * time.Second

// SettingsStore persists player settings.
type SettingsStore interface {
	GetPlayerSettings() (*state.PlayerSettings, error)
	SavePlayerSettings(state.PlayerSettings) error
}

// Deps wires the coordinator. Scheduler, AdUnit, Telemetry and Settings
// are optional; without a scheduler or ad unit no ads run.
type Deps struct {
	Transport      transport.Interface
	Queue          *queue.PlayingQueue
	Scheduler      *ads.Scheduler
	AdUnit         *adunit.Unit
	Telemetry      *telemetry.Emitter
	Settings       SettingsStore
	BannerDuration time.Duration
	Logger         zerolog.Logger
}

type serviceImpl struct {
	mu sync.Mutex

	transport transport.Interface
	queue     *queue.PlayingQueue
	scheduler *ads.Scheduler
	adUnit    *adunit.Unit
	emitter   *telemetry.Emitter
	settings  SettingsStore
	logger    zerolog.Logger

	state     State
	session   *Session
	lastTrack *queue.Track

	// Interstitial bookkeeping: pending starts after the ad; otherwise
	// resumeMain resumes the paused main transport.
	pending    *queue.Track
	resumeMain bool

	banner         *ads.Creative
	bannerImp      *telemetry.Impression
	bannerLeft     time.Duration
	bannerDuration time.Duration

	subs   []*Subscription
	subsMu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	closed bool
}

// New creates a playback coordinator. Saved volume and mute are applied to
// the transport; shuffle and repeat come from the queue's own snapshot.
func New(deps Deps) Service {
	ctx, cancel := context.WithCancel(context.Background())
	q := deps.Queue
	if q == nil {
		q = queue.NewQueue()
	}
	bannerDuration := deps.BannerDuration
	if bannerDuration <= 0 {
		bannerDuration = DefaultBannerDuration
	}
	s := &serviceImpl{
		transport:      deps.Transport,
		queue:          q,
		scheduler:      deps.Scheduler,
		adUnit:         deps.AdUnit,
		emitter:        deps.Telemetry,
		settings:       deps.Settings,
		logger:         logging.Component(deps.Logger, "playback"),
		state:          StateIdle,
		session:        NewSession(),
		bannerDuration: bannerDuration,
		ctx:            ctx,
		cancel:         cancel,
		done:           make(chan struct{}),
	}
	s.loadSettings()
	return s
}

func (s *serviceImpl) loadSettings() {
	if s.settings == nil {
		s.session.Volume = s.transport.Volume()
		return
	}
	saved, err := s.settings.GetPlayerSettings()
	if err != nil || saved == nil {
		if err != nil {
			s.logger.Warn().Err(err).Msg(errmsg.Format(errmsg.OpSettingsLoad, err))
		}
		s.session.Volume = s.transport.Volume()
		return
	}
	s.transport.SetVolume(saved.Volume)
	s.transport.SetMuted(saved.Muted)
	s.session.Volume = s.transport.Volume()
	s.session.Muted = saved.Muted
}

func (s *serviceImpl) saveSettingsLocked() {
	if s.settings == nil {
		return
	}
	err := s.settings.SavePlayerSettings(state.PlayerSettings{
		Volume:     s.session.Volume,
		Muted:      s.session.Muted,
		Shuffle:    s.queue.Shuffle(),
		RepeatMode: int(s.queue.RepeatMode()),
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg(errmsg.Format(errmsg.OpSettingsSave, err))
	}
}

// State returns the coordinator state.
func (s *serviceImpl) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsPlaying reports whether a catalog track is audibly playing.
func (s *serviceImpl) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Playing
}

// CurrentTrack returns the track at the queue cursor, or nil if none.
func (s *serviceImpl) CurrentTrack() *queue.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Current()
}

// Position returns the elapsed time of the current track.
func (s *serviceImpl) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Elapsed
}

// Duration returns the current track duration.
func (s *serviceImpl) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Duration
}

// Progress returns the played fraction of the current track.
func (s *serviceImpl) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Progress()
}

func (s *serviceImpl) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Volume
}

func (s *serviceImpl) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Muted
}

// CumulativePlay returns the session's total time spent playing.
func (s *serviceImpl) CumulativePlay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.CumulativePlay
}

// Queue returns a copy of all tracks in the queue.
func (s *serviceImpl) Queue() []queue.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Tracks()
}

// QueueIndex returns the queue cursor (-1 if none).
func (s *serviceImpl) QueueIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.CurrentIndex()
}

func (s *serviceImpl) Shuffle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Shuffle()
}

func (s *serviceImpl) RepeatMode() queue.RepeatMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.RepeatMode()
}

// Ad returns the running interstitial, or nil.
func (s *serviceImpl) Ad() *adunit.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.adUnit == nil {
		return nil
	}
	return s.adUnit.Status()
}

// Banner returns the banner on display, or nil.
func (s *serviceImpl) Banner() *ads.Creative {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.banner == nil {
		return nil
	}
	c := *s.banner
	return &c
}

// Subscribe creates a new event subscription.
func (s *serviceImpl) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

// Close stops both transports and ends every subscription. In-flight
// telemetry is left to finish on its own.
func (s *serviceImpl) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.cancel()
	close(s.done)
	if s.adUnit != nil {
		s.adUnit.Abort()
	}
	s.transport.Stop()
	s.mu.Unlock()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()

	return nil
}

func (s *serviceImpl) setStateLocked(next State) {
	if next == s.state {
		return
	}
	prev := s.state
	s.state = next
	s.session.Playing = next == StatePlaying
	s.logger.Debug().Stringer("from", prev).Stringer("to", next).Msg("state change")
	s.emit(func(sub *Subscription) { sub.sendState(StateChange{Previous: prev, Current: next}) })
}

func (s *serviceImpl) emit(fn func(*Subscription)) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		fn(sub)
	}
}

func (s *serviceImpl) emitQueueLocked() {
	e := QueueChange{Tracks: s.queue.Tracks(), Index: s.queue.CurrentIndex()}
	s.emit(func(sub *Subscription) { sub.sendQueue(e) })
}

func (s *serviceImpl) emitModeLocked() {
	e := ModeChange{RepeatMode: s.queue.RepeatMode(), Shuffle: s.queue.Shuffle()}
	s.emit(func(sub *Subscription) { sub.sendMode(e) })
}

func (s *serviceImpl) emitPositionLocked() {
	e := PositionChange{Position: s.session.Elapsed, Duration: s.session.Duration}
	s.emit(func(sub *Subscription) { sub.sendPosition(e) })
}

func (s *serviceImpl) emitNotice(level NoticeLevel, msg string) {
	s.emit(func(sub *Subscription) { sub.sendNotice(Notice{Level: level, Message: msg}) })
}
