package playback

import (
	"context"
	"errors"
	"slices"
	"testing"
	"testing/synctest"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/wavecast/internal/account"
	"github.com/llehouerou/wavecast/internal/ads"
	"github.com/llehouerou/wavecast/internal/adunit"
	"github.com/llehouerou/wavecast/internal/queue"
	"github.com/llehouerou/wavecast/internal/state"
	"github.com/llehouerou/wavecast/internal/telemetry"
	"github.com/llehouerou/wavecast/internal/transport"
)

type fixture struct {
	svc     Service
	impl    *serviceImpl
	main    *transport.Mock
	adTr    *transport.Mock
	inv     *ads.MockInventory
	tier    *account.Static
	client  *telemetry.MockClient
	emitter *telemetry.Emitter
	store   *state.Mock
}

func newFixture(t *testing.T, tier account.PlanTier, cfg ads.Config) *fixture {
	t.Helper()
	f := &fixture{
		main:   transport.NewMock(),
		adTr:   transport.NewMock(),
		inv:    ads.NewMockInventory(),
		tier:   account.NewStatic(tier),
		client: telemetry.NewMockClient(),
		store:  state.NewMock(),
	}
	logger := zerolog.Nop()
	f.emitter = telemetry.NewEmitter(f.client, telemetry.Options{UserID: "u1"}, logger)
	f.svc = New(Deps{
		Transport: f.main,
		Queue:     queue.NewPersistentQueue(f.store, logger),
		Scheduler: ads.NewScheduler(f.inv, f.tier, cfg, logger),
		AdUnit:    adunit.New(f.adTr, f.emitter, adunit.Options{}, logger),
		Telemetry: f.emitter,
		Settings:  f.store,
		Logger:    logger,
	})
	f.impl = f.svc.(*serviceImpl)
	t.Cleanup(func() { _ = f.svc.Close() })
	return f
}

func track(id string) queue.Track {
	return queue.Track{
		ID:        id,
		Title:     "Song " + id,
		ArtistID:  "artist-" + id,
		SourceURL: "https://cdn.example/" + id + ".mp3",
		Duration:  3 * time.Minute,
	}
}

func url(id string) string { return "https://cdn.example/" + id + ".mp3" }

func queueIDs(svc Service) []string {
	var out []string
	for _, t := range svc.Queue() {
		out = append(out, t.ID)
	}
	return out
}

func audioAd(kind ads.Kind) *ads.Creative {
	return &ads.Creative{
		ID:        "ad-" + string(kind),
		Kind:      kind,
		MediaURL:  "https://ads.example/" + string(kind) + ".mp3",
		Duration:  20 * time.Second,
		Skippable: true,
		CTA:       &ads.CallToAction{Label: "Learn more", URL: "https://brand.example"},
	}
}

func (f *fixture) finishAd() {
	f.impl.handleAdFinished()
}

func countActions(actions []telemetry.Action, a telemetry.Action) int {
	n := 0
	for _, x := range actions {
		if x == a {
			n++
		}
	}
	return n
}

func TestService_EnqueueThenPlayNow(t *testing.T) {
	f := newFixture(t, "PREMIUM", ads.Config{})
	a, b, c := track("A"), track("B"), track("C")

	added := f.svc.Enqueue(a, b, c)

	assert.Equal(t, 3, added)
	assert.Equal(t, -1, f.svc.QueueIndex())
	assert.Nil(t, f.svc.CurrentTrack())
	assert.Equal(t, StateIdle, f.svc.State())

	require.NoError(t, f.svc.Play(&b))

	assert.Equal(t, 1, f.svc.QueueIndex())
	require.NotNil(t, f.svc.CurrentTrack())
	assert.Equal(t, "B", f.svc.CurrentTrack().ID)
	assert.Equal(t, StatePlaying, f.svc.State())
	assert.True(t, f.svc.IsPlaying())
	assert.Equal(t, []string{url("B")}, f.main.PlayCalls())
}

func TestService_EnqueueDuplicatesNotice(t *testing.T) {
	f := newFixture(t, "PREMIUM", ads.Config{})
	sub := f.svc.Subscribe()

	f.svc.Enqueue(track("A"), track("B"))
	added := f.svc.Enqueue(track("A"))

	assert.Equal(t, 0, added)
	assert.Equal(t, "Added 2 tracks to queue", (<-sub.Notices).Message)
	assert.Equal(t, "Already in queue", (<-sub.Notices).Message)
}

func TestService_PlayUnknownTrackAppends(t *testing.T) {
	f := newFixture(t, "PREMIUM", ads.Config{})
	f.svc.Enqueue(track("A"))
	d := track("D")

	require.NoError(t, f.svc.Play(&d))

	assert.Equal(t, []string{"A", "D"}, queueIDs(f.svc))
	assert.Equal(t, 1, f.svc.QueueIndex())
}

func TestService_RemoveCurrentAdvances(t *testing.T) {
	f := newFixture(t, "PREMIUM", ads.Config{})
	a := track("A")
	f.svc.Enqueue(a, track("B"), track("C"))
	require.NoError(t, f.svc.Play(&a))

	require.NoError(t, f.svc.RemoveFromQueue(0))

	assert.Equal(t, []string{"B", "C"}, queueIDs(f.svc))
	assert.Equal(t, 0, f.svc.QueueIndex())
	assert.Equal(t, "B", f.svc.CurrentTrack().ID)
	assert.Equal(t, StatePlaying, f.svc.State())
	assert.Equal(t, []string{url("A"), url("B")}, f.main.PlayCalls())
}

func TestService_RemoveBeforeCurrentKeepsTrack(t *testing.T) {
	f := newFixture(t, "PREMIUM", ads.Config{})
	c := track("C")
	f.svc.Enqueue(track("A"), track("B"), c)
	require.NoError(t, f.svc.Play(&c))

	require.NoError(t, f.svc.RemoveFromQueue(0))

	assert.Equal(t, 1, f.svc.QueueIndex())
	assert.Equal(t, "C", f.svc.CurrentTrack().ID)
	assert.Len(t, f.main.PlayCalls(), 1, "playing track untouched")
}

func TestService_RemoveSoleTrackStopsAndResets(t *testing.T) {
	f := newFixture(t, "PREMIUM", ads.Config{})
	a := track("A")
	f.svc.Enqueue(a)
	require.NoError(t, f.svc.Play(&a))
	f.main.SetPosition(20 * time.Second)
	f.svc.Tick()

	require.NoError(t, f.svc.RemoveFromQueue(0))

	assert.Equal(t, StateStopped, f.svc.State())
	assert.Nil(t, f.svc.CurrentTrack())
	assert.False(t, f.svc.IsPlaying())
	assert.Zero(t, f.svc.Position())
	assert.Zero(t, f.svc.Duration())
	assert.Equal(t, transport.Stopped, f.main.State())
	assert.Equal(t, time.Second, f.svc.CumulativePlay(), "session counters survive")
}

func TestService_RemoveOutOfRange(t *testing.T) {
	f := newFixture(t, "PREMIUM", ads.Config{})

	assert.Error(t, f.svc.RemoveFromQueue(0))
}

func TestService_TrackEndByRepeatMode(t *testing.T) {
	tests := []struct {
		name        string
		toggles     int
		wantState   State
		wantIndex   int
		wantLastURL string
		wantLoads   int
	}{
		{"repeat off stops", 0, StateStopped, 2, url("C"), 1},
		{"repeat one restarts", 1, StatePlaying, 2, url("C"), 2},
		{"repeat all wraps", 2, StatePlaying, 0, url("A"), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "PREMIUM", ads.Config{})
			f.svc.Enqueue(track("A"), track("B"), track("C"))
			for range tt.toggles {
				f.svc.ToggleRepeat()
			}
			require.NoError(t, f.svc.JumpTo(2))

			f.impl.handleTrackFinished()

			assert.Equal(t, tt.wantState, f.svc.State())
			assert.Equal(t, tt.wantIndex, f.svc.QueueIndex())
			calls := f.main.PlayCalls()
			assert.Len(t, calls, tt.wantLoads)
			assert.Equal(t, tt.wantLastURL, calls[len(calls)-1])
		})
	}
}

func TestService_NextAndPrevious(t *testing.T) {
	f := newFixture(t, "PREMIUM", ads.Config{})
	a := track("A")
	f.svc.Enqueue(a, track("B"))
	require.NoError(t, f.svc.Play(&a))

	require.NoError(t, f.svc.Previous())
	assert.Equal(t, 0, f.svc.QueueIndex(), "previous at start stays")
	assert.Equal(t, StatePlaying, f.svc.State())
	assert.Len(t, f.main.PlayCalls(), 1)

	require.NoError(t, f.svc.Next())
	assert.Equal(t, "B", f.svc.CurrentTrack().ID)

	require.NoError(t, f.svc.Next())
	assert.Equal(t, StateStopped, f.svc.State(), "next past the end stops")
	assert.Equal(t, 1, f.svc.QueueIndex())
}

func TestService_LoadFailureDoesNotAdvance(t *testing.T) {
	f := newFixture(t, "PREMIUM", ads.Config{})
	sub := f.svc.Subscribe()
	a := track("A")
	f.svc.Enqueue(a, track("B"))
	f.main.SetPlayError(errors.New("404 not found"))

	err := f.svc.Play(&a)

	require.Error(t, err)
	assert.Equal(t, StateStopped, f.svc.State())
	assert.Equal(t, 0, f.svc.QueueIndex())
	assert.False(t, f.svc.IsPlaying())

	ev := <-sub.Error
	assert.Equal(t, "A", ev.TrackID)
	<-sub.Notices // enqueue notice
	n := <-sub.Notices
	assert.Equal(t, NoticeError, n.Level)
	assert.Contains(t, n.Message, "Song A")

	f.main.SetPlayError(nil)
	require.NoError(t, f.svc.Next())
	assert.Equal(t, "B", f.svc.CurrentTrack().ID)
}

func TestService_PauseResumeAnalytics(t *testing.T) {
	f := newFixture(t, "PREMIUM", ads.Config{})
	a := track("A")
	f.svc.Enqueue(a)
	require.NoError(t, f.svc.Play(&a))
	f.main.SetPosition(42 * time.Second)

	require.NoError(t, f.svc.Pause())
	assert.Equal(t, StatePaused, f.svc.State())
	require.NoError(t, f.svc.Resume())
	assert.Equal(t, StatePlaying, f.svc.State())
	f.svc.Like()
	f.svc.Share()
	f.emitter.Wait()

	actions := f.client.Actions()
	assert.Equal(t, 1, countActions(actions, telemetry.ActionPlay), "resume is not a new play")
	assert.Equal(t, 1, countActions(actions, telemetry.ActionPause))
	assert.Equal(t, 1, countActions(actions, telemetry.ActionLike))
	assert.Equal(t, 1, countActions(actions, telemetry.ActionShare))
	for _, ev := range f.client.Analytics() {
		assert.Equal(t, "A", ev.Context["trackId"])
		assert.Equal(t, "u1", ev.UserID)
		if ev.Action == telemetry.ActionPause {
			assert.Equal(t, 42.0, ev.Metadata["positionSeconds"])
		}
	}
	assert.Len(t, f.main.PlayCalls(), 1)
}

func TestService_Toggle(t *testing.T) {
	f := newFixture(t, "PREMIUM", ads.Config{})
	f.svc.Enqueue(track("A"))

	require.NoError(t, f.svc.Toggle())
	assert.Equal(t, StatePlaying, f.svc.State())
	assert.Equal(t, "A", f.svc.CurrentTrack().ID)

	require.NoError(t, f.svc.Toggle())
	assert.Equal(t, StatePaused, f.svc.State())

	require.NoError(t, f.svc.Toggle())
	assert.Equal(t, StatePlaying, f.svc.State())
}

func TestService_Seek(t *testing.T) {
	f := newFixture(t, "PREMIUM", ads.Config{})
	a := track("A")
	f.svc.Enqueue(a)

	require.NoError(t, f.svc.Seek(time.Minute))
	assert.Empty(t, f.main.SeekCalls(), "no seek while idle")

	require.NoError(t, f.svc.Play(&a))
	require.NoError(t, f.svc.Seek(time.Minute))
	assert.Equal(t, time.Minute, f.svc.Position())

	require.NoError(t, f.svc.SeekBy(-90*time.Second))
	assert.Zero(t, f.svc.Position())
}

func TestService_TickCountsOnlyWhilePlaying(t *testing.T) {
	f := newFixture(t, "PREMIUM", ads.Config{})
	a := track("A")
	f.svc.Enqueue(a)
	f.svc.Tick()
	require.NoError(t, f.svc.Play(&a))

	f.svc.Tick()
	f.svc.Tick()
	require.NoError(t, f.svc.Pause())
	f.svc.Tick()
	f.svc.Tick()
	require.NoError(t, f.svc.Resume())
	f.svc.Tick()

	assert.Equal(t, 3*time.Second, f.svc.CumulativePlay())
}

func TestService_MidRollEveryIntervalDespitePauses(t *testing.T) {
	f := newFixture(t, account.TierFree, ads.Config{MidRollInterval: 300 * time.Second})
	f.inv.SetCreative(ads.MidRoll, &ads.Creative{ID: "img", Kind: ads.MidRoll, ImageURL: "https://ads.example/i.png", Duration: 3 * time.Second})
	a := track("A")
	f.svc.Enqueue(a)
	require.NoError(t, f.svc.Play(&a))

	var firedAt []time.Duration
	for i := 0; f.svc.CumulativePlay() < 900*time.Second; i++ {
		require.Less(t, i, 5000, "cumulative play stalled")
		if i%97 == 50 && f.svc.State() == StatePlaying {
			require.NoError(t, f.svc.Pause())
			f.svc.Tick()
			f.svc.Tick()
			require.NoError(t, f.svc.Resume())
		}
		f.svc.Tick()
		if f.svc.State() == StateAdInterstitial && len(firedAt) < f.inv.CallCount(ads.MidRoll) {
			firedAt = append(firedAt, f.svc.CumulativePlay())
		}
	}

	assert.Equal(t, 3, f.inv.CallCount(ads.MidRoll))
	assert.Equal(t, []time.Duration{300 * time.Second, 600 * time.Second, 900 * time.Second}, firedAt)
}

func TestService_MidRollPausesAndResumesMain(t *testing.T) {
	f := newFixture(t, account.TierFree, ads.Config{MidRollInterval: 3 * time.Second})
	f.inv.SetCreative(ads.MidRoll, audioAd(ads.MidRoll))
	sub := f.svc.Subscribe()
	a := track("A")
	f.svc.Enqueue(a)
	require.NoError(t, f.svc.Play(&a))

	for range 3 {
		f.svc.Tick()
	}

	assert.Equal(t, StateAdInterstitial, f.svc.State())
	assert.Equal(t, transport.Paused, f.main.State(), "main paused before the ad plays")
	assert.Equal(t, []string{"https://ads.example/MID_ROLL.mp3"}, f.adTr.PlayCalls())
	require.NotNil(t, f.svc.Ad())

	f.svc.Tick()
	assert.Equal(t, 3*time.Second, f.svc.CumulativePlay(), "ad time does not count")

	f.finishAd()
	f.emitter.Wait()

	assert.Equal(t, StatePlaying, f.svc.State())
	assert.Equal(t, transport.Playing, f.main.State())
	assert.Equal(t, transport.Stopped, f.adTr.State())
	assert.Len(t, f.main.PlayCalls(), 1, "resumed, not reloaded")
	assert.Equal(t, 1, countActions(f.client.Actions(), telemetry.ActionPlay))
	assert.Len(t, f.client.Completions(), 1)

	assert.Len(t, sub.TrackChanged, 1, "no track change across the ad")
}

func TestService_PreRollOncePerTrackPerSession(t *testing.T) {
	f := newFixture(t, account.TierFree, ads.Config{})
	f.inv.SetCreative(ads.PreRoll, audioAd(ads.PreRoll))
	a, b := track("A"), track("B")
	f.svc.Enqueue(a, b)

	require.NoError(t, f.svc.Play(&a))
	assert.Equal(t, StateAdInterstitial, f.svc.State())
	assert.Empty(t, f.main.PlayCalls(), "track waits for the pre-roll")
	assert.Equal(t, "A", f.svc.CurrentTrack().ID)
	assert.False(t, f.svc.SkipAd(), "pre-rolls cannot be skipped")

	f.finishAd()
	assert.Equal(t, StatePlaying, f.svc.State())
	assert.Equal(t, []string{url("A")}, f.main.PlayCalls())

	require.NoError(t, f.svc.Pause())
	require.NoError(t, f.svc.Resume())
	require.NoError(t, f.svc.Seek(30*time.Second))
	assert.Equal(t, 1, f.inv.CallCount(ads.PreRoll))

	require.NoError(t, f.svc.Play(&b))
	assert.Equal(t, StateAdInterstitial, f.svc.State())
	f.finishAd()

	require.NoError(t, f.svc.Play(&a))
	assert.Equal(t, StatePlaying, f.svc.State(), "A already served this session")
	assert.Equal(t, 2, f.inv.CallCount(ads.PreRoll))
	assert.Equal(t, []string{url("A"), url("B"), url("A")}, f.main.PlayCalls())
}

func TestService_PreRollEmptyInventoryFailsOpen(t *testing.T) {
	f := newFixture(t, account.TierFree, ads.Config{})
	f.inv.SetError(errors.New("ad server down"))
	a := track("A")
	f.svc.Enqueue(a)

	require.NoError(t, f.svc.Play(&a))

	assert.Equal(t, StatePlaying, f.svc.State())
	assert.Equal(t, []string{url("A")}, f.main.PlayCalls())
}

func TestService_AdLoadFailureFailsOpen(t *testing.T) {
	f := newFixture(t, account.TierFree, ads.Config{})
	f.inv.SetCreative(ads.PreRoll, audioAd(ads.PreRoll))
	f.adTr.SetPlayError(errors.New("bad creative"))
	a := track("A")
	f.svc.Enqueue(a)

	require.NoError(t, f.svc.Play(&a))

	assert.Equal(t, StatePlaying, f.svc.State())
	assert.Equal(t, []string{url("A")}, f.main.PlayCalls())
}

func TestService_PaidTierNeverFetchesAds(t *testing.T) {
	f := newFixture(t, "PREMIUM", ads.Config{})
	f.inv.SetCreative(ads.PreRoll, audioAd(ads.PreRoll))
	f.inv.SetCreative(ads.MidRoll, audioAd(ads.MidRoll))
	a := track("A")
	f.svc.Enqueue(a, track("B"))

	require.NoError(t, f.svc.Play(&a))
	for range 600 {
		f.svc.Tick()
	}

	assert.Empty(t, f.inv.Calls())
	assert.Equal(t, 600*time.Second, f.svc.CumulativePlay())
	assert.Equal(t, StatePlaying, f.svc.State())
}

func TestService_NavigationIgnoredDuringAd(t *testing.T) {
	f := newFixture(t, account.TierFree, ads.Config{})
	f.inv.SetCreative(ads.PreRoll, audioAd(ads.PreRoll))
	a := track("A")
	f.svc.Enqueue(a, track("B"))
	require.NoError(t, f.svc.Play(&a))

	require.NoError(t, f.svc.Next())
	require.NoError(t, f.svc.Previous())
	require.NoError(t, f.svc.Pause())

	assert.Equal(t, StateAdInterstitial, f.svc.State())
	assert.Equal(t, 0, f.svc.QueueIndex())
}

func TestService_StopDuringAd(t *testing.T) {
	f := newFixture(t, account.TierFree, ads.Config{})
	f.inv.SetCreative(ads.PreRoll, audioAd(ads.PreRoll))
	a := track("A")
	f.svc.Enqueue(a)
	require.NoError(t, f.svc.Play(&a))

	require.NoError(t, f.svc.Stop())

	assert.Equal(t, StateStopped, f.svc.State())
	assert.Nil(t, f.svc.Ad())
	assert.Equal(t, transport.Stopped, f.adTr.State())

	require.NoError(t, f.svc.Play(nil))
	assert.Equal(t, StatePlaying, f.svc.State(), "gate already fired for A")
	assert.Equal(t, []string{url("A")}, f.main.PlayCalls())
}

func TestService_RemovePendingTrackDuringPreRoll(t *testing.T) {
	f := newFixture(t, account.TierFree, ads.Config{})
	f.inv.SetCreative(ads.PreRoll, audioAd(ads.PreRoll))
	a := track("A")
	f.svc.Enqueue(a, track("B"), track("C"))
	require.NoError(t, f.svc.Play(&a))

	require.NoError(t, f.svc.RemoveFromQueue(0))
	assert.Equal(t, StateAdInterstitial, f.svc.State())

	f.finishAd() // A's pre-roll ends; B starts with its own pre-roll
	assert.Equal(t, StateAdInterstitial, f.svc.State())
	f.finishAd()

	assert.Equal(t, StatePlaying, f.svc.State())
	assert.Equal(t, []string{url("B")}, f.main.PlayCalls())
}

func TestService_PlayDuringAdBecomesPending(t *testing.T) {
	f := newFixture(t, account.TierFree, ads.Config{MidRollInterval: 2 * time.Second})
	f.inv.SetCreative(ads.MidRoll, audioAd(ads.MidRoll))
	a, b := track("A"), track("B")
	f.svc.Enqueue(a, b)
	require.NoError(t, f.svc.Play(&a))
	f.svc.Tick()
	f.svc.Tick()
	require.Equal(t, StateAdInterstitial, f.svc.State())

	require.NoError(t, f.svc.Play(&b))
	assert.Equal(t, StateAdInterstitial, f.svc.State())
	f.finishAd()

	assert.Equal(t, StatePlaying, f.svc.State())
	assert.Equal(t, "B", f.svc.CurrentTrack().ID)
	assert.Equal(t, []string{url("A"), url("B")}, f.main.PlayCalls())
}

func TestService_SkipAndClickMidRoll(t *testing.T) {
	f := newFixture(t, account.TierFree, ads.Config{MidRollInterval: 2 * time.Second, SkipDelay: 5 * time.Second})
	f.inv.SetCreative(ads.MidRoll, audioAd(ads.MidRoll))
	a := track("A")
	f.svc.Enqueue(a)
	require.NoError(t, f.svc.Play(&a))
	f.svc.Tick()
	f.svc.Tick()
	require.Equal(t, StateAdInterstitial, f.svc.State())

	assert.False(t, f.svc.SkipAd())
	link, ok := f.svc.ClickAd()
	assert.True(t, ok)
	assert.Equal(t, "https://brand.example", link)

	for range 5 {
		f.svc.Tick()
	}
	require.True(t, f.svc.Ad().CanSkip)
	assert.True(t, f.svc.SkipAd())
	f.emitter.Wait()

	assert.Equal(t, StatePlaying, f.svc.State())
	assert.Len(t, f.client.Clicks(), 1)
	assert.Empty(t, f.client.Completions(), "skipped ads do not complete")
}

func TestService_AdVolumeIndependent(t *testing.T) {
	f := newFixture(t, account.TierFree, ads.Config{})

	f.svc.SetVolume(0.8)
	f.svc.SetAdVolume(0.3)
	f.svc.SetAdMuted(true)

	assert.Equal(t, 0.8, f.main.Volume())
	assert.False(t, f.main.Muted())
	assert.Equal(t, 0.3, f.adTr.Volume())
	assert.True(t, f.adTr.Muted())
}

func TestService_BannerShownForFreeTier(t *testing.T) {
	f := newFixture(t, account.TierFree, ads.Config{})
	f.inv.SetCreative(ads.Banner, &ads.Creative{
		ID:       "banner",
		Kind:     ads.Banner,
		ImageURL: "https://ads.example/b.png",
		Duration: 2 * time.Second,
		CTA:      &ads.CallToAction{URL: "https://banner.example"},
	})
	a := track("A")
	f.svc.Enqueue(a)
	require.NoError(t, f.svc.Play(&a))

	require.NotNil(t, f.svc.Banner())
	link, ok := f.svc.ClickAd()
	assert.True(t, ok)
	assert.Equal(t, "https://banner.example", link)

	f.svc.Tick()
	f.svc.Tick()
	f.emitter.Wait()

	assert.Nil(t, f.svc.Banner())
	assert.Len(t, f.client.Completions(), 1)
	assert.Equal(t, StatePlaying, f.svc.State(), "banners never interrupt playback")
}

func TestService_SettingsRoundTrip(t *testing.T) {
	store := state.NewMock()
	store.SetSettings(&state.PlayerSettings{Volume: 0.4, Muted: true})
	main := transport.NewMock()

	svc := New(Deps{Transport: main, Queue: queue.NewQueue(), Settings: store, Logger: zerolog.Nop()})
	defer svc.Close()

	assert.Equal(t, 0.4, main.Volume())
	assert.True(t, main.Muted())
	assert.Equal(t, 0.4, svc.Volume())

	svc.SetVolume(1.5)
	svc.SetMuted(false)
	assert.True(t, svc.ToggleShuffle())
	assert.Equal(t, queue.RepeatOne, svc.ToggleRepeat())

	saved := store.Settings()
	require.NotNil(t, saved)
	assert.Equal(t, 1.0, saved.Volume)
	assert.False(t, saved.Muted)
	assert.True(t, saved.Shuffle)
	assert.Equal(t, int(queue.RepeatOne), saved.RepeatMode)
}

func TestService_SettingsLoadFailureUsesDefaults(t *testing.T) {
	store := state.NewMock()
	store.SetLoadError(errors.New("corrupt db"))
	main := transport.NewMock()

	svc := New(Deps{Transport: main, Settings: store, Logger: zerolog.Nop()})
	defer svc.Close()

	assert.Equal(t, 1.0, svc.Volume())
	assert.False(t, svc.Muted())
	assert.Equal(t, -1, svc.QueueIndex())
}

func TestService_ShuffleTwiceRestoresOrder(t *testing.T) {
	f := newFixture(t, "PREMIUM", ads.Config{})
	sub := f.svc.Subscribe()
	c := track("C")
	f.svc.Enqueue(track("A"), track("B"), c, track("D"), track("E"))
	require.NoError(t, f.svc.Play(&c))
	before := queueIDs(f.svc)

	f.svc.ToggleShuffle()
	assert.Equal(t, "C", f.svc.CurrentTrack().ID)
	f.svc.ToggleShuffle()

	assert.Equal(t, before, queueIDs(f.svc))
	assert.Equal(t, 2, f.svc.QueueIndex())
	assert.Len(t, f.main.PlayCalls(), 1, "shuffling never restarts playback")

	m := <-sub.ModeChanged
	assert.True(t, m.Shuffle)
}

func TestService_ClearQueue(t *testing.T) {
	f := newFixture(t, "PREMIUM", ads.Config{})
	a := track("A")
	f.svc.Enqueue(a, track("B"))
	require.NoError(t, f.svc.Play(&a))

	f.svc.ClearQueue()

	assert.Empty(t, f.svc.Queue())
	assert.Equal(t, StateStopped, f.svc.State())
	assert.Nil(t, f.svc.CurrentTrack())
	saved := f.store.Queue()
	require.NotNil(t, saved)
	assert.Empty(t, saved.Tracks)
}

func TestService_UndoRemoval(t *testing.T) {
	f := newFixture(t, "PREMIUM", ads.Config{})
	b := track("B")
	f.svc.Enqueue(track("A"), b)
	require.NoError(t, f.svc.Play(&b))
	require.NoError(t, f.svc.RemoveFromQueue(0))

	assert.True(t, f.svc.Undo())
	assert.Equal(t, []string{"A", "B"}, queueIDs(f.svc))
	assert.Equal(t, "B", f.svc.CurrentTrack().ID)
	assert.Len(t, f.main.PlayCalls(), 1)

	assert.True(t, f.svc.Redo())
	assert.Equal(t, []string{"B"}, queueIDs(f.svc))
}

func TestService_UndoRemovesPlayingTrack(t *testing.T) {
	f := newFixture(t, "PREMIUM", ads.Config{})
	a := track("A")
	f.svc.Enqueue(a)
	f.svc.Enqueue(track("B"))
	require.NoError(t, f.svc.JumpTo(1))

	assert.True(t, f.svc.Undo())

	assert.Equal(t, []string{"A"}, queueIDs(f.svc))
	assert.Equal(t, "A", f.svc.CurrentTrack().ID)
	assert.Equal(t, []string{url("B"), url("A")}, f.main.PlayCalls())
}

func TestService_JumpToOutOfRange(t *testing.T) {
	f := newFixture(t, "PREMIUM", ads.Config{})

	assert.Error(t, f.svc.JumpTo(3))
}

func TestService_CloseRejectsControl(t *testing.T) {
	f := newFixture(t, "PREMIUM", ads.Config{})
	sub := f.svc.Subscribe()

	require.NoError(t, f.svc.Close())
	require.NoError(t, f.svc.Close())

	assert.ErrorIs(t, f.svc.Play(nil), ErrClosed)
	assert.ErrorIs(t, f.svc.Next(), ErrClosed)
	<-sub.Done
}

func TestService_RunLoop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "PREMIUM", ads.Config{})
		a := track("A")
		f.svc.Enqueue(a, track("B"))
		require.NoError(t, f.svc.Play(&a))

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- f.svc.Run(ctx) }()

		time.Sleep(3*time.Second + time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 3*time.Second, f.svc.CumulativePlay())

		f.main.SimulateFinished()
		synctest.Wait()
		assert.Equal(t, 1, f.svc.QueueIndex())
		assert.Equal(t, "B", f.svc.CurrentTrack().ID)

		cancel()
		assert.ErrorIs(t, <-errCh, context.Canceled)
		f.emitter.Wait()
	})
}

func TestService_RunStopsOnClose(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, "PREMIUM", ads.Config{})
		errCh := make(chan error, 1)
		go func() { errCh <- f.svc.Run(context.Background()) }()

		synctest.Wait()
		require.NoError(t, f.svc.Close())

		assert.NoError(t, <-errCh)
	})
}

func TestService_QueuePersistsAcrossRestart(t *testing.T) {
	f := newFixture(t, "PREMIUM", ads.Config{})
	b := track("B")
	f.svc.Enqueue(track("A"), b, track("C"))
	require.NoError(t, f.svc.Play(&b))

	restored := New(Deps{
		Transport: transport.NewMock(),
		Queue:     queue.NewPersistentQueue(f.store, zerolog.Nop()),
		Logger:    zerolog.Nop(),
	})
	defer restored.Close()

	assert.True(t, slices.Equal([]string{"A", "B", "C"}, queueIDs(restored)))
	assert.Equal(t, 1, restored.QueueIndex())
	assert.Equal(t, StateIdle, restored.State())
}
