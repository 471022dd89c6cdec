package ads

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/wavecast/internal/account"
)

type ledger map[string]bool

func (l ledger) PreRollServed(id string) bool { return l[id] }
func (l ledger) MarkPreRollServed(id string)  { l[id] = true }

type failingProvider struct{}

func (failingProvider) CurrentPlanTier(context.Context) (account.PlanTier, error) {
	return "", errors.New("session expired")
}

func newTestScheduler(inv Inventory, tier account.PlanTier) *Scheduler {
	return NewScheduler(inv, account.NewStatic(tier), Config{}, zerolog.Nop())
}

func TestScheduler_PreRoll_OncePerTrack(t *testing.T) {
	inv := NewMockInventory()
	inv.SetCreative(PreRoll, &Creative{ID: "ad-1", Kind: PreRoll, MediaURL: "a.mp3", Skippable: true})
	s := newTestScheduler(inv, account.TierFree)
	l := ledger{}
	ctx := context.Background()

	first := s.PreRoll(ctx, "A", l)
	again := s.PreRoll(ctx, "A", l)
	other := s.PreRoll(ctx, "B", l)

	require.NotNil(t, first)
	assert.False(t, first.Skippable, "pre-rolls are never skippable")
	assert.Nil(t, again)
	assert.NotNil(t, other)
	assert.Equal(t, 2, inv.CallCount(PreRoll))
}

func TestScheduler_PreRoll_FailOpen(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*MockInventory)
	}{
		{"empty inventory", func(*MockInventory) {}},
		{"fetch error", func(m *MockInventory) { m.SetError(errors.New("timeout")) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := NewMockInventory()
			tt.setup(inv)
			s := newTestScheduler(inv, account.TierFree)
			l := ledger{}

			assert.Nil(t, s.PreRoll(context.Background(), "A", l))
			assert.True(t, l["A"], "gate counts as satisfied")
		})
	}
}

func TestScheduler_PaidTierBypassesEverything(t *testing.T) {
	inv := NewMockInventory()
	inv.SetCreative(PreRoll, &Creative{ID: "p"})
	inv.SetCreative(MidRoll, &Creative{ID: "m"})
	inv.SetCreative(Banner, &Creative{ID: "b"})
	s := newTestScheduler(inv, "PREMIUM")
	ctx := context.Background()

	assert.Nil(t, s.PreRoll(ctx, "A", ledger{}))
	assert.Nil(t, s.MidRoll(ctx, "A", 300*time.Second))
	assert.Nil(t, s.Banner(ctx, "A"))
	assert.Empty(t, inv.Calls())
}

func TestScheduler_EntitlementErrorBypasses(t *testing.T) {
	inv := NewMockInventory()
	inv.SetCreative(MidRoll, &Creative{ID: "m"})
	s := NewScheduler(inv, failingProvider{}, Config{}, zerolog.Nop())

	assert.Nil(t, s.MidRoll(context.Background(), "A", 300*time.Second))
	assert.Empty(t, inv.Calls())
}

func TestScheduler_PlanChangeTakesEffect(t *testing.T) {
	inv := NewMockInventory()
	inv.SetCreative(MidRoll, &Creative{ID: "m"})
	tier := account.NewStatic(account.TierFree)
	s := NewScheduler(inv, tier, Config{}, zerolog.Nop())
	ctx := context.Background()

	assert.NotNil(t, s.MidRoll(ctx, "A", 300*time.Second))
	tier.SetTier("PREMIUM")
	assert.Nil(t, s.MidRoll(ctx, "A", 600*time.Second))
}

func TestScheduler_MidRollDue(t *testing.T) {
	s := NewScheduler(nil, nil, Config{MidRollInterval: 300 * time.Second}, zerolog.Nop())

	tests := []struct {
		seconds int
		want    bool
	}{
		{0, false},
		{1, false},
		{299, false},
		{300, true},
		{301, false},
		{600, true},
		{900, true},
	}
	for _, tt := range tests {
		got := s.MidRollDue(time.Duration(tt.seconds) * time.Second)
		if got != tt.want {
			t.Errorf("MidRollDue(%ds) = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}

func TestScheduler_MidRollPlacement(t *testing.T) {
	inv := NewMockInventory()
	inv.SetCreative(MidRoll, &Creative{ID: "m", Skippable: true})
	s := newTestScheduler(inv, account.TierFree)

	assert.Nil(t, s.MidRoll(context.Background(), "A", 150*time.Second))
	c := s.MidRoll(context.Background(), "A", 600*time.Second)

	require.NotNil(t, c)
	assert.True(t, c.Skippable)
	assert.Equal(t, MidRoll, c.Kind)
	calls := inv.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, 600*time.Second, calls[0].Placement.CumulativePlay)
	assert.Equal(t, "MID_ROLL at=600s track=A", calls[0].Placement.String())
}

func TestScheduler_Defaults(t *testing.T) {
	s := NewScheduler(nil, nil, Config{}, zerolog.Nop())

	assert.Equal(t, DefaultMidRollInterval, s.MidRollInterval())
	assert.Equal(t, DefaultSkipDelay, s.SkipDelay())
	assert.False(t, s.Bypass(context.Background()))
}

func TestSkipEligible(t *testing.T) {
	delay := 5 * time.Second
	tests := []struct {
		name    string
		c       *Creative
		elapsed time.Duration
		want    bool
	}{
		{"nil creative", nil, time.Minute, false},
		{"pre-roll never", &Creative{Kind: PreRoll, Skippable: true}, time.Minute, false},
		{"not skippable", &Creative{Kind: MidRoll}, time.Minute, false},
		{"before delay", &Creative{Kind: MidRoll, Skippable: true}, 4 * time.Second, false},
		{"at delay", &Creative{Kind: MidRoll, Skippable: true}, 5 * time.Second, true},
		{"banner after delay", &Creative{Kind: Banner, Skippable: true}, 6 * time.Second, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SkipEligible(tt.c, tt.elapsed, delay); got != tt.want {
				t.Errorf("SkipEligible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHTTPInventory_FetchCreative(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/creatives", r.URL.Path)
		switch Kind(r.URL.Query().Get("kind")) {
		case PreRoll:
			assert.Equal(t, "t1", r.URL.Query().Get("trackId"))
			_, _ = w.Write([]byte(`{"id":"ad-9","mediaUrl":"https://ads.example/9.mp3","durationSeconds":15,` +
				`"skippable":true,"cta":{"label":"Visit","url":"https://shop.example"}}`))
		case MidRoll:
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "bad kind", http.StatusBadRequest)
		}
	}))
	defer srv.Close()
	inv := NewHTTPInventory(srv.URL, time.Second)
	ctx := context.Background()

	c, err := inv.FetchCreative(ctx, PreRoll, Placement{Kind: PreRoll, TrackID: "t1"})
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "ad-9", c.ID)
	assert.Equal(t, PreRoll, c.Kind)
	assert.Equal(t, 15*time.Second, c.Duration)
	require.NotNil(t, c.CTA)
	assert.Equal(t, "https://shop.example", c.CTA.URL)

	c, err = inv.FetchCreative(ctx, MidRoll, Placement{Kind: MidRoll, CumulativePlay: 300 * time.Second})
	assert.NoError(t, err)
	assert.Nil(t, c)

	_, err = inv.FetchCreative(ctx, Banner, Placement{Kind: Banner})
	assert.Error(t, err)
}
