// Package account answers "which plan is the current user on".
package account

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/llehouerou/wavecast/internal/httpapi"
)

// PlanTier is a subscription plan identifier.
type PlanTier string

// TierFree is the only tier that receives ads.
const TierFree PlanTier = "FREE"

// BypassesAds reports whether the tier suppresses every ad gate.
func (t PlanTier) BypassesAds() bool {
	return normalize(t) != TierFree
}

func normalize(t PlanTier) PlanTier {
	s := strings.ToUpper(strings.TrimSpace(string(t)))
	if s == "" {
		return TierFree
	}
	return PlanTier(s)
}

// Provider returns the current user's plan tier.
type Provider interface {
	CurrentPlanTier(ctx context.Context) (PlanTier, error)
}

// Static is a Provider backed by configuration.
type Static struct {
	mu   sync.RWMutex
	tier PlanTier
}

// NewStatic creates a provider that always answers tier.
func NewStatic(tier PlanTier) *Static {
	return &Static{tier: normalize(tier)}
}

func (s *Static) CurrentPlanTier(context.Context) (PlanTier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tier, nil
}

// SetTier changes the answered tier, e.g. after an upgrade.
func (s *Static) SetTier(tier PlanTier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tier = normalize(tier)
}

// HTTP looks the tier up from the session service on every call, so plan
// changes take effect on the next decision.
type HTTP struct {
	api    *httpapi.Client
	userID string
}

// NewHTTP creates a provider querying endpoint for userID.
func NewHTTP(endpoint, userID string, timeout time.Duration) *HTTP {
	return &HTTP{api: httpapi.New(endpoint, timeout), userID: userID}
}

type planResponse struct {
	PlanTier string `json:"planTier"`
}

func (h *HTTP) CurrentPlanTier(ctx context.Context) (PlanTier, error) {
	var resp planResponse
	q := url.Values{}
	if h.userID != "" {
		q.Set("userId", h.userID)
	}
	if err := h.api.GetJSON(ctx, "/session/plan", q, &resp); err != nil {
		return "", err
	}
	if resp.PlanTier == "" {
		return "", errors.New("session service returned no plan tier")
	}
	return normalize(PlanTier(resp.PlanTier)), nil
}

var (
	_ Provider = (*Static)(nil)
	_ Provider = (*HTTP)(nil)
)
