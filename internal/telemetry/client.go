package telemetry

import (
	"context"
	"time"

	"github.com/llehouerou/wavecast/internal/httpapi"
)

// Client is the telemetry service contract.
type Client interface {
	RecordImpression(ctx context.Context, ev ImpressionEvent) (string, error)
	RecordClick(ctx context.Context, ev ClickEvent) error
	RecordCompletion(ctx context.Context, ev CompletionEvent) error
	RecordAnalytics(ctx context.Context, ev AnalyticsEvent) error
}

// HTTPClient posts events to a telemetry endpoint.
type HTTPClient struct {
	api *httpapi.Client
}

// NewHTTPClient creates a client for the telemetry service at endpoint.
func NewHTTPClient(endpoint string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{api: httpapi.New(endpoint, timeout)}
}

type impressionResponse struct {
	ID string `json:"id"`
}

func (c *HTTPClient) RecordImpression(ctx context.Context, ev ImpressionEvent) (string, error) {
	var resp impressionResponse
	if err := c.api.PostJSON(ctx, "/impressions", ev, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *HTTPClient) RecordClick(ctx context.Context, ev ClickEvent) error {
	return c.api.PostJSON(ctx, "/clicks", ev, nil)
}

func (c *HTTPClient) RecordCompletion(ctx context.Context, ev CompletionEvent) error {
	return c.api.PostJSON(ctx, "/completions", ev, nil)
}

func (c *HTTPClient) RecordAnalytics(ctx context.Context, ev AnalyticsEvent) error {
	return c.api.PostJSON(ctx, "/analytics", ev, nil)
}

// Verify HTTPClient implements Client at compile time.
var _ Client = (*HTTPClient)(nil)
