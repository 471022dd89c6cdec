package ads

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/llehouerou/wavecast/internal/httpapi"
)

// Inventory supplies creatives. A nil creative with a nil error means no
// ad is available for the placement.
type Inventory interface {
	FetchCreative(ctx context.Context, kind Kind, placement Placement) (*Creative, error)
}

// HTTPInventory fetches creatives from the ad delivery service.
type HTTPInventory struct {
	api *httpapi.Client
}

// NewHTTPInventory creates an inventory client for endpoint.
func NewHTTPInventory(endpoint string, timeout time.Duration) *HTTPInventory {
	return &HTTPInventory{api: httpapi.New(endpoint, timeout)}
}

type ctaDTO struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type creativeDTO struct {
	ID              string  `json:"id"`
	Kind            string  `json:"kind"`
	MediaURL        string  `json:"mediaUrl"`
	ImageURL        string  `json:"imageUrl"`
	DurationSeconds float64 `json:"durationSeconds"`
	Skippable       bool    `json:"skippable"`
	CTA             *ctaDTO `json:"cta"`
}

func (c *HTTPInventory) FetchCreative(ctx context.Context, kind Kind, placement Placement) (*Creative, error) {
	q := url.Values{}
	q.Set("kind", string(kind))
	if placement.TrackID != "" {
		q.Set("trackId", placement.TrackID)
	}
	if placement.CumulativePlay > 0 {
		q.Set("cumulativeSeconds", strconv.FormatInt(int64(placement.CumulativePlay/time.Second), 10))
	}

	var dto creativeDTO
	err := c.api.GetJSON(ctx, "/creatives", q, &dto)
	if errors.Is(err, httpapi.ErrNoContent) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if dto.ID == "" {
		return nil, nil
	}

	cr := &Creative{
		ID:        dto.ID,
		Kind:      kind,
		MediaURL:  dto.MediaURL,
		ImageURL:  dto.ImageURL,
		Duration:  time.Duration(dto.DurationSeconds * float64(time.Second)),
		Skippable: dto.Skippable,
	}
	if dto.CTA != nil && dto.CTA.URL != "" {
		cr.CTA = &CallToAction{Label: dto.CTA.Label, URL: dto.CTA.URL}
	}
	return cr, nil
}

// Verify HTTPInventory implements Inventory at compile time.
var _ Inventory = (*HTTPInventory)(nil)
