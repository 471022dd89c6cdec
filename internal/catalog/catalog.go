// Package catalog fetches track metadata from the catalog service.
package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/llehouerou/wavecast/internal/httpapi"
	"github.com/llehouerou/wavecast/internal/queue"
)

// Filter narrows a track query. Zero fields are ignored.
type Filter struct {
	Query    string
	ArtistID string
	Genre    string
	Limit    int
}

func (f Filter) values() url.Values {
	q := url.Values{}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.ArtistID != "" {
		q.Set("artistId", f.ArtistID)
	}
	if f.Genre != "" {
		q.Set("genre", f.Genre)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// Client talks to the catalog service.
type Client struct {
	api *httpapi.Client
}

// New creates a catalog client for endpoint.
func New(endpoint string, timeout time.Duration) *Client {
	return &Client{api: httpapi.New(endpoint, timeout)}
}

type artistDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type trackDTO struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Artist          artistDTO `json:"artist"`
	MediaURL        string    `json:"mediaUrl"`
	ArtworkURL      string    `json:"artworkUrl"`
	DurationSeconds float64   `json:"durationSeconds"`
}

func (d trackDTO) toTrack() queue.Track {
	return queue.Track{
		ID:         d.ID,
		Title:      d.Title,
		ArtistID:   d.Artist.ID,
		Artist:     d.Artist.Name,
		SourceURL:  d.MediaURL,
		ArtworkURL: d.ArtworkURL,
		Duration:   time.Duration(d.DurationSeconds * float64(time.Second)),
	}
}

// FetchTrack returns one track by id.
func (c *Client) FetchTrack(ctx context.Context, id string) (queue.Track, error) {
	var dto trackDTO
	if err := c.api.GetJSON(ctx, "/tracks/"+url.PathEscape(id), nil, &dto); err != nil {
		return queue.Track{}, fmt.Errorf("fetch track %s: %w", id, err)
	}
	if dto.ID == "" {
		dto.ID = id
	}
	return dto.toTrack(), nil
}

// FetchTracksByQuery returns tracks matching filter, in catalog order.
func (c *Client) FetchTracksByQuery(ctx context.Context, filter Filter) ([]queue.Track, error) {
	var dtos []trackDTO
	if err := c.api.GetJSON(ctx, "/tracks", filter.values(), &dtos); err != nil {
		return nil, fmt.Errorf("search tracks: %w", err)
	}
	tracks := make([]queue.Track, 0, len(dtos))
	for _, d := range dtos {
		if d.ID == "" {
			continue
		}
		tracks = append(tracks, d.toTrack())
	}
	return tracks, nil
}
