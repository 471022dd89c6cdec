package queue

import "time"

// Track represents a single catalog track. Tracks are compared by ID.
type Track struct {
	ID         string
	Title      string
	ArtistID   string
	Artist     string
	SourceURL  string // media source (URL or local path)
	ArtworkURL string
	Duration   time.Duration
}
