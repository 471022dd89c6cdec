package state

import (
	"context"
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/llehouerou/wavecast/internal/db"
)

// QueueTrack represents a track in the saved queue.
type QueueTrack struct {
	TrackID    string
	Title      string
	ArtistID   string
	Artist     string
	SourceURL  string
	ArtworkURL string
	Duration   time.Duration
}

// QueueState represents the saved queue state.
// OriginalOrder is only populated while shuffle is on.
type QueueState struct {
	CurrentIndex  int
	RepeatMode    int
	Shuffle       bool
	Tracks        []QueueTrack
	OriginalOrder []QueueTrack
}

func getQueue(db *sql.DB) (*QueueState, error) {
	var currentIndex, repeatMode int
	var shuffle bool
	row := db.QueryRow(`SELECT current_index, repeat_mode, shuffle FROM queue_state WHERE id = 1`)
	err := row.Scan(&currentIndex, &repeatMode, &shuffle)
	if errors.Is(err, sql.ErrNoRows) {
		return &QueueState{CurrentIndex: -1}, nil
	}
	if err != nil {
		return nil, err
	}

	tracks, err := getQueueList(db, listQueue)
	if err != nil {
		return nil, err
	}
	original, err := getQueueList(db, listOriginal)
	if err != nil {
		return nil, err
	}

	return &QueueState{
		CurrentIndex:  currentIndex,
		RepeatMode:    repeatMode,
		Shuffle:       shuffle,
		Tracks:        tracks,
		OriginalOrder: original,
	}, nil
}

func getQueueList(db *sql.DB, list string) ([]QueueTrack, error) {
	rows, err := db.Query(`
		SELECT track_id, title, artist_id, artist, source_url, artwork_url, duration_ms
		FROM queue_tracks
		WHERE list = ?
		ORDER BY position
	`, list)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []QueueTrack
	for rows.Next() {
		var t QueueTrack
		var artistID, artist, artworkURL sql.NullString
		var durationMS sql.NullInt64

		err := rows.Scan(&t.TrackID, &t.Title, &artistID, &artist, &t.SourceURL, &artworkURL, &durationMS)
		if err != nil {
			return nil, err
		}

		t.ArtistID = dbutil.NullStringValue(artistID)
		t.Artist = dbutil.NullStringValue(artist)
		t.ArtworkURL = dbutil.NullStringValue(artworkURL)
		t.Duration = time.Duration(dbutil.NullInt64Value(durationMS)) * time.Millisecond
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

func saveQueue(ctx context.Context, sqlDB *sql.DB, state QueueState) error {
	return dbutil.WithTx(ctx, sqlDB, func(tx *sql.Tx) error {
		// Clear existing queue
		if _, err := tx.Exec(`DELETE FROM queue_tracks`); err != nil {
			return err
		}

		_, err := tx.Exec(`
			INSERT INTO queue_state (id, current_index, repeat_mode, shuffle)
			VALUES (1, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				current_index = excluded.current_index,
				repeat_mode = excluded.repeat_mode,
				shuffle = excluded.shuffle
		`, state.CurrentIndex, state.RepeatMode, state.Shuffle)
		if err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO queue_tracks (list, position, track_id, title, artist_id, artist, source_url, artwork_url, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		insert := func(list string, tracks []QueueTrack) error {
			for i, t := range tracks {
				_, err := stmt.Exec(list, i, t.TrackID, t.Title,
					dbutil.NullString(t.ArtistID), dbutil.NullString(t.Artist),
					t.SourceURL, dbutil.NullString(t.ArtworkURL), t.Duration.Milliseconds())
				if err != nil {
					return err
				}
			}
			return nil
		}

		if err := insert(listQueue, state.Tracks); err != nil {
			return err
		}
		if state.Shuffle {
			return insert(listOriginal, state.OriginalOrder)
		}
		return nil
	})
}
