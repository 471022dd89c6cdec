package queue

import (
	"github.com/rs/zerolog"

	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/state"
)

// Store persists queue snapshots.
type Store interface {
	SaveQueue(state.QueueState) error
	GetQueue() (*state.QueueState, error)
}

// NewPersistentQueue creates a queue bound to store and restores the last
// saved snapshot. A failed load leaves the queue empty.
func NewPersistentQueue(store Store, logger zerolog.Logger) *PlayingQueue {
	q := NewQueue()
	q.store = store
	q.logger = logger
	q.Restore()
	return q
}

// Restore replaces the in-memory queue with the stored snapshot.
func (q *PlayingQueue) Restore() {
	if q.store == nil {
		return
	}
	saved, err := q.store.GetQueue()
	if err != nil {
		q.logger.Warn().Err(err).Msg(errmsg.Format(errmsg.OpQueueLoad, err))
		return
	}
	if saved == nil {
		return
	}

	q.playlist.Replace(fromStateTracks(saved.Tracks))
	q.repeatMode = RepeatMode(saved.RepeatMode)
	if !q.repeatMode.valid() {
		q.repeatMode = RepeatOff
	}
	q.shuffle = saved.Shuffle
	q.originalOrder = nil
	if q.shuffle {
		q.originalOrder = fromStateTracks(saved.OriginalOrder)
		q.reconcileOriginal()
	}

	q.currentIndex = saved.CurrentIndex
	if q.currentIndex < -1 || q.currentIndex >= q.playlist.Len() {
		q.currentIndex = -1
		if q.playlist.Len() > 0 {
			q.currentIndex = 0
		}
	}
	q.history.Reset(q.playlist.tracks)

	q.logger.Debug().
		Int("tracks", q.playlist.Len()).
		Int("current", q.currentIndex).
		Msg("queue restored")
}

// Snapshot returns the persistable form of the queue.
func (q *PlayingQueue) Snapshot() state.QueueState {
	s := state.QueueState{
		CurrentIndex: q.currentIndex,
		RepeatMode:   int(q.repeatMode),
		Shuffle:      q.shuffle,
		Tracks:       toStateTracks(q.playlist.tracks),
	}
	if q.shuffle {
		s.OriginalOrder = toStateTracks(q.originalOrder)
	}
	return s
}

// persist writes the snapshot. Failures are logged and the in-memory
// queue is kept as is.
func (q *PlayingQueue) persist() {
	if q.store == nil {
		return
	}
	if err := q.store.SaveQueue(q.Snapshot()); err != nil {
		q.logger.Warn().Err(err).Msg(errmsg.Format(errmsg.OpQueueSave, err))
	}
}

func toStateTracks(tracks []Track) []state.QueueTrack {
	out := make([]state.QueueTrack, len(tracks))
	for i, t := range tracks {
		out[i] = state.QueueTrack{
			TrackID:    t.ID,
			Title:      t.Title,
			ArtistID:   t.ArtistID,
			Artist:     t.Artist,
			SourceURL:  t.SourceURL,
			ArtworkURL: t.ArtworkURL,
			Duration:   t.Duration,
		}
	}
	return out
}

func fromStateTracks(tracks []state.QueueTrack) []Track {
	out := make([]Track, len(tracks))
	for i, t := range tracks {
		out[i] = Track{
			ID:         t.TrackID,
			Title:      t.Title,
			ArtistID:   t.ArtistID,
			Artist:     t.Artist,
			SourceURL:  t.SourceURL,
			ArtworkURL: t.ArtworkURL,
			Duration:   t.Duration,
		}
	}
	return out
}
