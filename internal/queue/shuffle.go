package queue

import "math/rand/v2"

// shuffleTracks permutes tracks in place (Fisher–Yates).
func shuffleTracks(tracks []Track, rng *rand.Rand) {
	for i := len(tracks) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		tracks[i], tracks[j] = tracks[j], tracks[i]
	}
}

// ToggleShuffle flips shuffle and returns the new state.
func (q *PlayingQueue) ToggleShuffle() bool {
	q.SetShuffle(!q.shuffle)
	return q.shuffle
}

// SetShuffle enables or disables shuffle.
//
// Enabling snapshots the current order and permutes the queue. Disabling
// restores the snapshot verbatim. In both cases the cursor follows the
// current track; if it is gone after restoring, the cursor falls back to 0.
// Undo history restarts from the new order.
func (q *PlayingQueue) SetShuffle(enabled bool) {
	if enabled == q.shuffle {
		return
	}
	current := q.Current()

	if enabled {
		q.originalOrder = q.playlist.Tracks()
		tracks := q.playlist.Tracks()
		shuffleTracks(tracks, q.rng)
		q.playlist.Replace(tracks)
	} else {
		q.playlist.Replace(q.originalOrder)
		q.originalOrder = nil
	}
	q.shuffle = enabled
	q.relocate(current)
	q.history.Reset(q.playlist.tracks)
	q.persist()
}

// reconcileOriginal keeps the pre-shuffle snapshot in step with list edits
// made while shuffled: removed tracks leave it, new tracks join at the end.
func (q *PlayingQueue) reconcileOriginal() {
	if !q.shuffle {
		return
	}
	kept := make([]Track, 0, q.playlist.Len())
	for _, t := range q.originalOrder {
		if q.playlist.IndexOf(t.ID) >= 0 {
			kept = append(kept, t)
		}
	}
	for _, t := range q.playlist.tracks {
		if indexOf(kept, t.ID) < 0 {
			kept = append(kept, t)
		}
	}
	q.originalOrder = kept
}

// relocate points the cursor at current's new index.
func (q *PlayingQueue) relocate(current *Track) {
	switch {
	case q.playlist.Len() == 0:
		q.currentIndex = -1
	case current == nil:
		if q.currentIndex >= q.playlist.Len() {
			q.currentIndex = q.playlist.Len() - 1
		}
	default:
		idx := q.playlist.IndexOf(current.ID)
		if idx < 0 {
			idx = 0
		}
		q.currentIndex = idx
	}
}
