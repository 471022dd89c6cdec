package queue

import (
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
)

// PlayingQueue wraps a Playlist with playback state: the cursor, repeat
// mode, shuffle and undo history. Every mutation is persisted through the
// Store when one is attached.
//
// PlayingQueue is not safe for concurrent use; the playback coordinator
// serializes access.
type PlayingQueue struct {
	playlist      *Playlist
	currentIndex  int // -1 if nothing selected
	repeatMode    RepeatMode
	shuffle       bool
	originalOrder []Track // pre-shuffle order, nil while shuffle is off
	history       *QueueHistory
	rng           *rand.Rand
	store         Store
	logger        zerolog.Logger
}

// NewQueue creates a new empty in-memory playing queue.
func NewQueue() *PlayingQueue {
	now := uint64(time.Now().UnixNano())
	q := &PlayingQueue{
		playlist:     NewPlaylist(),
		currentIndex: -1,
		history:      NewQueueHistory(historySize),
		rng:          rand.New(rand.NewPCG(now, now>>1)),
		logger:       zerolog.Nop(),
	}
	q.history.Push(nil)
	return q
}

// SetRand replaces the random source used for shuffling.
func (q *PlayingQueue) SetRand(rng *rand.Rand) {
	q.rng = rng
}

// Current returns a copy of the track at the cursor, or nil if none.
func (q *PlayingQueue) Current() *Track {
	t := q.playlist.Track(q.currentIndex)
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// CurrentIndex returns the cursor (-1 if none).
func (q *PlayingQueue) CurrentIndex() int {
	return q.currentIndex
}

// RepeatMode returns the current repeat mode.
func (q *PlayingQueue) RepeatMode() RepeatMode {
	return q.repeatMode
}

// SetRepeatMode sets the repeat mode.
func (q *PlayingQueue) SetRepeatMode(mode RepeatMode) {
	if !mode.valid() || mode == q.repeatMode {
		return
	}
	q.repeatMode = mode
	q.persist()
}

// CycleRepeatMode advances Off → One → All → Off and returns the new mode.
func (q *PlayingQueue) CycleRepeatMode() RepeatMode {
	q.SetRepeatMode(q.repeatMode.Next())
	return q.repeatMode
}

// Shuffle reports whether shuffle is on.
func (q *PlayingQueue) Shuffle() bool {
	return q.shuffle
}

// Enqueue appends tracks not already in the queue and returns how many
// were added. The cursor is left untouched.
func (q *PlayingQueue) Enqueue(tracks ...Track) int {
	added := 0
	for _, t := range tracks {
		if q.playlist.IndexOf(t.ID) >= 0 {
			continue
		}
		q.playlist.Add(t)
		if q.shuffle {
			q.originalOrder = append(q.originalOrder, t)
		}
		added++
	}
	if added > 0 {
		q.pushHistory()
		q.persist()
	}
	return added
}

// PlayNow moves the cursor to t, appending it first if absent.
// Returns the track now at the cursor.
func (q *PlayingQueue) PlayNow(t Track) *Track {
	idx := q.playlist.IndexOf(t.ID)
	if idx < 0 {
		q.playlist.Add(t)
		if q.shuffle {
			q.originalOrder = append(q.originalOrder, t)
		}
		idx = q.playlist.Len() - 1
		q.pushHistory()
	}
	q.currentIndex = idx
	q.persist()
	return q.Current()
}

// JumpTo sets the cursor to the specified position.
// Returns the track at that position, or nil if invalid.
func (q *PlayingQueue) JumpTo(index int) *Track {
	if index < 0 || index >= q.playlist.Len() {
		return nil
	}
	q.currentIndex = index
	q.persist()
	return q.Current()
}

// RemoveAt removes the track at index.
//
// removedCurrent reports whether the cursor pointed at the removed track.
// In that case the cursor stays on the same index (now the following
// track), clamped to the last track, or -1 once the queue is empty.
func (q *PlayingQueue) RemoveAt(index int) (removedCurrent, ok bool) {
	t := q.playlist.Track(index)
	if t == nil {
		return false, false
	}
	id := t.ID
	q.playlist.Remove(index)

	switch {
	case q.currentIndex > index:
		q.currentIndex--
	case q.currentIndex == index:
		removedCurrent = true
		if q.currentIndex >= q.playlist.Len() {
			q.currentIndex = q.playlist.Len() - 1
		}
	}

	if q.shuffle {
		if i := indexOf(q.originalOrder, id); i >= 0 {
			q.originalOrder = append(q.originalOrder[:i], q.originalOrder[i+1:]...)
		}
	}

	q.pushHistory()
	q.persist()
	return removedCurrent, true
}

// Clear removes all tracks and resets the cursor.
func (q *PlayingQueue) Clear() {
	q.playlist.Clear()
	q.currentIndex = -1
	if q.shuffle {
		q.originalOrder = []Track{}
	}
	q.pushHistory()
	q.persist()
}

// Advance moves the cursor one step in dir, honoring the repeat mode.
func (q *PlayingQueue) Advance(dir Direction) Step {
	n := q.playlist.Len()
	if n == 0 {
		return Step{Stopped: true}
	}

	if q.currentIndex < 0 {
		q.currentIndex = 0
		q.persist()
		return Step{Track: q.Current(), Moved: true}
	}

	if q.repeatMode == RepeatOne {
		return Step{Track: q.Current(), Restart: true}
	}

	next := q.currentIndex + 1
	if dir == Backward {
		next = q.currentIndex - 1
	}

	switch {
	case next >= n:
		if q.repeatMode != RepeatAll {
			return Step{Track: q.Current(), Stopped: true}
		}
		next = 0
	case next < 0:
		if q.repeatMode != RepeatAll {
			return Step{Track: q.Current()}
		}
		next = n - 1
	}

	q.currentIndex = next
	q.persist()
	return Step{Track: q.Current(), Moved: true}
}

// Tracks returns all tracks in play order.
func (q *PlayingQueue) Tracks() []Track {
	return q.playlist.Tracks()
}

// Len returns the number of tracks in the queue.
func (q *PlayingQueue) Len() int {
	return q.playlist.Len()
}

// IsEmpty returns true if the queue has no tracks.
func (q *PlayingQueue) IsEmpty() bool {
	return q.playlist.Len() == 0
}

// Undo restores the previous track list. The cursor follows the current
// track if it survives, otherwise it is clamped.
func (q *PlayingQueue) Undo() bool {
	tracks, ok := q.history.Undo()
	if !ok {
		return false
	}
	q.restoreTracks(tracks)
	return true
}

// Redo re-applies the last undone change.
func (q *PlayingQueue) Redo() bool {
	tracks, ok := q.history.Redo()
	if !ok {
		return false
	}
	q.restoreTracks(tracks)
	return true
}

// CanUndo reports whether Undo would change anything.
func (q *PlayingQueue) CanUndo() bool { return q.history.CanUndo() }

// CanRedo reports whether Redo would change anything.
func (q *PlayingQueue) CanRedo() bool { return q.history.CanRedo() }

func (q *PlayingQueue) restoreTracks(tracks []Track) {
	current := q.Current()
	q.playlist.Replace(tracks)
	q.reconcileOriginal()
	if current != nil && q.playlist.IndexOf(current.ID) >= 0 {
		q.currentIndex = q.playlist.IndexOf(current.ID)
	} else if q.currentIndex >= q.playlist.Len() {
		q.currentIndex = q.playlist.Len() - 1
	}
	q.persist()
}

func (q *PlayingQueue) pushHistory() {
	q.history.Push(q.playlist.tracks)
}
