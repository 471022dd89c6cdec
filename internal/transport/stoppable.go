package transport

import "github.com/gopxl/beep/v2"

// stoppable lets a Player drop its own stream from the mixer without
// speaker.Clear, which would also silence every other Player. Once
// stopped it reports exhaustion and never reaches the wrapped callback.
//
// stop must be called with the speaker locked.
type stoppable struct {
	s       beep.Streamer
	stopped bool
}

func newStoppable(s beep.Streamer) *stoppable {
	return &stoppable{s: s}
}

func (st *stoppable) Stream(samples [][2]float64) (int, bool) {
	if st.stopped {
		return 0, false
	}
	return st.s.Stream(samples)
}

func (st *stoppable) Err() error {
	return st.s.Err()
}

func (st *stoppable) stop() {
	st.stopped = true
}
