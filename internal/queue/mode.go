package queue

// RepeatMode defines the repeat behavior.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatOne
	RepeatAll
)

// String returns the repeat mode name.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "Off"
	case RepeatOne:
		return "One"
	case RepeatAll:
		return "All"
	default:
		return "Unknown"
	}
}

// Next returns the mode that follows m in the cycle Off → One → All → Off.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatOff:
		return RepeatOne
	case RepeatOne:
		return RepeatAll
	default:
		return RepeatOff
	}
}

func (m RepeatMode) valid() bool {
	return m >= RepeatOff && m <= RepeatAll
}

// Direction selects which neighbour Advance moves to.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Step describes what Advance did to the cursor.
//
// Exactly one of Moved, Restart and Stopped is set, except when moving
// backward from the first track without RepeatAll: then none is set and
// the cursor stays put. Stepping back never stops playback; only stepping
// forward past the end does.
type Step struct {
	Track   *Track // track at the cursor after the step, nil if the queue is empty
	Moved   bool   // cursor moved to a different index
	Restart bool   // RepeatOne: replay Track from the start
	Stopped bool   // ran off the end without RepeatAll, or queue empty
}
