package transport

// State represents the transport state machine.
//
//	Stopped ──play──▶ Playing ◀──resume── Paused
//	   ▲                │  └────pause────▶  │
//	   └──────stop──────┴───────stop────────┘
//
// Play always stops first, so Playing → Playing reloads. Pause and Resume
// outside their source state are ignored.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if media is loaded (Playing or Paused).
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}
