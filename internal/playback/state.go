package playback

// State is the coordinator state.
//
//	Idle ──play──▶ Loading ──ok──▶ Playing ◀──resume── Paused
//	                  │               │  └────pause────▶  │
//	                  │ fail          │ gate due          │
//	                  ▼               ▼                   │
//	               Stopped ◀── AdInterstitial ◀───────────┘ (pre-roll on new track)
//
// AdInterstitial leaves through Loading once the ad completes or is
// skipped. Every state reaches Stopped through Stop.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
	StatePaused
	StateAdInterstitial
	StateStopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateLoading:
		return "Loading"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateAdInterstitial:
		return "AdInterstitial"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a catalog track is loaded (playing or paused).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}
