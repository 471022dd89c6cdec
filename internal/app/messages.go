package app

import (
	"time"

	"github.com/llehouerou/wavecast/internal/playback"
)

// TickMsg redraws the player bar.
type TickMsg time.Time

// ServiceEventMsg reports that the playback service published an event.
type ServiceEventMsg struct{}

// ServiceNoticeMsg carries a user-facing notice.
type ServiceNoticeMsg playback.Notice

// ServiceErrorMsg carries a playback error.
type ServiceErrorMsg playback.ErrorEvent

// ServiceClosedMsg is sent once the service shuts down.
type ServiceClosedMsg struct{}
