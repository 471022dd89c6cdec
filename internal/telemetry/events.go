package telemetry

import "time"

// Action is a playback analytics action.
type Action string

const (
	ActionPlay  Action = "play"
	ActionPause Action = "pause"
	ActionLike  Action = "like"
	ActionShare Action = "share"
)

// DeviceInfo describes the client sending ad telemetry.
type DeviceInfo struct {
	Platform   string `json:"platform,omitempty"`
	OS         string `json:"os,omitempty"`
	AppVersion string `json:"appVersion,omitempty"`
}

// ImpressionEvent reports that a creative became visible or audible.
type ImpressionEvent struct {
	PresentationID string     `json:"presentationId"`
	AdID           string     `json:"adId"`
	Kind           string     `json:"kind"`
	Placement      string     `json:"placement"`
	Device         DeviceInfo `json:"device"`
}

// ClickEvent reports a call-to-action activation. ImpressionID is empty
// when the impression had not resolved yet.
type ClickEvent struct {
	PresentationID string `json:"presentationId"`
	AdID           string `json:"adId"`
	Kind           string `json:"kind"`
	ImpressionID   string `json:"impressionId,omitempty"`
}

// CompletionEvent reports a creative played to its natural end.
type CompletionEvent struct {
	PresentationID string `json:"presentationId"`
	AdID           string `json:"adId"`
	Kind           string `json:"kind"`
	Placement      string `json:"placement"`
}

// AnalyticsEvent is a generic playback analytics record.
type AnalyticsEvent struct {
	EventID  string            `json:"eventId"`
	UserID   string            `json:"userId,omitempty"`
	Action   Action            `json:"action"`
	Context  map[string]string `json:"context,omitempty"`
	Metadata map[string]any    `json:"metadata,omitempty"`
	At       time.Time         `json:"at"`
}
