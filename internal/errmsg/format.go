// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Queue operations
	OpQueueLoad Op = "load queue"
	OpQueueSave Op = "save queue"

	// Playback operations
	OpPlaybackStart Op = "start playback"

	// Settings
	OpSettingsLoad Op = "load player settings"
	OpSettingsSave Op = "save player settings"

	// Ads
	OpAdFetch   Op = "fetch ad"
	OpAdPresent Op = "present ad"
	OpPlanTier  Op = "look up plan tier"

	// Catalog
	OpCatalogFetch  Op = "fetch track"
	OpCatalogSearch Op = "search catalog"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
