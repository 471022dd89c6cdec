package playerbar

import (
	"fmt"
	"strings"
	"time"
)

// renderBar renders a progress bar of exactly width cells.
func renderBar(position, duration time.Duration, width int) string {
	if width <= 0 {
		return ""
	}
	var ratio float64
	if duration > 0 {
		ratio = float64(position) / float64(duration)
	}
	filled := min(max(int(float64(width)*ratio), 0), width)
	return filledStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("─", width-filled))
}

func formatDuration(d time.Duration) string {
	d = max(d, 0)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}
