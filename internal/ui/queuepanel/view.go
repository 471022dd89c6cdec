package queuepanel

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize/english"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/wavecast/internal/queue"
)

// View renders the queue panel.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	innerWidth := m.width - borderOverhead
	listHeight := max(m.listHeight(), 0)

	content := strings.Join([]string{
		m.renderHeader(innerWidth),
		strings.Repeat("─", innerWidth),
		m.renderTrackList(innerWidth, listHeight),
		theme.footer.Render(fit(m.footer(), innerWidth)),
	}, "\n")

	style := theme.panel
	if m.focused {
		style = theme.focusedPanel
	}
	return style.Width(innerWidth).Render(content)
}

// renderHeader renders the queue header with position and mode icons.
func (m Model) renderHeader(innerWidth int) string {
	current := max(m.snap.Index+1, 0)
	left := fmt.Sprintf("Queue (%d/%d)", current, len(m.snap.Tracks))

	icons := m.modeIcons()
	iconsWidth := runewidth.StringWidth(icons)
	return theme.header.Render(fit(left, innerWidth-iconsWidth)) + theme.modes.Render(icons)
}

func (m Model) modeIcons() string {
	var parts []string
	if m.snap.Shuffle {
		parts = append(parts, "🔀")
	}
	switch m.snap.Repeat {
	case queue.RepeatAll:
		parts = append(parts, "🔁")
	case queue.RepeatOne:
		parts = append(parts, "🔂")
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " ")
}

func (m Model) renderTrackList(innerWidth, listHeight int) string {
	lines := make([]string, 0, listHeight)
	for i := range listHeight {
		idx := i + m.offset
		if idx >= len(m.snap.Tracks) {
			lines = append(lines, strings.Repeat(" ", innerWidth))
			continue
		}
		lines = append(lines, m.renderTrackLine(m.snap.Tracks[idx], idx, innerWidth))
	}
	return strings.Join(lines, "\n")
}

// renderTrackLine renders prefix, title, artist and duration for one entry.
func (m Model) renderTrackLine(t queue.Track, idx, width int) string {
	prefix := "  "
	if idx == m.snap.Index {
		prefix = playingSymbol + " "
	}

	dur := ""
	if t.Duration > 0 {
		dur = " " + formatDuration(t.Duration)
	}
	contentWidth := max(width-2-len(dur), 0)

	titleWidth := contentWidth / 2
	artistWidth := contentWidth - titleWidth
	line := prefix + fit(t.Title, titleWidth) + fit(t.Artist, artistWidth) + dur

	return theme.rows[m.rowKind(idx)].Render(line)
}

func (m Model) rowKind(idx int) row {
	isCursor := idx == m.cursor && m.focused
	isPlaying := idx == m.snap.Index

	switch {
	case isCursor && isPlaying:
		return rowCursorPlaying
	case isCursor:
		return rowCursor
	case isPlaying:
		return rowPlaying
	case m.snap.Index >= 0 && idx < m.snap.Index:
		return rowPlayed
	default:
		return rowUpcoming
	}
}

// footer summarizes the queue: "12 tracks · 47:10".
func (m Model) footer() string {
	var total time.Duration
	for _, t := range m.snap.Tracks {
		total += t.Duration
	}
	return english.Plural(len(m.snap.Tracks), "track", "") + " · " + formatDuration(total)
}

// fit truncates s to width cells and pads it to exactly width.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
