package queuepanel

import "github.com/charmbracelet/lipgloss"

const (
	playingSymbol = "♪"
	// borderOverhead is the horizontal space taken by the border.
	borderOverhead = 2
	// panelOverhead is the vertical space taken by border, header, separator and footer.
	panelOverhead = 5
)

// palette holds the ANSI-256 colors the panel draws with.
type palette struct {
	border, focus lipgloss.Color
	text, muted   lipgloss.Color
	accent        lipgloss.Color
	highlight     lipgloss.Color
}

var defaultPalette = palette{
	border:    "238",
	focus:     "42",
	text:      "252",
	muted:     "243",
	accent:    "42",
	highlight: "235",
}

// row classifies a queue entry for styling.
type row int

const (
	rowUpcoming row = iota
	rowPlayed
	rowPlaying
	rowCursor
	rowCursorPlaying
)

type styles struct {
	panel, focusedPanel lipgloss.Style
	header, modes       lipgloss.Style
	footer              lipgloss.Style
	rows                map[row]lipgloss.Style
}

func newStyles(p palette) styles {
	panel := lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder())
	playing := lipgloss.NewStyle().Foreground(p.accent).Bold(true)
	cursor := lipgloss.NewStyle().Background(p.highlight).Foreground(p.text)

	return styles{
		panel:        panel.BorderForeground(p.border),
		focusedPanel: panel.BorderForeground(p.focus),
		header:       lipgloss.NewStyle().Bold(true).Foreground(p.text),
		modes:        lipgloss.NewStyle().Foreground(p.accent),
		footer:       lipgloss.NewStyle().Foreground(p.muted).Italic(true),
		rows: map[row]lipgloss.Style{
			rowUpcoming:      lipgloss.NewStyle().Foreground(p.text),
			rowPlayed:        lipgloss.NewStyle().Foreground(p.muted),
			rowPlaying:       playing,
			rowCursor:        cursor,
			rowCursorPlaying: cursor.Inherit(playing),
		},
	}
}

var theme = newStyles(defaultPalette)
