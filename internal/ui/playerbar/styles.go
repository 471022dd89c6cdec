package playerbar

import "github.com/charmbracelet/lipgloss"

const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"
	stopSymbol  = "■"
	adSymbol    = "AD"
)

var (
	barStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	adBarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255"))

	artistStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	filledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	adBadgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214")).
			Padding(0, 1)

	skipStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))
)
