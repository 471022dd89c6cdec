package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/ui/playerbar"
)

const helpHeight = 4

var (
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	parts := []string{m.queuePanel.View()}
	if m.showHelp {
		parts = append(parts, m.renderHelp())
	}
	parts = append(parts, m.renderNotice(), playerbar.Render(m.player, m.width))
	return strings.Join(parts, "\n")
}

func (m Model) renderNotice() string {
	text := runewidth.Truncate(m.notice.Message, m.width, "…")
	if m.notice.Level == playback.NoticeError {
		return errorStyle.Render(text)
	}
	return noticeStyle.Render(text)
}

func (m Model) renderHelp() string {
	contexts := []string{"playback", "ads", "queue", "global"}
	lines := make([]string, 0, helpHeight)
	for _, ctx := range contexts {
		line := ctx + ": " + strings.Join(m.keys.Help(ctx), " · ")
		lines = append(lines, helpStyle.Render(runewidth.Truncate(line, m.width, "…")))
	}
	return strings.Join(lines, "\n")
}
