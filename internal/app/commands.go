package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickCmd returns a command that sends TickMsg after 1 second.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// WatchServiceEvents waits for the next playback event and converts it to
// a tea.Msg. Position events are left to the tick.
func (m Model) WatchServiceEvents() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	sub := m.sub
	return func() tea.Msg {
		for {
			select {
			case <-sub.StateChanged:
			case <-sub.TrackChanged:
			case <-sub.QueueChanged:
			case <-sub.ModeChanged:
			case <-sub.VolumeChanged:
			case <-sub.AdChanged:
			case <-sub.PositionChanged:
				continue
			case n := <-sub.Notices:
				return ServiceNoticeMsg(n)
			case e := <-sub.Error:
				return ServiceErrorMsg(e)
			case <-sub.Done:
				return ServiceClosedMsg{}
			}
			return ServiceEventMsg{}
		}
	}
}
