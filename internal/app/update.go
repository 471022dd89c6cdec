package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavecast/internal/keymap"
	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/ui/playerbar"
	"github.com/llehouerou/wavecast/internal/ui/queuepanel"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case TickMsg:
		m.refresh()
		return m, TickCmd()

	case ServiceEventMsg:
		m.refresh()
		m.resize()
		return m, m.WatchServiceEvents()

	case ServiceNoticeMsg:
		m.notice = playback.Notice(msg)
		m.refresh()
		return m, m.WatchServiceEvents()

	case ServiceErrorMsg:
		m.logger.Debug().Err(msg.Err).Str("track", msg.TrackID).Msg("playback error")
		m.refresh()
		return m, m.WatchServiceEvents()

	case ServiceClosedMsg:
		return m, tea.Quit

	case queuepanel.JumpToTrackMsg:
		m.report(m.svc.JumpTo(msg.Index))
		m.refresh()
		return m, nil

	case queuepanel.RemoveTrackMsg:
		m.report(m.svc.RemoveFromQueue(msg.Index))
		m.refresh()
		return m, nil

	case queuepanel.ClearQueueMsg:
		m.svc.ClearQueue()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			m.refresh()
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.queuePanel, cmd = m.queuePanel.Update(msg)
	return m, cmd
}

// handleKey runs global, playback and ad actions. Queue panel keys fall
// through to the panel.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch m.keys.Resolve(msg.String()) {
	case keymap.ActionQuit:
		return tea.Quit, true
	case keymap.ActionHelp:
		m.showHelp = !m.showHelp
		m.resize()
	case keymap.ActionPlayPause:
		m.report(m.svc.Toggle())
	case keymap.ActionStop:
		m.report(m.svc.Stop())
	case keymap.ActionNextTrack:
		m.report(m.svc.Next())
	case keymap.ActionPrevTrack:
		m.report(m.svc.Previous())
	case keymap.ActionSeekForward:
		m.report(m.svc.SeekBy(seekStep * time.Second))
	case keymap.ActionSeekBack:
		m.report(m.svc.SeekBy(-seekStep * time.Second))
	case keymap.ActionVolumeUp:
		m.svc.SetVolume(m.svc.Volume() + volumeStep)
	case keymap.ActionVolumeDown:
		m.svc.SetVolume(m.svc.Volume() - volumeStep)
	case keymap.ActionToggleMute:
		m.svc.SetMuted(!m.svc.Muted())
	case keymap.ActionCycleRepeat:
		m.svc.ToggleRepeat()
	case keymap.ActionToggleShuffle:
		m.svc.ToggleShuffle()
	case keymap.ActionLike:
		m.svc.Like()
		m.notice = playback.Notice{Message: "Liked"}
	case keymap.ActionShare:
		m.svc.Share()
		m.notice = playback.Notice{Message: "Shared"}
	case keymap.ActionUndo:
		m.svc.Undo()
	case keymap.ActionRedo:
		m.svc.Redo()
	case keymap.ActionSkipAd:
		m.svc.SkipAd()
	case keymap.ActionClickAd:
		if link, ok := m.svc.ClickAd(); ok {
			m.notice = playback.Notice{Message: "Open " + link}
		}
	case keymap.ActionAdMute:
		m.adMuted = !m.adMuted
		m.svc.SetAdMuted(m.adMuted)
	case keymap.ActionAdVolumeUp:
		m.adVolume = min(m.adVolume+volumeStep, 1)
		m.svc.SetAdVolume(m.adVolume)
	case keymap.ActionAdVolumeDown:
		m.adVolume = max(m.adVolume-volumeStep, 0)
		m.svc.SetAdVolume(m.adVolume)
	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) report(err error) {
	if err == nil {
		return
	}
	m.logger.Debug().Err(err).Msg("action failed")
	m.notice = playback.Notice{Level: playback.NoticeError, Message: err.Error()}
}

func (m *Model) resize() {
	h := m.height - playerbar.Height(m.player) - 1 // notice line
	if m.showHelp {
		h -= helpHeight
	}
	m.queuePanel.SetSize(m.width, max(h, 0))
}
