// Package queuepanel renders the play queue and turns key presses on it
// into queue commands.
package queuepanel

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavecast/internal/keymap"
	"github.com/llehouerou/wavecast/internal/queue"
)

// JumpToTrackMsg is sent when the user selects a track to jump to.
type JumpToTrackMsg struct {
	Index int
}

// RemoveTrackMsg is sent when the user removes the entry under the cursor.
type RemoveTrackMsg struct {
	Index int
}

// ClearQueueMsg is sent when the user clears the queue.
type ClearQueueMsg struct{}

// Snapshot is the queue state the panel renders.
type Snapshot struct {
	Tracks  []queue.Track
	Index   int
	Repeat  queue.RepeatMode
	Shuffle bool
}

// Model represents the queue panel state.
type Model struct {
	keys    *keymap.Resolver
	snap    Snapshot
	cursor  int
	offset  int
	width   int
	height  int
	focused bool
}

// New creates a new queue panel model.
func New(keys *keymap.Resolver) Model {
	return Model{
		keys: keys,
		snap: Snapshot{Index: -1},
	}
}

// SetSnapshot replaces the rendered queue. The cursor is clamped.
func (m *Model) SetSnapshot(s Snapshot) {
	m.snap = s
	if m.cursor >= len(s.Tracks) {
		m.cursor = max(len(s.Tracks)-1, 0)
	}
	m.ensureCursorVisible()
}

// SetFocused sets whether the panel is focused.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// IsFocused returns whether the panel is focused.
func (m Model) IsFocused() bool {
	return m.focused
}

// SetSize sets the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ensureCursorVisible()
}

// Width returns the panel width.
func (m Model) Width() int { return m.width }

// Height returns the panel height.
func (m Model) Height() int { return m.height }

// Cursor returns the cursor position.
func (m Model) Cursor() int { return m.cursor }

// Update handles messages for the queue panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}

	n := len(m.snap.Tracks)
	switch m.keys.Resolve(keyMsg.String()) {
	case keymap.ActionMoveDown:
		m.moveCursor(1)
	case keymap.ActionMoveUp:
		m.moveCursor(-1)
	case keymap.ActionSelect:
		if m.cursor < n {
			idx := m.cursor
			return m, func() tea.Msg { return JumpToTrackMsg{Index: idx} }
		}
	case keymap.ActionDelete:
		if m.cursor < n {
			idx := m.cursor
			return m, func() tea.Msg { return RemoveTrackMsg{Index: idx} }
		}
	case keymap.ActionClear:
		if n > 0 {
			return m, func() tea.Msg { return ClearQueueMsg{} }
		}
	}

	return m, nil
}

func (m *Model) moveCursor(delta int) {
	n := len(m.snap.Tracks)
	if n == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)
	m.ensureCursorVisible()
}

func (m *Model) ensureCursorVisible() {
	h := m.listHeight()
	if h <= 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
}

func (m Model) listHeight() int {
	return m.height - panelOverhead
}
