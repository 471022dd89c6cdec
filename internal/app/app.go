// Package app is the terminal front-end: a bubbletea model over the
// playback service.
package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/wavecast/internal/keymap"
	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/ui/playerbar"
	"github.com/llehouerou/wavecast/internal/ui/queuepanel"
)

const (
	seekStep   = 5
	volumeStep = 0.05
)

// Model is the root application model.
type Model struct {
	svc        playback.Service
	sub        *playback.Subscription
	keys       *keymap.Resolver
	queuePanel queuepanel.Model
	player     playerbar.State
	notice     playback.Notice
	showHelp   bool
	adVolume   float64
	adMuted    bool
	width      int
	height     int
	logger     zerolog.Logger
}

// New creates the application model and subscribes to svc.
func New(svc playback.Service, logger zerolog.Logger) Model {
	keys := keymap.NewResolver(keymap.Bindings)
	m := Model{
		svc:        svc,
		sub:        svc.Subscribe(),
		keys:       keys,
		queuePanel: queuepanel.New(keys),
		adVolume:   1,
		logger:     logger.With().Str("component", "app").Logger(),
	}
	m.queuePanel.SetFocused(true)
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.WatchServiceEvents(), TickCmd())
}

// refresh re-reads the observable state of the service.
func (m *Model) refresh() {
	m.player = playerbar.NewState(m.svc)
	m.queuePanel.SetSnapshot(queuepanel.Snapshot{
		Tracks:  m.svc.Queue(),
		Index:   m.svc.QueueIndex(),
		Repeat:  m.svc.RepeatMode(),
		Shuffle: m.svc.Shuffle(),
	})
}
