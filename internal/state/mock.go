// internal/state/mock.go
package state

import "sync"

// Mock is a test double for Manager.
type Mock struct {
	mu         sync.Mutex
	queueState *QueueState
	settings   *PlayerSettings
	saveErr    error
	loadErr    error
	queueSaves int
	closed     bool
}

// NewMock creates a new mock store for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SaveQueue(state QueueState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueSaves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.queueState = &state
	return nil
}

func (m *Mock) GetQueue() (*QueueState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.queueState, nil
}

func (m *Mock) SavePlayerSettings(settings PlayerSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.settings = &settings
	return nil
}

func (m *Mock) GetPlayerSettings() (*PlayerSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.settings == nil {
		return &PlayerSettings{Volume: DefaultVolume}, nil
	}
	s := *m.settings
	return &s, nil
}

func (m *Mock) Close() error {
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetQueue(state *QueueState) { m.queueState = state }

func (m *Mock) Queue() *QueueState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queueState
}

func (m *Mock) Settings() *PlayerSettings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

func (m *Mock) SetSettings(s *PlayerSettings) { m.settings = s }

func (m *Mock) SetSaveError(err error) { m.saveErr = err }

func (m *Mock) SetLoadError(err error) { m.loadErr = err }

func (m *Mock) QueueSaves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queueSaves
}

func (m *Mock) IsClosed() bool { return m.closed }

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
