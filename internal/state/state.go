// Package state persists the play queue and player settings in a local sqlite database.
package state

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName    = "wavecast"
	dbFileName = "wavecast.db"
)

// Manager is the sqlite-backed store. It has no transactional
// guarantees beyond a single save call.
type Manager struct {
	db *sql.DB
}

// Open opens (or creates) the store at path. An empty path selects
// the default location under the XDG data directory.
func Open(path string) (*Manager, error) {
	if path == "" {
		var err error
		path, err = getDBPath()
		if err != nil {
			return nil, err
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	return newManager(db)
}

// OpenMemory opens an in-memory store, used when the data directory is unusable.
func OpenMemory() (*Manager, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return newManager(db)
}

func newManager(db *sql.DB) (*Manager, error) {
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Manager{db: db}, nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}

// GetQueue returns the saved queue, or an empty queue state when nothing was saved.
func (m *Manager) GetQueue() (*QueueState, error) {
	return getQueue(m.db)
}

// SaveQueue replaces the saved queue.
func (m *Manager) SaveQueue(state QueueState) error {
	return saveQueue(context.Background(), m.db, state)
}

// GetPlayerSettings returns the saved settings, or defaults when nothing was saved.
func (m *Manager) GetPlayerSettings() (*PlayerSettings, error) {
	return getPlayerSettings(m.db)
}

// SavePlayerSettings persists volume, mute, shuffle and repeat.
func (m *Manager) SavePlayerSettings(settings PlayerSettings) error {
	return savePlayerSettings(m.db, settings)
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
