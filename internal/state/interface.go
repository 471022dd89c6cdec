// internal/state/interface.go
package state

// Interface defines the persistence store contract for dependency injection and testing.
type Interface interface {
	SaveQueue(state QueueState) error
	GetQueue() (*QueueState, error)
	SavePlayerSettings(settings PlayerSettings) error
	GetPlayerSettings() (*PlayerSettings, error)
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
