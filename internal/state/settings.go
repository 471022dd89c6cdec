package state

import (
	"database/sql"
	"errors"
)

// DefaultVolume is used until the user changes the volume.
const DefaultVolume = 1.0

// PlayerSettings represents the saved player settings.
type PlayerSettings struct {
	Volume     float64
	Muted      bool
	Shuffle    bool
	RepeatMode int
}

func getPlayerSettings(db *sql.DB) (*PlayerSettings, error) {
	var s PlayerSettings
	row := db.QueryRow(`SELECT volume, muted, shuffle, repeat_mode FROM player_settings WHERE id = 1`)
	err := row.Scan(&s.Volume, &s.Muted, &s.Shuffle, &s.RepeatMode)
	if errors.Is(err, sql.ErrNoRows) {
		return &PlayerSettings{Volume: DefaultVolume}, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func savePlayerSettings(db *sql.DB, s PlayerSettings) error {
	_, err := db.Exec(`
		INSERT INTO player_settings (id, volume, muted, shuffle, repeat_mode)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			volume = excluded.volume,
			muted = excluded.muted,
			shuffle = excluded.shuffle,
			repeat_mode = excluded.repeat_mode
	`, s.Volume, s.Muted, s.Shuffle, s.RepeatMode)
	return err
}
