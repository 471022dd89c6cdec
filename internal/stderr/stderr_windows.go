//go:build windows

// Package stderr is a no-op on Windows, where the audio backend does not
// write to the console.
package stderr

import "github.com/rs/zerolog"

// Start does nothing on Windows.
func Start(zerolog.Logger) error {
	return nil
}

// Stop does nothing on Windows.
func Stop() {}
