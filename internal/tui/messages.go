package tui

import (
	"errors"

	"ccswitch/config/models"
)

var (
	// ErrReturnToMenu is the editor's request to unwind one level back to
	// the selector. It is a control outcome, never shown as a failure.
	ErrReturnToMenu = errors.New("return to menu")
	// ErrCancelled is returned when the user leaves a menu with Esc
	ErrCancelled = errors.New("selection cancelled")
	// ErrNoTerminal means raw mode could not be acquired
	ErrNoTerminal = errors.New("terminal does not support raw mode")
)

// ProfileSavedMsg is sent when the editor's save command completes
type ProfileSavedMsg struct {
	Profile models.Profile
	Err     error
}
