package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoChoice is returned when a choice field offers nothing to select.
	ErrNoChoice = errors.New("tui: field has no choices")
)
