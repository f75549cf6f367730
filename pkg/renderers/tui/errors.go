package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrSubmitRejected is returned when required fields are still empty after
	// the configured number of submit attempts.
	ErrSubmitRejected = errors.New("tui: required fields still missing")
	// ErrDeclined is returned when the user declines the final submit.
	ErrDeclined = errors.New("tui: submit declined")
)
