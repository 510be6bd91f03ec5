package capture

import "errors"

var (
	// ErrCaptureNotFound is returned when a capture ID doesn't exist.
	ErrCaptureNotFound = errors.New("capture not found")

	// ErrInvalidInput is returned when creation input fails validation.
	ErrInvalidInput = errors.New("invalid input")
)
