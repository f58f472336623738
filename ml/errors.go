package ml

import "errors"

// Error kinds callers branch on with errors.Is. The HTTP layer maps
// ErrInvalidInput to a client error; everything else is operational.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotTrained      = errors.New("model not trained")
	ErrNotFound        = errors.New("model artifact not found")
	ErrCorruptArtifact = errors.New("corrupt model artifact")
)
