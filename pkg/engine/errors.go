package engine

import "errors"

// Common errors returned by the engine.
var (
	// ErrCaptureStart is returned when the input-capture resource cannot be
	// acquired. The engine stays stopped and the failure is retryable by
	// calling Start again.
	ErrCaptureStart = errors.New("failed to start input capture")

	// ErrNothingPending is returned by PersistPending when no finalized
	// report is awaiting persistence.
	ErrNothingPending = errors.New("no report pending persistence")
)
