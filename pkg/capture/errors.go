package capture

import "errors"

// Common errors returned by capture sources.
var (
	// ErrPermission indicates the host denied access to the input devices.
	ErrPermission = errors.New("input capture permission denied")

	// ErrAlreadyStarted is returned when Start is called on a running source.
	ErrAlreadyStarted = errors.New("capture source already started")

	// ErrSourceClosed is returned when a source can no longer be started.
	ErrSourceClosed = errors.New("capture source is closed")
)
