// Package capture defines the boundary to the platform input-capture service.
//
// The monitoring engine does not care which device produced an action or how
// it was hooked; it only needs a timestamped occurrence signal. A Source
// wraps whatever delivers those signals (an OS-level hook, terminal
// keystrokes, a synthetic generator) behind a start/stop lifecycle whose
// Start may fail, typically for permission reasons.
package capture

import "time"

// Event is a single occurrence signal. It carries no payload beyond the
// moment it happened.
type Event struct {
	// Timestamp is when the action occurred.
	Timestamp time.Time
}

// Source delivers occurrence events to the engine.
type Source interface {
	// Start acquires the underlying capture resource.
	//
	// Returns an error (commonly wrapping ErrPermission) when the resource
	// cannot be acquired; the source must be left inert in that case so a
	// later Start can retry.
	Start() error

	// Stop releases the capture resource. Stopping a source that was never
	// started is a no-op.
	Stop() error

	// Events returns the channel on which occurrence events are delivered.
	// The channel is shared across Start/Stop cycles and is only closed by
	// implementations that cannot be restarted.
	Events() <-chan Event
}
