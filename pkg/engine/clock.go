package engine

import "time"

// SessionClock accumulates the wall-clock time a session spends in the
// RUNNING state. Time spent paused or stopped never counts.
//
// The last-tick timestamp is set iff the session is currently running:
// entering RUNNING records it, leaving RUNNING folds the elapsed delta into
// the accumulated total and clears it. The zero value is ready to use.
type SessionClock struct {
	active   time.Duration
	lastTick time.Time
}

// EnterRunning marks the start of a running period. Calling it while
// already running is a caller bug and is ignored to preserve the
// accumulated total.
func (c *SessionClock) EnterRunning(now time.Time) {
	if !c.lastTick.IsZero() {
		return
	}
	c.lastTick = now
}

// LeaveRunning folds the current running period into the accumulated total.
// Ignored when not running.
func (c *SessionClock) LeaveRunning(now time.Time) {
	if c.lastTick.IsZero() {
		return
	}
	c.active += now.Sub(c.lastTick)
	c.lastTick = time.Time{}
}

// Tick advances the accumulated total to now without leaving the running
// state. Ignored when not running.
func (c *SessionClock) Tick(now time.Time) {
	if c.lastTick.IsZero() {
		return
	}
	c.active += now.Sub(c.lastTick)
	c.lastTick = now
}

// Elapsed returns the active duration accumulated as of the last tick.
func (c *SessionClock) Elapsed() time.Duration {
	return c.active
}

// Running reports whether the clock is inside a running period.
func (c *SessionClock) Running() bool {
	return !c.lastTick.IsZero()
}

// Reset zeroes the clock.
func (c *SessionClock) Reset() {
	c.active = 0
	c.lastTick = time.Time{}
}
