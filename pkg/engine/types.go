// Package engine implements the input-rate monitoring engine.
//
// The engine is a STOPPED/RUNNING/PAUSED state machine around three pieces
// of session state: a sliding rate window, a session clock that accumulates
// running time only, and the per-session counters (total actions, peak
// rate, trend history). One start-to-stop cycle is a session; stopping a
// non-empty session finalizes a report record and hands it to the report
// store.
//
// All engine state is guarded by a single mutex. The external capture
// source produces events concurrently with the once-per-second stats
// poller; both funnel through that lock.
package engine

import (
	"time"
)

// State identifies the engine's lifecycle phase.
type State string

// Engine states.
const (
	StateStopped State = "STOPPED"
	StateRunning State = "RUNNING"
	StatePaused  State = "PAUSED"
)

// Config contains engine configuration.
type Config struct {
	// Window is the width of the sliding rate window.
	// Default: 1 minute.
	Window time.Duration

	// HistorySize bounds the rolling rate history kept for trend display.
	// Oldest samples are dropped once full. Default: 300.
	HistorySize int

	// DefaultScaleFactor is applied when a session is started with a scale
	// factor outside [0, 1]. Default: 0.7.
	DefaultScaleFactor float64

	// DefaultTag is assigned to sessions started with an empty tag.
	// Default: "untagged".
	DefaultTag string

	// Clock supplies the current time. Default: time.Now.
	Clock func() time.Time
}

// Stats is the snapshot returned by Engine.Stats, designed to be polled
// once per second by a display layer.
type Stats struct {
	// State is the current lifecycle phase.
	State State

	// Tag labels the current session.
	Tag string

	// ScaleFactor is the session's adjusted-rate multiplier.
	ScaleFactor float64

	// CurrentRate is the number of actions inside the sliding window.
	CurrentRate int

	// PeakRate is the highest current rate observed this session.
	// Monotonically non-decreasing until the next start or reset.
	PeakRate int

	// AverageRate is total actions divided by active minutes
	// (0 while no active time has accumulated).
	AverageRate int

	// AdjustedAverageRate is AverageRate scaled by ScaleFactor.
	AdjustedAverageRate int

	// TotalActions counts every action recorded while running.
	TotalActions int

	// ActiveDuration is the accumulated running time.
	ActiveDuration time.Duration

	// SessionTime is ActiveDuration formatted as HH:MM:SS.
	SessionTime string

	// History is the rolling sequence of current-rate samples, oldest first.
	History []int

	// CaptureError carries the most recent capture-acquisition failure, or
	// is empty. It distinguishes "start failed" from "never started".
	CaptureError string
}
