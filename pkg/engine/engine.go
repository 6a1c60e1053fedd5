package engine

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/mkolge/apm-monitor/pkg/capture"
	"github.com/mkolge/apm-monitor/pkg/logger"
	"github.com/mkolge/apm-monitor/pkg/report"
)

// Engine is the session state machine. It consumes occurrence events from a
// capture source while RUNNING, maintains the sliding rate window and the
// session counters, and finalizes a report record on stop.
type Engine struct {
	config Config
	source capture.Source
	store  report.Store
	logger logger.Logger

	mu         sync.Mutex
	state      State
	tag        string
	scale      float64
	window     RateWindow
	clock      SessionClock
	total      int
	peak       int
	history    []int
	pending    *report.Record
	captureErr error

	pumpStop chan struct{}
	pumpDone chan struct{}
	closed   bool
}

// New creates an engine in the STOPPED state and starts draining the
// capture source's event channel. Events arriving while not RUNNING are
// discarded; the channel is always drained so slow sessions never back up
// the source.
func New(cfg Config, src capture.Source, store report.Store, log logger.Logger) *Engine {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 300
	}
	if cfg.DefaultScaleFactor <= 0 || cfg.DefaultScaleFactor > 1 {
		cfg.DefaultScaleFactor = 0.7
	}
	if cfg.DefaultTag == "" {
		cfg.DefaultTag = "untagged"
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	e := &Engine{
		config:   cfg,
		source:   src,
		store:    store,
		logger:   log,
		state:    StateStopped,
		pumpStop: make(chan struct{}),
		pumpDone: make(chan struct{}),
	}

	go e.pump()

	return e
}

// pump forwards capture events into the session until Close.
func (e *Engine) pump() {
	defer close(e.pumpDone)

	for {
		select {
		case <-e.pumpStop:
			return
		case ev, ok := <-e.source.Events():
			if !ok {
				return
			}
			e.RecordActionAt(ev.Timestamp)
		}
	}
}

// Start begins a new session with the given tag and scale factor.
//
// Calling Start while a session is RUNNING or PAUSED is a no-op. A scale
// factor outside [0, 1] falls back to the configured default. If the
// capture source cannot be acquired the engine stays STOPPED and returns an
// error wrapping ErrCaptureStart; Start may be retried.
func (e *Engine) Start(tag string, scale float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateStopped {
		return nil
	}

	return e.startLocked(tag, scale, e.config.Clock())
}

func (e *Engine) startLocked(tag string, scale float64, now time.Time) error {
	if tag == "" {
		tag = e.config.DefaultTag
	}
	if math.IsNaN(scale) || scale < 0 || scale > 1 {
		e.logger.Warn("invalid scale factor, using default",
			"given", scale,
			"default", e.config.DefaultScaleFactor)
		scale = e.config.DefaultScaleFactor
	}

	if err := e.source.Start(); err != nil {
		e.captureErr = err
		e.logger.Error("failed to acquire capture source", "error", err)
		return fmt.Errorf("%w: %w", ErrCaptureStart, err)
	}
	e.captureErr = nil

	if e.pending != nil {
		e.logger.Warn("starting new session with a report still pending persistence",
			"tag", e.pending.Tag)
	}

	e.tag = tag
	e.scale = scale
	e.window.Clear()
	e.clock.Reset()
	e.total = 0
	e.peak = 0
	e.history = nil

	e.state = StateRunning
	e.clock.EnterRunning(now)

	e.logger.Info("session started", "tag", tag, "scale_factor", scale)
	return nil
}

// Pause suspends the session. Time stops accumulating and incoming events
// are discarded until Resume. A no-op unless RUNNING.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateRunning {
		return
	}

	now := e.config.Clock()
	e.clock.LeaveRunning(now)
	e.state = StatePaused

	e.logger.Info("session paused",
		"tag", e.tag,
		"active_duration", e.clock.Elapsed())
}

// Resume continues a paused session. A no-op unless PAUSED.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StatePaused {
		return
	}

	e.clock.EnterRunning(e.config.Clock())
	e.state = StateRunning

	e.logger.Info("session resumed", "tag", e.tag)
}

// Stop ends the session, releases the capture source, and persists the
// session's report record.
//
// A session with zero recorded actions produces no record; Stop returns
// (nil, nil). When the record cannot be persisted it is returned alongside
// the error and kept pending so PersistPending can retry. Stopping while
// already STOPPED is a no-op.
func (e *Engine) Stop() (*report.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.stopLocked(e.config.Clock())
}

func (e *Engine) stopLocked(now time.Time) (*report.Record, error) {
	if e.state == StateStopped {
		return nil, nil
	}

	e.clock.LeaveRunning(now)
	e.state = StateStopped

	if err := e.source.Stop(); err != nil {
		e.logger.Warn("failed to release capture source", "error", err)
	}

	if e.total == 0 {
		e.logger.Info("session stopped with no actions, no report written",
			"tag", e.tag)
		return nil, nil
	}

	avg := averageRate(e.total, e.clock.Elapsed())
	rec := &report.Record{
		Tag:                   e.tag,
		ScaleFactor:           e.scale,
		TotalActions:          e.total,
		PeakRate:              e.peak,
		AverageRate:           avg,
		AverageAdjustedRate:   int(float64(avg) * e.scale),
		ActiveDurationSeconds: e.clock.Elapsed().Seconds(),
		CompletedAt:           now,
	}

	return rec, e.persistLocked(rec)
}

func (e *Engine) persistLocked(rec *report.Record) error {
	id, err := e.store.Persist(rec)
	if err != nil {
		e.pending = rec
		e.logger.Error("failed to persist session report, kept pending",
			"tag", rec.Tag,
			"error", err)
		return fmt.Errorf("failed to persist session report: %w", err)
	}

	e.pending = nil
	e.logger.Info("session stopped",
		"tag", rec.Tag,
		"id", id,
		"total_actions", rec.TotalActions,
		"average_rate", rec.AverageRate)
	return nil
}

// Reset stops the current session (persisting its record, if any) and
// immediately starts a fresh one with the given tag and scale factor. From
// STOPPED it simply starts a new session.
func (e *Engine) Reset(tag string, scale float64) (*report.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.config.Clock()

	var rec *report.Record
	if e.state != StateStopped {
		var err error
		rec, err = e.stopLocked(now)
		if err != nil {
			return rec, err
		}
	}

	if err := e.startLocked(tag, scale, now); err != nil {
		return rec, err
	}

	e.logger.Info("session reset", "tag", e.tag)
	return rec, nil
}

// RecordAction records one action occurrence at the current time.
func (e *Engine) RecordAction() {
	e.RecordActionAt(e.config.Clock())
}

// RecordActionAt records one action occurrence at the given time. Actions
// arriving while not RUNNING are discarded.
func (e *Engine) RecordActionAt(t time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateRunning {
		return
	}

	e.window.Ingest(t)
	e.total++
}

// Stats returns a snapshot of the session, evicting expired window entries
// first. While RUNNING it also advances the session clock, updates the peak
// rate, and appends the current rate to the trend history; paused and
// stopped snapshots are pure reads, so displayed values freeze.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.config.Clock()
	e.window.EvictBefore(now.Add(-e.config.Window))
	current := e.window.Size()

	if e.state == StateRunning {
		e.clock.Tick(now)
		if current > e.peak {
			e.peak = current
		}
		e.history = append(e.history, current)
		if len(e.history) > e.config.HistorySize {
			e.history = e.history[len(e.history)-e.config.HistorySize:]
		}
	}

	avg := averageRate(e.total, e.clock.Elapsed())

	history := make([]int, len(e.history))
	copy(history, e.history)

	var captureErr string
	if e.captureErr != nil {
		captureErr = e.captureErr.Error()
	}

	return Stats{
		State:               e.state,
		Tag:                 e.tag,
		ScaleFactor:         e.scale,
		CurrentRate:         current,
		PeakRate:            e.peak,
		AverageRate:         avg,
		AdjustedAverageRate: int(float64(avg) * e.scale),
		TotalActions:        e.total,
		ActiveDuration:      e.clock.Elapsed(),
		SessionTime:         hhmmss(e.clock.Elapsed()),
		History:             history,
		CaptureError:        captureErr,
	}
}

// Pending returns the finalized record awaiting persistence, or nil.
func (e *Engine) Pending() *report.Record {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.pending
}

// PersistPending retries persisting the record left over from a failed
// stop. Returns ErrNothingPending when there is none.
func (e *Engine) PersistPending() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == nil {
		return ErrNothingPending
	}

	return e.persistLocked(e.pending)
}

// DiscardPending drops the record awaiting persistence, if any.
func (e *Engine) DiscardPending() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pending = nil
}

// Close stops the session if one is in progress and shuts down the event
// pump. The engine must not be used after Close.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	_, err := e.stopLocked(e.config.Clock())
	e.mu.Unlock()

	close(e.pumpStop)
	<-e.pumpDone

	return err
}

// averageRate converts a total action count and an active duration into
// actions per minute, truncated. Zero until active time has accumulated.
func averageRate(total int, active time.Duration) int {
	minutes := active.Minutes()
	if minutes <= 0 {
		return 0
	}
	return int(float64(total) / minutes)
}

// hhmmss formats a duration as HH:MM:SS, hours unbounded.
func hhmmss(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
