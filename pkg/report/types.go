// Package report persists one immutable JSON record per completed
// monitoring session and serves the grouped views derived from them.
//
// The JSON files under the reports directory are the authoritative records;
// a BoltDB index (id and tag lookups) is rebuilt from them on open so the
// store never trusts the index over the files. Every successful persist or
// delete re-renders the derived aggregate view through the configured
// Renderer.
//
// Example usage:
//
//	store, err := report.New(report.Config{
//	    Dir:       "~/.local/share/apm-monitor/reports",
//	    IndexPath: "~/.local/share/apm-monitor/index.db",
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
package report

import "time"

// Record is the persisted summary of one completed session.
//
// Records are immutable once written; the only mutation the store supports
// is deletion.
type Record struct {
	// Tag is the session's grouping label ("untagged" when none was given).
	Tag string `json:"tag"`

	// ScaleFactor is the adjusted-rate multiplier used for the session (0-1).
	ScaleFactor float64 `json:"scale_factor"`

	// TotalActions counts every action recorded while the session ran.
	TotalActions int `json:"total_actions"`

	// PeakRate is the highest instantaneous rate observed.
	PeakRate int `json:"peak_rate"`

	// AverageRate is total actions per active minute.
	AverageRate int `json:"average_rate"`

	// AverageAdjustedRate is AverageRate scaled by ScaleFactor.
	AverageAdjustedRate int `json:"average_adjusted_rate"`

	// ActiveDurationSeconds is the session's accumulated running time.
	ActiveDurationSeconds float64 `json:"active_duration_seconds"`

	// CompletedAt is when the session was stopped.
	CompletedAt time.Time `json:"completed_at"`

	// ID is the record's filename within the reports directory. Assigned by
	// the store; not part of the serialized record.
	ID string `json:"-"`
}

// TagGroup is one tag's records, completion-ordered.
type TagGroup struct {
	// Tag is the group label.
	Tag string

	// Records holds the group's records sorted by CompletedAt ascending.
	Records []Record
}

// Renderer regenerates the derived aggregate view from the full set of
// persisted records. Implementations must be pure functions of their input
// so regeneration is idempotent.
type Renderer interface {
	Render(groups []TagGroup) error
}

// RenderFunc adapts a function literal to the Renderer interface.
type RenderFunc func(groups []TagGroup) error

// Render calls the underlying function.
func (f RenderFunc) Render(groups []TagGroup) error {
	return f(groups)
}

// Store persists and serves session report records.
type Store interface {
	// Persist writes one new record and returns its assigned ID.
	//
	// An existing record is never overwritten: identity derives from the
	// completion timestamp and collisions get a numeric suffix.
	Persist(rec *Record) (string, error)

	// ListAll returns every readable record grouped by tag, tags sorted,
	// records within a group sorted by completion time. Corrupt or
	// unreadable records are skipped individually and reported via the
	// skipped count, never silently dropped.
	ListAll() (groups []TagGroup, skipped int, err error)

	// Delete removes exactly one record by ID.
	// Returns ErrRecordNotFound if no such record exists.
	Delete(id string) error

	// DeleteTag removes every record in the given tag group.
	// Returns ErrTagNotFound if the tag has no records.
	DeleteTag(tag string) error

	// RenderView regenerates the aggregate view from the current records.
	RenderView() error

	// Dir returns the reports directory path.
	Dir() string

	// Close releases the index database.
	Close() error
}

// Config contains store configuration.
type Config struct {
	// Dir is the directory holding one JSON file per record.
	Dir string

	// IndexPath is the BoltDB index file path.
	// Default: <Dir>/index.db.
	IndexPath string

	// Renderer, when set, is invoked after every successful persist or
	// delete, and by RenderView.
	Renderer Renderer

	// Timeout is the index database open timeout (default: 1 second).
	Timeout time.Duration
}
