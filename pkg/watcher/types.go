// Package watcher provides change notification for the reports directory.
//
// It uses fsnotify to notice record files being added, modified, or removed
// by other processes, with per-file debouncing to coalesce rapid writes.
// Consumers typically react by regenerating the aggregate view.
//
// Example usage:
//
//	w, err := watcher.New(watcher.Config{
//	    DebounceInterval: 100 * time.Millisecond,
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	if err := w.Start(ctx, store.Dir()); err != nil {
//	    log.Fatal(err)
//	}
//
//	for event := range w.Events() {
//	    fmt.Printf("record %s: %s\n", event.Path, event.Op)
//	}
package watcher

import (
	"context"
	"time"
)

// Op describes a file operation type.
type Op uint32

// File operation types.
const (
	OpCreate Op = 1 << iota // Record created
	OpWrite                 // Record modified
	OpRemove                // Record deleted
	OpRename                // Record renamed/moved
)

// String returns a human-readable operation name.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpWrite:
		return "WRITE"
	case OpRemove:
		return "REMOVE"
	case OpRename:
		return "RENAME"
	default:
		return "UNKNOWN"
	}
}

// Event represents a change to one record file.
type Event struct {
	// Path is the absolute path of the record that changed.
	Path string

	// Op is the operation that triggered the event.
	Op Op

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Watcher watches the reports directory for record changes.
type Watcher interface {
	// Start begins watching the given directory. Only .json files inside
	// it produce events; the index database and the rendered view do not.
	//
	// Returns an error if the directory cannot be watched. Event
	// processing runs until the context is cancelled or Stop is called.
	Start(ctx context.Context, dir string) error

	// Stop stops event processing.
	Stop() error

	// Events returns the channel for receiving record change events,
	// debounced per path by the configured interval.
	Events() <-chan Event

	// Errors returns the channel for receiving non-fatal watch errors.
	Errors() <-chan error

	// Close releases the underlying file system watcher.
	Close() error
}

// Config contains watcher configuration.
type Config struct {
	// DebounceInterval is the time to wait before emitting an event.
	// Multiple events for the same record within this interval are
	// coalesced. Default: 100ms.
	DebounceInterval time.Duration
}
