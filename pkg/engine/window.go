package engine

import (
	"sort"
	"time"
)

// RateWindow maintains an insertion-ordered sequence of action timestamps
// and derives the instantaneous rate as the number of entries remaining
// after eviction.
//
// Timestamps arrive in non-decreasing order (the engine records them under
// one lock with a monotonic clock), so eviction is always a prefix trim.
// The zero value is ready to use.
type RateWindow struct {
	stamps []time.Time
}

// Ingest appends one action timestamp.
func (w *RateWindow) Ingest(t time.Time) {
	w.stamps = append(w.stamps, t)
}

// EvictBefore removes every timestamp strictly older than cutoff.
func (w *RateWindow) EvictBefore(cutoff time.Time) {
	if len(w.stamps) == 0 {
		return
	}

	i := sort.Search(len(w.stamps), func(i int) bool {
		return !w.stamps[i].Before(cutoff)
	})
	if i == 0 {
		return
	}

	remaining := copy(w.stamps, w.stamps[i:])
	w.stamps = w.stamps[:remaining]
}

// Size returns the number of timestamps currently in the window.
func (w *RateWindow) Size() int {
	return len(w.stamps)
}

// Clear drops all timestamps.
func (w *RateWindow) Clear() {
	w.stamps = w.stamps[:0]
}
