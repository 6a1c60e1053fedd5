// Package display provides output formatting for session reports.
//
// It supports multiple output formats (table, JSON, simple text) plus the
// text sparklines and graphs used for rate trends.
package display

import (
	"io"

	"github.com/mkolge/apm-monitor/pkg/report"
)

// Format represents an output format.
type Format string

const (
	// FormatTable displays reports in a formatted table.
	FormatTable Format = "table"

	// FormatJSON displays reports as JSON.
	FormatJSON Format = "json"

	// FormatSimple displays reports in simple text format.
	FormatSimple Format = "simple"
)

// Formatter formats persisted session reports for output.
type Formatter interface {
	// FormatGroups formats tag-grouped reports. The skipped count reports
	// how many unreadable records were excluded from the listing.
	FormatGroups(w io.Writer, groups []report.TagGroup, skipped int) error
}

// Config contains formatter configuration.
type Config struct {
	// Format specifies the output format.
	// Default: FormatTable.
	Format Format

	// Compact enables compact output (less whitespace).
	// Default: false.
	Compact bool
}
