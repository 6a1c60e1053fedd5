package display

import (
	"fmt"
	"io"

	"github.com/mkolge/apm-monitor/pkg/report"
)

// simpleFormatter formats output as simple text.
type simpleFormatter struct {
	config Config
}

// FormatGroups implements Formatter.FormatGroups.
func (f *simpleFormatter) FormatGroups(w io.Writer, groups []report.TagGroup, skipped int) error {
	for _, group := range groups {
		for _, rec := range group.Records {
			if _, err := fmt.Fprintf(w, "%s | %s | %s actions, avg %d, adj %d, peak %d\n",
				group.Tag,
				rec.CompletedAt.Format("2006-01-02 15:04:05"),
				FormatNumber(rec.TotalActions),
				rec.AverageRate,
				rec.AverageAdjustedRate,
				rec.PeakRate); err != nil {
				return err
			}
		}
	}

	if skipped > 0 {
		if _, err := fmt.Fprintf(w, "skipped: %d\n", skipped); err != nil {
			return err
		}
	}

	return nil
}
