package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mkolge/apm-monitor/pkg/report"
)

// tableFormatter formats output as tables.
type tableFormatter struct {
	config Config
}

// FormatGroups implements Formatter.FormatGroups.
func (f *tableFormatter) FormatGroups(w io.Writer, groups []report.TagGroup, skipped int) error {
	if err := writeHeader(w, "Session Reports", f.config.Compact); err != nil {
		return err
	}

	if len(groups) == 0 {
		if _, err := fmt.Fprintln(w, "No reports"); err != nil {
			return err
		}
	}

	for _, group := range groups {
		if _, err := fmt.Fprintf(w, "Tag: %s (%d sessions)\n", group.Tag, len(group.Records)); err != nil {
			return err
		}

		header := []string{"Completed", "Report", "Actions", "Peak", "Avg", "Adjusted", "Active"}
		rows := make([][]string, len(group.Records))
		for i, rec := range group.Records {
			rows[i] = []string{
				rec.CompletedAt.Format("2006-01-02 15:04:05"),
				rec.ID,
				FormatNumber(rec.TotalActions),
				FormatNumber(rec.PeakRate),
				FormatNumber(rec.AverageRate),
				FormatNumber(rec.AverageAdjustedRate),
				FormatDuration(time.Duration(rec.ActiveDurationSeconds * float64(time.Second))),
			}
		}

		if err := f.writeTable(w, header, rows); err != nil {
			return err
		}
	}

	if skipped > 0 {
		if _, err := fmt.Fprintf(w, "(%d unreadable reports skipped)\n", skipped); err != nil {
			return err
		}
	}

	return nil
}

// writeTable writes a formatted table.
func (f *tableFormatter) writeTable(w io.Writer, header []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No data")
		return err
	}

	// Calculate column widths.
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	if err := f.writeRow(w, header, widths); err != nil {
		return err
	}

	if !f.config.Compact {
		separator := make([]string, len(header))
		for i, width := range widths {
			separator[i] = strings.Repeat("-", width)
		}
		if err := f.writeRow(w, separator, widths); err != nil {
			return err
		}
	}

	for _, row := range rows {
		if err := f.writeRow(w, row, widths); err != nil {
			return err
		}
	}

	if !f.config.Compact {
		_, err := fmt.Fprintln(w)
		return err
	}

	return nil
}

// writeRow writes a single table row.
func (f *tableFormatter) writeRow(w io.Writer, cells []string, widths []int) error {
	for i, cell := range cells {
		if i > 0 {
			if f.config.Compact {
				if _, err := fmt.Fprint(w, " "); err != nil {
					return err
				}
			} else {
				if _, err := fmt.Fprint(w, "  "); err != nil {
					return err
				}
			}
		}

		format := fmt.Sprintf("%%-%ds", widths[i])
		if _, err := fmt.Fprintf(w, format, cell); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)
	return err
}
