package display

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkolge/apm-monitor/pkg/report"
)

func sampleGroups() []report.TagGroup {
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	return []report.TagGroup{
		{
			Tag: "drill",
			Records: []report.Record{
				{
					ID:                    "report_2025-03-14_09-00-00.json",
					Tag:                   "drill",
					ScaleFactor:           0.7,
					TotalActions:          1200,
					PeakRate:              95,
					AverageRate:           80,
					AverageAdjustedRate:   56,
					ActiveDurationSeconds: 900,
					CompletedAt:           base,
				},
			},
		},
		{
			Tag: "untagged",
			Records: []report.Record{
				{
					ID:          "report_2025-03-14_10-00-00.json",
					Tag:         "untagged",
					ScaleFactor: 0.7,
					CompletedAt: base.Add(time.Hour),
				},
			},
		},
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{-time.Minute, "00:00:00"},
		{90 * time.Second, "00:01:30"},
		{time.Hour + time.Second, "01:00:01"},
		{30 * time.Hour, "30:00:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.d))
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.n))
	}
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer

	f := New(Config{Format: FormatTable})
	require.NoError(t, f.FormatGroups(&buf, sampleGroups(), 1))

	out := buf.String()
	assert.Contains(t, out, "Tag: drill (1 sessions)")
	assert.Contains(t, out, "Tag: untagged (1 sessions)")
	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "00:15:00")
	assert.Contains(t, out, "(1 unreadable reports skipped)")
}

func TestTableFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer

	f := New(Config{Format: FormatTable})
	require.NoError(t, f.FormatGroups(&buf, nil, 0))

	assert.Contains(t, buf.String(), "No reports")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer

	f := New(Config{Format: FormatJSON})
	require.NoError(t, f.FormatGroups(&buf, sampleGroups(), 2))

	var listing struct {
		Groups []struct {
			Tag     string          `json:"tag"`
			Records []report.Record `json:"records"`
		} `json:"groups"`
		Skipped int `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &listing))

	require.Len(t, listing.Groups, 2)
	assert.Equal(t, "drill", listing.Groups[0].Tag)
	assert.Equal(t, 2, listing.Skipped)
}

func TestSimpleFormatter(t *testing.T) {
	var buf bytes.Buffer

	f := New(Config{Format: FormatSimple})
	require.NoError(t, f.FormatGroups(&buf, sampleGroups(), 0))

	out := buf.String()
	assert.Contains(t, out, "drill | 2025-03-14 09:00:00 | 1,200 actions")
	assert.NotContains(t, out, "skipped")
}

func TestDefaultFormatIsTable(t *testing.T) {
	var buf bytes.Buffer

	f := New(Config{})
	require.NoError(t, f.FormatGroups(&buf, sampleGroups(), 0))
	assert.Contains(t, buf.String(), "Session Reports")
}

func TestSparkline(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", Sparkline(nil, 10))
		assert.Equal(t, "", Sparkline([]int{1, 2}, 0))
	})

	t.Run("scales to maximum", func(t *testing.T) {
		out := Sparkline([]int{0, 8}, 10)
		runes := []rune(out)
		require.Len(t, runes, 2)
		assert.Equal(t, '▁', runes[0])
		assert.Equal(t, '█', runes[1])
	})

	t.Run("all zeros render the lowest block", func(t *testing.T) {
		out := Sparkline([]int{0, 0, 0}, 10)
		assert.Equal(t, "▁▁▁", out)
	})

	t.Run("keeps only the most recent samples", func(t *testing.T) {
		values := make([]int, 20)
		for i := range values {
			values[i] = i
		}
		out := Sparkline(values, 5)
		assert.Len(t, []rune(out), 5)
	})
}

func TestGraph(t *testing.T) {
	t.Run("dimensions", func(t *testing.T) {
		rows := Graph([]int{1, 2, 3, 4}, 10, 3)
		require.Len(t, rows, 3)
		for _, row := range rows {
			assert.Len(t, []rune(row), 4)
		}
	})

	t.Run("tallest sample fills the column", func(t *testing.T) {
		rows := Graph([]int{0, 10}, 10, 2)
		require.Len(t, rows, 2)

		top := []rune(rows[0])
		bottom := []rune(rows[1])
		assert.Equal(t, '█', top[1])
		assert.Equal(t, '█', bottom[1])
		assert.Equal(t, ' ', top[0])
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, Graph(nil, 0, 5))
		assert.Nil(t, Graph([]int{1}, 5, 0))
	})
}

func TestTerminalWidthFallback(t *testing.T) {
	// Test binaries run without a tty; either the real width or the
	// fallback is acceptable, never zero.
	assert.GreaterOrEqual(t, TerminalWidth(), 1)
}
