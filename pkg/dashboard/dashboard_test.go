package dashboard

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkolge/apm-monitor/pkg/logger"
	"github.com/mkolge/apm-monitor/pkg/report"
)

func sampleGroups() []report.TagGroup {
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	return []report.TagGroup{
		{
			Tag: "drill",
			Records: []report.Record{
				{
					ID:                  "report_2025-03-14_09-00-00.json",
					Tag:                 "drill",
					ScaleFactor:         0.7,
					TotalActions:        120,
					PeakRate:            95,
					AverageRate:         80,
					AverageAdjustedRate: 56,
					CompletedAt:         base,
				},
				{
					ID:                  "report_2025-03-14_10-00-00.json",
					Tag:                 "drill",
					ScaleFactor:         0.7,
					TotalActions:        60,
					PeakRate:            70,
					AverageRate:         60,
					AverageAdjustedRate: 42,
					CompletedAt:         base.Add(time.Hour),
				},
			},
		},
		{
			Tag: "untagged",
			Records: []report.Record{
				{
					ID:                  "report_2025-03-14_11-00-00.json",
					Tag:                 "untagged",
					ScaleFactor:         0.5,
					AverageRate:         30,
					AverageAdjustedRate: 15,
					TotalActions:        30,
					CompletedAt:         base.Add(2 * time.Hour),
				},
			},
		},
	}
}

func TestRender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")

	r, err := New(path, logger.Noop())
	require.NoError(t, err)
	assert.Equal(t, path, r.Path())

	require.NoError(t, r.Render(sampleGroups()))

	html, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(html)

	assert.Contains(t, content, "Tag: drill")
	assert.Contains(t, content, "Tag: untagged")
	assert.Contains(t, content, `href="report_2025-03-14_09-00-00.json"`)
	assert.Contains(t, content, "Avg APM: 80")
	assert.Contains(t, content, `<option value="drill">`)
	assert.Contains(t, content, `"average_rate":80`)
	assert.Contains(t, content, `"average_adjusted_rate":56`)
}

func TestRenderIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")

	r, err := New(path, logger.Noop())
	require.NoError(t, err)

	require.NoError(t, r.Render(sampleGroups()))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, r.Render(sampleGroups()))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderEmptyGroups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")

	r, err := New(path, logger.Noop())
	require.NoError(t, err)

	require.NoError(t, r.Render(nil))

	html, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Saved Sessions")
}
