// Package dashboard renders the HTML aggregate view of persisted session
// reports: per-tag lists of sessions plus a chart.js line chart of the
// average and adjusted-average rates over time, filterable by tag.
//
// Rendering is a pure function of the record groups. Given the same groups
// the output bytes are identical, so the view can be regenerated after
// every store mutation without churning the file.
package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/mkolge/apm-monitor/pkg/logger"
	"github.com/mkolge/apm-monitor/pkg/report"
)

// Renderer writes the aggregate view to a fixed path. It implements
// report.Renderer.
type Renderer struct {
	path   string
	tmpl   *template.Template
	logger logger.Logger
}

// New creates a renderer that writes the view to the given path, normally
// index.html inside the reports directory.
func New(path string, log logger.Logger) (*Renderer, error) {
	tmpl, err := template.New("dashboard").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}

	return &Renderer{
		path:   path,
		tmpl:   tmpl,
		logger: log,
	}, nil
}

// Path returns the location of the rendered view.
func (r *Renderer) Path() string {
	return r.path
}

// Render regenerates the view from the given record groups.
func (r *Renderer) Render(groups []report.TagGroup) error {
	data, err := buildViewData(groups)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render dashboard: %w", err)
	}

	if err := os.WriteFile(r.path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write dashboard: %w", err)
	}

	r.logger.Debug("dashboard regenerated",
		"path", r.path,
		"tags", len(groups))

	return nil
}

// sessionView is one list entry.
type sessionView struct {
	ID          string
	CompletedAt string
	AverageRate int
}

// groupView is one tag section.
type groupView struct {
	Tag      string
	Sessions []sessionView
}

// chartPoint is one sample in the chart series.
type chartPoint struct {
	Label        string  `json:"label"`
	AverageRate  int     `json:"average_rate"`
	AdjustedRate int     `json:"average_adjusted_rate"`
	ScaleFactor  float64 `json:"scale_factor"`
}

// viewData is the template input.
type viewData struct {
	Groups     []groupView
	Tags       []string
	SeriesJSON template.JS
}

func buildViewData(groups []report.TagGroup) (viewData, error) {
	data := viewData{
		Groups: make([]groupView, 0, len(groups)),
		Tags:   make([]string, 0, len(groups)),
	}

	// Map keys marshal in sorted order, and the store hands groups over
	// tag-sorted with completion-ordered records, so the series encoding
	// is deterministic.
	series := make(map[string][]chartPoint, len(groups))

	for _, g := range groups {
		gv := groupView{Tag: g.Tag, Sessions: make([]sessionView, 0, len(g.Records))}
		points := make([]chartPoint, 0, len(g.Records))

		for _, rec := range g.Records {
			gv.Sessions = append(gv.Sessions, sessionView{
				ID:          rec.ID,
				CompletedAt: rec.CompletedAt.Format("2006-01-02 15:04"),
				AverageRate: rec.AverageRate,
			})
			points = append(points, chartPoint{
				Label:        rec.CompletedAt.Format(time.RFC3339),
				AverageRate:  rec.AverageRate,
				AdjustedRate: rec.AverageAdjustedRate,
				ScaleFactor:  rec.ScaleFactor,
			})
		}

		data.Groups = append(data.Groups, gv)
		data.Tags = append(data.Tags, g.Tag)
		series[g.Tag] = points
	}

	encoded, err := json.Marshal(series)
	if err != nil {
		return viewData{}, fmt.Errorf("failed to encode chart series: %w", err)
	}
	data.SeriesJSON = template.JS(encoded) // #nosec G203 -- encoded by json.Marshal above

	return data, nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>APM Monitor Reports</title>
<script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 2em; background: #f4f4f9; color: #333; }
h1, h2, h3 { color: #444; }
.container { display: flex; flex-wrap: wrap; gap: 2em; }
.reports-list { flex: 1; min-width: 350px; }
.chart-container { flex: 2; min-width: 400px; background: #fff; padding: 1em; border-radius: 8px; box-shadow: 0 0 10px rgba(0,0,0,0.1); }
ul { list-style-type: none; padding: 0; }
li { margin-bottom: 0.5em; padding: 0.5em; background: #fff; border-radius: 4px; }
a { text-decoration: none; color: #007bff; }
a:hover { text-decoration: underline; }
.tag-group { margin-bottom: 1.5em; border: 1px solid #ddd; padding: 1em; border-radius: 8px; background: #fafafa; }
.chart-controls { margin-bottom: 1em; }
.chart-controls label { font-weight: bold; margin-right: 10px; }
.chart-controls select { padding: 5px; border-radius: 4px; border: 1px solid #ccc; }
</style>
</head>
<body>
<h1>Session Reports</h1>
<div class="container">
<div class="reports-list">
<h2>Saved Sessions</h2>
{{range .Groups}}<div class="tag-group">
<h3>Tag: {{.Tag}}</h3>
<ul>
{{range .Sessions}}<li><a href="{{.ID}}">{{.CompletedAt}}</a> - Avg APM: {{.AverageRate}}</li>
{{end}}</ul>
</div>
{{end}}</div>
<div class="chart-container">
<div class="chart-controls">
<label for="tagFilter">Filter Chart by Tag:</label>
<select id="tagFilter">
<option value="all">All Tags</option>
{{range .Tags}}<option value="{{.}}">{{.}}</option>
{{end}}</select>
</div>
<h2>Historical Performance</h2>
<canvas id="rateChart"></canvas>
</div>
</div>
<script>
const seriesByTag = {{.SeriesJSON}};
let rateChart;

function pointsFor(selectedTag) {
    if (selectedTag !== 'all') {
        return seriesByTag[selectedTag] || [];
    }
    const all = [];
    for (const tag of Object.keys(seriesByTag)) {
        all.push(...seriesByTag[tag]);
    }
    all.sort((a, b) => new Date(a.label) - new Date(b.label));
    return all;
}

function updateChart(selectedTag) {
    const points = pointsFor(selectedTag);
    rateChart.data.labels = points.map(p => new Date(p.label).toLocaleString());
    rateChart.data.datasets[0].data = points.map(p => p.average_rate);
    rateChart.data.datasets[1].data = points.map(p => p.average_adjusted_rate);
    rateChart.update();
}

document.addEventListener('DOMContentLoaded', () => {
    const ctx = document.getElementById('rateChart').getContext('2d');
    rateChart = new Chart(ctx, {
        type: 'line',
        data: {
            labels: [],
            datasets: [
                { label: 'Average APM', data: [], borderColor: 'rgba(75, 192, 192, 1)', tension: 0.1 },
                { label: 'Adjusted Average APM', data: [], borderColor: 'rgba(255, 99, 132, 1)', tension: 0.1 }
            ]
        },
        options: {
            responsive: true,
            scales: {
                x: { title: { display: true, text: 'Session Date' } },
                y: { title: { display: true, text: 'Actions per Minute' } }
            }
        }
    });

    updateChart('all');
    document.getElementById('tagFilter').addEventListener('change', (event) => {
        updateChart(event.target.value);
    });
});
</script>
</body>
</html>
`
