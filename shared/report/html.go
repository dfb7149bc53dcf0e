package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/RedJS19J/YT-Analytics/internal/models"
	"github.com/RedJS19J/YT-Analytics/shared/storage"
)

// Generator renders a static HTML summary of the analytics log: accumulated
// totals per channel and category, plus average views per video.
type Generator struct {
	csvLog *storage.AnalyticsLog
}

func NewGenerator(csvLog *storage.AnalyticsLog) *Generator {
	return &Generator{csvLog: csvLog}
}

type channelSummary struct {
	ChannelName string
	Totals      map[models.Category]models.CategoryStats
	Averages    map[models.Category]float64
}

type reportData struct {
	GeneratedAt time.Time
	FirstDate   time.Time
	LastDate    time.Time
	RowCount    int
	Categories  []models.Category
	Channels    []channelSummary
}

// Generate reads the whole analytics log, aggregates it per channel, writes
// the rendered HTML to path and returns the HTML for optional delivery.
func (g *Generator) Generate(path string) (string, error) {
	rows, err := g.csvLog.ReadAll()
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("analytics log %s has no data rows; run a collection first", g.csvLog.Path())
	}

	html, err := render(summarize(rows))
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return html, nil
}

// summarize folds log rows into one summary per channel, preserving the order
// channels first appear in the log.
func summarize(rows []storage.AnalyticsRow) *reportData {
	data := &reportData{
		GeneratedAt: time.Now(),
		FirstDate:   rows[0].Date,
		LastDate:    rows[0].Date,
		RowCount:    len(rows),
		Categories:  models.Categories,
	}

	byChannel := make(map[string]int)
	for _, row := range rows {
		if row.Date.Before(data.FirstDate) {
			data.FirstDate = row.Date
		}
		if row.Date.After(data.LastDate) {
			data.LastDate = row.Date
		}

		idx, ok := byChannel[row.ChannelName]
		if !ok {
			idx = len(data.Channels)
			byChannel[row.ChannelName] = idx
			summary := channelSummary{
				ChannelName: row.ChannelName,
				Totals:      make(map[models.Category]models.CategoryStats, len(models.Categories)),
				Averages:    make(map[models.Category]float64, len(models.Categories)),
			}
			data.Channels = append(data.Channels, summary)
		}

		for _, category := range models.Categories {
			total := data.Channels[idx].Totals[category]
			total.Count += row.Stats[category].Count
			total.ViewSum += row.Stats[category].ViewSum
			data.Channels[idx].Totals[category] = total
		}
	}

	for _, summary := range data.Channels {
		for _, category := range models.Categories {
			total := summary.Totals[category]
			if total.Count > 0 {
				summary.Averages[category] = float64(total.ViewSum) / float64(total.Count)
			}
		}
	}

	return data
}

func render(data *reportData) (string, error) {
	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse report template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>YouTube Channel Analytics</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #ccc; padding: 6px 12px; text-align: right; }
th:first-child, td:first-child { text-align: left; }
caption { font-weight: bold; margin-bottom: 0.5em; text-align: left; }
</style>
</head>
<body>
<h1>YouTube Channel Analytics</h1>
<p>Generated {{.GeneratedAt.Format "2006-01-02 15:04"}} from {{.RowCount}} rows
({{.FirstDate.Format "2006-01-02"}} to {{.LastDate.Format "2006-01-02"}}).</p>

<table>
<caption>Accumulated totals per channel</caption>
<tr><th>Channel</th>{{range .Categories}}<th>{{.}} videos</th><th>{{.}} views</th>{{end}}</tr>
{{- $categories := .Categories}}
{{- range .Channels}}
<tr><td>{{.ChannelName}}</td>{{$ch := .}}{{range $categories}}{{$t := index $ch.Totals .}}<td>{{$t.Count}}</td><td>{{$t.ViewSum}}</td>{{end}}</tr>
{{- end}}
</table>

<table>
<caption>Average views per video</caption>
<tr><th>Channel</th>{{range .Categories}}<th>{{.}}</th>{{end}}</tr>
{{- range .Channels}}
<tr><td>{{.ChannelName}}</td>{{$ch := .}}{{range $categories}}<td>{{printf "%.0f" (index $ch.Averages .)}}</td>{{end}}</tr>
{{- end}}
</table>
</body>
</html>
`
