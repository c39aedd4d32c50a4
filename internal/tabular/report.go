package tabular

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Data Analysis Report - {{.Filename}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 40px; color: #222; }
h1 { border-bottom: 2px solid #444; padding-bottom: 8px; }
h2 { margin-top: 32px; }
table { border-collapse: collapse; margin-top: 12px; }
th, td { border: 1px solid #bbb; padding: 6px 12px; text-align: left; }
th { background: #f0f0f0; }
.meta { color: #666; font-size: 0.9em; }
</style>
</head>
<body>
<h1>Data Analysis Report</h1>
<p class="meta">File: {{.Filename}} &middot; Generated: {{.GeneratedAt}}</p>

<h2>Overview</h2>
<table>
<tr><th>Rows</th><td>{{.Stats.Rows}}</td></tr>
<tr><th>Columns</th><td>{{.Stats.Cols}}</td></tr>
<tr><th>Memory (bytes)</th><td>{{.Stats.MemoryBytes}}</td></tr>
</table>

<h2>Numeric Columns</h2>
<table>
<tr><th>Column</th><th>Count</th><th>Mean</th><th>Median</th><th>Std</th><th>Min</th><th>Max</th></tr>
{{range $name, $s := .Stats.Numeric}}<tr><td>{{$name}}</td><td>{{$s.Count}}</td><td>{{printf "%.2f" $s.Mean}}</td><td>{{printf "%.2f" $s.Median}}</td><td>{{printf "%.2f" $s.StdDev}}</td><td>{{printf "%.2f" $s.Min}}</td><td>{{printf "%.2f" $s.Max}}</td></tr>
{{end}}</table>

<h2>Categorical Columns</h2>
<table>
<tr><th>Column</th><th>Top Values</th></tr>
{{range $name, $vals := .Stats.Categorical}}<tr><td>{{$name}}</td><td>{{range $vals}}{{.Value}} ({{.Count}}) {{end}}</td></tr>
{{end}}</table>

<h2>Data Quality</h2>
<table>
<tr><th>Duplicate Rows</th><td>{{.Quality.Duplicates.Count}} ({{printf "%.1f" .Quality.Duplicates.Percentage}}%)</td></tr>
</table>

<h3>Missing Values</h3>
<table>
<tr><th>Column</th><th>Count</th><th>Percentage</th></tr>
{{range $name, $m := .Quality.Missing}}<tr><td>{{$name}}</td><td>{{$m.Count}}</td><td>{{printf "%.1f" $m.Percentage}}%</td></tr>
{{end}}</table>

<h3>Outliers (1.5 &times; IQR)</h3>
<table>
<tr><th>Column</th><th>Count</th><th>Lower Bound</th><th>Upper Bound</th></tr>
{{range $name, $o := .Quality.Outliers}}<tr><td>{{$name}}</td><td>{{$o.Count}}</td><td>{{printf "%.2f" $o.LowerBound}}</td><td>{{printf "%.2f" $o.UpperBound}}</td></tr>
{{end}}</table>

</body>
</html>
`))

// RenderHTMLReport renders statistics and quality findings into a
// self-contained HTML document.
func RenderHTMLReport(filename string, s *Statistics, q *Quality) (string, error) {
	var buf bytes.Buffer
	err := reportTemplate.Execute(&buf, struct {
		Filename    string
		GeneratedAt string
		Stats       *Statistics
		Quality     *Quality
	}{
		Filename:    filename,
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
		Stats:       s,
		Quality:     q,
	})
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}
