package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"

	"github.com/ranklens/ranklens/internal/domain"
)

// =============================================================================
// HTML Generator
// =============================================================================

// HTMLGenerator renders a self-contained HTML document. The output embeds its
// styles so the file can be saved or emailed without external assets.
type HTMLGenerator struct {
	tmpl *template.Template
}

// NewHTMLGenerator creates a new HTML report generator.
func NewHTMLGenerator() *HTMLGenerator {
	return &HTMLGenerator{
		tmpl: template.Must(template.New("report").Funcs(template.FuncMap{
			"statusLabel": StatusLabel,
			"statusColor": StatusColor,
			"scoreColor":  ScoreColor,
			"formatDate":  FormatDate,
			"truncate":    TruncateText,
			"add1":        func(i int) int { return i + 1 },
		}).Parse(reportTemplate)),
	}
}

// Format returns the output format of this generator.
func (g *HTMLGenerator) Format() domain.ReportFormat {
	return domain.ReportFormatHTML
}

// Generate renders the report and writes it to the provided writer.
func (g *HTMLGenerator) Generate(ctx context.Context, data *domain.ReportData, w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return 0, fmt.Errorf("render template: %w", err)
	}

	n, err := w.Write(buf.Bytes())
	if err != nil {
		return int64(n), fmt.Errorf("write output: %w", err)
	}
	return int64(n), nil
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>SEO Analysis Report - {{.Title}}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; color: #1F2937; margin: 0; }
  .header { background: #4F46E5; color: #fff; padding: 32px 40px; }
  .header h1 { margin: 0 0 8px; font-size: 28px; }
  .header p { margin: 0; opacity: .85; }
  .content { padding: 24px 40px; }
  .meta { color: #6B7280; font-size: 13px; margin-bottom: 24px; }
  .analysis { border: 1px solid #E5E7EB; border-radius: 8px; padding: 20px; margin-bottom: 24px; }
  .analysis h2 { margin-top: 0; font-size: 18px; word-break: break-all; }
  .score { font-size: 22px; font-weight: 700; }
  table { border-collapse: collapse; width: 100%; margin: 12px 0; font-size: 13px; }
  th, td { border: 1px solid #E5E7EB; padding: 6px 10px; text-align: left; }
  th { background: #F9FAFB; }
  .badge { font-weight: 600; }
  .estimated { color: #6B7280; font-size: 12px; }
  .rec { margin: 6px 0; font-size: 13px; }
  .rec b { color: #4F46E5; }
</style>
</head>
<body>
<div class="header">
  <h1>SEO Analysis Report</h1>
  <p>{{.Title}}</p>
</div>
<div class="content">
  <p class="meta">
    Project: {{.ProjectName}}{{if .ProjectURL}} ({{.ProjectURL}}){{end}}<br>
    Prepared for: {{.OwnerName}}<br>
    Generated: {{formatDate .GeneratedAt}}
  </p>

  {{range $i, $a := .Analyses}}
  <div class="analysis">
    <h2>Page {{add1 $i}}: {{$a.URL}}</h2>
    <p class="score" style="color: {{scoreColor $a.OverallScore}}">Overall Score: {{$a.OverallScore}} / 100</p>

    <h3>Meta Tags</h3>
    <table>
      <tr><th>Field</th><th>Status</th><th>Value</th></tr>
      <tr><td>Title</td><td class="badge" style="color: {{statusColor $a.MetaTags.Title.Status}}">{{statusLabel $a.MetaTags.Title.Status}}</td><td>{{truncate $a.MetaTags.Title.Value 120}}</td></tr>
      <tr><td>Description</td><td class="badge" style="color: {{statusColor $a.MetaTags.Description.Status}}">{{statusLabel $a.MetaTags.Description.Status}}</td><td>{{truncate $a.MetaTags.Description.Value 120}}</td></tr>
      <tr><td>Keywords</td><td class="badge" style="color: {{statusColor $a.MetaTags.Keywords.Status}}">{{statusLabel $a.MetaTags.Keywords.Status}}</td><td>{{truncate $a.MetaTags.Keywords.Value 120}}</td></tr>
      <tr><td>Viewport</td><td class="badge" style="color: {{statusColor $a.MetaTags.Viewport.Status}}">{{statusLabel $a.MetaTags.Viewport.Status}}</td><td>{{truncate $a.MetaTags.Viewport.Value 120}}</td></tr>
      <tr><td>Robots</td><td class="badge" style="color: {{statusColor $a.MetaTags.Robots.Status}}">{{statusLabel $a.MetaTags.Robots.Status}}</td><td>{{truncate $a.MetaTags.Robots.Value 120}}</td></tr>
      <tr><td>Canonical</td><td class="badge" style="color: {{statusColor $a.MetaTags.Canonical.Status}}">{{statusLabel $a.MetaTags.Canonical.Status}}</td><td>{{truncate $a.MetaTags.Canonical.Value 120}}</td></tr>
    </table>

    <h3>Page Health</h3>
    <table>
      <tr><th>Check</th><th>Score</th><th>Detail</th></tr>
      <tr><td>Image alt coverage</td><td>{{$a.AltText.HealthScore}}%</td><td>{{$a.AltText.WithAlt}} of {{$a.AltText.TotalImages}} images have alt text</td></tr>
      <tr><td>Link health</td><td>{{$a.BrokenLinks.HealthScore}}%</td><td>{{$a.BrokenLinks.TotalLinks}} links, {{$a.BrokenLinks.Broken}} broken, {{$a.BrokenLinks.Redirects}} redirects{{if $a.BrokenLinks.Simulated}} <span class="estimated">[estimated]</span>{{end}}</td></tr>
      <tr><td>Page speed</td><td>{{$a.PageSpeed.Score}}</td><td>{{printf "%.1f" $a.PageSpeed.LoadTimeSec}}s load time{{if $a.PageSpeed.Simulated}} <span class="estimated">[estimated]</span>{{end}}</td></tr>
    </table>

    <h3>Recommendations</h3>
    {{if $a.Recommendations}}
      {{range $a.Recommendations}}<p class="rec"><b>{{.Category}}</b> {{.Message}}</p>{{end}}
    {{else}}
      <p class="rec">No recommendations for this page.</p>
    {{end}}
  </div>
  {{end}}
</div>
</body>
</html>
`
