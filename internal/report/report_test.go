package report

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranklens/ranklens/internal/domain"
)

func sampleReportData() *domain.ReportData {
	return &domain.ReportData{
		Title:       "Monthly SEO Report",
		ProjectName: "Acme Store",
		ProjectURL:  "https://acme.example.com",
		OwnerName:   "Jane Smith",
		GeneratedAt: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
		Analyses: []domain.AnalysisResult{
			{
				URL:          "https://acme.example.com/products",
				ToolType:     domain.ToolTypeSEOAnalysis,
				OverallScore: 72,
				MetaTags: domain.MetaTagsSection{
					Title:       domain.MetaField{Value: "Products - Acme Store", Status: domain.FieldStatusGood},
					Description: domain.MetaField{Status: domain.FieldStatusMissing},
				},
				AltText:     domain.AltTextSection{TotalImages: 4, WithAlt: 3, MissingAlt: 1, HealthScore: 75},
				BrokenLinks: domain.LinkHealthSection{TotalLinks: 20, Broken: 1, Redirects: 0, HealthScore: 95, Simulated: true},
				PageSpeed:   domain.PageSpeedSection{Score: 80, LoadTimeSec: 2.1, Simulated: true},
				Recommendations: []domain.Recommendation{
					{Category: "Meta Tags", Message: "Add a meta description. Search engines use it for the result snippet."},
				},
			},
		},
	}
}

func TestHTMLGenerator_Generate(t *testing.T) {
	var buf bytes.Buffer
	n, err := NewHTMLGenerator().Generate(context.Background(), sampleReportData(), &buf)

	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	html := buf.String()
	assert.Contains(t, html, "Monthly SEO Report")
	assert.Contains(t, html, "https://acme.example.com/products")
	assert.Contains(t, html, "Overall Score: 72")
	assert.Contains(t, html, "[estimated]")
	assert.Contains(t, html, "Add a meta description")
}

func TestHTMLGenerator_EscapesUserContent(t *testing.T) {
	data := sampleReportData()
	data.ProjectName = `<script>alert("x")</script>`

	var buf bytes.Buffer
	_, err := NewHTMLGenerator().Generate(context.Background(), data, &buf)

	require.NoError(t, err)
	assert.NotContains(t, buf.String(), `<script>alert`)
}

func TestPDFGenerator_Generate(t *testing.T) {
	var buf bytes.Buffer
	n, err := NewPDFGenerator().Generate(context.Background(), sampleReportData(), &buf)

	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"), "output should be a PDF document")
}

func TestForFormat(t *testing.T) {
	assert.Equal(t, domain.ReportFormatPDF, ForFormat(domain.ReportFormatPDF).Format())
	assert.Equal(t, domain.ReportFormatHTML, ForFormat(domain.ReportFormatHTML).Format())
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Good", StatusLabel(domain.FieldStatusGood))
	assert.Equal(t, "Warning", StatusLabel(domain.FieldStatusWarning))
	assert.Equal(t, "Missing", StatusLabel(domain.FieldStatusMissing))
}

func TestScoreColor_Bands(t *testing.T) {
	assert.Equal(t, StatusColors[domain.FieldStatusMissing], ScoreColor(49))
	assert.Equal(t, StatusColors[domain.FieldStatusWarning], ScoreColor(50))
	assert.Equal(t, StatusColors[domain.FieldStatusWarning], ScoreColor(79))
	assert.Equal(t, StatusColors[domain.FieldStatusGood], ScoreColor(80))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "very lo...", TruncateText("very long text here", 10))
}
