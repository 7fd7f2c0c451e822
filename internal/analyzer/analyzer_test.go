package analyzer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranklens/ranklens/internal/domain"
)

func testAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewWithDeps(http.DefaultClient, NewSimulator(1), logger)
}

func serveHTML(t *testing.T, html string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// =============================================================================
// Error path
// =============================================================================

func TestAnalyze_NotFoundYieldsZeroedResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	result := testAnalyzer(t).Analyze(context.Background(), srv.URL, domain.ToolTypeSEOAnalysis)

	assert.Equal(t, 0, result.OverallScore)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "Error", result.Recommendations[0].Category)
	assert.Equal(t, domain.FieldStatusMissing, result.MetaTags.Title.Status)
}

func TestAnalyze_UnreachableHostYieldsZeroedResult(t *testing.T) {
	result := testAnalyzer(t).Analyze(context.Background(), "http://127.0.0.1:1", domain.ToolTypeSEOAnalysis)

	assert.Equal(t, 0, result.OverallScore)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "Error", result.Recommendations[0].Category)
}

// =============================================================================
// Alt text coverage
// =============================================================================

func TestAnalyze_AltHealthNoImagesIsExactly100(t *testing.T) {
	srv := serveHTML(t, `<html><head><title>A perfectly fine title</title></head><body><p>hello</p></body></html>`)

	result := testAnalyzer(t).Analyze(context.Background(), srv.URL, domain.ToolTypeSEOAnalysis)

	assert.Equal(t, 0, result.AltText.TotalImages)
	assert.Equal(t, 100, result.AltText.HealthScore)
}

func TestAltHealthScore_Formula(t *testing.T) {
	tests := []struct {
		total, withAlt, want int
	}{
		{0, 0, 100},
		{1, 0, 0},
		{1, 1, 100},
		{4, 3, 75},
		{3, 1, 33}, // round(33.33)
		{3, 2, 67}, // round(66.67)
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.withAlt, tt.total), func(t *testing.T) {
			assert.Equal(t, tt.want, altHealthScore(tt.total, tt.withAlt))
		})
	}
}

func TestAnalyze_CountsOnlyNonEmptyAlt(t *testing.T) {
	srv := serveHTML(t, `<html><body>
<img src="/a.png" alt="A chart">
<img src="/b.png" alt="">
<img src="/c.png">
</body></html>`)

	result := testAnalyzer(t).Analyze(context.Background(), srv.URL, domain.ToolTypeSEOAnalysis)

	assert.Equal(t, 3, result.AltText.TotalImages)
	assert.Equal(t, 1, result.AltText.WithAlt)
	assert.Equal(t, 2, result.AltText.MissingAlt)
	assert.Equal(t, 33, result.AltText.HealthScore)
}

// =============================================================================
// Simulated link health
// =============================================================================

func TestSimulator_LinkHealthRatios(t *testing.T) {
	sim := NewSimulator(1)

	tests := []struct {
		total, wantBroken, wantRedirects int
	}{
		{0, 0, 0},
		{10, 0, 0},   // floor(0.8), floor(0.3)
		{13, 1, 0},   // floor(1.04)
		{50, 4, 1},   // floor(4.0), floor(1.5)
		{100, 8, 3},
	}
	for _, tt := range tests {
		broken, redirects := sim.LinkHealth(tt.total)
		assert.Equal(t, tt.wantBroken, broken, "total=%d", tt.total)
		assert.Equal(t, tt.wantRedirects, redirects, "total=%d", tt.total)
	}
}

func TestSimulator_PageSpeedWithinBands(t *testing.T) {
	sim := NewSimulator(42)
	for i := 0; i < 100; i++ {
		score, loadTime := sim.PageSpeed()
		assert.GreaterOrEqual(t, score, speedScoreMin)
		assert.LessOrEqual(t, score, speedScoreMax)
		assert.GreaterOrEqual(t, loadTime, loadTimeMin)
		assert.LessOrEqual(t, loadTime, loadTimeMax)
	}
}

func TestAnalyze_MarksSimulatedSections(t *testing.T) {
	srv := serveHTML(t, `<html><body><a href="/x">x</a></body></html>`)

	result := testAnalyzer(t).Analyze(context.Background(), srv.URL, domain.ToolTypeSEOAnalysis)

	assert.True(t, result.BrokenLinks.Simulated)
	assert.True(t, result.PageSpeed.Simulated)
}

// =============================================================================
// Determinism
// =============================================================================

func TestAnalyze_ExtractionIsDeterministic(t *testing.T) {
	html := `<html><head>
<title>A Great Website For You</title>
<meta name="description" content="This is a description that is long enough to pass checks.">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="robots" content="index, follow">
<link rel="canonical" href="https://example.com/">
</head><body><a href="/a">a</a><img src="/i.png" alt="pic"></body></html>`
	srv := serveHTML(t, html)
	a := testAnalyzer(t)

	first := a.Analyze(context.Background(), srv.URL, domain.ToolTypeSEOAnalysis)
	second := a.Analyze(context.Background(), srv.URL, domain.ToolTypeSEOAnalysis)

	// Everything except the simulated page-speed draw and the timestamp is
	// byte-stable across runs.
	assert.Equal(t, first.MetaTags, second.MetaTags)
	assert.Equal(t, first.AltText, second.AltText)
	assert.Equal(t, first.BrokenLinks, second.BrokenLinks)
	assert.Equal(t, first.OverallScore, second.OverallScore)
}

func TestOverallScore_AllGood(t *testing.T) {
	meta := domain.MetaTagsSection{
		Title:       domain.MetaField{Status: domain.FieldStatusGood},
		Description: domain.MetaField{Status: domain.FieldStatusGood},
		Viewport:    domain.MetaField{Status: domain.FieldStatusGood},
		Robots:      domain.MetaField{Status: domain.FieldStatusGood},
		Canonical:   domain.MetaField{Status: domain.FieldStatusGood},
	}
	// 0.5*100 + 0.3*100 + 0.2*100 = 100
	assert.Equal(t, 100, overallScore(meta, 100, 100))
	// 0.5*100 + 0.3*0 + 0.2*50 = 60
	assert.Equal(t, 60, overallScore(meta, 0, 50))
}

func TestOverallScore_NoGoodFields(t *testing.T) {
	meta := domain.MetaTagsSection{
		Title:       domain.MetaField{Status: domain.FieldStatusMissing},
		Description: domain.MetaField{Status: domain.FieldStatusWarning},
	}
	// 0.5*0 + 0.3*100 + 0.2*100 = 50
	assert.Equal(t, 50, overallScore(meta, 100, 100))
}

// =============================================================================
// End-to-end example
// =============================================================================

func TestAnalyze_EndToEnd(t *testing.T) {
	description := strings.Repeat("d", 58)
	var anchors strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&anchors, `<a href="/page-%d">link</a>`, i)
	}
	html := fmt.Sprintf(`<html><head>
<title>A Great Website For You</title>
<meta name="description" content="%s">
</head><body>%s<img src="/hero.png"></body></html>`, description, anchors.String())
	srv := serveHTML(t, html)

	result := testAnalyzer(t).Analyze(context.Background(), srv.URL, domain.ToolTypeSEOAnalysis)

	// One image, no alt attribute.
	assert.Equal(t, 0, result.AltText.HealthScore)
	// floor(0.08*10) = 0 broken links.
	assert.Equal(t, 10, result.BrokenLinks.TotalLinks)
	assert.Equal(t, 0, result.BrokenLinks.Broken)
	assert.Equal(t, 100, result.BrokenLinks.HealthScore)
	// Title within (10, 60].
	assert.Equal(t, domain.FieldStatusGood, result.MetaTags.Title.Status)
	assert.Equal(t, domain.FieldStatusGood, result.MetaTags.Description.Status)
}

// =============================================================================
// URL normalization
// =============================================================================

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://example.com", normalizeURL("example.com"))
	assert.Equal(t, "http://example.com", normalizeURL("http://example.com"))
	assert.Equal(t, "https://example.com", normalizeURL("  https://example.com  "))
}
