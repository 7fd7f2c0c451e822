// Package analyzer implements the heuristic page scorer.
//
// Given a URL it fetches the HTML once, extracts meta tags, links, and
// images with regular expressions (no DOM), and produces a composite score.
// Two sections of the result are not measured at all: link health and page
// speed come from the Simulator and are flagged as simulated so callers can
// tell fabricated numbers from extracted ones.
package analyzer

import (
	"context"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/ranklens/ranklens/internal/domain"
)

// maxBodySize caps how much of a page is read. Pages larger than this are
// analyzed from their first 5 MB.
const maxBodySize = 5 << 20

// fetchTimeout bounds the single outbound GET. There are no retries; a
// failed fetch degrades into an empty result.
const fetchTimeout = 15 * time.Second

// Analyzer fetches and scores pages.
type Analyzer struct {
	client    *http.Client
	simulator Simulator
	logger    *slog.Logger
}

// New creates an Analyzer with the default HTTP client and simulator.
func New(logger *slog.Logger) *Analyzer {
	return &Analyzer{
		client:    &http.Client{Timeout: fetchTimeout},
		simulator: NewSimulator(time.Now().UnixNano()),
		logger:    logger,
	}
}

// NewWithDeps creates an Analyzer with explicit dependencies. Used in tests
// and anywhere the simulated metrics need to be deterministic.
func NewWithDeps(client *http.Client, simulator Simulator, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		client:    client,
		simulator: simulator,
		logger:    logger,
	}
}

// Analyze fetches a URL and produces an analysis result. It never returns
// an error: a failed fetch or non-2xx response yields a zeroed result with
// a single Error recommendation.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string, toolType domain.ToolType) *domain.AnalysisResult {
	pageURL := normalizeURL(rawURL)

	html, err := a.fetch(ctx, pageURL)
	if err != nil {
		a.logger.Info("page fetch failed", "url", pageURL, "error", err)
		return failedResult(pageURL, toolType)
	}

	page := extractPage(html)
	result := a.score(pageURL, toolType, page)
	result.Recommendations = buildRecommendations(result)
	return result
}

// fetch performs the single outbound GET with a browser-like header set.
func (a *Analyzer) fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return http.StatusText(e.code)
}

// normalizeURL prepends https:// when the URL has no scheme.
func normalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return rawURL
	}
	if !strings.Contains(rawURL, "://") {
		return "https://" + rawURL
	}
	return rawURL
}

// score grades the extracted page and assembles the result sections.
func (a *Analyzer) score(pageURL string, toolType domain.ToolType, page *page) *domain.AnalysisResult {
	meta := gradeMetaTags(page)

	alt := domain.AltTextSection{
		TotalImages: len(page.images),
		WithAlt:     page.imagesWithAlt(),
	}
	alt.MissingAlt = alt.TotalImages - alt.WithAlt
	alt.HealthScore = altHealthScore(alt.TotalImages, alt.WithAlt)

	broken, redirects := a.simulator.LinkHealth(len(page.links))
	links := domain.LinkHealthSection{
		TotalLinks:  len(page.links),
		Broken:      broken,
		Redirects:   redirects,
		HealthScore: linkHealthScore(len(page.links), broken),
		Simulated:   true,
	}

	speedScore, loadTime := a.simulator.PageSpeed()
	speed := domain.PageSpeedSection{
		Score:       speedScore,
		LoadTimeSec: loadTime,
		Simulated:   true,
	}

	return &domain.AnalysisResult{
		URL:          pageURL,
		ToolType:     toolType,
		AnalyzedAt:   time.Now().UTC(),
		OverallScore: overallScore(meta, alt.HealthScore, links.HealthScore),
		MetaTags:     meta,
		AltText:      alt,
		BrokenLinks:  links,
		PageSpeed:    speed,
	}
}

// altHealthScore is the alt attribute coverage percentage. A page with no
// images scores a full 100.
func altHealthScore(total, withAlt int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(withAlt) / float64(total) * 100))
}

// linkHealthScore is the share of links not flagged broken. A page with no
// links scores a full 100.
func linkHealthScore(total, broken int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(total-broken) / float64(total) * 100))
}

// scoredMetaFields lists the meta fields that feed the composite score.
// Keywords and Open Graph tags are extracted and reported but not scored.
func scoredMetaFields(meta domain.MetaTagsSection) []domain.MetaField {
	return []domain.MetaField{
		meta.Title,
		meta.Description,
		meta.Viewport,
		meta.Robots,
		meta.Canonical,
	}
}

// overallScore combines the three sections: each of the five scored meta
// fields is worth 20 points, and the sections are weighted 50/30/20.
// Deterministic for fixed input HTML; the simulated page-speed sub-score
// deliberately does not participate.
func overallScore(meta domain.MetaTagsSection, altHealth, linkHealth int) int {
	goodCount := 0
	for _, field := range scoredMetaFields(meta) {
		if field.Status == domain.FieldStatusGood {
			goodCount++
		}
	}
	metaScore := float64(goodCount * 20)
	return int(math.Round(metaScore*0.5 + float64(altHealth)*0.3 + float64(linkHealth)*0.2))
}

// failedResult is the single error path: a zeroed result with one Error
// recommendation. Callers always receive a valid object.
func failedResult(pageURL string, toolType domain.ToolType) *domain.AnalysisResult {
	return &domain.AnalysisResult{
		URL:          pageURL,
		ToolType:     toolType,
		AnalyzedAt:   time.Now().UTC(),
		OverallScore: 0,
		MetaTags: domain.MetaTagsSection{
			Title:       domain.MetaField{Status: domain.FieldStatusMissing},
			Description: domain.MetaField{Status: domain.FieldStatusMissing},
			Keywords:    domain.MetaField{Status: domain.FieldStatusMissing},
			Viewport:    domain.MetaField{Status: domain.FieldStatusMissing},
			Robots:      domain.MetaField{Status: domain.FieldStatusMissing},
			Canonical:   domain.MetaField{Status: domain.FieldStatusMissing},
		},
		Recommendations: []domain.Recommendation{
			{
				Category: "Error",
				Message:  "Analysis failed. The page could not be fetched. Check that the URL is correct and the site is reachable.",
			},
		},
	}
}
