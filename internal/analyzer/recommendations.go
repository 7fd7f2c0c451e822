package analyzer

import "github.com/ranklens/ranklens/internal/domain"

// Recommendation copy. These strings are product copy preserved verbatim
// for behavioral compatibility; they are not derived from measured signal.
const (
	recTitleMissing       = "Add a <title> tag. Pages without titles are poorly represented in search results."
	recTitleLength        = "Adjust your title length. Titles between 10 and 60 characters display best in search results."
	recDescriptionMissing = "Add a meta description. Search engines use it for the result snippet."
	recDescriptionLength  = "Adjust your meta description length. Descriptions between 50 and 160 characters display best."
	recViewportMissing    = "Add a viewport meta tag so the page renders correctly on mobile devices."
	recRobotsMissing      = "Add a robots meta tag to control how search engines crawl this page."
	recRobotsNoindex      = "This page is set to noindex and will not appear in search results. Remove noindex if unintended."
	recCanonicalMissing   = "Add a canonical link tag to avoid duplicate content penalties."
	recAltText            = "Add alt text to your images. Images with alt attributes improve accessibility and image search ranking."
	recBrokenLinks        = "Fix broken links. Dead links hurt both user experience and crawl efficiency."

	recScoreLow  = "Your page needs significant SEO work. Start with the highest-impact items above."
	recScoreMid  = "Your page has a reasonable SEO foundation. Address the remaining items to improve ranking."
	recScoreHigh = "Your page is in good SEO shape. Keep content fresh to maintain ranking."
)

// buildRecommendations walks the computed statuses and appends the canned
// string for each below-good field, plus one general recommendation keyed
// off the overall score band.
func buildRecommendations(result *domain.AnalysisResult) []domain.Recommendation {
	var recs []domain.Recommendation
	add := func(category, message string) {
		recs = append(recs, domain.Recommendation{Category: category, Message: message})
	}

	meta := result.MetaTags
	switch meta.Title.Status {
	case domain.FieldStatusMissing:
		add("Meta Tags", recTitleMissing)
	case domain.FieldStatusWarning:
		add("Meta Tags", recTitleLength)
	}
	switch meta.Description.Status {
	case domain.FieldStatusMissing:
		add("Meta Tags", recDescriptionMissing)
	case domain.FieldStatusWarning:
		add("Meta Tags", recDescriptionLength)
	}
	if meta.Viewport.Status == domain.FieldStatusMissing {
		add("Meta Tags", recViewportMissing)
	}
	switch meta.Robots.Status {
	case domain.FieldStatusMissing:
		add("Meta Tags", recRobotsMissing)
	case domain.FieldStatusWarning:
		add("Meta Tags", recRobotsNoindex)
	}
	if meta.Canonical.Status == domain.FieldStatusMissing {
		add("Meta Tags", recCanonicalMissing)
	}

	if result.AltText.TotalImages > 0 && result.AltText.MissingAlt > 0 {
		add("Accessibility", recAltText)
	}
	if result.BrokenLinks.Broken > 0 {
		add("Links", recBrokenLinks)
	}

	switch {
	case result.OverallScore < 50:
		add("General", recScoreLow)
	case result.OverallScore < 80:
		add("General", recScoreMid)
	default:
		add("General", recScoreHigh)
	}

	return recs
}
