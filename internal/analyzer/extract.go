package analyzer

import (
	"regexp"
	"strings"

	"github.com/ranklens/ranklens/internal/domain"
)

// page holds the raw fields pulled out of an HTML document.
type page struct {
	title       string
	description string
	keywords    string
	viewport    string
	robots      string
	canonical   string
	ogTitle     string
	ogDesc      string
	ogImage     string
	links       []string
	images      []image
}

type image struct {
	src    string
	alt    string
	hasAlt bool
}

func (p *page) imagesWithAlt() int {
	count := 0
	for _, img := range p.images {
		if img.hasAlt && strings.TrimSpace(img.alt) != "" {
			count++
		}
	}
	return count
}

// The extraction deliberately uses regular expressions rather than an HTML
// parser, matching the scraping behavior of the rest of the platform.
// Attribute order varies across real pages, so meta/link lookups try both
// name-first and content-first forms.
var (
	titleRe  = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	anchorRe = regexp.MustCompile(`(?i)<a\s[^>]*?href\s*=\s*["']([^"']+)["']`)
	imgRe    = regexp.MustCompile(`(?i)<img\b[^>]*>`)
	srcRe    = regexp.MustCompile(`(?i)\bsrc\s*=\s*["']([^"']*)["']`)
	altRe    = regexp.MustCompile(`(?i)\balt\s*=\s*["']([^"']*)["']`)
)

// extractPage pulls all fields from an HTML document.
func extractPage(html string) *page {
	p := &page{
		title:       extractTitle(html),
		description: metaContent(html, "description"),
		keywords:    metaContent(html, "keywords"),
		viewport:    metaContent(html, "viewport"),
		robots:      metaContent(html, "robots"),
		canonical:   linkHref(html, "canonical"),
		ogTitle:     metaProperty(html, "og:title"),
		ogDesc:      metaProperty(html, "og:description"),
		ogImage:     metaProperty(html, "og:image"),
	}

	for _, match := range anchorRe.FindAllStringSubmatch(html, -1) {
		href := strings.TrimSpace(match[1])
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			continue
		}
		p.links = append(p.links, href)
	}

	for _, tag := range imgRe.FindAllString(html, -1) {
		img := image{}
		if m := srcRe.FindStringSubmatch(tag); m != nil {
			img.src = m[1]
		}
		if m := altRe.FindStringSubmatch(tag); m != nil {
			img.alt = m[1]
			img.hasAlt = true
		}
		p.images = append(p.images, img)
	}

	return p
}

func extractTitle(html string) string {
	if m := titleRe.FindStringSubmatch(html); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// metaContent extracts the content attribute of a named meta tag, trying
// both attribute orders.
func metaContent(html, name string) string {
	nameFirst := regexp.MustCompile(`(?is)<meta[^>]+name\s*=\s*["']` + regexp.QuoteMeta(name) + `["'][^>]*?content\s*=\s*["'](.*?)["']`)
	if m := nameFirst.FindStringSubmatch(html); m != nil {
		return strings.TrimSpace(m[1])
	}
	contentFirst := regexp.MustCompile(`(?is)<meta[^>]+content\s*=\s*["'](.*?)["'][^>]*?name\s*=\s*["']` + regexp.QuoteMeta(name) + `["']`)
	if m := contentFirst.FindStringSubmatch(html); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// metaProperty extracts the content attribute of a property meta tag
// (Open Graph), trying both attribute orders.
func metaProperty(html, property string) string {
	propFirst := regexp.MustCompile(`(?is)<meta[^>]+property\s*=\s*["']` + regexp.QuoteMeta(property) + `["'][^>]*?content\s*=\s*["'](.*?)["']`)
	if m := propFirst.FindStringSubmatch(html); m != nil {
		return strings.TrimSpace(m[1])
	}
	contentFirst := regexp.MustCompile(`(?is)<meta[^>]+content\s*=\s*["'](.*?)["'][^>]*?property\s*=\s*["']` + regexp.QuoteMeta(property) + `["']`)
	if m := contentFirst.FindStringSubmatch(html); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// linkHref extracts the href of a link tag by rel value, trying both
// attribute orders.
func linkHref(html, rel string) string {
	relFirst := regexp.MustCompile(`(?is)<link[^>]+rel\s*=\s*["']` + regexp.QuoteMeta(rel) + `["'][^>]*?href\s*=\s*["'](.*?)["']`)
	if m := relFirst.FindStringSubmatch(html); m != nil {
		return strings.TrimSpace(m[1])
	}
	hrefFirst := regexp.MustCompile(`(?is)<link[^>]+href\s*=\s*["'](.*?)["'][^>]*?rel\s*=\s*["']` + regexp.QuoteMeta(rel) + `["']`)
	if m := hrefFirst.FindStringSubmatch(html); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// Meta field grading thresholds. These values are product copy decisions
// preserved for output compatibility.
const (
	titleMinLen       = 10
	titleMaxLen       = 60
	descriptionMinLen = 50
	descriptionMaxLen = 160
)

// gradeMetaTags grades each extracted field against its fixed thresholds.
func gradeMetaTags(p *page) domain.MetaTagsSection {
	meta := domain.MetaTagsSection{
		OGTitle: p.ogTitle,
		OGDesc:  p.ogDesc,
		OGImage: p.ogImage,
	}

	meta.Title = domain.MetaField{Value: p.title, Status: gradeTitle(p.title)}
	meta.Description = domain.MetaField{Value: p.description, Status: gradeDescription(p.description)}
	meta.Keywords = domain.MetaField{Value: p.keywords, Status: gradePresence(p.keywords)}
	meta.Viewport = domain.MetaField{Value: p.viewport, Status: gradePresence(p.viewport)}
	meta.Canonical = domain.MetaField{Value: p.canonical, Status: gradePresence(p.canonical)}

	// Robots is good when present and not blocking indexing.
	switch {
	case p.robots == "":
		meta.Robots = domain.MetaField{Status: domain.FieldStatusMissing}
	case strings.Contains(strings.ToLower(p.robots), "noindex"):
		meta.Robots = domain.MetaField{Value: p.robots, Status: domain.FieldStatusWarning}
	default:
		meta.Robots = domain.MetaField{Value: p.robots, Status: domain.FieldStatusGood}
	}

	return meta
}

// gradeTitle: good when 10 < len <= 60 (exclusive bottom, inclusive top),
// warning when present but outside the band, missing when empty.
func gradeTitle(value string) domain.FieldStatus {
	n := len(value)
	if n == 0 {
		return domain.FieldStatusMissing
	}
	if n > titleMinLen && n <= titleMaxLen {
		return domain.FieldStatusGood
	}
	return domain.FieldStatusWarning
}

// gradeDescription: good when 50 <= len <= 160 inclusive.
func gradeDescription(value string) domain.FieldStatus {
	n := len(value)
	if n == 0 {
		return domain.FieldStatusMissing
	}
	if n >= descriptionMinLen && n <= descriptionMaxLen {
		return domain.FieldStatusGood
	}
	return domain.FieldStatusWarning
}

func gradePresence(value string) domain.FieldStatus {
	if value == "" {
		return domain.FieldStatusMissing
	}
	return domain.FieldStatusGood
}
