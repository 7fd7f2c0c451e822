package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ranklens/ranklens/internal/domain"
)

func TestExtractPage_AttributeOrderVariants(t *testing.T) {
	html := `<html><head>
<title> Spaced Title </title>
<meta content="content-first description that is written backwards but still valid here." name="description">
<meta name="viewport" content="width=device-width">
<meta property="og:title" content="OG Title">
<meta content="https://example.com/og.png" property="og:image">
<link href="https://example.com/page" rel="canonical">
</head></html>`

	p := extractPage(html)

	assert.Equal(t, "Spaced Title", p.title)
	assert.Equal(t, "content-first description that is written backwards but still valid here.", p.description)
	assert.Equal(t, "width=device-width", p.viewport)
	assert.Equal(t, "OG Title", p.ogTitle)
	assert.Equal(t, "https://example.com/og.png", p.ogImage)
	assert.Equal(t, "https://example.com/page", p.canonical)
}

func TestExtractPage_SkipsNonNavigableAnchors(t *testing.T) {
	html := `<body>
<a href="/real">real</a>
<a href="#section">fragment</a>
<a href="javascript:void(0)">js</a>
<a href="">empty</a>
<a href="https://example.com/other">other</a>
</body>`

	p := extractPage(html)

	assert.Equal(t, []string{"/real", "https://example.com/other"}, p.links)
}

func TestExtractPage_ImagesDistinguishEmptyAltFromAbsentAlt(t *testing.T) {
	html := `<body>
<img src="/a.png" alt="described">
<img alt="" src="/b.png">
<img src="/c.png">
</body>`

	p := extractPage(html)

	assert.Len(t, p.images, 3)
	assert.True(t, p.images[0].hasAlt)
	assert.True(t, p.images[1].hasAlt)
	assert.False(t, p.images[2].hasAlt)
	assert.Equal(t, 1, p.imagesWithAlt())
}

func TestExtractPage_MissingEverything(t *testing.T) {
	p := extractPage(`<html><body><p>bare page</p></body></html>`)

	assert.Empty(t, p.title)
	assert.Empty(t, p.description)
	assert.Empty(t, p.canonical)
	assert.Empty(t, p.links)
	assert.Empty(t, p.images)
}

func TestGradeTitle(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  domain.FieldStatus
	}{
		{"empty", "", domain.FieldStatusMissing},
		{"exactly ten chars is too short", strings.Repeat("t", 10), domain.FieldStatusWarning},
		{"eleven chars is good", strings.Repeat("t", 11), domain.FieldStatusGood},
		{"sixty chars is good", strings.Repeat("t", 60), domain.FieldStatusGood},
		{"sixty one chars is too long", strings.Repeat("t", 61), domain.FieldStatusWarning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gradeTitle(tt.value))
		})
	}
}

func TestGradeDescription(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  domain.FieldStatus
	}{
		{"empty", "", domain.FieldStatusMissing},
		{"forty nine chars is too short", strings.Repeat("d", 49), domain.FieldStatusWarning},
		{"fifty chars is good", strings.Repeat("d", 50), domain.FieldStatusGood},
		{"one sixty chars is good", strings.Repeat("d", 160), domain.FieldStatusGood},
		{"one sixty one chars is too long", strings.Repeat("d", 161), domain.FieldStatusWarning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gradeDescription(tt.value))
		})
	}
}

func TestGradeMetaTags_Robots(t *testing.T) {
	good := extractPage(`<head><meta name="robots" content="index, follow"></head>`)
	assert.Equal(t, domain.FieldStatusGood, gradeMetaTags(good).Robots.Status)

	noindex := extractPage(`<head><meta name="robots" content="noindex, nofollow"></head>`)
	assert.Equal(t, domain.FieldStatusWarning, gradeMetaTags(noindex).Robots.Status)

	absent := extractPage(`<head></head>`)
	assert.Equal(t, domain.FieldStatusMissing, gradeMetaTags(absent).Robots.Status)
}
