// Package domain contains core business types and interfaces.
//
// This file defines the analysis result produced by the heuristic page
// scorer. Results are transient value objects: they are returned to the
// caller and persisted as a tool-usage log row for history, never
// re-validated afterwards.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ToolType identifies which analysis tool produced a result.
type ToolType string

const (
	ToolTypeSEOAnalysis ToolType = "seo_analysis"
	ToolTypeMetaCheck   ToolType = "meta_check"
	ToolTypeLinkAudit   ToolType = "link_audit"
)

// FieldStatus grades an extracted meta field against fixed thresholds.
type FieldStatus string

const (
	FieldStatusGood    FieldStatus = "good"
	FieldStatusWarning FieldStatus = "warning"
	FieldStatusMissing FieldStatus = "missing"
)

// AnalysisResult is the composite output of a page analysis.
//
// Not every section reports a real measurement: link health and page speed
// are simulated placeholders and carry Simulated=true so callers can tell
// fabricated numbers from extracted ones.
type AnalysisResult struct {
	URL          string    `json:"url"`
	ToolType     ToolType  `json:"toolType"`
	AnalyzedAt   time.Time `json:"analyzedAt"`
	OverallScore int       `json:"overallScore"`

	MetaTags        MetaTagsSection   `json:"metaTags"`
	AltText         AltTextSection    `json:"altText"`
	BrokenLinks     LinkHealthSection `json:"brokenLinks"`
	PageSpeed       PageSpeedSection  `json:"pageSpeed"`
	Recommendations []Recommendation  `json:"recommendations"`
}

// MetaTagsSection reports the extracted meta fields and their statuses.
type MetaTagsSection struct {
	Title       MetaField `json:"title"`
	Description MetaField `json:"description"`
	Keywords    MetaField `json:"keywords"`
	Viewport    MetaField `json:"viewport"`
	Robots      MetaField `json:"robots"`
	Canonical   MetaField `json:"canonical"`
	OGTitle     string    `json:"ogTitle,omitempty"`
	OGDesc      string    `json:"ogDescription,omitempty"`
	OGImage     string    `json:"ogImage,omitempty"`
}

// MetaField is a single extracted meta value with its grade.
type MetaField struct {
	Value  string      `json:"value"`
	Status FieldStatus `json:"status"`
}

// AltTextSection reports image alt attribute coverage.
type AltTextSection struct {
	TotalImages int `json:"totalImages"`
	WithAlt     int `json:"withAlt"`
	MissingAlt  int `json:"missingAlt"`
	HealthScore int `json:"healthScore"` // 100 when the page has no images
}

// LinkHealthSection reports discovered links. Broken and redirect counts
// are simulated from fixed ratios; no request is made to any discovered
// link.
type LinkHealthSection struct {
	TotalLinks  int  `json:"totalLinks"`
	Broken      int  `json:"broken"`
	Redirects   int  `json:"redirects"`
	HealthScore int  `json:"healthScore"`
	Simulated   bool `json:"simulated"`
}

// PageSpeedSection is a simulated performance sub-score.
type PageSpeedSection struct {
	Score       int     `json:"score"`
	LoadTimeSec float64 `json:"loadTimeSec"`
	Simulated   bool    `json:"simulated"`
}

// Recommendation is a canned advisory string keyed by category.
type Recommendation struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// ToolRun is one row of a tenant's analysis history: the summary of a past
// run without the full result payload.
type ToolRun struct {
	ID           uuid.UUID `json:"id"`
	ToolType     ToolType  `json:"toolType"`
	URL          string    `json:"url"`
	OverallScore int       `json:"overallScore"`
	CreatedAt    time.Time `json:"createdAt"`
}
