package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReportFormat represents the output format of a generated report.
type ReportFormat string

const (
	ReportFormatHTML ReportFormat = "html"
	ReportFormatPDF  ReportFormat = "pdf"
)

// Valid returns true for a supported report format.
func (f ReportFormat) Valid() bool {
	return f == ReportFormatHTML || f == ReportFormatPDF
}

// ContentType returns the MIME type for the format.
func (f ReportFormat) ContentType() string {
	if f == ReportFormatPDF {
		return "application/pdf"
	}
	return "text/html; charset=utf-8"
}

// Extension returns the file extension for the format, without the dot.
func (f ReportFormat) Extension() string {
	return string(f)
}

// Report represents a generated analysis report. The rendered document is
// stored alongside the row so downloads never re-render.
type Report struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProjectID uuid.UUID
	Title     string
	Format    ReportFormat
	Content   []byte
	CreatedAt time.Time
}

// ReportData bundles everything the renderers need to produce a document.
type ReportData struct {
	Title       string
	ProjectName string
	ProjectURL  string
	OwnerName   string
	GeneratedAt time.Time
	Analyses    []AnalysisResult
}
