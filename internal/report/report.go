// Package report renders analysis reports as HTML or PDF.
//
// A Generator interface is implemented by HTMLGenerator and PDFGenerator,
// along with shared formatting and styling helpers in the RankLens brand
// style.
package report

import (
	"context"
	"io"

	"github.com/ranklens/ranklens/internal/domain"
)

// =============================================================================
// Generator Interface
// =============================================================================

// Generator defines the interface for report generators.
// Implementations handle the specifics of each format (HTML, PDF).
type Generator interface {
	// Generate creates a report and writes it to the provided writer.
	// Returns the number of bytes written and any error.
	Generate(ctx context.Context, data *domain.ReportData, w io.Writer) (int64, error)

	// Format returns the output format of this generator.
	Format() domain.ReportFormat
}

// ForFormat returns the generator for a report format.
func ForFormat(format domain.ReportFormat) Generator {
	if format == domain.ReportFormatPDF {
		return NewPDFGenerator()
	}
	return NewHTMLGenerator()
}

// =============================================================================
// Brand Colors
// =============================================================================

// BrandColors defines the color palette for reports.
var BrandColors = struct {
	Indigo     string // Primary brand color
	TextDark   string // Primary text
	TextMuted  string // Secondary text
	Border     string // Borders and dividers
	Background string // Light background
	White      string // White
}{
	Indigo:     "#4F46E5",
	TextDark:   "#1F2937",
	TextMuted:  "#6B7280",
	Border:     "#E5E7EB",
	Background: "#F9FAFB",
	White:      "#FFFFFF",
}

// =============================================================================
// Status Colors
// =============================================================================

// StatusColors maps field statuses to display colors.
var StatusColors = map[domain.FieldStatus]string{
	domain.FieldStatusGood:    "#16A34A", // Green-600
	domain.FieldStatusWarning: "#F59E0B", // Amber-500
	domain.FieldStatusMissing: "#DC2626", // Red-600
}

// StatusColor returns the color for a field status.
func StatusColor(status domain.FieldStatus) string {
	if color, ok := StatusColors[status]; ok {
		return color
	}
	return BrandColors.TextMuted
}

// StatusLabel returns a human-readable label for a field status.
func StatusLabel(status domain.FieldStatus) string {
	switch status {
	case domain.FieldStatusGood:
		return "Good"
	case domain.FieldStatusWarning:
		return "Warning"
	case domain.FieldStatusMissing:
		return "Missing"
	default:
		return string(status)
	}
}

// ScoreColor maps an overall score to the recommendation band colors.
func ScoreColor(score int) string {
	switch {
	case score < 50:
		return StatusColors[domain.FieldStatusMissing]
	case score < 80:
		return StatusColors[domain.FieldStatusWarning]
	default:
		return StatusColors[domain.FieldStatusGood]
	}
}

// =============================================================================
// Color Conversion Helpers
// =============================================================================

// HexToRGB converts a hex color string to RGB values.
// Input format: "#RRGGBB" or "RRGGBB"
func HexToRGB(hex string) (r, g, b int) {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return 0, 0, 0
	}

	r = hexToDec(hex[0:2])
	g = hexToDec(hex[2:4])
	b = hexToDec(hex[4:6])
	return
}

// hexToDec converts a 2-character hex string to decimal.
func hexToDec(hex string) int {
	val := 0
	for _, c := range hex {
		val *= 16
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	return val
}

// =============================================================================
// Text Formatting Helpers
// =============================================================================

// TruncateText truncates text to a maximum length, adding ellipsis if needed.
func TruncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return text[:maxLen]
	}
	return text[:maxLen-3] + "..."
}

// FormatDate formats a date for display in reports.
func FormatDate(t interface{ Format(string) string }) string {
	return t.Format("January 2, 2006")
}

// FormatDateTime formats a datetime for display in reports.
func FormatDateTime(t interface{ Format(string) string }) string {
	return t.Format("January 2, 2006 at 3:04 PM")
}
