package report

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/ranklens/ranklens/internal/domain"
)

// =============================================================================
// PDF Generator
// =============================================================================

// PDFGenerator generates PDF reports from analysis data.
type PDFGenerator struct {
	// Page dimensions (A4 in mm)
	pageWidth  float64
	pageHeight float64
	margin     float64

	// Content area
	contentWidth float64
}

// NewPDFGenerator creates a new PDF generator with default settings.
func NewPDFGenerator() *PDFGenerator {
	margin := 15.0
	pageWidth := 210.0 // A4 width in mm
	return &PDFGenerator{
		pageWidth:    pageWidth,
		pageHeight:   297.0, // A4 height in mm
		margin:       margin,
		contentWidth: pageWidth - (2 * margin),
	}
}

// Format returns the output format of this generator.
func (g *PDFGenerator) Format() domain.ReportFormat {
	return domain.ReportFormatPDF
}

// Generate creates a PDF report and writes it to the provided writer.
func (g *PDFGenerator) Generate(ctx context.Context, data *domain.ReportData, w io.Writer) (int64, error) {
	pdf := fpdf.New("P", "mm", "A4", "")

	pdf.SetTitle("SEO Report - "+data.Title, true)
	pdf.SetAuthor(data.OwnerName, true)
	pdf.SetCreator("RankLens SEO Platform", true)

	pdf.SetAutoPageBreak(true, 20)
	pdf.SetFooterFunc(func() {
		g.addFooter(pdf, data)
	})

	g.addCoverPage(pdf, data)
	for i := range data.Analyses {
		g.addAnalysis(pdf, &data.Analyses[i], i+1)
	}

	if err := pdf.Error(); err != nil {
		return 0, fmt.Errorf("pdf generation error: %w", err)
	}

	// Write to buffer to count bytes
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return 0, fmt.Errorf("pdf output error: %w", err)
	}

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// =============================================================================
// Cover Page
// =============================================================================

func (g *PDFGenerator) addCoverPage(pdf *fpdf.Fpdf, data *domain.ReportData) {
	pdf.AddPage()

	// Indigo header bar
	r, gr, b := HexToRGB(BrandColors.Indigo)
	pdf.SetFillColor(r, gr, b)
	pdf.Rect(0, 0, g.pageWidth, 70, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 32)
	pdf.SetXY(g.margin, 25)
	pdf.Cell(0, 12, "SEO Analysis Report")

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetXY(g.margin, 42)
	pdf.Cell(0, 8, data.Title)

	r, gr, b = HexToRGB(BrandColors.TextDark)
	pdf.SetTextColor(r, gr, b)

	pdf.SetXY(g.margin, 90)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "PROJECT")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	if data.ProjectName != "" {
		pdf.Cell(0, 7, data.ProjectName)
		pdf.Ln(7)
	}
	if data.ProjectURL != "" {
		pdf.Cell(0, 7, data.ProjectURL)
		pdf.Ln(7)
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "GENERATED")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, FormatDate(data.GeneratedAt))

	if data.OwnerName != "" {
		pdf.Ln(15)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "PREPARED FOR")
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "", 12)
		pdf.Cell(0, 7, data.OwnerName)
	}

	pdf.Ln(15)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "PAGES ANALYZED")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("%d", len(data.Analyses)))
}

// =============================================================================
// Analysis Sections
// =============================================================================

func (g *PDFGenerator) addAnalysis(pdf *fpdf.Fpdf, analysis *domain.AnalysisResult, number int) {
	pdf.AddPage()
	g.addSectionHeader(pdf, fmt.Sprintf("Page %d: %s", number, TruncateText(analysis.URL, 70)))

	// Overall score in the band color
	r, gr, b := HexToRGB(ScoreColor(analysis.OverallScore))
	pdf.SetTextColor(r, gr, b)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.Cell(0, 12, fmt.Sprintf("Overall Score: %d / 100", analysis.OverallScore))
	pdf.Ln(16)

	r, gr, b = HexToRGB(BrandColors.TextDark)
	pdf.SetTextColor(r, gr, b)

	g.addMetaTable(pdf, analysis.MetaTags)
	g.addHealthSections(pdf, analysis)
	g.addRecommendations(pdf, analysis.Recommendations)
}

func (g *PDFGenerator) addMetaTable(pdf *fpdf.Fpdf, meta domain.MetaTagsSection) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, "Meta Tags")
	pdf.Ln(10)

	// Table header
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)
	pdf.CellFormat(35, 8, "Field", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Status", "1", 0, "C", true, 0, "")
	pdf.CellFormat(120, 8, "Value", "1", 1, "L", true, 0, "")

	rows := []struct {
		label string
		field domain.MetaField
	}{
		{"Title", meta.Title},
		{"Description", meta.Description},
		{"Keywords", meta.Keywords},
		{"Viewport", meta.Viewport},
		{"Robots", meta.Robots},
		{"Canonical", meta.Canonical},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		// Status cell in its indicator color
		r, gr, b := HexToRGB(StatusColor(row.field.Status))
		pdf.CellFormat(35, 8, row.label, "1", 0, "L", false, 0, "")
		pdf.SetTextColor(r, gr, b)
		pdf.CellFormat(25, 8, StatusLabel(row.field.Status), "1", 0, "C", false, 0, "")
		r, gr, b = HexToRGB(BrandColors.TextDark)
		pdf.SetTextColor(r, gr, b)
		pdf.CellFormat(120, 8, TruncateText(row.field.Value, 80), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(6)
}

func (g *PDFGenerator) addHealthSections(pdf *fpdf.Fpdf, analysis *domain.AnalysisResult) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, "Page Health")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	g.addLabelValue(pdf, "Image alt coverage", fmt.Sprintf("%d%% (%d of %d images)",
		analysis.AltText.HealthScore, analysis.AltText.WithAlt, analysis.AltText.TotalImages))
	g.addLabelValue(pdf, "Link health", fmt.Sprintf("%d%% (%d links, %d broken, %d redirects)%s",
		analysis.BrokenLinks.HealthScore, analysis.BrokenLinks.TotalLinks,
		analysis.BrokenLinks.Broken, analysis.BrokenLinks.Redirects,
		simulatedSuffix(analysis.BrokenLinks.Simulated)))
	g.addLabelValue(pdf, "Page speed", fmt.Sprintf("%d (%.1fs load time)%s",
		analysis.PageSpeed.Score, analysis.PageSpeed.LoadTimeSec,
		simulatedSuffix(analysis.PageSpeed.Simulated)))
	pdf.Ln(6)
}

func simulatedSuffix(simulated bool) string {
	if simulated {
		return " [estimated]"
	}
	return ""
}

func (g *PDFGenerator) addRecommendations(pdf *fpdf.Fpdf, recs []domain.Recommendation) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, "Recommendations")
	pdf.Ln(10)

	if len(recs) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 8, "No recommendations for this page.")
		pdf.Ln(8)
		return
	}

	for _, rec := range recs {
		if pdf.GetY() > 250 {
			pdf.AddPage()
		}
		pdf.SetFont("Helvetica", "B", 10)
		r, gr, b := HexToRGB(BrandColors.Indigo)
		pdf.SetTextColor(r, gr, b)
		pdf.Cell(30, 6, rec.Category)
		r, gr, b = HexToRGB(BrandColors.TextDark)
		pdf.SetTextColor(r, gr, b)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(g.contentWidth-30, 6, rec.Message, "", "L", false)
		pdf.Ln(2)
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

func (g *PDFGenerator) addSectionHeader(pdf *fpdf.Fpdf, title string) {
	r, gr, b := HexToRGB(BrandColors.Indigo)
	pdf.SetDrawColor(r, gr, b)
	pdf.SetLineWidth(0.5)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(r, gr, b)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	pdf.Line(g.margin, pdf.GetY(), g.pageWidth-g.margin, pdf.GetY())
	pdf.Ln(10)

	r, gr, b = HexToRGB(BrandColors.TextDark)
	pdf.SetTextColor(r, gr, b)
}

func (g *PDFGenerator) addLabelValue(pdf *fpdf.Fpdf, label, value string) {
	if value == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(45, 6, label+":")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(g.contentWidth-45, 6, value, "", "L", false)
}

func (g *PDFGenerator) addFooter(pdf *fpdf.Fpdf, data *domain.ReportData) {
	pdf.SetY(-15)

	r, gr, b := HexToRGB(BrandColors.Border)
	pdf.SetDrawColor(r, gr, b)
	pdf.Line(g.margin, pdf.GetY()-3, g.pageWidth-g.margin, pdf.GetY()-3)

	r, gr, b = HexToRGB(BrandColors.TextMuted)
	pdf.SetTextColor(r, gr, b)
	pdf.SetFont("Helvetica", "", 8)

	// Left: generation date
	pdf.Cell(0, 10, "Generated: "+FormatDateTime(data.GeneratedAt))

	// Right: page number
	pdf.SetX(-g.margin - 30)
	pdf.CellFormat(30, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
}
