// services/report_service.go
package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"nutriscan/config"
	"nutriscan/logger"
	"nutriscan/models"
)

// Page geometry in inches (A4, 0.5in side margins).
const (
	pageWidth = 8.27
	marginX   = 0.5
	contentW  = pageWidth - 2*marginX
	columnGap = 4.2 // x of the vertical divider between the two columns
	rightColX = 4.35
)

// ReportService lays out one scan as a styled A4 PDF: image and headline
// stats on the left, donut chart and nutrient table on the right, hygiene
// notes card underneath. Missing pieces (image, chart) are omitted, never
// fatal; only writing the document itself can fail.
type ReportService struct {
	charts        *ChartService
	baseDir       string
	fallbackImage string
}

func NewReportService(charts *ChartService, cfg *config.Config) *ReportService {
	return &ReportService{
		charts:        charts,
		baseDir:       cfg.Paths.DataDir,
		fallbackImage: cfg.Paths.FallbackImage,
	}
}

// Build writes the PDF report for item to w.
func (s *ReportService) Build(item models.HistoryEntry, w io.Writer) error {
	pdf := fpdf.New("P", "in", "A4", "")
	pdf.SetMargins(marginX, 0.6, marginX)
	pdf.SetAutoPageBreak(true, 0.6)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Header
	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(contentW, 0.45, "NutriScan Report", "", 1, "C", false, 0, "")
	pdf.Ln(0.15)
	pdf.SetDrawColor(224, 224, 224)
	pdf.SetLineWidth(0.01)
	pdf.Line(marginX, pdf.GetY(), pageWidth-marginX, pdf.GetY())
	pdf.Ln(0.3)

	top := pdf.GetY()
	leftBottom := s.drawLeftColumn(pdf, tr, item, top)
	rightBottom := s.drawRightColumn(pdf, tr, item, top)

	bottom := leftBottom
	if rightBottom > bottom {
		bottom = rightBottom
	}
	pdf.SetDrawColor(224, 224, 224)
	pdf.Line(columnGap, top, columnGap, bottom)

	s.drawHygieneCard(pdf, tr, item.HygieneReasons, bottom+0.3)

	// Footer
	pdf.Ln(0.25)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(128, 128, 128)
	footer := fmt.Sprintf("Generated by NutriScan AI • %s", time.Now().Format("02 January 2006"))
	pdf.CellFormat(contentW, 0.2, tr(footer), "", 1, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func (s *ReportService) drawLeftColumn(pdf *fpdf.Fpdf, tr func(string) string, item models.HistoryEntry, top float64) float64 {
	y := top
	if path, ok := s.imagePath(item.Image); ok {
		pdf.ImageOptions(path, marginX, y, 3.2, 2.4, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
		y += 2.4 + 0.2
	} else {
		pdf.SetXY(marginX, y)
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(3.2, 0.2, "(No Image)", "", 1, "L", false, 0, "")
		y += 0.4
	}

	pdf.SetXY(marginX, y)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(3.2, 0.18, "Image Name:", "", 1, "L", false, 0, "")

	food := item.MainFood
	if food == "" {
		food = "Unknown"
	}
	pdf.SetX(marginX)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(230, 126, 34)
	pdf.CellFormat(3.2, 0.35, tr(titleCaser.String(strings.ToLower(food))), "", 1, "L", false, 0, "")
	pdf.Ln(0.1)

	stats := [][2]string{
		{"• Calories:", fmt.Sprintf("%v kcal", item.Calories)},
		{"• Quantity:", fmt.Sprintf("%v g", item.Quantity)},
		{"• Protein:", fmt.Sprintf("%v g", nutrientValue(item.Nutrition, "protein"))},
	}
	for _, row := range stats {
		pdf.SetX(marginX)
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(1.0, 0.22, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(1.8, 0.22, tr(row[1]), "", 1, "L", false, 0, "")
	}
	return pdf.GetY()
}

func (s *ReportService) drawRightColumn(pdf *fpdf.Fpdf, tr func(string) string, item models.HistoryEntry, top float64) float64 {
	y := top
	if path, err := s.charts.DonutFile(item.WholeNutrition); err == nil {
		pdf.ImageOptions(path, rightColX, y, 3.0, 3.0, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
		if rmErr := os.Remove(path); rmErr != nil {
			logger.Warn("could not remove chart temp file", "path", path, "error", rmErr)
		}
		y += 3.0 + 0.1
	} else {
		logger.Warn("report chart omitted", "error", err)
	}

	pdf.SetXY(rightColX, y)
	pdf.SetFont("Helvetica", "B", 15)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(2.8, 0.25, "Nutrition Breakdown", "", 1, "L", false, 0, "")
	pdf.Ln(0.05)

	for _, n := range item.Nutrition {
		pdf.SetX(rightColX)
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(1.8, 0.22, tr(capitalize(n.Name)), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(1.0, 0.22, tr(fmt.Sprintf("%vg", n.Value)), "", 1, "L", false, 0, "")
		pdf.SetDrawColor(238, 238, 238)
		pdf.SetLineWidth(0.005)
		pdf.Line(rightColX, pdf.GetY(), rightColX+2.8, pdf.GetY())
	}
	return pdf.GetY()
}

func (s *ReportService) drawHygieneCard(pdf *fpdf.Fpdf, tr func(string) string, reasons []string, top float64) {
	lines := len(reasons)
	if lines == 0 {
		lines = 1
	}
	height := 0.3 + 0.3 + float64(lines)*0.22 + 0.2

	pdf.SetFillColor(248, 249, 250)
	pdf.SetDrawColor(221, 221, 221)
	pdf.SetLineWidth(0.007)
	pdf.Rect(marginX, top, contentW, height, "FD")

	pdf.SetXY(marginX+0.2, top+0.2)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(contentW-0.4, 0.25, "Hygienic Notes", "", 1, "L", false, 0, "")
	pdf.Ln(0.05)

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	if len(reasons) == 0 {
		pdf.SetX(marginX + 0.2)
		pdf.CellFormat(contentW-0.4, 0.22, "No specific hygiene comments.", "", 1, "L", false, 0, "")
	} else {
		for _, note := range reasons {
			pdf.SetX(marginX + 0.2)
			pdf.CellFormat(contentW-0.4, 0.22, tr("• "+note), "", 1, "L", false, 0, "")
		}
	}
	pdf.SetY(top + height)
}

// imagePath resolves a stored image reference ("/static/uploads/...") to a
// file fpdf can embed, falling back to the configured fallback image. webp
// uploads are skipped: fpdf cannot embed them.
func (s *ReportService) imagePath(ref string) (string, bool) {
	var candidates []string
	if ref != "" {
		candidates = append(candidates, filepath.Join(s.baseDir, strings.TrimPrefix(ref, "/")))
	}
	if s.fallbackImage != "" {
		candidates = append(candidates, s.fallbackImage)
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".jpg", ".jpeg", ".png", ".gif":
			return path, true
		default:
			logger.Warn("report image format unsupported, skipping", "path", path)
		}
	}
	return "", false
}
