// services/chart_service.go
package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"nutriscan/logger"
	"nutriscan/models"
)

// Palettes are assigned to slices in inclusion order.
var (
	piePalette   = []string{"FF6B6B", "4ECDC4", "45B7D1", "96CEB4"}
	donutPalette = []string{"4D96FF", "FF6B6B", "6BCB77", "FFD93D", "A2D2FF"}
)

// ChartService renders nutrition charts. Charts decorate pages, they never
// block them: render failures degrade to the placeholder chart (or an empty
// string) instead of propagating.
type ChartService struct {
	tmpDir string
}

func NewChartService(tmpDir string) *ChartService { return &ChartService{tmpDir: tmpDir} }

// WeeklyPie renders the weekly nutrient distribution as an inline
// data:image/png;base64 URL. Empty or all-zero data produces the
// placeholder instead.
func (s *ChartService) WeeklyPie(weekly []models.HistoryEntry) string {
	if len(weekly) == 0 {
		return s.Placeholder()
	}

	totals := map[string]float64{}
	for _, entry := range weekly {
		for _, n := range entry.Nutrition {
			switch strings.ToLower(n.Name) {
			case "protein":
				totals["Protein"] += n.Value
			case "fat":
				totals["Fat"] += n.Value
			case "carbohydrates", "carbs":
				totals["Carbs"] += n.Value
			default:
				totals["Other"] += n.Value
			}
		}
	}

	var values []chart.Value
	for _, label := range []string{"Protein", "Fat", "Carbs", "Other"} {
		if totals[label] > 0 {
			values = append(values, chart.Value{
				Label: label,
				Value: totals[label],
				Style: chart.Style{FillColor: drawing.ColorFromHex(piePalette[len(values)%len(piePalette)])},
			})
		}
	}
	if len(values) == 0 {
		return s.Placeholder()
	}

	pie := chart.PieChart{
		Title:  "Weekly Nutrient Distribution",
		Width:  800,
		Height: 600,
		Values: values,
	}
	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		logger.Warn("weekly pie render failed, using placeholder", "error", err)
		return s.Placeholder()
	}
	return dataURL(buf.Bytes())
}

// Placeholder is the equal-thirds chart shown before any scans exist.
func (s *ChartService) Placeholder() string {
	var values []chart.Value
	for _, label := range []string{"Protein", "Carbs", "Fat"} {
		values = append(values, chart.Value{
			Label: label,
			Value: 1,
			Style: chart.Style{FillColor: drawing.ColorFromHex(piePalette[len(values)%len(piePalette)])},
		})
	}

	pie := chart.PieChart{
		Title:  "Scan Foods to See Your Nutrition Data",
		Width:  800,
		Height: 600,
		Values: values,
	}
	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		logger.Warn("placeholder chart render failed", "error", err)
		return ""
	}
	return dataURL(buf.Bytes())
}

// DonutFile renders a scan's nutrient breakdown as a donut chart PNG under
// the tmp dir and returns its path. The caller removes the file once it has
// been embedded. Nutrients at or below 0.5 g are left off the chart; a scan
// with nothing above that renders a single N/A slice.
func (s *ChartService) DonutFile(whole []models.Nutrient) (string, error) {
	var values []chart.Value
	for _, n := range whole {
		if n.Value > 0.5 {
			values = append(values, chart.Value{
				Label: capitalize(n.Name),
				Value: n.Value,
				Style: chart.Style{FillColor: drawing.ColorFromHex(donutPalette[len(values)%len(donutPalette)])},
			})
		}
	}
	if len(values) == 0 {
		values = []chart.Value{{
			Label: "N/A",
			Value: 1,
			Style: chart.Style{FillColor: drawing.ColorFromHex(donutPalette[0])},
		}}
	}

	donut := chart.DonutChart{
		Width:  400,
		Height: 400,
		Values: values,
	}
	var buf bytes.Buffer
	if err := donut.Render(chart.PNG, &buf); err != nil {
		return "", fmt.Errorf("render donut: %w", err)
	}

	name := fmt.Sprintf("chart_%s.png", strings.ReplaceAll(uuid.NewString(), "-", ""))
	path := filepath.Join(s.tmpDir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write chart: %w", err)
	}
	return path, nil
}

func dataURL(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
