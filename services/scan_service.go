// services/scan_service.go
package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nutriscan/config"
	"nutriscan/models"
	"nutriscan/storage"
	"nutriscan/utils"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// UploadName builds the stored filename for an upload. Extensions outside
// the allowed set are coerced to .jpg.
func UploadName(original string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(original))
	if !allowedExtensions[ext] {
		ext = ".jpg"
	}
	return fmt.Sprintf("food_%d%s", now.Unix(), ext)
}

// AllowedExtensions lists the upload extensions kept as-is.
func AllowedExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".webp"}
}

// ScanService runs the scan pipeline: read an uploaded image, classify it,
// scale the nutrition to the requested quantity, persist the entry.
type ScanService struct {
	vision     *VisionService
	history    *storage.HistoryStore
	uploadsDir string
}

func NewScanService(vision *VisionService, history *storage.HistoryStore, cfg *config.Config) *ScanService {
	return &ScanService{vision: vision, history: history, uploadsDir: cfg.Paths.UploadsDir}
}

// Predict classifies the named upload, scales its nutrition to quantity
// grams and prepends the scan to history. It returns the scan result plus
// the whole-scan nutrient rows used by charts; the stored entry additionally
// carries the timestamp.
func (s *ScanService) Predict(ctx context.Context, filename string, quantity float64) (models.HistoryEntry, []models.Nutrient, error) {
	imgBytes, err := os.ReadFile(filepath.Join(s.uploadsDir, filename))
	if err != nil {
		return models.HistoryEntry{}, nil, fmt.Errorf("read upload %s: %w", filename, err)
	}

	analysis, err := s.vision.Analyze(ctx, imgBytes)
	if err != nil {
		return models.HistoryEntry{}, nil, err
	}

	rows, calories := utils.ScaleNutrition(analysis.NutritionPer100g, quantity, analysis.CaloriesPer100g)

	scores := make(map[string]float64, len(analysis.Top))
	for _, p := range analysis.Top {
		scores[p.Label] = p.Score
	}

	result := models.HistoryEntry{
		Image:          "/static/uploads/" + filename,
		MainFood:       analysis.MainFood,
		Result:         scores,
		Nutrition:      rows,
		Quantity:       quantity,
		Calories:       calories,
		HygieneScore:   analysis.HygieneScore,
		HygieneReasons: analysis.HygieneReasons,
	}

	whole := make([]models.Nutrient, len(rows))
	copy(whole, rows)

	saved := result
	saved.Timestamp = time.Now().Format(models.TimeLayout)
	saved.WholeNutrition = whole
	if err := s.history.Prepend(saved); err != nil {
		return models.HistoryEntry{}, nil, fmt.Errorf("save history: %w", err)
	}
	return result, whole, nil
}
