// controllers/scan_controller.go
package controllers

import (
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"nutriscan/config"
	"nutriscan/logger"
	"nutriscan/models"
	"nutriscan/services"
	"nutriscan/utils"
)

const sessionLastImage = "last_image"

type ScanController struct {
	Scans      *services.ScanService
	uploadsDir string
}

func NewScanController(scans *services.ScanService, cfg *config.Config) *ScanController {
	return &ScanController{Scans: scans, uploadsDir: cfg.Paths.UploadsDir}
}

// GetRecognize describes the upload contract for the scan form.
func (h *ScanController) GetRecognize(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"field":              "img",
		"allowed_extensions": services.AllowedExtensions(),
		"default_quantity":   100,
	})
}

// PostAnalyze stores the uploaded image, remembers it in the session and
// redirects to /predict. A quantity form value rides along on the redirect.
func (h *ScanController) PostAnalyze(c *gin.Context) {
	file, err := c.FormFile("img")
	if err != nil || file.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	filename := services.UploadName(file.Filename, time.Now())
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadsDir, filename)); err != nil {
		logger.Error("could not save upload", "filename", filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save upload"})
		return
	}

	sess := sessions.Default(c)
	sess.Set(sessionLastImage, filename)
	if err := sess.Save(); err != nil {
		logger.Warn("could not save session", "error", err)
	}

	target := "/predict"
	if qty := c.PostForm("quantity"); qty != "" {
		target += "?quantity=" + url.QueryEscape(qty)
	}
	c.Redirect(http.StatusFound, target)
}

// GetPredict classifies the last uploaded image at the requested quantity
// (grams, default 100) and returns the scaled scan result. Without a
// session image it returns an empty pack; a classification failure is the
// one error this app surfaces to the caller.
func (h *ScanController) GetPredict(c *gin.Context) {
	quantity := 100.0
	if q, ok := c.GetQuery("quantity"); ok {
		quantity = utils.SafeFloat(q)
	}

	filename, _ := sessions.Default(c).Get(sessionLastImage).(string)
	if filename == "" {
		c.JSON(http.StatusOK, gin.H{
			"pack":            []models.HistoryEntry{},
			"whole_nutrition": []models.Nutrient{},
			"recommendations": []string{},
		})
		return
	}

	result, whole, err := h.Scans.Predict(c.Request.Context(), filename, quantity)
	if err != nil {
		logger.Error("scan failed", "image", filename, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pack":            []models.HistoryEntry{result},
		"whole_nutrition": whole,
		"recommendations": []string{},
	})
}
