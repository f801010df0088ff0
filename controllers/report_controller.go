// controllers/report_controller.go
package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nutriscan/logger"
	"nutriscan/services"
	"nutriscan/storage"
)

type ReportController struct {
	History *storage.HistoryStore
	Report  *services.ReportService
}

func NewReportController(history *storage.HistoryStore, report *services.ReportService) *ReportController {
	return &ReportController{History: history, Report: report}
}

// GetReport streams the PDF report for one history entry as an attachment
// named NutriScan_<id>.pdf.
func (h *ReportController) GetReport(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid history id"})
		return
	}
	entry, ok := h.History.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid history id"})
		return
	}

	var buf bytes.Buffer
	if err := h.Report.Build(entry, &buf); err != nil {
		logger.Error("report generation failed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate report"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="NutriScan_%d.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
