// controllers/insights_controller.go
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nutriscan/services"
)

type InsightsController struct {
	Insights *services.InsightsService
}

func NewInsightsController(insights *services.InsightsService) *InsightsController {
	return &InsightsController{Insights: insights}
}

// GetInsights serves the weekly insights: summary cards, the nutrient pie
// chart as an inline data URL, gallery and recommendations.
func (h *InsightsController) GetInsights(c *gin.Context) {
	c.JSON(http.StatusOK, h.Insights.Summary(time.Now()))
}
