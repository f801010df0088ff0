// controllers/dashboard_controller.go
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nutriscan/services"
)

type DashboardController struct {
	Insights *services.InsightsService
}

func NewDashboardController(insights *services.InsightsService) *DashboardController {
	return &DashboardController{Insights: insights}
}

// GetDashboard serves the landing-page stats: lifetime totals, weekly
// progress against daily needs, recent scans and top foods.
func (h *DashboardController) GetDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.Insights.Dashboard(time.Now()))
}
