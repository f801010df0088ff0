package routes

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"nutriscan/config"
	"nutriscan/controllers"
	"nutriscan/middlewares"
)

// Controllers bundles the route handlers SetupRouter wires up.
type Controllers struct {
	Dashboard *controllers.DashboardController
	Scan      *controllers.ScanController
	History   *controllers.HistoryController
	Report    *controllers.ReportController
	Profile   *controllers.ProfileController
	Insights  *controllers.InsightsController
}

func SetupRouter(cfg *config.Config, ctl Controllers) *gin.Engine {
	r := gin.New()
	r.Use(middlewares.RequestLogger(), gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Session.Secret))
	r.Use(sessions.Sessions("nutriscan", store))

	r.Static("/static/uploads", cfg.Paths.UploadsDir)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/", ctl.Dashboard.GetDashboard)

	// Scan pipeline: upload form → save → classify
	r.GET("/recognize", ctl.Scan.GetRecognize)
	r.POST("/analyze", ctl.Scan.PostAnalyze)
	r.GET("/predict", ctl.Scan.GetPredict)

	history := r.Group("/history")
	{
		history.GET("", ctl.History.ListHistory)
		history.GET("/view", ctl.History.ViewRedirect)
		history.GET("/view/:id", ctl.History.ViewEntry)
	}

	r.GET("/pdf/view/:id", ctl.Report.GetReport)

	r.GET("/profile", ctl.Profile.GetProfile)
	r.POST("/profile", ctl.Profile.UpdateProfile)

	r.GET("/insights", ctl.Insights.GetInsights)

	return r
}
