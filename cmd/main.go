package main

import (
	"log"
	"os"

	"nutriscan/config"
	"nutriscan/controllers"
	"nutriscan/logger"
	"nutriscan/routes"
	"nutriscan/services"
	"nutriscan/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := logger.Init(cfg); err != nil {
		log.Fatalf("init logger: %v", err)
	}

	profiles := storage.NewProfileStore(cfg.Paths.ProfileFile)
	history := storage.NewHistoryStore(cfg.Paths.HistoryFile)

	vision := services.NewVisionService(cfg)
	scans := services.NewScanService(vision, history, cfg)
	charts := services.NewChartService(cfg.Paths.TmpDir)
	insights := services.NewInsightsService(history, profiles, charts)
	reports := services.NewReportService(charts, cfg)

	r := routes.SetupRouter(cfg, routes.Controllers{
		Dashboard: controllers.NewDashboardController(insights),
		Scan:      controllers.NewScanController(scans, cfg),
		History:   controllers.NewHistoryController(history),
		Report:    controllers.NewReportController(history, reports),
		Profile:   controllers.NewProfileController(profiles),
		Insights:  controllers.NewInsightsController(insights),
	})

	if cfg.Gemini.APIKey == "" {
		logger.Warn("no Gemini API key configured, /predict will fail until one is set")
	}
	logger.Info("nutriscan listening", "addr", cfg.Server.Addr())
	if err := r.Run(cfg.Server.Addr()); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
