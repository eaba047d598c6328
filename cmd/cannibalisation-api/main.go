package main

import (
	"cannibalisation-tool/internal/api"
	"cannibalisation-tool/internal/api/handler"
	"cannibalisation-tool/internal/config"
	"cannibalisation-tool/internal/pipeline"
	"cannibalisation-tool/internal/store"
	"cannibalisation-tool/pkg/router"
	"cannibalisation-tool/pkg/utils"
)

// @title Keyword Cannibalisation API
// @version 1.0
// @description Detects search queries served by more than one page from a search console export.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := utils.NewLogger(cfg.App.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration: %v", err)
	}

	// Init DB
	if err := store.InitDB(cfg.Store.DSN); err != nil {
		logger.Fatal("Failed to open upload store: %v", err)
	}
	defer store.CloseDB()

	runner, err := pipeline.NewRunner(cfg.Cache.Size, logger)
	if err != nil {
		logger.Fatal("Failed to create runner: %v", err)
	}

	// Create router
	r := router.New()

	// Register routes
	api.RegisterRoutes(r, handler.NewHandler(cfg, runner, logger))

	// Start server
	logger.Info("⚙️ %s mode, thresholds impression=%v click=%v", cfg.App.Env, cfg.Detect.ImpressionTh, cfg.Detect.ClickTh)
	if err := r.Start(":" + cfg.App.ServerPort); err != nil {
		logger.Fatal("Server stopped: %v", err)
	}
}
