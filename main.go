package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"diffexpr/adapters/classify"
	"diffexpr/adapters/excel"
	"diffexpr/adapters/fit"
	"diffexpr/adapters/simulate"
	"diffexpr/adapters/stats/engine"
	"diffexpr/app"
	"diffexpr/internal/api"
	"diffexpr/internal/config"
	"diffexpr/internal/rng"
)

func main() {
	// Load .env file if present (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	rngAdapter := rng.NewAdapter()
	compareService, err := app.NewCompareService(
		simulate.NewGenerator(rngAdapter),
		fit.NewAdapter(fit.Options{}),
		engine.DegeneratePolicy(cfg.Simulate.DegeneratePolicy),
	)
	if err != nil {
		log.Fatalf("Failed to build compare service: %v", err)
	}
	classifyService := app.NewClassifyService(
		excel.NewDatasetReader(),
		classify.NewResampler(rngAdapter),
	)

	gin.SetMode(cfg.Server.GinMode)
	router := gin.Default()
	api.NewHandler(compareService, classifyService, cfg.Simulate).Register(router)

	log.Printf("Starting API server on :%s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
