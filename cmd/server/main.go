package main

import (
	"log"

	"github.com/idesu/yet-another-blog-engine/internal/cache"
	"github.com/idesu/yet-another-blog-engine/internal/router"
	"github.com/idesu/yet-another-blog-engine/internal/validators"
	"github.com/idesu/yet-another-blog-engine/pkg/config"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB() // Ensure database connection is closed when main exits

	// Fragment cache for the global feed
	fragments := cache.NewTTLCache(cfg.CacheTTL)

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, fragments, cfg)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
