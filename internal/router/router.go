package router

import (
	"log"
	"net/http"

	"github.com/idesu/yet-another-blog-engine/internal/cache"
	"github.com/idesu/yet-another-blog-engine/internal/handlers"
	"github.com/idesu/yet-another-blog-engine/internal/middleware"
	"github.com/idesu/yet-another-blog-engine/internal/models"
	"github.com/idesu/yet-another-blog-engine/internal/repositories"
	"github.com/idesu/yet-another-blog-engine/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *gorm.DB, fragments cache.FragmentCache, cfg *config.Config) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("Auto-migrations completed for all models.")

	e.HTTPErrorHandler = HTTPErrorHandler

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// Uploaded images
	e.Static("/media", cfg.MediaRoot)

	// --- Initialize repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	groupRepo := repositories.NewPostgresGroupRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	followRepo := repositories.NewPostgresFollowRepository(db)

	// --- Session middleware ---
	withUser := middleware.WithUser(cfg.JWTSecret)
	authRequired := middleware.RequireUser()
	e.Use(withUser)

	// --- Auth routes ---
	authGroup := e.Group("/auth")
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret, cfg.SessionLifetime)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Feed routes ---
	feedHandler := handlers.NewFeedHandler(postRepo, groupRepo, fragments)
	feedHandler.RegisterFeedRoutes(e, authRequired)
	log.Println("Feed routes configured.")

	// --- Post routes ---
	postHandler := handlers.NewPostHandler(postRepo, userRepo, groupRepo, commentRepo, followRepo, fragments, cfg.MediaRoot)
	postHandler.RegisterPostRoutes(e, authRequired)
	log.Println("Post routes configured.")

	// --- Comment routes ---
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo)
	commentHandler.RegisterCommentRoutes(e, authRequired)
	log.Println("Comment routes configured.")

	// --- Profile and follow routes ---
	profileHandler := handlers.NewProfileHandler(userRepo, postRepo, followRepo)
	profileHandler.RegisterProfileRoutes(e, authRequired)
	log.Println("Profile routes configured.")

	log.Println("All routes configured.")
}

// HTTPErrorHandler renders the custom 404/500 payloads. The 404 body echoes
// the requested path.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal Server Error"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			message = s
		}
	}

	body := echo.Map{"success": false, "error": message}
	if code == http.StatusNotFound {
		body["path"] = c.Request().URL.Path
	}
	if jsonErr := c.JSON(code, body); jsonErr != nil {
		log.Printf("Error writing error response: %v", jsonErr)
	}
}
