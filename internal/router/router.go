package router

import (
	"github.com/gin-gonic/gin"

	"rentlens/internal/config"
	"rentlens/internal/handler"
	"rentlens/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	listingH *handler.ListingHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))

	listings := v1.Group("/listings")
	listings.POST("", listingH.Create)
	listings.GET("", listingH.List)
	listings.GET("/export", listingH.Export)
	listings.GET("/:id", listingH.GetByID)
	listings.DELETE("/:id", listingH.Delete)
	listings.POST("/:id/extract", listingH.RetryExtract)
	listings.GET("/:id/validation", listingH.GetValidation)

	return r
}
