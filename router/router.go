package router

import (
	"time"

	"github.com/NomadCrew/lunch-break-planner/config"
	_ "github.com/NomadCrew/lunch-break-planner/docs"
	"github.com/NomadCrew/lunch-break-planner/handlers"
	"github.com/NomadCrew/lunch-break-planner/middleware"
	"github.com/NomadCrew/lunch-break-planner/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config        *config.Config
	TripHandler   *handlers.TripHandler
	HealthHandler *handlers.HealthHandler
	// RateLimiter guards trip mutations; nil disables limiting.
	RateLimiter services.RateLimiterInterface
	// MetricsGatherer backs /metrics; nil uses the default registry.
	MetricsGatherer prometheus.Gatherer
	Logger          *zap.SugaredLogger
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()

	if err := r.SetTrustedProxies(deps.Config.Server.TrustedProxies); err != nil && deps.Logger != nil {
		deps.Logger.Warnw("Invalid trusted proxies, ignoring forwarded headers", "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	// Global Middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config.Server.Environment))

	// Health and Metrics Routes
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)

	gatherer := deps.MetricsGatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		tripRoutes := api.Group("/trips")
		{
			tripRoutes.GET("", deps.TripHandler.ListTripsHandler)
			tripRoutes.GET("/:id", deps.TripHandler.GetTripHandler)
			tripRoutes.GET("/:id/manifest.pdf", deps.TripHandler.ManifestHandler)

			mutations := tripRoutes.Group("")
			if deps.RateLimiter != nil && deps.Config.RateLimit.Enabled {
				window := time.Duration(deps.Config.RateLimit.WindowSeconds) * time.Second
				mutations.Use(middleware.MutationRateLimiter(deps.RateLimiter, deps.Config.RateLimit.RequestsPerMinute, window))
			}
			mutations.POST("", deps.TripHandler.CreateTripHandler)
			mutations.PATCH("", deps.TripHandler.UpdateTripHandler)
			mutations.DELETE("", deps.TripHandler.DeleteTripHandler)
		}
	}

	return r
}
