package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NomadCrew/lunch-break-planner/config"
	"github.com/NomadCrew/lunch-break-planner/handlers"
	"github.com/NomadCrew/lunch-break-planner/internal/events"
	"github.com/NomadCrew/lunch-break-planner/logger"
	tripservice "github.com/NomadCrew/lunch-break-planner/models/trip/service"
	"github.com/NomadCrew/lunch-break-planner/router"
	"github.com/NomadCrew/lunch-break-planner/services"
	"github.com/NomadCrew/lunch-break-planner/store"
	"github.com/NomadCrew/lunch-break-planner/store/memory"
	"github.com/NomadCrew/lunch-break-planner/types"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
)

// @title Lunch Break Planner API
// @version 1.0
// @description Coordinates lunch-break car trips: drivers offer seats, colleagues join and leave.
// @BasePath /api
func main() {
	// Initialize logger
	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	flags := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	config.RegisterFlags(flags)
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.LoadConfig(flags)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	log = logger.GetLogger()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tripStore := memory.NewTripStore()

	// Redis carries trip events and rate-limit counters when enabled
	var (
		redisClient *redis.Client
		publisher   types.EventPublisher = events.NoopPublisher{}
		rateLimiter services.RateLimiterInterface
	)
	if cfg.Redis.Enabled {
		redisOptions := &redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		}
		if cfg.Redis.UseTLS {
			redisOptions.TLSConfig = &tls.Config{
				MinVersion: tls.VersionTLS12,
			}
		}
		redisClient = redis.NewClient(redisOptions)
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warnw("Redis not reachable at startup, events may be dropped", "address", cfg.Redis.Address, "error", err)
		}
		cancel()

		publisher = events.NewRedisPublisher(redisClient, events.Config{
			PublishTimeout: time.Duration(cfg.EventService.PublishTimeoutSeconds) * time.Second,
			ChannelPrefix:  cfg.EventService.ChannelPrefix,
		})
		if cfg.RateLimit.Enabled {
			rateLimiter = services.NewRateLimitService(redisClient)
		}
	}

	tripService := tripservice.NewTripService(tripStore, publisher, tripservice.NewMetrics(prometheus.DefaultRegisterer))
	if cfg.Trips.SeedFile != "" {
		seed, err := store.ReadSeedFile(cfg.Trips.SeedFile)
		if err != nil {
			log.Fatalf("Failed to read seed file: %v", err)
		}
		seeded, err := tripService.ImportTrips(context.Background(), seed)
		if err != nil {
			log.Fatalf("Failed to seed trips: %v", err)
		}
		log.Infow("Seeded trips", "file", cfg.Trips.SeedFile, "count", len(seeded))
	}
	healthService := services.NewHealthService(tripStore, redisClient, cfg.Server.Version)

	r := router.SetupRouter(router.Dependencies{
		Config:        cfg,
		TripHandler:   handlers.NewTripHandler(tripService),
		HealthHandler: handlers.NewHealthHandler(healthService),
		RateLimiter:   rateLimiter,
		Logger:        log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           gzhttp.GzipHandler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infow("Starting server", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Graceful shutdown failed", "error", err)
	}
}
