package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "weather-compare/internal/api/http"
	"weather-compare/internal/config"
	"weather-compare/internal/geocode"
	"weather-compare/internal/insights"
	"weather-compare/internal/scheduler"
	"weather-compare/internal/stations"
	"weather-compare/internal/weather"
	"weather-compare/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound SMHI calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Provider adapters with circuit breakers.
	forecast := providers.NewSMHIForecast(httpClient, cfg.ForecastBaseURL)
	metobs := providers.NewMetObs(httpClient, cfg.MetObsBaseURL)

	// Station resolution with a process-lifetime list cache per parameter.
	stationCache := stations.NewMemoryCache(metobs)
	resolver := stations.NewResolver(stationCache)

	// Core service orchestrating the forecast and historical paths.
	service := weather.NewService(forecast, metobs, resolver)

	// Insight engine with configured thresholds.
	engine := insights.NewEngine(cfg.Insights)

	// Optional geocoding for name-only requests.
	var geo httpapi.Geocoder
	if cfg.GeocoderAPIKey != "" {
		geo = geocode.New(cfg.GeocoderAPIKey)
	}

	// Scheduler that warms the station list caches in the background.
	sched := scheduler.New(stationCache, cfg.StationWarmInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-compare",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-compare",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, engine, geo)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
