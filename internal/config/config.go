package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"weather-compare/internal/insights"
)

// AppConfig holds all runtime configuration, read from the environment.
type AppConfig struct {
	Port string

	// HTTPTimeout bounds every outbound SMHI request.
	HTTPTimeout time.Duration

	// Base URLs for the SMHI APIs, overridable for tests and mirrors.
	ForecastBaseURL string
	MetObsBaseURL   string

	// GeocoderAPIKey enables name-to-coordinate resolution when set.
	GeocoderAPIKey string

	// StationWarmInterval controls how often the station list caches are
	// re-warmed in the background.
	StationWarmInterval time.Duration

	// Insights holds the thresholds gating each insight.
	Insights insights.Thresholds
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.ForecastBaseURL = os.Getenv("SMHI_FORECAST_BASE_URL")
	cfg.MetObsBaseURL = os.Getenv("SMHI_METOBS_BASE_URL")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	warmStr := getenvDefault("STATION_WARM_INTERVAL", "24h")
	warm, err := time.ParseDuration(warmStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STATION_WARM_INTERVAL: %w", err)
	}
	cfg.StationWarmInterval = warm

	defaults := insights.DefaultThresholds()
	cfg.Insights = insights.Thresholds{
		TempDiffMinC:        getenvFloat("INSIGHT_TEMP_DIFF_MIN", defaults.TempDiffMinC),
		TrendChangeMinC:     getenvFloat("INSIGHT_TREND_CHANGE_MIN", defaults.TrendChangeMinC),
		WindChillGapMinC:    getenvFloat("INSIGHT_WIND_CHILL_GAP_MIN", defaults.WindChillGapMinC),
		WindChillMaxTempC:   getenvFloat("WIND_CHILL_MAX_TEMP", defaults.WindChillMaxTempC),
		WindChillMinWindKmh: getenvFloat("WIND_CHILL_MIN_WIND_KMH", defaults.WindChillMinWindKmh),
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return n
		}
	}
	return def
}
