package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"fxchart/internal/adapters/logger" // Import the logger package for LogLevel
	"fxchart/internal/chart"
)

// Config holds all application configuration.
type Config struct {
	// Data source address: a local chunk file path, an http(s) URL, or
	// binance://SYMBOL/INTERVAL?limit=N.
	Source string

	// Window
	WindowWidth  int
	WindowHeight int

	// Render parameters (palette + axis gutters)
	Render chart.RenderConfig

	// Cache
	CacheEnabled bool
	DBPath       string

	// Transport
	HTTPTimeout time.Duration

	// Logging
	LogLevel logger.LogLevel
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []string // Collect validation errors

	cfg.Source = getEnv("CHART_SOURCE", "data/eurusd_chunks.json")

	cfg.WindowWidth = getEnvAsInt("WINDOW_WIDTH", 1280)
	cfg.WindowHeight = getEnvAsInt("WINDOW_HEIGHT", 720)
	if cfg.WindowWidth <= 0 || cfg.WindowHeight <= 0 {
		errs = append(errs, "WINDOW_WIDTH and WINDOW_HEIGHT must be positive")
	}

	cfg.Render = chart.DefaultRenderConfig()
	applyColor(&cfg.Render.BackgroundColor, "COLOR_BACKGROUND", &errs)
	applyColor(&cfg.Render.GridColor, "COLOR_GRID", &errs)
	applyColor(&cfg.Render.TextColor, "COLOR_TEXT", &errs)
	applyColor(&cfg.Render.BullishColor, "COLOR_BULLISH", &errs)
	applyColor(&cfg.Render.BearishColor, "COLOR_BEARISH", &errs)

	cfg.Render.PriceAxisWidth = float64(getEnvAsInt("PRICE_AXIS_WIDTH", int(cfg.Render.PriceAxisWidth)))
	cfg.Render.TimeAxisHeight = float64(getEnvAsInt("TIME_AXIS_HEIGHT", int(cfg.Render.TimeAxisHeight)))
	if cfg.Render.PriceAxisWidth <= 0 || cfg.Render.TimeAxisHeight <= 0 {
		errs = append(errs, "PRICE_AXIS_WIDTH and TIME_AXIS_HEIGHT must be positive")
	}

	cfg.CacheEnabled = getEnvAsBool("CACHE_ENABLED", true)
	cfg.DBPath = getEnv("DB_PATH", "./data/fxchart.db")

	cfg.HTTPTimeout = getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second)

	cfg.LogLevel = logger.ParseLevel(getEnv("LOG_LEVEL", "INFO"))

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// applyColor overrides a palette entry when its env var is set.
func applyColor(dst *color.RGBA, key string, errs *[]string) {
	raw := getEnv(key, "")
	if raw == "" {
		return
	}
	c, err := ParseHexColor(raw)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: %v", key, err))
		return
	}
	*dst = c
}

// ParseHexColor parses a "#rrggbb" color string.
func ParseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("expected #rrggbb, got %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("expected #rrggbb, got %q", s)
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}, nil
}

// --- Helper functions for reading environment variables ---

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
