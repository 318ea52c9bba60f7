package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Market data
	FRED  FREDConfig
	Curve CurveConfig

	// Analytics defaults
	Analytics AnalyticsConfig

	// Outbound HTTP
	HTTPTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// FREDConfig holds FRED (Federal Reserve Economic Data) API configuration
type FREDConfig struct {
	APIKey    string
	BaseURL   string
	RateLimit float64 // requests per second (FRED: 120 req/min)
}

// CurveConfig selects where the base yield curve comes from
type CurveConfig struct {
	Source    string  // fred, file, flat
	File      string  // CSV path for Source=file
	FlatRate  float64 // decimal rate for Source=flat
	StartDate string  // first observation date requested (YYYY-MM-DD)
	Refresh   string  // cron spec (with seconds) for reloading the curve in the API server; empty = never
}

// AnalyticsConfig holds shock widths and the default hedge scenario size
type AnalyticsConfig struct {
	KeyRateWidth        float64 // Gaussian width for single-bond key-rate duration
	LiabilityShockWidth float64 // Gaussian width for liability key-rate scenarios
	HedgeShockBP        int     // default scenario shock for the hedge optimizer
}

// refreshParser matches the scheduler's cron.WithSeconds() format
var refreshParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Curve sources
const (
	CurveSourceFRED = "fred"
	CurveSourceFile = "file"
	CurveSourceFlat = "flat"
)

// Load reads configuration from .env and environment variables
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		FRED: FREDConfig{
			APIKey:    getEnv("FRED_API_KEY", ""),
			BaseURL:   getEnv("FRED_BASE_URL", "https://api.stlouisfed.org/fred"),
			RateLimit: getEnvAsFloat("FRED_RATE_LIMIT", 2),
		},

		Curve: CurveConfig{
			Source:    getEnv("CURVE_SOURCE", CurveSourceFlat),
			File:      getEnv("CURVE_FILE", ""),
			FlatRate:  getEnvAsFloat("CURVE_FLAT_RATE", 0.05),
			StartDate: getEnv("CURVE_START_DATE", "2024-01-01"),
			Refresh:   getEnv("CURVE_REFRESH_SCHEDULE", ""),
		},

		Analytics: AnalyticsConfig{
			KeyRateWidth:        getEnvAsFloat("KEY_RATE_WIDTH", 0.5),
			LiabilityShockWidth: getEnvAsFloat("LIABILITY_SHOCK_WIDTH", 1.0),
			HedgeShockBP:        getEnvAsInt("HEDGE_SHOCK_BP", 100),
		},

		HTTPTimeout: getEnvAsDuration("HTTP_TIMEOUT", "30s"),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate re-checks the configuration after programmatic overrides
func (c *Config) Validate() error {
	return c.validate()
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Curve.Source {
	case CurveSourceFRED:
		if c.FRED.APIKey == "" {
			return fmt.Errorf("FRED_API_KEY is required when CURVE_SOURCE=fred")
		}
		if c.FRED.RateLimit <= 0 {
			return fmt.Errorf("FRED_RATE_LIMIT must be > 0")
		}
	case CurveSourceFile:
		if c.Curve.File == "" {
			return fmt.Errorf("CURVE_FILE is required when CURVE_SOURCE=file")
		}
	case CurveSourceFlat:
	default:
		return fmt.Errorf("CURVE_SOURCE must be one of: fred, file, flat")
	}

	if c.Curve.StartDate != "" {
		if _, err := time.Parse("2006-01-02", c.Curve.StartDate); err != nil {
			return fmt.Errorf("CURVE_START_DATE must be YYYY-MM-DD: %w", err)
		}
	}

	if c.Curve.Refresh != "" {
		if _, err := refreshParser.Parse(c.Curve.Refresh); err != nil {
			return fmt.Errorf("CURVE_REFRESH_SCHEDULE must be a cron spec with seconds: %w", err)
		}
	}

	if c.Analytics.KeyRateWidth <= 0 {
		return fmt.Errorf("KEY_RATE_WIDTH must be > 0")
	}
	if c.Analytics.LiabilityShockWidth <= 0 {
		return fmt.Errorf("LIABILITY_SHOCK_WIDTH must be > 0")
	}

	return nil
}

// StartTime returns the parsed curve start date (zero time if unset)
func (c *CurveConfig) StartTime() time.Time {
	t, _ := time.Parse("2006-01-02", c.StartDate)
	return t
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
