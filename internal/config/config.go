package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Security SecurityConfig
	Export   ExportConfig
}

type ServerConfig struct {
	Port        string
	Environment string
}

type DatabaseConfig struct {
	Path string
}

type SecurityConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CSPEnabled        bool
	HSTSEnabled       bool
}

type ExportConfig struct {
	// PDFFontPath points at a UTF-8 TTF used for PDF rendering. CJK glyphs
	// need one; when unset the built-in Helvetica is used.
	PDFFontPath string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	rateLimitWindow, err := time.ParseDuration(getEnv("RATE_LIMIT_WINDOW", "1m"))
	if err != nil {
		rateLimitWindow = 1 * time.Minute
	}

	rateLimitReqs, _ := strconv.Atoi(getEnv("RATE_LIMIT_REQUESTS", "100"))
	cspEnabled, _ := strconv.ParseBool(getEnv("CSP_ENABLED", "true"))
	hstsEnabled, _ := strconv.ParseBool(getEnv("HSTS_ENABLED", "false"))

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/carelog.db"),
		},
		Security: SecurityConfig{
			RateLimitRequests: rateLimitReqs,
			RateLimitWindow:   rateLimitWindow,
			CSPEnabled:        cspEnabled,
			HSTSEnabled:       hstsEnabled,
		},
		Export: ExportConfig{
			PDFFontPath: getEnv("PDF_FONT_PATH", ""),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
