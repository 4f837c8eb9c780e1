package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	PGURL          string
	Port           string
	SourceURL      string
	RefreshCron    string
	FinancialsCron string
	RunOnStart     bool
}

// Load reads configuration from a .env file (if present) and environment
// variables. PG_URL is required; everything else has a default or is
// optional (an empty cron spec disables that job).
func Load() (*Config, error) {
	_ = godotenv.Load()

	pgURL := os.Getenv("PG_URL")
	if pgURL == "" {
		return nil, fmt.Errorf("PG_URL environment variable is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		PGURL:          pgURL,
		Port:           port,
		SourceURL:      os.Getenv("SOURCE_URL"),
		RefreshCron:    os.Getenv("REFRESH_CRON"),
		FinancialsCron: os.Getenv("FINANCIALS_CRON"),
		RunOnStart:     os.Getenv("RUN_ON_START") == "true",
	}, nil
}
