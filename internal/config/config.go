package config

import (
	"os"
	"strconv"

	"datalens/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Data     DataConfig
	Analysis AnalysisConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds database connection settings. URL is optional; when
// empty the server falls back to the file-based accessor.
type DatabaseConfig struct {
	URL     string
	OrderBy string // stable ordering column for snapshot reads
}

// DataConfig holds file-based data source settings. For .xlsx files the
// sheet is addressed by table name, so no separate sheet setting exists.
type DataConfig struct {
	File string // .xlsx or .csv path
}

// AnalysisConfig holds engine defaults
type AnalysisConfig struct {
	SampleBudget  int // chart point budget for downsampling
	HistogramBins int
	TopN          int // frequency table size in text analysis
	SweepWorkers  int // concurrent panels in a sweep
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			OrderBy: getEnvOrDefault("DB_ORDER_BY", "id"),
		},
		Data: DataConfig{
			File: os.Getenv("DATA_FILE"),
		},
		Analysis: AnalysisConfig{
			SampleBudget:  getEnvIntOrDefault("SAMPLE_BUDGET", 500),
			HistogramBins: getEnvIntOrDefault("HISTOGRAM_BINS", 10),
			TopN:          getEnvIntOrDefault("FREQUENCY_TOP_N", 10),
			SweepWorkers:  getEnvIntOrDefault("SWEEP_WORKERS", 4),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(c *Config) error {
	if c.Database.URL == "" && c.Data.File == "" {
		return errors.ConfigInvalid("either DATABASE_URL or DATA_FILE must be set")
	}
	if c.Analysis.SampleBudget < 2 {
		return errors.ConfigInvalid("SAMPLE_BUDGET must be at least 2")
	}
	if c.Analysis.HistogramBins < 1 {
		return errors.ConfigInvalid("HISTOGRAM_BINS must be at least 1")
	}
	if c.Analysis.SweepWorkers < 1 {
		return errors.ConfigInvalid("SWEEP_WORKERS must be at least 1")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
