package config

import (
	"os"
	"strconv"

	"diffexpr/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Simulate SimulateConfig
	Data     DataConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// SimulateConfig holds default parameters for comparison runs. Every field
// can be overridden per request; these are the driver defaults only.
type SimulateConfig struct {
	Features     int
	Samples      int
	DiffFraction float64
	FoldChange   float64
	PriorDF      float64
	PriorScale   float64
	Seed         int64
	// DegeneratePolicy is the default zero-variance feature handling
	// (fail, infinite or exclude); requests may override it per run.
	DegeneratePolicy string
}

// DataConfig holds data processing settings
type DataConfig struct {
	ExcelFile string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Simulate: SimulateConfig{
			Features:         getEnvIntOrDefault("SIM_FEATURES", 1000),
			Samples:          getEnvIntOrDefault("SIM_SAMPLES", 6),
			DiffFraction:     getEnvFloatOrDefault("SIM_DIFF_FRACTION", 0.1),
			FoldChange:       getEnvFloatOrDefault("SIM_FOLD_CHANGE", 2.0),
			PriorDF:          getEnvFloatOrDefault("SIM_PRIOR_DF", 4.0),
			PriorScale:       getEnvFloatOrDefault("SIM_PRIOR_SCALE", 0.5),
			Seed:             int64(getEnvIntOrDefault("SIM_SEED", 42)),
			DegeneratePolicy: getEnvOrDefault("SIM_DEGENERATE_POLICY", "exclude"),
		},
		Data: DataConfig{
			ExcelFile: getEnvOrDefault("EXCEL_FILE", ""),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Simulate.Features <= 0 {
		return errors.ConfigInvalid("SIM_FEATURES must be positive")
	}
	if config.Simulate.Samples <= 0 || config.Simulate.Samples%2 != 0 {
		return errors.ConfigInvalid("SIM_SAMPLES must be positive and even")
	}
	if config.Simulate.DiffFraction < 0 || config.Simulate.DiffFraction > 1 {
		return errors.ConfigInvalid("SIM_DIFF_FRACTION must be in [0,1]")
	}
	switch config.Simulate.DegeneratePolicy {
	case "fail", "infinite", "exclude":
	default:
		return errors.ConfigInvalid("SIM_DEGENERATE_POLICY must be fail, infinite or exclude")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
