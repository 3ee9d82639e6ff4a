package config

import (
	"os"
	"strconv"
	"unicode/utf8"

	"studentrisk/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Dataset DatasetConfig
	Render  RenderConfig
	Ops     OpsConfig
	Log     LogConfig
}

// ServerConfig holds dashboard web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatasetConfig locates the student table
type DatasetConfig struct {
	Path      string
	Delimiter rune
}

// RenderConfig bounds report rendering
type RenderConfig struct {
	Concurrency int64
	ChartWidth  int
	ChartHeight int
}

// OpsConfig holds the health/metrics/pprof listener settings
type OpsConfig struct {
	Port    string
	Enabled bool
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// DefaultDatasetPath is the fixture the dashboard reads when nothing else is configured
const DefaultDatasetPath = "student-por.csv"

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	delimiter, err := loadDelimiter()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load dataset configuration")
	}

	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Dataset: DatasetConfig{
			Path:      getEnvOrDefault("DATASET_PATH", DefaultDatasetPath),
			Delimiter: delimiter,
		},
		Render: RenderConfig{
			Concurrency: int64(getEnvIntOrDefault("RENDER_CONCURRENCY", 1)),
			ChartWidth:  getEnvIntOrDefault("CHART_WIDTH", 560),
			ChartHeight: getEnvIntOrDefault("CHART_HEIGHT", 360),
		},
		Ops: OpsConfig{
			Port:    getEnvOrDefault("OPS_PORT", "6060"),
			Enabled: getEnvBoolOrDefault("OPS_ENABLED", true),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDelimiter() (rune, error) {
	value := getEnvOrDefault("DATASET_DELIMITER", ";")
	if utf8.RuneCountInString(value) != 1 {
		return 0, errors.ConfigInvalid("DATASET_DELIMITER must be a single character")
	}
	r, _ := utf8.DecodeRuneInString(value)
	return r, nil
}

func validateConfig(config *Config) error {
	if config.Dataset.Path == "" {
		return errors.ConfigInvalid("dataset path is required")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Render.Concurrency < 1 {
		return errors.ConfigInvalid("RENDER_CONCURRENCY must be at least 1")
	}
	if config.Render.ChartWidth <= 0 || config.Render.ChartHeight <= 0 {
		return errors.ConfigInvalid("chart dimensions must be positive")
	}
	if config.Ops.Enabled && config.Ops.Port == config.Server.Port {
		return errors.ConfigInvalid("OPS_PORT must differ from PORT")
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
