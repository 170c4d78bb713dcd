package common

import (
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Logging  LoggingConfig
	Pipeline PipelineConfig
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level string // debug, info, warn, error
}

// PipelineConfig holds pipeline-related configuration
type PipelineConfig struct {
	Workers       int
	PolicyFile    string
	MinConfidence float64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: getEnv("DOCQC_LOG_LEVEL", "info"),
		},
		Pipeline: PipelineConfig{
			Workers:       getEnvAsInt("DOCQC_WORKERS", 4),
			PolicyFile:    getEnv("DOCQC_POLICY_FILE", ""),
			MinConfidence: getEnvAsFloat64("DOCQC_MIN_CONFIDENCE", 0.0),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Pipeline.Workers < 1 {
		return NewAppError("CONFIG_ERROR", "DOCQC_WORKERS must be at least 1", ErrInvalidInput)
	}
	if c.Pipeline.MinConfidence < 0 || c.Pipeline.MinConfidence > 1 {
		return NewAppError("CONFIG_ERROR", "DOCQC_MIN_CONFIDENCE must be within [0,1]", ErrInvalidInput)
	}
	return nil
}
