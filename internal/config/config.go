package config

import (
	"os"
	"strconv"

	"github.com/Ivanfun/ivan-excel-type-checker/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Upload  UploadConfig
	Storage StorageConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// UploadConfig holds upload handling settings
type UploadConfig struct {
	// MaxFileSizeMB bounds the accepted upload body size.
	MaxFileSizeMB int
	// MaxConcurrentJobs bounds how many workbooks are processed at once.
	MaxConcurrentJobs int
}

// StorageConfig holds file system paths for transient artifacts
type StorageConfig struct {
	// OutputDir receives finished report files served for download.
	OutputDir string
	// ClearOnStart wipes stale reports from OutputDir during startup.
	ClearOnStart bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:  loadServerConfig(),
		Upload:  loadUploadConfig(),
		Storage: loadStorageConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port: getEnvOrDefault("PORT", "8000"),
	}
}

func loadUploadConfig() UploadConfig {
	return UploadConfig{
		MaxFileSizeMB:     getEnvIntOrDefault("MAX_FILE_SIZE_MB", 10),
		MaxConcurrentJobs: getEnvIntOrDefault("MAX_CONCURRENT_JOBS", 4),
	}
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		OutputDir:    getEnvOrDefault("OUTPUT_DIR", "temp_output"),
		ClearOnStart: getEnvBoolOrDefault("OUTPUT_CLEAR_ON_START", true),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT cannot be empty")
	}
	if config.Upload.MaxFileSizeMB <= 0 {
		return errors.ConfigInvalid("MAX_FILE_SIZE_MB must be positive")
	}
	if config.Upload.MaxConcurrentJobs <= 0 {
		return errors.ConfigInvalid("MAX_CONCURRENT_JOBS must be positive")
	}
	if config.Storage.OutputDir == "" {
		return errors.ConfigInvalid("OUTPUT_DIR cannot be empty")
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
