package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig validates the configuration and returns a list of validation errors.
// An empty slice indicates the configuration is valid.
func ValidateConfig(config *Config) []error {
	var errs []error

	errs = append(errs, validateStorageConfig(&config.Storage)...)
	errs = append(errs, validateLogConfig(&config.Logging)...)
	errs = append(errs, validateSeedConfig(&config.Seed)...)

	return errs
}

func validateStorageConfig(config *StorageConfig) []error {
	var errs []error

	if strings.TrimSpace(config.Path) == "" {
		errs = append(errs, ValidationError{
			Field:   "storage.path",
			Message: "tree file path is required",
		})
	} else if info, err := os.Stat(config.Path); err == nil && info.IsDir() {
		errs = append(errs, ValidationError{
			Field:   "storage.path",
			Message: "must be a file, not a directory",
		})
	}

	if config.ReadOnly && config.SyncOnWrite {
		errs = append(errs, ValidationError{
			Field:   "storage.syncOnWrite",
			Message: "has no effect on a read-only tree",
		})
	}

	return errs
}

func validateLogConfig(config *LogConfig) []error {
	var errs []error

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if config.Level != "" && !validLevels[strings.ToLower(config.Level)] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: "must be debug, info, warn, or error",
		})
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if config.Format != "" && !validFormats[strings.ToLower(config.Format)] {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: "must be text or json",
		})
	}

	if config.Output != "" && config.Output != "stdout" && config.Output != "stderr" {
		dir := filepath.Dir(config.Output)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			errs = append(errs, ValidationError{
				Field:   "logging.output",
				Message: fmt.Sprintf("directory %s does not exist", dir),
			})
		}
	}

	return errs
}

func validateSeedConfig(config *SeedConfig) []error {
	var errs []error

	if config.Records < 0 {
		errs = append(errs, ValidationError{
			Field:   "seed.records",
			Message: "must be non-negative",
		})
	}

	if config.Min >= config.Max {
		errs = append(errs, ValidationError{
			Field:   "seed.max",
			Message: "must be greater than seed.min",
		})
	} else if int64(config.Records) > int64(config.Max)-int64(config.Min) {
		errs = append(errs, ValidationError{
			Field:   "seed.records",
			Message: "exceeds the number of distinct keys between seed.min and seed.max",
		})
	}

	return errs
}
