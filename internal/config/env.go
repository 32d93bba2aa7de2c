package config

import (
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
)

// Environment variables that override file settings.
const (
	EnvStoragePath        = "DISKAVL_STORAGE_PATH"
	EnvStorageSyncOnWrite = "DISKAVL_STORAGE_SYNC_ON_WRITE"
	EnvLoggingLevel       = "DISKAVL_LOGGING_LEVEL"
	EnvLoggingFormat      = "DISKAVL_LOGGING_FORMAT"
	EnvLoggingOutput      = "DISKAVL_LOGGING_OUTPUT"
)

// ApplyEnvOverrides applies DISKAVL_* environment variables on top of cfg.
func ApplyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvStoragePath); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv(EnvStorageSyncOnWrite); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "config: %s", EnvStorageSyncOnWrite)
		}
		cfg.Storage.SyncOnWrite = b
	}
	if v := os.Getenv(EnvLoggingLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLoggingFormat); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv(EnvLoggingOutput); v != "" {
		cfg.Logging.Output = v
	}
	return nil
}
