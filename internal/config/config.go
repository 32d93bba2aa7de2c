// Package config provides configuration loading and validation for diskavl.
package config

import (
	"github.com/luobolong/disk-avl/internal/logging"
	"github.com/luobolong/disk-avl/internal/storage/avl"
)

// Config holds the complete diskavl configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage" json:"storage"`
	Logging LogConfig     `yaml:"logging" json:"logging"`
	Backup  BackupConfig  `yaml:"backup" json:"backup"`
	Seed    SeedConfig    `yaml:"seed" json:"seed"`
}

// StorageConfig holds tree file configuration.
type StorageConfig struct {
	Path        string `yaml:"path" json:"path"`
	SyncOnWrite bool   `yaml:"syncOnWrite" json:"syncOnWrite"`
	ReadOnly    bool   `yaml:"readOnly" json:"readOnly"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Output string `yaml:"output" json:"output"`
}

// BackupConfig holds dump defaults.
type BackupConfig struct {
	Compress bool `yaml:"compress" json:"compress"`
}

// SeedConfig holds the defaults of the seed command.
type SeedConfig struct {
	Records int   `yaml:"records" json:"records"`
	Min     int32 `yaml:"min" json:"min"`
	Max     int32 `yaml:"max" json:"max"`
}

// LoggerConfig converts the logging section for logging.New.
func (c LogConfig) LoggerConfig() logging.Config {
	return logging.Config{
		Level:  c.Level,
		Format: c.Format,
		Output: c.Output,
	}
}

// TreeOptions builds the options used to open the configured tree.
func (c *Config) TreeOptions(logger logging.Logger) avl.Options {
	return avl.DefaultOptions().
		WithSyncOnWrite(c.Storage.SyncOnWrite).
		WithReadOnly(c.Storage.ReadOnly).
		WithLogger(logger)
}
