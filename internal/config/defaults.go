package config

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:        "tree.avl",
			SyncOnWrite: false,
			ReadOnly:    false,
		},
		Logging: LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Backup: BackupConfig{
			Compress: true,
		},
		Seed: SeedConfig{
			Records: 1000,
			Min:     0,
			Max:     1000000,
		},
	}
}
