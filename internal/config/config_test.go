package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luobolong/disk-avl/internal/logging"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	t.Run("storage defaults", func(t *testing.T) {
		assert.Equal(t, "tree.avl", config.Storage.Path)
		assert.False(t, config.Storage.SyncOnWrite)
		assert.False(t, config.Storage.ReadOnly)
	})

	t.Run("logging defaults", func(t *testing.T) {
		assert.Equal(t, "info", config.Logging.Level)
		assert.Equal(t, "text", config.Logging.Format)
		assert.Equal(t, "stderr", config.Logging.Output)
	})

	t.Run("backup and seed defaults", func(t *testing.T) {
		assert.True(t, config.Backup.Compress)
		assert.Equal(t, 1000, config.Seed.Records)
		assert.Equal(t, int32(0), config.Seed.Min)
		assert.Equal(t, int32(1000000), config.Seed.Max)
	})

	t.Run("defaults are valid", func(t *testing.T) {
		assert.Empty(t, ValidateConfig(config))
	})
}

func TestParseConfig(t *testing.T) {
	data := []byte(`
storage:
  path: /data/keys.avl
  syncOnWrite: true
logging:
  level: debug
  format: json
backup:
  compress: false
seed:
  records: 50
  min: -100
  max: 100
`)

	config, err := ParseConfig(data)
	require.NoError(t, err)

	assert.Equal(t, "/data/keys.avl", config.Storage.Path)
	assert.True(t, config.Storage.SyncOnWrite)
	assert.False(t, config.Storage.ReadOnly)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, "json", config.Logging.Format)
	assert.Equal(t, "stderr", config.Logging.Output, "absent keys keep defaults")
	assert.False(t, config.Backup.Compress)
	assert.Equal(t, SeedConfig{Records: 50, Min: -100, Max: 100}, config.Seed)
}

func TestParseConfigEmpty(t *testing.T) {
	config, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "storage:\n  dataDir: /var/lib\n"},
		{"wrong type", "storage:\n  syncOnWrite: sometimes\n"},
		{"malformed", "storage: [unclosed\n"},
		{"key overflow", "seed:\n  max: 99999999999\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidYAML))
		})
	}
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("DISKAVL_TEST_DIR", "/srv/avl")
	t.Setenv("DISKAVL_TEST_EMPTY", "")

	tests := []struct {
		input    string
		expected string
	}{
		{"path: ${DISKAVL_TEST_DIR}/tree.avl", "path: /srv/avl/tree.avl"},
		{"path: ${DISKAVL_TEST_MISSING:-fallback.avl}", "path: fallback.avl"},
		{"path: ${DISKAVL_TEST_EMPTY:-fallback.avl}", "path: fallback.avl"},
		{"path: ${DISKAVL_TEST_DIR:-unused}", "path: /srv/avl"},
		{"path: ${DISKAVL_TEST_MISSING}", "path: "},
		{"path: plain", "path: plain"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(substituteEnvVars([]byte(tt.input))))
		})
	}
}

func TestParseConfigWithEnv(t *testing.T) {
	t.Setenv("DISKAVL_TEST_LEVEL", "warn")

	config, err := ParseConfig([]byte("logging:\n  level: ${DISKAVL_TEST_LEVEL}\n"))
	require.NoError(t, err)
	assert.Equal(t, "warn", config.Logging.Level)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("existing file", func(t *testing.T) {
		path := filepath.Join(dir, "diskavl.yaml")
		require.NoError(t, os.WriteFile(path, []byte("storage:\n  path: loaded.avl\n"), 0644))

		config, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "loaded.avl", config.Storage.Path)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
		assert.ErrorIs(t, err, ErrFileNotFound)
	})
}

func TestMarshalYAMLRoundTrip(t *testing.T) {
	config := DefaultConfig()
	config.Storage.Path = "/tmp/round.avl"
	config.Logging.Format = "json"
	config.Seed.Min = -5

	data, err := MarshalYAML(config)
	require.NoError(t, err)
	assert.Contains(t, string(data), "syncOnWrite: false")

	parsed, err := ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, config, parsed)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv(EnvStoragePath, "/env/tree.avl")
	t.Setenv(EnvStorageSyncOnWrite, "true")
	t.Setenv(EnvLoggingLevel, "debug")
	t.Setenv(EnvLoggingFormat, "json")
	t.Setenv(EnvLoggingOutput, "stdout")

	config := DefaultConfig()
	require.NoError(t, ApplyEnvOverrides(config))

	assert.Equal(t, "/env/tree.avl", config.Storage.Path)
	assert.True(t, config.Storage.SyncOnWrite)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, "json", config.Logging.Format)
	assert.Equal(t, "stdout", config.Logging.Output)
}

func TestApplyEnvOverridesBadBool(t *testing.T) {
	t.Setenv(EnvStorageSyncOnWrite, "maybe")

	err := ApplyEnvOverrides(DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvStorageSyncOnWrite)
}

func TestValidateConfig(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		modify func(*Config)
		fields []string
	}{
		{"valid", func(c *Config) {}, nil},
		{"empty path", func(c *Config) { c.Storage.Path = "  " }, []string{"storage.path"}},
		{"path is directory", func(c *Config) { c.Storage.Path = dir }, []string{"storage.path"}},
		{"sync on read-only", func(c *Config) {
			c.Storage.ReadOnly = true
			c.Storage.SyncOnWrite = true
		}, []string{"storage.syncOnWrite"}},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, []string{"logging.level"}},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, []string{"logging.format"}},
		{"missing log dir", func(c *Config) {
			c.Logging.Output = filepath.Join(dir, "nope", "diskavl.log")
		}, []string{"logging.output"}},
		{"negative records", func(c *Config) { c.Seed.Records = -1 }, []string{"seed.records"}},
		{"empty range", func(c *Config) { c.Seed.Min, c.Seed.Max = 10, 10 }, []string{"seed.max"}},
		{"range too small", func(c *Config) {
			c.Seed.Min, c.Seed.Max, c.Seed.Records = 0, 5, 6
		}, []string{"seed.records"}},
		{"multiple", func(c *Config) {
			c.Logging.Level = "loud"
			c.Logging.Format = "yaml"
		}, []string{"logging.level", "logging.format"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)

			errs := ValidateConfig(config)
			var fields []string
			for _, err := range errs {
				var ve ValidationError
				require.True(t, errors.As(err, &ve))
				fields = append(fields, ve.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidationError{Field: "logging.level", Message: "must be debug, info, warn, or error"}
	assert.Equal(t, "logging.level: must be debug, info, warn, or error", err.Error())
}

func TestConversions(t *testing.T) {
	config := DefaultConfig()
	config.Storage.ReadOnly = true
	config.Logging = LogConfig{Level: "warn", Format: "json", Output: "stdout"}

	assert.Equal(t, logging.Config{Level: "warn", Format: "json", Output: "stdout"}, config.Logging.LoggerConfig())

	opts := config.TreeOptions(logging.NewNop())
	assert.True(t, opts.Storage.ReadOnly)
	assert.False(t, opts.Storage.SyncOnWrite)
	assert.True(t, opts.Storage.CreateIfNew)
	assert.NotNil(t, opts.Logger)
}
