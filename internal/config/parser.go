package config

import (
	"bytes"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Parser errors.
var (
	ErrInvalidYAML  = errors.New("config: invalid YAML")
	ErrFileNotFound = errors.New("config: configuration file not found")
)

// envPattern matches ${VAR} and ${VAR:-default}.
var envPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// LoadConfig loads configuration from a file path.
// It reads the file, substitutes environment variables, parses YAML,
// and applies defaults for missing values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrFileNotFound, path)
		}
		return nil, errors.Wrapf(err, "config: read %s", path)
	}

	return ParseConfig(data)
}

// ParseConfig parses configuration from YAML data.
// Keys missing from data keep their defaults; unknown keys are rejected.
func ParseConfig(data []byte) (*Config, error) {
	data = substituteEnvVars(data)

	config := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && err != io.EOF {
		return nil, errors.Mark(errors.Wrap(err, "config: parse"), ErrInvalidYAML)
	}

	return config, nil
}

// MarshalYAML renders cfg as a YAML document.
func MarshalYAML(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, errors.Wrap(err, "config: encode")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "config: encode")
	}
	return buf.Bytes(), nil
}

// substituteEnvVars replaces ${VAR} and ${VAR:-default} patterns with
// environment variable values.
func substituteEnvVars(data []byte) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		content := string(match[2 : len(match)-1])

		if idx := strings.Index(content, ":-"); idx != -1 {
			if val := os.Getenv(content[:idx]); val != "" {
				return []byte(val)
			}
			return []byte(content[idx+2:])
		}

		return []byte(os.Getenv(content))
	})
}
