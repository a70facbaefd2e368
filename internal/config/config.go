// Package config resolves treegram settings from a YAML file and the
// environment. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/treegram/internal/logger"
)

// EnvPath names an explicit config file. A file named this way must exist.
const EnvPath = "TREEGRAM_CONFIG"

// Config is the treegram configuration (~/.config/treegram/config.yaml).
// Priority: ENV > YAML > defaults (via env-default tags).
type Config struct {
	OOV       string `yaml:"oov"        env:"TREEGRAM_OOV"        env-default:"<UNK>"`
	LogLevel  string `yaml:"log_level"  env:"TREEGRAM_LOG_LEVEL"  env-default:"info"`
	LogFormat string `yaml:"log_format" env:"TREEGRAM_LOG_FORMAT" env-default:"auto"`

	// Server
	ServerAddress string        `yaml:"server_address" env:"TREEGRAM_SERVER_ADDRESS" env-default:"127.0.0.1:8080"`
	ReadTimeout   time.Duration `yaml:"read_timeout"   env:"TREEGRAM_READ_TIMEOUT"   env-default:"30s"`
}

// DefaultPath returns the per-user config file location, or "" when the
// platform has no config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "treegram", "config.yaml")
}

// Load reads the file named by $TREEGRAM_CONFIG, falling back to
// DefaultPath. Only an explicitly named file has to exist.
func Load() (*Config, error) {
	if path := os.Getenv(EnvPath); path != "" {
		return LoadFile(path, true)
	}
	return LoadFile(DefaultPath(), false)
}

// LoadFile reads path (skipped when empty, or missing and not required),
// then applies the environment and defaults, then validates.
func LoadFile(path string, required bool) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case required || !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks the values Load cannot check by type alone.
func (c *Config) Validate() error {
	if c.OOV == "" {
		return errors.New("oov token must not be empty")
	}
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case logger.FormatAuto, logger.FormatPretty, logger.FormatText, logger.FormatJSON:
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	if c.ServerAddress == "" {
		return errors.New("server_address must not be empty")
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("read_timeout must be >= 0 (got %s)", c.ReadTimeout)
	}
	return nil
}
