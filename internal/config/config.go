package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Config holds all client configuration.
type Config struct {
	// APIURL is the base URL of the lead-magnet backend.
	APIURL string `toml:"api_url" env:"LEADMAGNET_API_URL"`
	// Tenant is the tenant identifier stamped on every request.
	Tenant string `toml:"tenant" env:"LEADMAGNET_TENANT"`
	// Token is a bearer credential override; normally credentials come from
	// the workspace store after login. Env-only, never written to disk.
	Token string `toml:"-" env:"LEADMAGNET_TOKEN"`
	// StateDir holds the workspace database and lock file.
	StateDir string `toml:"state_dir" env:"LEADMAGNET_STATE_DIR"`

	LogLevel  string `toml:"log_level" env:"LEADMAGNET_LOG_LEVEL"`
	LogFormat string `toml:"log_format" env:"LEADMAGNET_LOG_FORMAT"`

	// RequestTimeoutSeconds bounds each HTTP request. Zero keeps the default.
	RequestTimeoutSeconds int `toml:"request_timeout_seconds" env:"LEADMAGNET_REQUEST_TIMEOUT_SECONDS"`
}

// Load reads the config file at path (or the default location when path is
// empty), applies environment overrides, and validates the result. It returns
// the resolved config, the path consulted, and whether a file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional and only relevant for local development.
	_ = godotenv.Load()

	if err := env.Parse(&cfg); err != nil {
		return nil, "", false, fmt.Errorf("apply env overrides: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath(defaultConfigPath)
}

// CreateSample writes a commented sample configuration file to path.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// EnsureDirectories creates the state directory if missing.
func (c *Config) EnsureDirectories() error {
	if c.StateDir == "" {
		return nil
	}
	if err := os.MkdirAll(c.StateDir, 0o755); err != nil {
		return fmt.Errorf("ensure state directory: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := ExpandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	_, err = os.Stat(defaultPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaultPath, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return defaultPath, true, nil
}

// ExpandPath resolves ~ prefixes against the current user's home directory.
func ExpandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return filepath.Clean(path), nil
}
