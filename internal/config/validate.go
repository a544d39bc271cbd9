package config

import (
	"fmt"
	"net/url"
)

// Validate checks the resolved configuration for values the client cannot
// work with.
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("api_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("api_url: unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("api_url: missing host in %q", c.APIURL)
	}

	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format: unsupported value %q", c.LogFormat)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unsupported value %q", c.LogLevel)
	}
	return nil
}
