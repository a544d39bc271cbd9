package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}

	c.Tenant = strings.TrimSpace(c.Tenant)
	c.Token = strings.TrimSpace(c.Token)

	if strings.TrimSpace(c.StateDir) == "" {
		c.StateDir = defaultStateDir
	}
	var err error
	if c.StateDir, err = ExpandPath(c.StateDir); err != nil {
		return fmt.Errorf("state_dir: %w", err)
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat == "" {
		c.LogFormat = defaultLogFormat
	}

	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = defaultRequestTimeoutSeconds
	}
	return nil
}
