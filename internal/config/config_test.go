package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected no config file")
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("expected default api url, got %q", cfg.APIURL)
	}
	if cfg.Tenant != defaultTenant {
		t.Fatalf("expected default tenant, got %q", cfg.Tenant)
	}
	if cfg.RequestTimeoutSeconds != defaultRequestTimeoutSeconds {
		t.Fatalf("expected default timeout, got %d", cfg.RequestTimeoutSeconds)
	}
}

func TestLoadParsesFileAndTrimsAPIURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := `
api_url = "https://api.example.com/"
tenant = "acme"
log_format = "json"
request_timeout_seconds = 5
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected file at %q to be used, got %q exists=%v", path, resolved, exists)
	}
	if cfg.APIURL != "https://api.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.APIURL)
	}
	if cfg.Tenant != "acme" {
		t.Fatalf("expected tenant acme, got %q", cfg.Tenant)
	}
	if cfg.LogFormat != "json" {
		t.Fatalf("expected json log format, got %q", cfg.LogFormat)
	}
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`tenant = "from-file"`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("LEADMAGNET_TENANT", "from-env")
	t.Setenv("LEADMAGNET_TOKEN", "tok-123")

	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Tenant != "from-env" {
		t.Fatalf("expected env override, got %q", cfg.Tenant)
	}
	if cfg.Token != "tok-123" {
		t.Fatalf("expected env token, got %q", cfg.Token)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad scheme", func(c *Config) { c.APIURL = "ftp://example.com" }},
		{"missing host", func(c *Config) { c.APIURL = "http://" }},
		{"bad format", func(c *Config) { c.LogFormat = "yaml" }},
		{"bad level", func(c *Config) { c.LogLevel = "verbose" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			if err := cfg.normalize(); err != nil {
				t.Fatalf("normalize: %v", err)
			}
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err := ExpandPath("~/state")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "state") {
		t.Fatalf("expected home expansion, got %q", got)
	}
}
