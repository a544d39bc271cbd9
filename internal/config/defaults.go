package config

const (
	defaultAPIURL                = "http://localhost:8000"
	defaultTenant                = "demo-tenant"
	defaultStateDir              = "~/.local/share/leadmagnet"
	defaultConfigPath            = "~/.config/leadmagnet/config.toml"
	defaultLogLevel              = "info"
	defaultLogFormat             = "console"
	defaultRequestTimeoutSeconds = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		APIURL:                defaultAPIURL,
		Tenant:                defaultTenant,
		StateDir:              defaultStateDir,
		LogLevel:              defaultLogLevel,
		LogFormat:             defaultLogFormat,
		RequestTimeoutSeconds: defaultRequestTimeoutSeconds,
	}
}
