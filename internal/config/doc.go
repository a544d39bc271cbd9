// Package config loads and validates client configuration.
//
// Configuration comes from a TOML file (default ~/.config/leadmagnet/config.toml)
// with environment-variable overrides applied afterwards, so CI jobs can run
// without a config file at all. An optional .env file in the working directory
// is honored for local development.
package config
