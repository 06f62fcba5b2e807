package app

import (
	"custodian/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Debug settings
	Debug bool

	// Silent suppresses log output entirely.
	Silent bool

	// Custom configuration path (optional)
	ConfigPath string

	// Version is reported to MCP clients.
	Version string

	// Custodian is the loaded configuration. NewApplication fills it in
	// when nil.
	Custodian *config.CustodianConfig
}

// NewConfig creates a new application configuration
func NewConfig(debug, silent bool, configPath, version string) *Config {
	return &Config{
		Debug:      debug,
		Silent:     silent,
		ConfigPath: configPath,
		Version:    version,
	}
}
