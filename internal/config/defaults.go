package config

import (
	"time"

	"custodian/internal/audit"
)

const (
	// DefaultPort is the default listen port.
	DefaultPort = 8090

	// DefaultHandlerTimeout bounds every live-status handler call.
	DefaultHandlerTimeout = 5 * time.Second
)

// GetDefaultConfig returns the default configuration: an in-memory catalog
// served over streamable-http on localhost.
func GetDefaultConfig() CustodianConfig {
	return CustodianConfig{
		Server: ServerConfig{
			Host:      "localhost",
			Port:      DefaultPort,
			Transport: MCPTransportStreamableHTTP,
		},
		Catalog: CatalogConfig{
			Backend: CatalogBackendMemory,
		},
		Lookup: LookupConfig{
			HandlerTimeout: DefaultHandlerTimeout,
		},
		Audit: audit.Config{
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
	}
}
