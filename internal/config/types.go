package config

import (
	"time"

	"custodian/internal/adapters/kubernetes"
	"custodian/internal/audit"
)

// CustodianConfig is the top-level configuration structure for custodian.
type CustodianConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Lookup     LookupConfig     `yaml:"lookup"`
	Audit      audit.Config     `yaml:"audit"`
	Webhook    WebhookConfig    `yaml:"webhook"`
	Kubernetes KubernetesConfig `yaml:"kubernetes"`
}

const (
	// MCPTransportStreamableHTTP is the streamable HTTP transport.
	MCPTransportStreamableHTTP = "streamable-http"
	// MCPTransportSSE is the Server-Sent Events transport.
	MCPTransportSSE = "sse"
	// MCPTransportStdio is the standard I/O transport.
	MCPTransportStdio = "stdio"
)

// Catalog backends.
const (
	CatalogBackendMemory   = "memory"
	CatalogBackendFile     = "file"
	CatalogBackendSQLite   = "sqlite"
	CatalogBackendPostgres = "postgres"
)

// ServerConfig defines the HTTP listener shared by MCP and the REST API.
type ServerConfig struct {
	Host           string   `yaml:"host,omitempty"`           // Host to bind to (default: localhost)
	Port           int      `yaml:"port,omitempty"`           // Port to listen on (default: 8090)
	Transport      string   `yaml:"transport,omitempty"`      // MCP transport (default: streamable-http)
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"` // CORS origins (default: *)
}

// CatalogConfig selects and configures the catalog backend.
type CatalogConfig struct {
	Backend   string `yaml:"backend,omitempty"`
	Directory string `yaml:"directory,omitempty"` // fixture directory (file backend, optional seed for memory)
	DSN       string `yaml:"dsn,omitempty"`       // sqlite path or postgres connection string
	Watch     bool   `yaml:"watch,omitempty"`     // reload Directory on change (file backend)
}

// LookupConfig tunes resource lookups.
type LookupConfig struct {
	HandlerTimeout        time.Duration `yaml:"handlerTimeout,omitempty"`
	IncludeContextDefault *bool         `yaml:"includeContextDefault,omitempty"`
}

// IncludeContext returns the effective include-context default.
func (c LookupConfig) IncludeContext() bool {
	return c.IncludeContextDefault == nil || *c.IncludeContextDefault
}

// WebhookConfig secures the GitOps catalog webhook.
type WebhookConfig struct {
	Token string `yaml:"token,omitempty"`
}

// KubernetesConfig enables client-go backed live-status handlers.
type KubernetesConfig struct {
	Enabled    bool                       `yaml:"enabled,omitempty"`
	Kubeconfig string                     `yaml:"kubeconfig,omitempty"`
	Cluster    string                     `yaml:"cluster,omitempty"`
	Handlers   []kubernetes.HandlerConfig `yaml:"handlers,omitempty"`
}
