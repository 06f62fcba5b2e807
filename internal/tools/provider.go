package tools

import (
	"context"

	"custodian/internal/api"
	"custodian/internal/audit"
	"custodian/internal/catalog"
	"custodian/internal/dependency"
	"custodian/internal/lookup"
)

// Backend is what the tools need from the lookup layer. *lookup.Service
// implements it.
type Backend interface {
	Lookup(ctx context.Context, id string, opts lookup.LookupOptions) (*lookup.Response, error)
	FindResourceOwner(ctx context.Context, id string) (*lookup.OwnerResponse, error)
	GetService(ctx context.Context, name string) (*catalog.ServiceRecord, error)
	ListServices(ctx context.Context, team string) ([]lookup.ServiceSummary, error)
	Dependencies(ctx context.Context, name string) ([]dependency.Edge, bool, error)
	Dependents(ctx context.Context, name string) ([]dependency.Edge, bool, error)
}

var _ Backend = (*lookup.Service)(nil)

// Tool names.
const (
	ToolGetResource            = "get_resource"
	ToolFindResourceOwner      = "find_resource_owner"
	ToolGetService             = "get_service"
	ToolListServices           = "list_services"
	ToolGetDependencies        = "get_dependencies"
	ToolGetReverseDependencies = "get_reverse_dependencies"
)

// Options tunes a Provider.
type Options struct {
	// IncludeContextDefault is used when get_resource is called without
	// include_context.
	IncludeContextDefault bool
	Audit                 *audit.Logger
}

// Provider implements the api.ToolProvider interface for the incident tools.
//
// The Provider is stateless apart from its backend and can be safely used
// concurrently across multiple requests.
type Provider struct {
	backend               Backend
	includeContextDefault bool
	audit                 *audit.Logger
}

var _ api.ToolProvider = (*Provider)(nil)

// NewProvider creates a new tool provider over backend.
func NewProvider(backend Backend, opts Options) *Provider {
	if opts.Audit == nil {
		opts.Audit = audit.Nop()
	}
	return &Provider{
		backend:               backend,
		includeContextDefault: opts.IncludeContextDefault,
		audit:                 opts.Audit,
	}
}

// GetTools returns metadata for all tools this provider offers.
// This implements the api.ToolProvider interface for tool discovery.
//
// Returns:
//   - []api.ToolMetadata: List of all tools provided
func (p *Provider) GetTools() []api.ToolMetadata {
	return []api.ToolMetadata{
		// Resource tools
		{
			Name: ToolGetResource,
			Description: "Look up a resource by id (for example ord-1234). Returns its live status when a " +
				"handler is available, the owning service and team, and related services. " +
				"status is \"not_found\" when no live status could be obtained; see note and handler_error.",
			Args: []api.ArgMetadata{
				{
					Name:        "resource_id",
					Type:        "string",
					Required:    true,
					Description: "Identifier of the resource to look up",
				},
				{
					Name:        "include_context",
					Type:        "boolean",
					Required:    false,
					Description: "Whether to attach owner_context and related_services",
					Default:     p.includeContextDefault,
				},
			},
		},
		{
			Name:        ToolFindResourceOwner,
			Description: "Find which service and team own a resource id, from the catalog alone (no live-status call)",
			Args: []api.ArgMetadata{
				{
					Name:        "resource_id",
					Type:        "string",
					Required:    true,
					Description: "Identifier of the resource",
				},
			},
		},

		// Catalog tools
		{
			Name:        ToolGetService,
			Description: "Get the catalog entry of a service: team, escalation, dependencies, resource patterns and observability",
			Args: []api.ArgMetadata{
				{
					Name:        "name",
					Type:        "string",
					Required:    true,
					Description: "Name of the service",
				},
			},
		},
		{
			Name:        ToolListServices,
			Description: "List services in the catalog with their team and resource patterns",
			Args: []api.ArgMetadata{
				{
					Name:        "team",
					Type:        "string",
					Required:    false,
					Description: "Only list services owned by this team",
				},
			},
		},
		{
			Name:        ToolGetDependencies,
			Description: "List the dependencies a service declares (services, databases, external systems, AWS resources)",
			Args: []api.ArgMetadata{
				{
					Name:        "name",
					Type:        "string",
					Required:    true,
					Description: "Name of the service",
				},
			},
		},
		{
			Name:        ToolGetReverseDependencies,
			Description: "List the services that declare a dependency on a service (its blast radius)",
			Args: []api.ArgMetadata{
				{
					Name:        "name",
					Type:        "string",
					Required:    true,
					Description: "Name of the service",
				},
			},
		},
	}
}
