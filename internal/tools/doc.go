// Package tools provides the agent-facing incident tools.
//
// The Provider implements api.ToolProvider on top of the lookup service and
// is exposed to agents by the MCP server. Every result is JSON text.
//
// # Available Tools
//
// Resource tools:
//   - get_resource: live status, owner and related services of a resource id
//   - find_resource_owner: owning service of a resource id, catalog only
//
// Catalog tools:
//   - get_service: one catalog entry
//   - list_services: catalog summary, optionally for one team
//   - get_dependencies: edges a service declares
//   - get_reverse_dependencies: services that depend on a service
//
// # Errors
//
// Unknown resources and services are ordinary results the agent can reason
// about. Only a missing required argument or an unavailable catalog produce
// an error result (IsError true).
package tools
