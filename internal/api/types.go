package api

import (
	"context"
)

// CallToolResult represents the result of a tool call. String content is
// sent as-is; anything else is marshalled to JSON by the transport.
type CallToolResult struct {
	Content []interface{} `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// ToolMetadata describes a tool that can be exposed
type ToolMetadata struct {
	Name        string // e.g., "get_resource", "list_services"
	Description string
	Args        []ArgMetadata
}

// ArgMetadata describes a tool argument
type ArgMetadata struct {
	Name        string
	Type        string // "string", "number", "boolean", "object"
	Required    bool
	Description string
	Default     interface{}

	// Schema, when set, replaces the type-derived JSON schema for the argument.
	Schema map[string]interface{}
}

// ToolProvider is implemented by packages that expose agent-facing tools.
type ToolProvider interface {
	// Returns all tools this provider offers
	GetTools() []ToolMetadata

	// Executes a tool by name
	ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (*CallToolResult, error)
}
