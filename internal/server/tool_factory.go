package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"custodian/internal/api"
	"custodian/pkg/logging"
)

// createTools turns a provider's tool metadata into MCP server tools.
func createTools(provider api.ToolProvider) []server.ServerTool {
	var tools []server.ServerTool
	for _, toolMeta := range provider.GetTools() {
		tools = append(tools, server.ServerTool{
			Tool: mcp.Tool{
				Name:        toolMeta.Name,
				Description: toolMeta.Description,
				InputSchema: convertToMCPSchema(toolMeta.Args),
			},
			Handler: createToolHandler(provider, toolMeta.Name),
		})
	}
	return tools
}

// createToolHandler creates an MCP handler function that executes toolName
// through provider.
func createToolHandler(provider api.ToolProvider, toolName string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		// Extract arguments from MCP request format
		args := make(map[string]interface{})
		if req.Params.Arguments != nil {
			if argsMap, ok := req.Params.Arguments.(map[string]interface{}); ok {
				args = argsMap
			}
		}

		result, err := provider.ExecuteTool(ctx, toolName, args)
		if err != nil {
			logging.Error("MCPServer", err, "Tool execution failed for %s with args %+v", toolName, args)
			return mcp.NewToolResultError(fmt.Sprintf("Tool execution failed: %v", err)), nil
		}

		return convertToMCPResult(result), nil
	}
}

// convertToMCPSchema converts internal arg metadata to MCP input schema format.
//
// When an arg has a detailed Schema field, that takes precedence over the
// basic Type field.
//
// Args:
//   - params: Slice of arg metadata from the tool provider
//
// Returns an MCP-compatible input schema with proper type information.
func convertToMCPSchema(params []api.ArgMetadata) mcp.ToolInputSchema {
	properties := make(map[string]interface{})
	required := []string{}

	for _, param := range params {
		var propSchema map[string]interface{}

		if len(param.Schema) > 0 {
			propSchema = make(map[string]interface{})
			for key, value := range param.Schema {
				propSchema[key] = value
			}
			if param.Description != "" {
				propSchema["description"] = param.Description
			}
		} else {
			propSchema = map[string]interface{}{
				"type":        param.Type,
				"description": param.Description,
			}
		}

		if param.Default != nil {
			propSchema["default"] = param.Default
		}

		properties[param.Name] = propSchema

		if param.Required {
			required = append(required, param.Name)
		}
	}

	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// convertToMCPResult converts an API tool result to MCP text content.
func convertToMCPResult(result *api.CallToolResult) *mcp.CallToolResult {
	if result == nil {
		return mcp.NewToolResultError("tool returned no result")
	}

	mcpContent := make([]mcp.Content, len(result.Content))
	for i, content := range result.Content {
		if text, ok := content.(string); ok {
			mcpContent[i] = mcp.NewTextContent(text)
		} else {
			// Marshal non-string content to JSON for MCP compatibility
			jsonBytes, _ := json.Marshal(content)
			mcpContent[i] = mcp.NewTextContent(string(jsonBytes))
		}
	}

	return &mcp.CallToolResult{
		Content: mcpContent,
		IsError: result.IsError,
	}
}
