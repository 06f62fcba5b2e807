// Package api defines the contract between tool providers and the transports
// that expose them.
//
// A ToolProvider describes its tools with ToolMetadata and executes them by
// name. Transports (the MCP server, tests, the CLI) only ever see these types,
// so a provider never depends on mcp-go and a transport never depends on the
// lookup packages.
//
// # Results
//
// ExecuteTool returns a *CallToolResult for every outcome the agent should
// see, including failures it can act on (IsError true). A Go error is
// reserved for calls that could not be dispatched at all, such as an unknown
// tool name.
//
// # Example
//
//	type MyToolProvider struct {
//	    tools []ToolMetadata
//	}
//
//	func (p *MyToolProvider) GetTools() []ToolMetadata {
//	    return p.tools
//	}
//
//	func (p *MyToolProvider) ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (*CallToolResult, error) {
//	    return &CallToolResult{Content: []interface{}{result}, IsError: false}, nil
//	}
package api
