// Package server exposes tool providers to agents over MCP.
//
// The server wraps a mark3labs/mcp-go MCPServer. Tools are taken from
// api.ToolProvider implementations once at construction; the tool set does
// not change at runtime.
//
// # Transports
//
//   - streamable-http (default): mounted at /mcp on the shared HTTP router
//   - sse: /sse and /message on the shared HTTP router
//   - stdio: reads JSON-RPC from stdin, writes to stdout
//
// The HTTP transports share the listener of the REST API so one port serves
// agents, operators and Prometheus.
package server
