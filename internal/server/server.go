package server

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/mark3labs/mcp-go/server"

	"custodian/internal/api"
	"custodian/pkg/logging"
)

// Supported transports.
const (
	TransportStreamableHTTP = "streamable-http"
	TransportSSE            = "sse"
	TransportStdio          = "stdio"
)

// Config configures the MCP server.
type Config struct {
	Name      string
	Version   string
	Transport string
	// BaseURL is advertised to SSE clients, e.g. http://localhost:8090.
	BaseURL string
}

// MCPServer serves tool providers over one MCP transport.
type MCPServer struct {
	config Config
	server *server.MCPServer

	// Transport-specific servers
	sseServer            *server.SSEServer
	streamableHTTPServer *server.StreamableHTTPServer

	mu        sync.Mutex
	toolNames []string
}

// New creates an MCP server exposing the tools of every provider.
func New(cfg Config, providers ...api.ToolProvider) *MCPServer {
	if cfg.Name == "" {
		cfg.Name = "custodian"
	}
	if cfg.Transport == "" {
		cfg.Transport = TransportStreamableHTTP
	}

	s := &MCPServer{
		config: cfg,
		server: server.NewMCPServer(
			cfg.Name,
			cfg.Version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
	}

	for _, provider := range providers {
		tools := createTools(provider)
		for _, tool := range tools {
			s.toolNames = append(s.toolNames, tool.Tool.Name)
		}
		s.server.AddTools(tools...)
	}
	logging.Info("MCPServer", "Registered %d tools", len(s.toolNames))

	switch cfg.Transport {
	case TransportSSE:
		s.sseServer = server.NewSSEServer(
			s.server,
			server.WithBaseURL(cfg.BaseURL),
			server.WithSSEEndpoint("/sse"),
			server.WithMessageEndpoint("/message"),
			server.WithKeepAlive(true),
			server.WithKeepAliveInterval(30*time.Second),
		)
	case TransportStdio:
	default:
		s.streamableHTTPServer = server.NewStreamableHTTPServer(s.server, server.WithEndpointPath("/mcp"))
	}
	return s
}

// ToolNames returns the names of the registered tools in registration order.
func (s *MCPServer) ToolNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.toolNames))
	copy(out, s.toolNames)
	return out
}

// Transport returns the configured transport.
func (s *MCPServer) Transport() string {
	return s.config.Transport
}

// Mount registers the HTTP transport endpoints on router. It is a no-op for
// stdio.
func (s *MCPServer) Mount(router *mux.Router) {
	switch {
	case s.streamableHTTPServer != nil:
		router.Handle("/mcp", s.streamableHTTPServer)
		logging.Info("MCPServer", "Serving MCP over streamable-http at /mcp")
	case s.sseServer != nil:
		router.Handle("/sse", s.sseServer.SSEHandler())
		router.Handle("/message", s.sseServer.MessageHandler())
		logging.Info("MCPServer", "Serving MCP over sse at /sse")
	}
}

// ServeStdio serves MCP on stdin/stdout until ctx is cancelled.
func (s *MCPServer) ServeStdio(ctx context.Context) error {
	if s.config.Transport != TransportStdio {
		return fmt.Errorf("transport is %s, not %s", s.config.Transport, TransportStdio)
	}
	logging.Info("MCPServer", "Serving MCP over stdio")
	return server.NewStdioServer(s.server).Listen(ctx, os.Stdin, os.Stdout)
}

// Shutdown closes open MCP sessions on the HTTP transports.
func (s *MCPServer) Shutdown(ctx context.Context) error {
	if s.sseServer != nil {
		if err := s.sseServer.Shutdown(ctx); err != nil {
			logging.Error("MCPServer", err, "Error shutting down SSE server")
			return err
		}
	}
	if s.streamableHTTPServer != nil {
		if err := s.streamableHTTPServer.Shutdown(ctx); err != nil {
			logging.Error("MCPServer", err, "Error shutting down streamable HTTP server")
			return err
		}
	}
	return nil
}
