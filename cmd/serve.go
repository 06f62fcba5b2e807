package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"custodian/internal/app"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the MCP tools and REST API",
		Long: `Starts custodian: the MCP tool server for agents and the REST catalog API,
webhook, health and metrics endpoints on one listener.

The MCP transport is chosen by server.transport in config.yaml:
  streamable-http  MCP at /mcp (default)
  sse              MCP at /sse and /message
  stdio            MCP on stdin/stdout; the REST API still listens

Configuration is read from config.yaml in --config-path
(default ~/.config/custodian). Without a config file custodian serves an
empty in-memory catalog on localhost:8090.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

// runServe is the main entry point for the serve command
func runServe(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config-path")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg := app.NewConfig(debug, false, configPath, GetVersion())

	application, err := app.NewApplication(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.Run(cmd.Context())
}
