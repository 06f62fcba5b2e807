package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"custodian/internal/app"
	"custodian/internal/config"
	"custodian/internal/formatting"
)

// loadConfig reads config.yaml from --config-path and sets up logging for a
// one-shot command: quiet on stderr unless --debug is given.
func loadConfig(cmd *cobra.Command) (config.CustodianConfig, error) {
	configPath, _ := cmd.Flags().GetString("config-path")
	debug, _ := cmd.Flags().GetBool("debug")

	app.InitLogging(debug, !debug, config.MCPTransportStdio)

	if configPath == "" {
		configPath = config.GetDefaultConfigPathOrPanic()
	}
	return config.LoadConfig(configPath)
}

// withServices runs fn against freshly initialized services and closes them.
func withServices(cmd *cobra.Command, fn func(*app.Services) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	services, err := app.InitializeServices(cmd.Context(), cfg, GetVersion())
	if err != nil {
		return err
	}
	defer services.Close()
	return fn(services)
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", string(formatting.FormatTable), "Output format: json, yaml or table")
}

func formatterFor(cmd *cobra.Command) (formatting.Formatter, error) {
	output, _ := cmd.Flags().GetString("output")
	format, err := formatting.ParseFormat(output)
	if err != nil {
		return nil, fmt.Errorf("--output: %w", err)
	}
	return formatting.New(formatting.Options{Format: format, Out: cmd.OutOrStdout()}), nil
}
