package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"custodian/internal/catalog"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeNotFound indicates the requested service does not exist.
	ExitCodeNotFound = 2
	// ExitCodeUnavailable indicates the catalog backend could not be reached.
	ExitCodeUnavailable = 3
)

// rootCmd represents the base command for the custodian application.
var rootCmd *cobra.Command

func init() {
	rootCmd = newRootCmd()
}

// newRootCmd builds the command tree. Tests build a fresh tree per case so
// flag values do not leak between them.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "custodian",
		Short: "Resource ownership and live status for incident agents",
		Long: `custodian answers "who owns this resource, what state is it in, and what
is it connected to" for AI incident agents.

It resolves resource ids (ord-1234, pay-991, ...) against the ownership
patterns in a service catalog, fetches live status from the owning service,
and serves the answers as MCP tools and a REST API.`,
		// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config-path", "", "Configuration directory (default ~/.config/custodian)")
	root.PersistentFlags().Bool("debug", false, "Enable debug logging")

	root.AddCommand(newServeCmd())
	root.AddCommand(newLookupCmd())
	root.AddCommand(newOwnerCmd())
	root.AddCommand(newServicesCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "custodian version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	switch {
	case catalog.IsUnavailable(err):
		return ExitCodeUnavailable
	case errors.Is(err, catalog.ErrServiceNotFound):
		return ExitCodeNotFound
	default:
		return ExitCodeError
	}
}
