package cmd

import (
	"github.com/spf13/cobra"

	"custodian/internal/app"
	"custodian/internal/lookup"
)

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <resource-id>",
		Short: "Look up a resource: owner, live status and related services",
		Long: `Resolves the resource id against the catalog, fetches live status from the
owning service's handler, and prints the same result the get_resource tool
returns. A resource nobody owns, or whose handler fails, is reported with
status not_found rather than as an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			noContext, _ := cmd.Flags().GetBool("no-context")
			f, err := formatterFor(cmd)
			if err != nil {
				return err
			}
			return withServices(cmd, func(s *app.Services) error {
				resp, err := s.Lookup.Lookup(cmd.Context(), args[0], lookup.LookupOptions{IncludeContext: !noContext})
				if err != nil {
					return err
				}
				return f.FormatLookup(resp)
			})
		},
	}
	cmd.Flags().Bool("no-context", false, "Omit owner context and related services")
	addOutputFlag(cmd)
	return cmd
}

func newOwnerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "owner <resource-id>",
		Short: "Show which service owns a resource, without calling any handler",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formatterFor(cmd)
			if err != nil {
				return err
			}
			return withServices(cmd, func(s *app.Services) error {
				resp, err := s.Lookup.FindResourceOwner(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return f.FormatOwner(resp)
			})
		},
	}
	addOutputFlag(cmd)
	return cmd
}
