package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"custodian/internal/app"
	"custodian/internal/catalog"
	"custodian/internal/dependency"
)

func newServicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "services",
		Aliases: []string{"service", "svc"},
		Short:   "Inspect the service catalog",
	}
	cmd.AddCommand(newServicesListCmd())
	cmd.AddCommand(newServicesGetCmd())
	cmd.AddCommand(newServicesEdgesCmd("deps", "dependencies", "List the dependencies a service declares",
		func(s *app.Services, ctx context.Context, name string) ([]dependency.Edge, bool, error) {
			return s.Lookup.Dependencies(ctx, name)
		}))
	cmd.AddCommand(newServicesEdgesCmd("dependents", "dependents", "List the services that depend on a service",
		func(s *app.Services, ctx context.Context, name string) ([]dependency.Edge, bool, error) {
			return s.Lookup.Dependents(ctx, name)
		}))
	return cmd
}

func newServicesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			team, _ := cmd.Flags().GetString("team")
			f, err := formatterFor(cmd)
			if err != nil {
				return err
			}
			return withServices(cmd, func(s *app.Services) error {
				services, err := s.Lookup.ListServices(cmd.Context(), team)
				if err != nil {
					return err
				}
				return f.FormatServices(services)
			})
		},
	}
	cmd.Flags().String("team", "", "Only list services owned by this team")
	addOutputFlag(cmd)
	return cmd
}

func newServicesGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Show one catalog service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formatterFor(cmd)
			if err != nil {
				return err
			}
			return withServices(cmd, func(s *app.Services) error {
				record, err := s.Lookup.GetService(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if record == nil {
					return fmt.Errorf("%w: %s", catalog.ErrServiceNotFound, args[0])
				}
				return f.FormatService(record)
			})
		},
	}
	addOutputFlag(cmd)
	return cmd
}

type edgesFunc func(s *app.Services, ctx context.Context, name string) ([]dependency.Edge, bool, error)

func newServicesEdgesCmd(use, key, short string, edges edgesFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <name>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formatterFor(cmd)
			if err != nil {
				return err
			}
			return withServices(cmd, func(s *app.Services) error {
				list, found, err := edges(s, cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("%w: %s", catalog.ErrServiceNotFound, args[0])
				}
				return f.FormatEdges(args[0], key, list)
			})
		},
	}
	addOutputFlag(cmd)
	return cmd
}
