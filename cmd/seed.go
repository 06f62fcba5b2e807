package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"custodian/internal/app"
	"custodian/internal/config"
	"custodian/internal/repository"
)

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load catalog fixture files into the SQL catalog",
		Long: `Reads every .yaml, .yml, .json and .toml file in --from and upserts the
services into the sqlite or postgres catalog configured in config.yaml
(or given with --backend and --dsn). Unchanged services are left alone.
With --prune, services missing from the fixtures are deleted.`,
		Args: cobra.NoArgs,
		RunE: runSeed,
	}
	cmd.Flags().String("from", "", "Directory of catalog fixture files")
	cmd.Flags().Bool("prune", false, "Delete services that are not in the fixtures")
	cmd.Flags().String("backend", "", "Override catalog.backend (sqlite or postgres)")
	cmd.Flags().String("dsn", "", "Override catalog.dsn")
	_ = cmd.MarkFlagRequired("from")
	addOutputFlag(cmd)
	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	prune, _ := cmd.Flags().GetBool("prune")
	backend, _ := cmd.Flags().GetString("backend")
	dsn, _ := cmd.Flags().GetString("dsn")

	f, err := formatterFor(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if backend != "" {
		cfg.Catalog.Backend = backend
	}
	if dsn != "" {
		cfg.Catalog.DSN = dsn
	}

	var driver string
	switch cfg.Catalog.Backend {
	case config.CatalogBackendSQLite:
		driver = repository.DriverSQLite
	case config.CatalogBackendPostgres:
		driver = repository.DriverPostgres
	default:
		return fmt.Errorf("seed needs a sqlite or postgres catalog, configured backend is %q", cfg.Catalog.Backend)
	}
	if cfg.Catalog.DSN == "" {
		return fmt.Errorf("seed needs catalog.dsn or --dsn")
	}

	store, err := repository.Open(cmd.Context(), driver, cfg.Catalog.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := app.SeedCatalog(cmd.Context(), store, from, prune)
	if err != nil {
		return err
	}
	return f.FormatSync(result)
}
