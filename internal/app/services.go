package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"custodian/internal/adapters/kubernetes"
	"custodian/internal/audit"
	"custodian/internal/catalog"
	"custodian/internal/config"
	"custodian/internal/httpapi"
	"custodian/internal/lookup"
	"custodian/internal/metrics"
	"custodian/internal/repository"
	"custodian/internal/resource"
	"custodian/internal/server"
	"custodian/internal/tools"
	"custodian/pkg/logging"
)

// Services holds every initialized component.
type Services struct {
	Config config.CustodianConfig

	// Store is the catalog backend. Watcher is set only for a watched file
	// backend.
	Store   catalog.ReadWriter
	Watcher *catalog.Watcher

	Registry *resource.Registry
	Audit    *audit.Logger
	Lookup   *lookup.Service
	Tools    *tools.Provider

	MCP  *server.MCPServer
	HTTP http.Handler

	closers []func() error
}

// InitializeServices wires the application from cfg. On error everything
// already opened is closed again.
func InitializeServices(ctx context.Context, cfg config.CustodianConfig, version string) (_ *Services, err error) {
	s := &Services{Config: cfg}
	defer func() {
		if err != nil {
			_ = s.Close()
		}
	}()

	// Step 1: catalog backend
	s.Store, s.Watcher, err = s.openCatalog(ctx, cfg.Catalog)
	if err != nil {
		return nil, err
	}

	// Step 2: audit log
	s.Audit, err = audit.New(cfg.Audit)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	s.closers = append(s.closers, s.Audit.Close)

	// Step 3: in-process live-status handlers
	s.Registry = resource.NewRegistry()
	if cfg.Kubernetes.Enabled {
		clientset, err := kubernetes.NewClientset(cfg.Kubernetes.Kubeconfig)
		if err != nil {
			return nil, err
		}
		adapter := kubernetes.NewAdapter(clientset, cfg.Kubernetes.Cluster)
		if err := adapter.Register(s.Registry, cfg.Kubernetes.Handlers); err != nil {
			return nil, err
		}
	}

	// Step 4: lookup and the agent tool surface
	fetcher := resource.NewHTTPFetcher(cfg.Lookup.HandlerTimeout, nil)
	s.Lookup = lookup.NewService(s.Store, s.Registry, fetcher, s.Audit)
	s.Tools = tools.NewProvider(s.Lookup, tools.Options{
		IncludeContextDefault: cfg.Lookup.IncludeContext(),
		Audit:                 s.Audit,
	})

	// Step 5: MCP server and REST API on one router
	s.MCP = server.New(server.Config{
		Name:      "custodian",
		Version:   version,
		Transport: cfg.Server.Transport,
		BaseURL:   fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port),
	}, s.Tools)

	var health httpapi.Pinger
	if p, ok := s.Store.(httpapi.Pinger); ok {
		health = p
	}
	router := mux.NewRouter()
	httpapi.SetupRoutes(router, httpapi.NewHandler(s.Lookup, httpapi.Options{
		Writer:       s.Store,
		WebhookToken: cfg.Webhook.Token,
		Health:       health,

		IncludeContextDefault: cfg.Lookup.IncludeContext(),
	}))
	s.MCP.Mount(router)
	s.HTTP = httpapi.Wrap(router, cfg.Server.AllowedOrigins)

	logging.Info("Bootstrap", "Initialized custodian with %s catalog, %d registered handlers, %d tools",
		cfg.Catalog.Backend, s.Registry.Len(), len(s.MCP.ToolNames()))
	return s, nil
}

func (s *Services) openCatalog(ctx context.Context, cfg config.CatalogConfig) (catalog.ReadWriter, *catalog.Watcher, error) {
	switch cfg.Backend {
	case config.CatalogBackendSQLite, config.CatalogBackendPostgres:
		driver := repository.DriverSQLite
		if cfg.Backend == config.CatalogBackendPostgres {
			driver = repository.DriverPostgres
		}
		store, err := repository.Open(ctx, driver, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open %s catalog: %w", cfg.Backend, err)
		}
		s.closers = append(s.closers, store.Close)
		if cfg.Directory != "" {
			if _, err := SeedCatalog(ctx, store, cfg.Directory, false); err != nil {
				return nil, nil, err
			}
		}
		return store, nil, nil

	case config.CatalogBackendFile:
		store, _ := catalog.NewMemoryStore()
		watcher := catalog.NewWatcher(cfg.Directory, store, 0)
		if _, err := watcher.Reload(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to load catalog from %s: %w", cfg.Directory, err)
		}
		metrics.CatalogServices.Set(float64(store.Len()))
		logging.Info("Bootstrap", "Loaded %d services from %s", store.Len(), cfg.Directory)
		if !cfg.Watch {
			watcher = nil
		}
		return store, watcher, nil

	default:
		store, _ := catalog.NewMemoryStore()
		if cfg.Directory != "" {
			if _, err := SeedCatalog(ctx, store, cfg.Directory, false); err != nil {
				return nil, nil, err
			}
		}
		return store, nil, nil
	}
}

// SeedCatalog loads every catalog file in dir and syncs the records into rw.
func SeedCatalog(ctx context.Context, rw catalog.ReadWriter, dir string, prune bool) (catalog.SyncResult, error) {
	records, err := catalog.LoadDirectory(dir)
	if err != nil {
		metrics.CatalogSyncTotal.WithLabelValues("seed", metrics.OutcomeError).Inc()
		return catalog.SyncResult{}, fmt.Errorf("failed to load catalog from %s: %w", dir, err)
	}
	result, err := catalog.Sync(ctx, rw, records, prune)
	if err != nil {
		metrics.CatalogSyncTotal.WithLabelValues("seed", metrics.OutcomeError).Inc()
		return result, fmt.Errorf("failed to seed catalog from %s: %w", dir, err)
	}
	metrics.CatalogSyncTotal.WithLabelValues("seed", metrics.OutcomeOK).Inc()
	logging.Info("Bootstrap", "Seeded catalog from %s: %d created, %d updated, %d unchanged, %d deleted",
		dir, len(result.Created), len(result.Updated), len(result.Unchanged), len(result.Deleted))
	return result, nil
}

// Close releases the catalog backend and the audit log.
func (s *Services) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
