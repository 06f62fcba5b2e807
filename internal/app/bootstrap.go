package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"custodian/internal/config"
	"custodian/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

// Application represents the main application structure that bootstraps and runs custodian.
//
// Example usage:
//
//	cfg := app.NewConfig(false, false, "", version)
//	application, err := app.NewApplication(ctx, cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	return application.Run(ctx)
type Application struct {
	config   *Config
	services *Services
}

// NewApplication configures logging, loads configuration (unless cfg already
// carries it) and initializes all services.
func NewApplication(ctx context.Context, cfg *Config) (*Application, error) {
	if cfg.Custodian == nil {
		path := cfg.ConfigPath
		if path == "" {
			path = config.GetDefaultConfigPathOrPanic()
		}
		custodianCfg, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load custodian configuration from %s: %w", path, err)
		}
		cfg.Custodian = &custodianCfg
	}

	InitLogging(cfg.Debug, cfg.Silent, cfg.Custodian.Server.Transport)

	services, err := InitializeServices(ctx, *cfg.Custodian, cfg.Version)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// InitLogging sets up logging. stdout belongs to the MCP protocol in stdio
// mode, so logs go to stderr there.
func InitLogging(debug, silent bool, transport string) {
	appLogLevel := logging.LevelInfo
	if debug {
		appLogLevel = logging.LevelDebug
	}

	var logOutput io.Writer = os.Stdout
	if transport == config.MCPTransportStdio {
		logOutput = os.Stderr
	}
	if silent {
		logOutput = io.Discard
	}
	logging.InitForCLI(appLogLevel, logOutput)
}

// Services returns the initialized services.
func (a *Application) Services() *Services {
	return a.services
}

// Run serves until ctx is cancelled, a signal arrives or a component fails.
// In stdio mode the run also ends when the MCP client closes stdin.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		if err := a.services.Close(); err != nil {
			logging.Error("Bootstrap", err, "Error closing services")
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg := a.config.Custodian.Server
	g, gctx := errgroup.WithContext(ctx)

	if w := a.services.Watcher; w != nil {
		if err := w.Start(gctx); err != nil {
			return fmt.Errorf("failed to watch catalog directory: %w", err)
		}
		g.Go(func() error {
			<-gctx.Done()
			w.Stop()
			return nil
		})
	}

	httpServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           a.services.HTTP,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		logging.Info("Bootstrap", "Listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logging.Info("Bootstrap", "Shutting down")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := a.services.MCP.Shutdown(shutdownCtx); err != nil {
			logging.Warn("Bootstrap", "MCP shutdown: %v", err)
		}
		return httpServer.Shutdown(shutdownCtx)
	})

	if cfg.Transport == config.MCPTransportStdio {
		g.Go(func() error {
			defer cancel()
			err := a.services.MCP.ServeStdio(gctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("stdio transport: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}
