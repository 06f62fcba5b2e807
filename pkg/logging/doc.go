// Package logging provides subsystem-tagged structured logging for custodian.
//
// The package wraps Go's standard slog package with a small printf-style API
// where every entry carries a subsystem name:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Bootstrap", "Loaded %d services", n)
//	logging.Debug("Lookup", "Resolved %s to %s", id, owner)
//	logging.Warn("Registry", "Handler for %s returned no data", pattern)
//	logging.Error("Catalog", err, "Failed to reach catalog backend")
//
// # Subsystems
//
//   - **Bootstrap**: Application initialization and startup
//   - **Config**: Configuration loading and validation
//   - **Catalog**: Catalog store reads, loads, watch and sync
//   - **Registry**: In-process live-status handler registry
//   - **Lookup**: Resource lookup orchestration
//   - **MCPServer**: Agent-facing MCP tool server
//   - **HTTPAPI**: REST catalog API and webhook ingestion
//   - **Kubernetes**: client-go backed live-status handlers
//
// # Controller-Runtime Integration
//
// InitForCLI also installs the slog handler as the controller-runtime logger
// (and therefore the logger client-go picks up), so Kubernetes adapter output
// shares the same format and level filtering. controller-runtime accepts only
// the first logger it is given; later InitForCLI calls only affect the slog side.
//
// # Thread Safety
//
// All functions are safe for concurrent use. Messages logged before
// InitForCLI are dropped unless they are warnings or errors, which go to
// stderr.
package logging
