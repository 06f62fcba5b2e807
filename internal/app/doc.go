// Package app bootstraps and runs custodian.
//
// Bootstrap happens in two phases:
//
//  1. NewApplication configures logging, loads config.yaml and calls
//     InitializeServices, which opens the catalog backend, registers
//     live-status handlers and builds the lookup service, the MCP tool
//     server and the REST handler.
//  2. Run serves until the context is cancelled or SIGINT/SIGTERM arrives.
//     The HTTP listener, the stdio MCP transport and the catalog watcher run
//     under one errgroup; the first failure stops the rest.
//
// Components are wired explicitly. Nothing is registered globally, so CLI
// commands can call InitializeServices to get a lookup service without
// starting any listener.
//
// # Catalog Backends
//
//   - memory: in-process store, optionally seeded from catalog.directory
//   - file: in-process store loaded from catalog.directory, reloaded on
//     change when catalog.watch is set
//   - sqlite, postgres: SQL store at catalog.dsn; catalog.directory, when
//     set, is synced in (without pruning) at startup
package app
