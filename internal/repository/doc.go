// Package repository provides the SQL-backed catalog store.
//
// SQLStore keeps one row per service: the record as a JSON document, its
// content fingerprint and a position column that is assigned once on insert.
// Listing orders by position, so catalog iteration order is first-insertion
// order and survives updates, exactly like catalog.MemoryStore.
//
// Two drivers are supported through jmoiron/sqlx:
//
//   - "sqlite" (modernc.org/sqlite, pure Go) for single-node deployments and tests
//   - "postgres" (lib/pq) for shared deployments
//
// Every failure to reach or read the database is reported as a
// *catalog.UnavailableError so callers can tell "not in the catalog" apart
// from "catalog down".
package repository
