// Package catalog holds the service catalog: service records, the resource
// patterns each service is system-of-record for, and the stores that serve
// them.
//
// The resolution core only ever reads the catalog through Store. Writes
// (REST upserts, GitOps webhook pushes, directory watches, seeding) go through
// Writer and are out-of-band with respect to lookups.
//
// Catalog iteration order is the order in which a service name was first
// inserted. Updating a record keeps its position. Ownership resolution relies
// on this order for its first-match-wins tie-break, so every backend must
// preserve it.
//
// Backends in this package:
//   - MemoryStore: insertion-ordered in-memory store used for fixtures and the
//     file-backed catalog (see LoadDirectory and Watcher)
//
// The SQL backend lives in the repository package.
package catalog
