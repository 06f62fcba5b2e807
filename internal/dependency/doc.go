// Package dependency builds a service dependency graph from a catalog
// snapshot and answers the questions an incident responder asks of it.
//
// # Core Concepts
//
// Graph: a directed graph whose nodes are catalog services, in catalog order.
// Edges are the dependencies each service declares. Only internal edges
// (service to service) connect nodes; database, external and AWS edges are
// leaves that are reported but never traversed.
//
// Cycles are allowed. Services that call each other are common and the
// graph only ever walks one hop.
//
// # Operations
//
// Dependencies: the edges a service declares, in declaration order.
//
// Dependents: the internal edges other services declare on a service
// (reverse dependencies), in catalog order.
//
// Related: the bidirectional one-hop view used for owner context. Each
// neighbour appears once and is tagged upstream, downstream or
// bidirectional.
//
// # Usage Example
//
//	records, _ := store.ListServices(ctx)
//	g := dependency.Build(records)
//
//	for _, rel := range g.Related("order-service") {
//	    fmt.Println(rel.Name, rel.Relation)
//	}
//
// # Thread Safety
//
// A Graph is immutable once built by Build and may then be shared between
// goroutines. Callers using AddNode directly must synchronise themselves.
package dependency
