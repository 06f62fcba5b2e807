package dependency

import (
	"custodian/internal/catalog"
	"custodian/pkg/strings"
)

// NodeID is the unique identifier for a node inside a dependency graph: the
// service name.
type NodeID string

// RelationKind describes how a related service is connected to an owner.
type RelationKind string

const (
	// RelationUpstream: the owner depends on the related service.
	RelationUpstream RelationKind = "upstream"
	// RelationDownstream: the related service depends on the owner.
	RelationDownstream RelationKind = "downstream"
	// RelationBidirectional: both directions are declared.
	RelationBidirectional RelationKind = "bidirectional"
)

// Node is one catalog service together with its declared edges.
type Node struct {
	ID          NodeID
	Team        string
	Description string
	DependsOn   catalog.DependencyList
}

// Edge is a single declared dependency. From is the declaring service.
type Edge struct {
	From string `json:"from"`
	catalog.DependencySpec
}

// Relation is a one-hop neighbour of a service as shown to the agent.
type Relation struct {
	Name     string       `json:"name"`
	Team     string       `json:"team"`
	Purpose  string       `json:"purpose"`
	Relation RelationKind `json:"relation"`
}

// Graph answers dependency queries over a catalog snapshot. Node order is
// catalog order. It is *not* thread-safe by itself; build a new graph per
// snapshot instead of mutating a shared one.
type Graph struct {
	order []NodeID
	nodes map[NodeID]*Node
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[NodeID]*Node)}
}

// Build returns a graph of records in the given (catalog) order.
func Build(records []catalog.ServiceRecord) *Graph {
	g := New()
	for _, r := range records {
		g.AddNode(Node{
			ID:          NodeID(r.Name),
			Team:        r.Team,
			Description: r.Description,
			DependsOn:   r.Dependencies,
		})
	}
	return g
}

// AddNode adds (or replaces) a node. A replaced node keeps its position.
func (g *Graph) AddNode(n Node) {
	if g.nodes == nil {
		g.nodes = make(map[NodeID]*Node)
	}
	if _, exists := g.nodes[n.ID]; !exists {
		g.order = append(g.order, n.ID)
	}
	// Copy to avoid external mutations
	copied := n
	g.nodes[n.ID] = &copied
}

// Get returns the stored node or nil if it does not exist.
func (g *Graph) Get(id NodeID) *Node {
	return g.nodes[id]
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// Dependencies returns the node's own declared edges, in declaration order.
// Unknown nodes have none.
func (g *Graph) Dependencies(id NodeID) []Edge {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	edges := make([]Edge, 0, len(n.DependsOn))
	for _, spec := range n.DependsOn.Specs() {
		edges = append(edges, Edge{From: string(id), DependencySpec: spec})
	}
	return edges
}

// Dependents returns the internal edges other nodes declare on id, in
// catalog order. A node declaring the edge twice contributes both edges.
func (g *Graph) Dependents(id NodeID) []Edge {
	var res []Edge
	for _, nid := range g.order {
		n := g.nodes[nid]
		for _, dep := range n.DependsOn {
			if dep.Kind() == catalog.KindInternal && NodeID(dep.Target()) == id {
				res = append(res, Edge{From: string(nid), DependencySpec: catalog.DependencyList{dep}.Specs()[0]})
			}
		}
	}
	return res
}

// Related returns every other node with an internal edge to or from id,
// critical or not, once each and in catalog order.
func (g *Graph) Related(id NodeID) []Relation {
	owner, ok := g.nodes[id]
	if !ok {
		return nil
	}

	upstream := make(map[NodeID]bool)
	for _, dep := range owner.DependsOn {
		if dep.Kind() == catalog.KindInternal {
			upstream[NodeID(dep.Target())] = true
		}
	}

	var res []Relation
	for _, nid := range g.order {
		if nid == id {
			continue
		}
		n := g.nodes[nid]
		up := upstream[nid]
		down := false
		for _, dep := range n.DependsOn {
			if dep.Kind() == catalog.KindInternal && NodeID(dep.Target()) == id {
				down = true
				break
			}
		}

		var kind RelationKind
		switch {
		case up && down:
			kind = RelationBidirectional
		case up:
			kind = RelationUpstream
		case down:
			kind = RelationDownstream
		default:
			continue
		}
		res = append(res, Relation{
			Name:     string(nid),
			Team:     n.Team,
			Purpose:  strings.FirstSentence(n.Description),
			Relation: kind,
		})
	}
	return res
}
