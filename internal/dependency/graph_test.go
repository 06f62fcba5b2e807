package dependency

import (
	"reflect"
	"testing"

	"custodian/internal/catalog"
)

func testCatalog() []catalog.ServiceRecord {
	return []catalog.ServiceRecord{
		{
			Name:        "order-service",
			Team:        "commerce",
			Description: "Owns orders. Talks to payments.",
			Dependencies: catalog.DependencyList{
				catalog.InternalDependency{Service: "payment-service", Critical: true},
				catalog.DatabaseDependency{Name: "orders-db", Engine: "postgres"},
				catalog.InternalDependency{Service: "ghost-service"},
			},
		},
		{
			Name:        "payment-service",
			Team:        "payments",
			Description: "Takes money",
			Dependencies: catalog.DependencyList{
				catalog.AWSDependency{AWSService: "sqs", AWSResourceID: "payments-queue"},
			},
		},
		{
			Name:         "notification-service",
			Team:         "comms",
			Dependencies: catalog.DependencyList{catalog.InternalDependency{Service: "order-service"}},
		},
		{
			Name: "inventory-service",
			Team: "fulfilment",
		},
		{
			Name: "fraud-service",
			Team: "risk",
			Dependencies: catalog.DependencyList{
				catalog.InternalDependency{Service: "payment-service"},
			},
		},
	}
}

func TestNew(t *testing.T) {
	g := New()
	if g == nil {
		t.Fatal("New() returned nil")
	}
	if g.Len() != 0 {
		t.Fatalf("expected empty graph, got %d nodes", g.Len())
	}
}

func TestAddNode_ReplaceKeepsPosition(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a", Team: "one"})
	g.AddNode(Node{ID: "b"})
	g.AddNode(Node{ID: "a", Team: "two"})

	if g.Len() != 2 {
		t.Fatalf("expected 2 nodes, got %d", g.Len())
	}
	if !reflect.DeepEqual(g.order, []NodeID{"a", "b"}) {
		t.Errorf("unexpected order %v", g.order)
	}
	if got := g.Get("a").Team; got != "two" {
		t.Errorf("expected replaced node, got team %q", got)
	}
	if g.Get("missing") != nil {
		t.Error("expected nil for missing node")
	}
}

func TestDependencies(t *testing.T) {
	g := Build(testCatalog())

	edges := g.Dependencies("order-service")
	if len(edges) != 3 {
		t.Fatalf("expected 3 edges, got %d", len(edges))
	}
	if edges[0].Service != "payment-service" || !edges[0].Critical || edges[0].From != "order-service" {
		t.Errorf("unexpected first edge %+v", edges[0])
	}
	if edges[1].Type != catalog.KindDatabase || edges[1].Engine != "postgres" {
		t.Errorf("unexpected second edge %+v", edges[1])
	}

	if got := g.Dependencies("missing"); got != nil {
		t.Errorf("expected nil for unknown service, got %v", got)
	}
}

func TestDependents(t *testing.T) {
	g := Build(testCatalog())

	edges := g.Dependents("payment-service")
	var from []string
	for _, e := range edges {
		from = append(from, e.From)
	}
	if !reflect.DeepEqual(from, []string{"order-service", "fraud-service"}) {
		t.Errorf("unexpected dependents %v", from)
	}
	if !edges[0].Critical {
		t.Error("expected critical flag to be carried over")
	}

	if got := g.Dependents("inventory-service"); len(got) != 0 {
		t.Errorf("expected no dependents, got %v", got)
	}
}

func TestRelated(t *testing.T) {
	g := Build(testCatalog())

	got := g.Related("order-service")
	want := []Relation{
		{Name: "payment-service", Team: "payments", Purpose: "Takes money", Relation: RelationUpstream},
		{Name: "notification-service", Team: "comms", Purpose: "", Relation: RelationDownstream},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Related(order-service) =\n%+v\nwant\n%+v", got, want)
	}

	if got := g.Related("inventory-service"); len(got) != 0 {
		t.Errorf("expected no related services, got %v", got)
	}
}

func TestRelated_Bidirectional(t *testing.T) {
	g := Build([]catalog.ServiceRecord{
		{Name: "a", Dependencies: catalog.DependencyList{catalog.InternalDependency{Service: "b"}}},
		{Name: "b", Dependencies: catalog.DependencyList{
			catalog.InternalDependency{Service: "a"},
			catalog.InternalDependency{Service: "a", Critical: true},
		}},
	})

	got := g.Related("a")
	if len(got) != 1 {
		t.Fatalf("expected b exactly once, got %v", got)
	}
	if got[0].Relation != RelationBidirectional {
		t.Errorf("expected bidirectional, got %s", got[0].Relation)
	}
}

func TestRelated_NeverIncludesSelf(t *testing.T) {
	for _, r := range testCatalog() {
		for _, rel := range Build(testCatalog()).Related(NodeID(r.Name)) {
			if rel.Name == r.Name {
				t.Errorf("%s listed as related to itself", r.Name)
			}
		}
	}
}
