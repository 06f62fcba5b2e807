package lookup

import (
	"context"

	"custodian/internal/catalog"
	"custodian/internal/dependency"
)

// GetService returns the named record, or nil when there is none.
func (s *Service) GetService(ctx context.Context, name string) (*catalog.ServiceRecord, error) {
	r, err := s.store.GetService(ctx, name)
	if err != nil {
		return nil, catalog.Unavailable("catalog", err)
	}
	return r, nil
}

// ListServices summarises the catalog in catalog order. A non-empty team
// keeps only that team's services.
func (s *Service) ListServices(ctx context.Context, team string) ([]ServiceSummary, error) {
	records, err := s.store.ListServices(ctx)
	if err != nil {
		return nil, catalog.Unavailable("catalog", err)
	}

	out := make([]ServiceSummary, 0, len(records))
	for _, r := range records {
		if team != "" && r.Team != team {
			continue
		}
		patterns := make([]string, 0, len(r.ResourcePatterns))
		for _, p := range r.ResourcePatterns {
			patterns = append(patterns, p.Pattern)
		}
		out = append(out, ServiceSummary{
			Name:        r.Name,
			Team:        r.Team,
			Description: r.Description,
			Patterns:    patterns,
		})
	}
	return out, nil
}

// Dependencies returns the edges name declares. found is false when the
// service is not in the catalog.
func (s *Service) Dependencies(ctx context.Context, name string) (edges []dependency.Edge, found bool, err error) {
	g, err := s.graph(ctx)
	if err != nil {
		return nil, false, err
	}
	if g.Get(dependency.NodeID(name)) == nil {
		return nil, false, nil
	}
	edges = g.Dependencies(dependency.NodeID(name))
	if edges == nil {
		edges = []dependency.Edge{}
	}
	return edges, true, nil
}

// Dependents returns the internal edges other services declare on name.
// found is false when the service is not in the catalog.
func (s *Service) Dependents(ctx context.Context, name string) (edges []dependency.Edge, found bool, err error) {
	g, err := s.graph(ctx)
	if err != nil {
		return nil, false, err
	}
	if g.Get(dependency.NodeID(name)) == nil {
		return nil, false, nil
	}
	edges = g.Dependents(dependency.NodeID(name))
	if edges == nil {
		edges = []dependency.Edge{}
	}
	return edges, true, nil
}

func (s *Service) graph(ctx context.Context) (*dependency.Graph, error) {
	records, err := s.store.ListServices(ctx)
	if err != nil {
		return nil, catalog.Unavailable("catalog", err)
	}
	return dependency.Build(records), nil
}
