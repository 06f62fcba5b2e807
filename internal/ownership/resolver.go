// Package ownership maps resource ids to the catalog service that owns them.
//
// The resolver is the single place that scans catalog patterns. Lookups,
// owner queries and the related-service view all go through it, so they can
// never disagree about who owns an id.
package ownership

import (
	"context"
	"fmt"

	"custodian/internal/catalog"
	"custodian/internal/dependency"
	"custodian/internal/pattern"
	"custodian/pkg/logging"
)

// Resolution is the outcome of resolving one id. Owner and Pattern are nil
// when no catalog pattern matches; Related is then empty.
type Resolution struct {
	Owner   *catalog.ServiceRecord
	Pattern *catalog.ResourcePattern
	Related []dependency.Relation
}

// Found reports whether an owner was resolved.
func (r Resolution) Found() bool {
	return r.Owner != nil
}

// Resolver resolves ids against a catalog store.
type Resolver struct {
	store catalog.Store
}

// NewResolver returns a resolver reading from store.
func NewResolver(store catalog.Store) *Resolver {
	return &Resolver{store: store}
}

// FindOwner returns the first service, in catalog order, with a pattern
// matching id, together with that pattern. Patterns are tried in declaration
// order. No match is (nil, nil, nil); only catalog failures are errors.
func (r *Resolver) FindOwner(ctx context.Context, id string) (*catalog.ServiceRecord, *catalog.ResourcePattern, error) {
	records, err := r.list(ctx)
	if err != nil {
		return nil, nil, err
	}
	owner, p := findOwner(records, id)
	return owner, p, nil
}

// Resolve finds the owner of id and, when there is one, the services one hop
// away from it in either direction.
func (r *Resolver) Resolve(ctx context.Context, id string) (Resolution, error) {
	records, err := r.list(ctx)
	if err != nil {
		return Resolution{}, err
	}

	owner, p := findOwner(records, id)
	if owner == nil {
		return Resolution{}, nil
	}

	related := dependency.Build(records).Related(dependency.NodeID(owner.Name))
	logging.Debug("Lookup", "Resolved %s to %s via %s (%d related)", id, owner.Name, p.Pattern, len(related))
	return Resolution{Owner: owner, Pattern: p, Related: related}, nil
}

func (r *Resolver) list(ctx context.Context) ([]catalog.ServiceRecord, error) {
	records, err := r.store.ListServices(ctx)
	if err != nil {
		if catalog.IsUnavailable(err) {
			return nil, err
		}
		return nil, catalog.Unavailable("catalog", fmt.Errorf("list services: %w", err))
	}
	return records, nil
}

func findOwner(records []catalog.ServiceRecord, id string) (*catalog.ServiceRecord, *catalog.ResourcePattern) {
	for i := range records {
		for j := range records[i].ResourcePatterns {
			if pattern.Match(records[i].ResourcePatterns[j].Pattern, id) {
				owner := records[i]
				p := owner.ResourcePatterns[j]
				return &owner, &p
			}
		}
	}
	return nil, nil
}
