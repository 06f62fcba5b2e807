package catalog

import (
	"context"
	"fmt"
)

// SyncResult lists what a Sync call changed, by service name.
type SyncResult struct {
	Created   []string `json:"created"`
	Updated   []string `json:"updated"`
	Unchanged []string `json:"unchanged"`
	Deleted   []string `json:"deleted"`
}

// Changed reports whether the sync modified the store.
func (r SyncResult) Changed() bool {
	return len(r.Created)+len(r.Updated)+len(r.Deleted) > 0
}

// Sync upserts records into rw in the given order. With prune set, services
// present in the store but absent from records are deleted afterwards. A
// payload naming a service twice is rejected before anything is written. The
// first failing write aborts the sync; writes already applied are kept and
// reported in the partial result.
func Sync(ctx context.Context, rw ReadWriter, records []ServiceRecord, prune bool) (SyncResult, error) {
	result := SyncResult{
		Created:   []string{},
		Updated:   []string{},
		Unchanged: []string{},
		Deleted:   []string{},
	}

	wanted := make(map[string]bool, len(records))
	for _, r := range records {
		if wanted[r.Name] {
			return result, ValidationError{Service: r.Name, Field: "name", Message: "duplicate service in sync payload"}
		}
		wanted[r.Name] = true
	}

	existing, err := rw.ListServices(ctx)
	if err != nil {
		return result, err
	}
	known := make(map[string]bool, len(existing))
	for _, r := range existing {
		known[r.Name] = true
	}

	for _, r := range records {
		changed, err := rw.UpsertService(ctx, r)
		if err != nil {
			return result, fmt.Errorf("upsert %s: %w", r.Name, err)
		}
		switch {
		case !known[r.Name]:
			result.Created = append(result.Created, r.Name)
		case changed:
			result.Updated = append(result.Updated, r.Name)
		default:
			result.Unchanged = append(result.Unchanged, r.Name)
		}
	}

	if !prune {
		return result, nil
	}
	for _, r := range existing {
		if wanted[r.Name] {
			continue
		}
		if err := rw.DeleteService(ctx, r.Name); err != nil {
			return result, fmt.Errorf("delete %s: %w", r.Name, err)
		}
		result.Deleted = append(result.Deleted, r.Name)
	}
	return result, nil
}
