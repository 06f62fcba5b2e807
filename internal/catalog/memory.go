package catalog

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an insertion-ordered, in-memory catalog. It is safe for
// concurrent use; readers never observe a partially applied upsert.
type MemoryStore struct {
	mu           sync.RWMutex
	order        []string
	records      map[string]ServiceRecord
	fingerprints map[string]string
}

// NewMemoryStore returns a store seeded with records in the given order.
// Invalid records are rejected with a ValidationError.
func NewMemoryStore(records ...ServiceRecord) (*MemoryStore, error) {
	s := &MemoryStore{
		records:      make(map[string]ServiceRecord),
		fingerprints: make(map[string]string),
	}
	for _, r := range records {
		if _, err := s.UpsertService(context.Background(), r); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ListServices implements Store.
func (s *MemoryStore) ListServices(ctx context.Context) ([]ServiceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ServiceRecord, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.records[name].Clone())
	}
	return out, nil
}

// GetService implements Store.
func (s *MemoryStore) GetService(ctx context.Context, name string) (*ServiceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[name]
	if !ok {
		return nil, nil
	}
	clone := r.Clone()
	return &clone, nil
}

// UpsertService implements Writer.
func (s *MemoryStore) UpsertService(ctx context.Context, record ServiceRecord) (bool, error) {
	if err := Validate(record); err != nil {
		return false, err
	}
	fp, err := Fingerprint(record)
	if err != nil {
		return false, fmt.Errorf("fingerprint %s: %w", record.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.fingerprints[record.Name]; ok {
		if existing == fp {
			return false, nil
		}
	} else {
		s.order = append(s.order, record.Name)
	}
	s.records[record.Name] = record.Clone()
	s.fingerprints[record.Name] = fp
	return true, nil
}

// DeleteService implements Writer.
func (s *MemoryStore) DeleteService(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[name]; !ok {
		return fmt.Errorf("%w: %s", ErrServiceNotFound, name)
	}
	delete(s.records, name)
	delete(s.fingerprints, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of records held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
