package ownership

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodian/internal/catalog"
	"custodian/internal/dependency"
)

func newStore(t *testing.T, records ...catalog.ServiceRecord) *catalog.MemoryStore {
	t.Helper()
	s, err := catalog.NewMemoryStore(records...)
	require.NoError(t, err)
	return s
}

func shopCatalog(t *testing.T) *catalog.MemoryStore {
	return newStore(t,
		catalog.ServiceRecord{
			Name:             "order-service",
			Team:             "commerce",
			Dependencies:     catalog.DependencyList{catalog.InternalDependency{Service: "payment-service", Critical: true}},
			ResourcePatterns: []catalog.ResourcePattern{{Pattern: "ord-*", Type: "order"}, {Pattern: "cart-*", Type: "cart"}},
		},
		catalog.ServiceRecord{
			Name:             "payment-service",
			Team:             "payments",
			Description:      "Moves money. Talks to banks.",
			ResourcePatterns: []catalog.ResourcePattern{{Pattern: "pay-*", Type: "payment"}},
		},
		catalog.ServiceRecord{
			Name:         "notification-service",
			Team:         "comms",
			Dependencies: catalog.DependencyList{catalog.InternalDependency{Service: "order-service"}},
		},
	)
}

func TestFindOwner(t *testing.T) {
	r := NewResolver(shopCatalog(t))

	owner, p, err := r.FindOwner(context.Background(), "cart-77")
	require.NoError(t, err)
	require.NotNil(t, owner)
	assert.Equal(t, "order-service", owner.Name)
	assert.Equal(t, "cart", p.Type)
}

func TestFindOwner_NoMatchIsNotAnError(t *testing.T) {
	r := NewResolver(shopCatalog(t))

	owner, p, err := r.FindOwner(context.Background(), "xyz-0000")
	require.NoError(t, err)
	assert.Nil(t, owner)
	assert.Nil(t, p)

	res, err := r.Resolve(context.Background(), "xyz-0000")
	require.NoError(t, err)
	assert.False(t, res.Found())
	assert.Empty(t, res.Related)
}

func TestResolve_Related(t *testing.T) {
	r := NewResolver(shopCatalog(t))

	res, err := r.Resolve(context.Background(), "ord-1234")
	require.NoError(t, err)
	require.True(t, res.Found())
	assert.Equal(t, "order-service", res.Owner.Name)
	assert.Equal(t, "ord-*", res.Pattern.Pattern)
	assert.Equal(t, []dependency.Relation{
		{Name: "payment-service", Team: "payments", Purpose: "Moves money.", Relation: dependency.RelationUpstream},
		{Name: "notification-service", Team: "comms", Relation: dependency.RelationDownstream},
	}, res.Related)
}

func TestResolve_OverlappingPatternsFirstServiceWins(t *testing.T) {
	store := newStore(t,
		catalog.ServiceRecord{Name: "first", ResourcePatterns: []catalog.ResourcePattern{{Pattern: "*"}}},
		catalog.ServiceRecord{Name: "second", ResourcePatterns: []catalog.ResourcePattern{{Pattern: "*"}}},
	)
	r := NewResolver(store)

	for i := 0; i < 5; i++ {
		res, err := r.Resolve(context.Background(), "anything")
		require.NoError(t, err)
		assert.Equal(t, "first", res.Owner.Name)
	}

	// Updating the first service keeps it first.
	_, err := store.UpsertService(context.Background(), catalog.ServiceRecord{
		Name: "first", Team: "changed", ResourcePatterns: []catalog.ResourcePattern{{Pattern: "*"}},
	})
	require.NoError(t, err)
	owner, _, err := r.FindOwner(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "first", owner.Name)
}

func TestResolve_ReturnsCopies(t *testing.T) {
	store := shopCatalog(t)
	r := NewResolver(store)

	owner, _, err := r.FindOwner(context.Background(), "ord-1")
	require.NoError(t, err)
	owner.Team = "mutated"

	again, _, err := r.FindOwner(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, "commerce", again.Team)
}

type failingStore struct{ err error }

func (f failingStore) ListServices(ctx context.Context) ([]catalog.ServiceRecord, error) {
	return nil, f.err
}

func (f failingStore) GetService(ctx context.Context, name string) (*catalog.ServiceRecord, error) {
	return nil, f.err
}

func TestResolve_StoreFailuresAreUnavailable(t *testing.T) {
	for _, storeErr := range []error{
		catalog.Unavailable("postgres", errors.New("connection refused")),
		errors.New("something odd"),
	} {
		r := NewResolver(failingStore{err: storeErr})

		_, err := r.Resolve(context.Background(), "ord-1")
		assert.True(t, catalog.IsUnavailable(err))

		_, _, err = r.FindOwner(context.Background(), "ord-1")
		assert.True(t, catalog.IsUnavailable(err))
	}
}
