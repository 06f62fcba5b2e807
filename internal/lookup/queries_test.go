package lookup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodian/internal/catalog"
)

func TestListServices(t *testing.T) {
	svc := newService(t, nil, orderService(""), paymentService())

	all, err := svc.ListServices(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "order-service", all[0].Name)
	assert.Equal(t, []string{"ord-*"}, all[0].Patterns)

	payments, err := svc.ListServices(context.Background(), "payments")
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "payment-service", payments[0].Name)

	none, err := svc.ListServices(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)
}

func TestDependenciesAndDependents(t *testing.T) {
	svc := newService(t, nil, orderService(""), paymentService())
	ctx := context.Background()

	deps, found, err := svc.Dependencies(ctx, "order-service")
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, deps, 2)
	assert.Equal(t, catalog.KindDatabase, deps[1].Type)

	deps, found, err = svc.Dependencies(ctx, "payment-service")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, deps)

	dependents, found, err := svc.Dependents(ctx, "payment-service")
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, dependents, 1)
	assert.Equal(t, "order-service", dependents[0].From)

	_, found, err = svc.Dependents(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetService(t *testing.T) {
	svc := newService(t, nil, orderService(""))

	r, err := svc.GetService(context.Background(), "order-service")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "commerce", r.Team)

	r, err = svc.GetService(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, r)
}
