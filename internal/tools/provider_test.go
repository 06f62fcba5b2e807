package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodian/internal/api"
	"custodian/internal/catalog"
	"custodian/internal/dependency"
	"custodian/internal/lookup"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	store, err := catalog.NewMemoryStore(
		catalog.ServiceRecord{
			Name:             "order-service",
			Team:             "commerce",
			Description:      "Owns orders",
			Dependencies:     catalog.DependencyList{catalog.InternalDependency{Service: "payment-service", Critical: true}},
			ResourcePatterns: []catalog.ResourcePattern{{Pattern: "ord-*", Type: "order"}},
		},
		catalog.ServiceRecord{
			Name:             "payment-service",
			Team:             "payments",
			ResourcePatterns: []catalog.ResourcePattern{{Pattern: "pay-*", Type: "payment"}},
		},
	)
	require.NoError(t, err)
	return NewProvider(lookup.NewService(store, nil, nil, nil), Options{IncludeContextDefault: true})
}

func decode(t *testing.T, result *api.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotNil(t, result)
	require.False(t, result.IsError, "unexpected error result: %v", result.Content)
	require.Len(t, result.Content, 1)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].(string)), &out))
	return out
}

func TestProvider_GetTools(t *testing.T) {
	tools := newTestProvider(t).GetTools()

	var names []string
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{
		"get_resource",
		"find_resource_owner",
		"get_service",
		"list_services",
		"get_dependencies",
		"get_reverse_dependencies",
	}, names)

	getResource := tools[0]
	require.Len(t, getResource.Args, 2)
	assert.True(t, getResource.Args[0].Required)
	assert.Equal(t, true, getResource.Args[1].Default)
}

func TestExecuteTool_GetResource(t *testing.T) {
	p := newTestProvider(t)

	out := decode(t, mustExecute(t, p, "get_resource", map[string]interface{}{"resource_id": "ord-1234"}))
	assert.Equal(t, "not_found", out["status"])
	assert.Equal(t, "order-service", out["owner_context"].(map[string]interface{})["service"])

	out = decode(t, mustExecute(t, p, "get_resource", map[string]interface{}{
		"resource_id":     "ord-1234",
		"include_context": "false",
	}))
	assert.NotContains(t, out, "owner_context")
	assert.NotContains(t, out, "related_services")
}

func TestExecuteTool_MissingArguments(t *testing.T) {
	p := newTestProvider(t)

	for _, tool := range []string{"get_resource", "find_resource_owner", "get_service", "get_dependencies", "get_reverse_dependencies"} {
		result := mustExecute(t, p, tool, map[string]interface{}{})
		assert.True(t, result.IsError, tool)
	}

	result := mustExecute(t, p, "get_resource", map[string]interface{}{"resource_id": "ord-1", "include_context": 3})
	assert.True(t, result.IsError)
}

func TestExecuteTool_FindResourceOwner(t *testing.T) {
	p := newTestProvider(t)

	out := decode(t, mustExecute(t, p, "find_resource_owner", map[string]interface{}{"resource_id": "xyz-0000"}))
	assert.Nil(t, out["owner"])
	assert.NotEmpty(t, out["error"])

	out = decode(t, mustExecute(t, p, "find_resource_owner", map[string]interface{}{"resource_id": "pay-1"}))
	assert.Equal(t, "payments", out["owner"].(map[string]interface{})["team"])
}

func TestExecuteTool_CatalogTools(t *testing.T) {
	p := newTestProvider(t)

	out := decode(t, mustExecute(t, p, "get_service", map[string]interface{}{"name": "order-service"}))
	assert.Equal(t, "commerce", out["team"])
	assert.Len(t, out["resourcePatterns"], 1)

	out = decode(t, mustExecute(t, p, "get_service", map[string]interface{}{"name": "ghost"}))
	assert.Contains(t, out["error"], "ghost")

	result := mustExecute(t, p, "list_services", map[string]interface{}{"team": "payments"})
	var list []lookup.ServiceSummary
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].(string)), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "payment-service", list[0].Name)

	out = decode(t, mustExecute(t, p, "get_dependencies", map[string]interface{}{"name": "order-service"}))
	assert.Len(t, out["dependencies"], 1)

	out = decode(t, mustExecute(t, p, "get_reverse_dependencies", map[string]interface{}{"name": "payment-service"}))
	dependents := out["dependents"].([]interface{})
	require.Len(t, dependents, 1)
	assert.Equal(t, "order-service", dependents[0].(map[string]interface{})["from"])

	out = decode(t, mustExecute(t, p, "get_reverse_dependencies", map[string]interface{}{"name": "order-service"}))
	assert.Equal(t, []interface{}{}, out["dependents"])
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	_, err := newTestProvider(t).ExecuteTool(context.Background(), "drop_database", nil)
	assert.Error(t, err)
}

type unavailableBackend struct{}

var errDown = catalog.Unavailable("postgres", errors.New("connection refused"))

func (unavailableBackend) Lookup(ctx context.Context, id string, opts lookup.LookupOptions) (*lookup.Response, error) {
	return nil, errDown
}
func (unavailableBackend) FindResourceOwner(ctx context.Context, id string) (*lookup.OwnerResponse, error) {
	return nil, errDown
}
func (unavailableBackend) GetService(ctx context.Context, name string) (*catalog.ServiceRecord, error) {
	return nil, errDown
}
func (unavailableBackend) ListServices(ctx context.Context, team string) ([]lookup.ServiceSummary, error) {
	return nil, errDown
}
func (unavailableBackend) Dependencies(ctx context.Context, name string) ([]dependency.Edge, bool, error) {
	return nil, false, errDown
}
func (unavailableBackend) Dependents(ctx context.Context, name string) ([]dependency.Edge, bool, error) {
	return nil, false, errDown
}

func TestExecuteTool_CatalogUnavailable(t *testing.T) {
	p := NewProvider(unavailableBackend{}, Options{})

	calls := map[string]map[string]interface{}{
		"get_resource":             {"resource_id": "ord-1"},
		"find_resource_owner":      {"resource_id": "ord-1"},
		"get_service":              {"name": "a"},
		"list_services":            {},
		"get_dependencies":         {"name": "a"},
		"get_reverse_dependencies": {"name": "a"},
	}
	for tool, args := range calls {
		result := mustExecute(t, p, tool, args)
		assert.True(t, result.IsError, tool)
		assert.Contains(t, result.Content[0], "Catalog unavailable", tool)
	}
}

func mustExecute(t *testing.T, p *Provider, tool string, args map[string]interface{}) *api.CallToolResult {
	t.Helper()
	result, err := p.ExecuteTool(context.Background(), tool, args)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}
