package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodian/internal/catalog"
	"custodian/internal/lookup"
	"custodian/internal/resource"
)

func fixtures() []catalog.ServiceRecord {
	return []catalog.ServiceRecord{
		{
			Name:        "order-service",
			Team:        "commerce",
			Description: "Owns the order lifecycle.",
			Dependencies: catalog.DependencyList{
				catalog.InternalDependency{Service: "payment-service", Critical: true},
			},
			ResourcePatterns: []catalog.ResourcePattern{{Pattern: "ord-*", Type: "order"}},
		},
		{
			Name:             "payment-service",
			Team:             "payments",
			ResourcePatterns: []catalog.ResourcePattern{{Pattern: "pay-*", Type: "payment"}},
		},
	}
}

type testEnv struct {
	router *mux.Router
	store  *catalog.MemoryStore
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	store, err := catalog.NewMemoryStore(fixtures()...)
	require.NoError(t, err)
	if opts.Writer == nil {
		opts.Writer = store
	}

	svc := lookup.NewService(opts.Writer, nil, resource.NewHTTPFetcher(time.Second, nil), nil)
	router := mux.NewRouter()
	SetupRoutes(router, NewHandler(svc, opts))
	return &testEnv{router: router, store: store}
}

func (e *testEnv) do(t *testing.T, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type downStore struct{}

func (downStore) ListServices(context.Context) ([]catalog.ServiceRecord, error) {
	return nil, catalog.Unavailable("sqlite", errors.New("database is locked"))
}
func (downStore) GetService(context.Context, string) (*catalog.ServiceRecord, error) {
	return nil, catalog.Unavailable("sqlite", errors.New("database is locked"))
}
func (downStore) UpsertService(context.Context, catalog.ServiceRecord) (bool, error) {
	return false, catalog.Unavailable("sqlite", errors.New("database is locked"))
}
func (downStore) DeleteService(context.Context, string) error {
	return catalog.Unavailable("sqlite", errors.New("database is locked"))
}
func (downStore) Ping(context.Context) error { return errors.New("database is locked") }

func TestHealth(t *testing.T) {
	env := newTestEnv(t, Options{})
	rec := env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])

	down := newTestEnv(t, Options{Writer: downStore{}, Health: downStore{}})
	rec = down.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, Options{})
	rec := env.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListServices(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec := env.do(t, http.MethodGet, "/api/v1/services", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all []lookup.ServiceSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	require.Len(t, all, 2)
	assert.Equal(t, "order-service", all[0].Name)

	rec = env.do(t, http.MethodGet, "/api/v1/services?team=payments", "")
	var filtered []lookup.ServiceSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &filtered))
	require.Len(t, filtered, 1)
	assert.Equal(t, "payment-service", filtered[0].Name)
}

func TestGetService(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec := env.do(t, http.MethodGet, "/api/v1/services/order-service", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "commerce", decode(t, rec)["team"])

	rec = env.do(t, http.MethodGet, "/api/v1/services/ghost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrCodeNotFound, decode(t, rec)["code"])
}

func TestPutService(t *testing.T) {
	env := newTestEnv(t, Options{})

	body := `{"name":"inventory-service","team":"fulfilment","resourcePatterns":[{"pattern":"inv-*"}]}`
	rec := env.do(t, http.MethodPut, "/api/v1/services/inventory-service", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode(t, rec)["changed"])

	rec = env.do(t, http.MethodPut, "/api/v1/services/inventory-service", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["changed"])

	got, err := env.store.GetService(context.Background(), "inventory-service")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "fulfilment", got.Team)
}

func TestPutService_Rejected(t *testing.T) {
	env := newTestEnv(t, Options{})

	tests := []struct {
		name string
		path string
		body string
	}{
		{"name mismatch", "/api/v1/services/a", `{"name":"b"}`},
		{"missing name", "/api/v1/services/a", `{"team":"x"}`},
		{"unknown dependency type", "/api/v1/services/a", `{"name":"a","dependencies":[{"type":"queue"}]}`},
		{"bad handler url", "/api/v1/services/a", `{"name":"a","resourcePatterns":[{"pattern":"a-*","handlerUrl":"ftp://x/${id}"}]}`},
		{"not json", "/api/v1/services/a", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
	assert.Equal(t, 2, env.store.Len())
}

func TestDeleteService(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec := env.do(t, http.MethodDelete, "/api/v1/services/payment-service", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, env.store.Len())

	rec = env.do(t, http.MethodDelete, "/api/v1/services/payment-service", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDependencies(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec := env.do(t, http.MethodGet, "/api/v1/services/order-service/dependencies", "")
	require.Equal(t, http.StatusOK, rec.Code)
	deps := decode(t, rec)["dependencies"].([]interface{})
	require.Len(t, deps, 1)
	assert.Equal(t, "payment-service", deps[0].(map[string]interface{})["service"])

	rec = env.do(t, http.MethodGet, "/api/v1/services/payment-service/dependents", "")
	require.Equal(t, http.StatusOK, rec.Code)
	dependents := decode(t, rec)["dependents"].([]interface{})
	require.Len(t, dependents, 1)
	assert.Equal(t, "order-service", dependents[0].(map[string]interface{})["from"])

	rec = env.do(t, http.MethodGet, "/api/v1/services/ghost/dependents", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetResource(t *testing.T) {
	env := newTestEnv(t, Options{IncludeContextDefault: true})

	rec := env.do(t, http.MethodGet, "/api/v1/resources/ord-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "not_found", body["status"])
	assert.Equal(t, "order", body["resource_type"])
	assert.Contains(t, body, "owner_context")
	assert.Contains(t, body, "related_services")

	rec = env.do(t, http.MethodGet, "/api/v1/resources/ord-1?include_context=false", "")
	body = decode(t, rec)
	assert.NotContains(t, body, "owner_context")
	assert.NotContains(t, body, "related_services")

	rec = env.do(t, http.MethodGet, "/api/v1/resources/ord-1?include_context=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetResource_IncludeContextDefault(t *testing.T) {
	env := newTestEnv(t, Options{IncludeContextDefault: false})

	body := decode(t, env.do(t, http.MethodGet, "/api/v1/resources/ord-1", ""))
	assert.NotContains(t, body, "owner_context")
	assert.NotContains(t, body, "related_services")

	body = decode(t, env.do(t, http.MethodGet, "/api/v1/resources/ord-1?include_context=true", ""))
	assert.Contains(t, body, "owner_context")
	assert.Contains(t, body, "related_services")
}

func TestGetResourceOwner(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec := env.do(t, http.MethodGet, "/api/v1/resources/pay-9/owner", "")
	require.Equal(t, http.StatusOK, rec.Code)
	owner := decode(t, rec)["owner"].(map[string]interface{})
	assert.Equal(t, "payment-service", owner["service"])

	rec = env.do(t, http.MethodGet, "/api/v1/resources/zzz/owner", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "no catalog pattern matches")
}

func TestCatalogUnavailable(t *testing.T) {
	env := newTestEnv(t, Options{Writer: downStore{}})

	for _, path := range []string{
		"/api/v1/services",
		"/api/v1/services/order-service",
		"/api/v1/services/order-service/dependencies",
		"/api/v1/resources/ord-1",
		"/api/v1/resources/ord-1/owner",
	} {
		rec := env.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.Equal(t, ErrCodeUnavailable, decode(t, rec)["code"], path)
	}
}

func TestCatalogWebhook(t *testing.T) {
	env := newTestEnv(t, Options{WebhookToken: "s3cret"})

	payload := `{"prune":true,"services":[
		{"name":"order-service","team":"commerce","description":"Owns the order lifecycle.",
		 "dependencies":[{"type":"internal","service":"payment-service","critical":true}],
		 "resourcePatterns":[{"pattern":"ord-*","type":"order"}]},
		{"name":"inventory-service","team":"fulfilment"}
	]}`

	rec := env.do(t, http.MethodPost, "/api/v1/webhooks/catalog", payload)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/webhooks/catalog", payload, TokenHeader, "s3cret")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result catalog.SyncResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, []string{"inventory-service"}, result.Created)
	assert.Equal(t, []string{"order-service"}, result.Unchanged)
	assert.Equal(t, []string{"payment-service"}, result.Deleted)
	assert.Equal(t, 2, env.store.Len())
}

func TestCatalogWebhook_InvalidRecordWritesNothing(t *testing.T) {
	env := newTestEnv(t, Options{})

	payload := `{"services":[{"name":"new-service"},{"name":"bad service"}]}`
	rec := env.do(t, http.MethodPost, "/api/v1/webhooks/catalog", payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["message"], "services[1]")
	assert.Equal(t, 2, env.store.Len())
}

func TestReadOnly(t *testing.T) {
	store, err := catalog.NewMemoryStore(fixtures()...)
	require.NoError(t, err)
	router := mux.NewRouter()
	SetupRoutes(router, NewHandler(lookup.NewService(store, nil, nil, nil), Options{}))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/services/order-service", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestWrap_CORSAndRecovery(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	router.HandleFunc("/ok", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	h := Wrap(router, []string{"https://console.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("Origin", "https://console.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://console.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
