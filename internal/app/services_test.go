package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodian/internal/config"
	"custodian/internal/lookup"
	"custodian/internal/repository"
)

func testConfig(backend string) config.CustodianConfig {
	cfg := config.GetDefaultConfig()
	cfg.Catalog.Backend = backend
	cfg.Catalog.Directory = "testdata"
	return cfg
}

func TestInitializeServices_Memory(t *testing.T) {
	s, err := InitializeServices(context.Background(), testConfig(config.CatalogBackendMemory), "test")
	require.NoError(t, err)
	defer s.Close()

	resp, err := s.Lookup.Lookup(context.Background(), "ord-1", lookup.LookupOptions{IncludeContext: true})
	require.NoError(t, err)
	assert.Equal(t, "order-service", resp.OwnerContext.Service)
	assert.Nil(t, s.Watcher)
	assert.Len(t, s.MCP.ToolNames(), 6)
}

func TestInitializeServices_FileWithWatch(t *testing.T) {
	cfg := testConfig(config.CatalogBackendFile)
	cfg.Catalog.Watch = true

	s, err := InitializeServices(context.Background(), cfg, "test")
	require.NoError(t, err)
	defer s.Close()

	require.NotNil(t, s.Watcher)
	services, err := s.Lookup.ListServices(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, services, 2)
}

func TestInitializeServices_FileMissingDirectory(t *testing.T) {
	cfg := testConfig(config.CatalogBackendFile)
	cfg.Catalog.Directory = filepath.Join(t.TempDir(), "missing")

	_, err := InitializeServices(context.Background(), cfg, "test")
	assert.Error(t, err)
}

func TestInitializeServices_SQLiteSeedsDirectory(t *testing.T) {
	cfg := testConfig(config.CatalogBackendSQLite)
	cfg.Catalog.DSN = filepath.Join(t.TempDir(), "catalog.db")

	s, err := InitializeServices(context.Background(), cfg, "test")
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.Store.(*repository.SQLStore)
	require.True(t, ok)
	owner, err := s.Lookup.FindResourceOwner(context.Background(), "pay-1")
	require.NoError(t, err)
	require.NotNil(t, owner.Owner)
	assert.Equal(t, "payment-service", owner.Owner.Service)
}

func TestSeedCatalog_Idempotent(t *testing.T) {
	store, err := repository.Open(context.Background(), repository.DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	first, err := SeedCatalog(context.Background(), store, "testdata", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"order-service", "payment-service"}, first.Created)

	second, err := SeedCatalog(context.Background(), store, "testdata", false)
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	assert.Equal(t, []string{"order-service", "payment-service"}, second.Unchanged)
}

func TestServices_HTTPRoutes(t *testing.T) {
	s, err := InitializeServices(context.Background(), testConfig(config.CatalogBackendMemory), "test")
	require.NoError(t, err)
	defer s.Close()

	for _, path := range []string{"/health", "/metrics", "/api/v1/services", "/api/v1/resources/ord-1"} {
		rec := httptest.NewRecorder()
		s.HTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestApplication_RunStopsOnCancel(t *testing.T) {
	cfg := testConfig(config.CatalogBackendMemory)
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0

	application, err := NewApplication(context.Background(), &Config{Silent: true, Version: "test", Custodian: &cfg})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
