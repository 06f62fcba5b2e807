package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func mustRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, nil)
}
