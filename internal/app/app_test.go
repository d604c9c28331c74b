package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"todolist/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, seed int) *config.Config {
	t.Helper()
	cfg, err := config.LoadFile("missing-config.yml")
	require.NoError(t, err)
	cfg.Seed.Count = seed
	return cfg
}

func TestApp_InitInMemory(t *testing.T) {
	a, err := New(testConfig(t, 20)).Init(context.Background())
	require.NoError(t, err)

	operations := a.ShutdownOperations()
	assert.Contains(t, operations, "http-server")
	assert.Contains(t, operations, "logger")
	assert.NotContains(t, operations, "database")

	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/task/all?size=5", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalElements":20`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
}

func TestApp_Health(t *testing.T) {
	a, err := New(testConfig(t, 0)).Init(context.Background())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "todolist"))
}

func TestApp_CORSPreflight(t *testing.T) {
	a, err := New(testConfig(t, 0)).Init(context.Background())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodOptions, "/api/task", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestApp_ShutdownStopsServer(t *testing.T) {
	a, err := New(testConfig(t, 0)).Init(context.Background())
	require.NoError(t, err)

	for name, operation := range a.ShutdownOperations() {
		assert.NoError(t, operation(context.Background()), name)
	}
}
