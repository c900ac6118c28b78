package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/skillet/internal/config"
	"github.com/cwbudde/skillet/internal/logging"
	"github.com/cwbudde/skillet/internal/plugin"
	"github.com/cwbudde/skillet/internal/registry"
	"github.com/cwbudde/skillet/internal/server"
	"github.com/cwbudde/skillet/internal/value"
)

type nopRunner struct{}

func (nopRunner) Run(string, []value.Value) (value.Value, error) {
	return value.Null, nil
}

func newTestServer(t *testing.T) (*server.Server, config.Config) {
	t.Helper()
	cfg := config.Defaults()
	cfg.AdminToken = "test-secret"
	cfg.PluginDir = t.TempDir()
	loader := plugin.NewLoader(registry.Default(), nopRunner{})
	return server.New(cfg, logging.NewNop(), loader), cfg
}

func postJSON(t *testing.T, s *server.Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestEvaluateRoute(t *testing.T) {
	s, _ := newTestServer(t)

	rec := postJSON(t, s, "/v1/evaluate", map[string]any{"expression": "2 + 3 * 4"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool    `json:"success"`
		Result  float64 `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 14.0, resp.Result)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestEvaluateRouteWithVariables(t *testing.T) {
	s, _ := newTestServer(t)

	rec := postJSON(t, s, "/v1/evaluate", map[string]any{
		"expression": ":a * :b",
		"variables":  map[string]any{"a": 6, "b": 7},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool    `json:"success"`
		Result  float64 `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 42.0, resp.Result)
}

func TestEvaluateRouteReportsErrors(t *testing.T) {
	s, _ := newTestServer(t)

	rec := postJSON(t, s, "/v1/evaluate", map[string]any{"expression": "1 / 0"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "DivideByZero")
}

func TestEvaluateRouteRejectsBadBody(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/evaluate", bytes.NewReader([]byte("{broken")))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCacheStatsRoute(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/cache/stats", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Contains(t, stats, "hits")
	assert.Contains(t, stats, "misses")
	assert.Contains(t, stats, "hit_rate")
}

func TestAdminReloadRequiresToken(t *testing.T) {
	s, cfg := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/functions/reload", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/admin/functions/reload", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{}).
		SignedString([]byte(cfg.AdminToken))
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/v1/admin/functions/reload", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
