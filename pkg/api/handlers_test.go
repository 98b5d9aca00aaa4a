package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/tickwire/pkg/dbn"
	"github.com/ssargent/tickwire/pkg/internal/wiretest"
	"github.com/ssargent/tickwire/pkg/tickstore"
)

func setupTestServer(t *testing.T, config ServerConfig) *Server {
	t.Helper()
	store, err := tickstore.Open(t.TempDir(), tickstore.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	buf := wiretest.Stream(
		wiretest.Trade(42, 1_000),
		wiretest.Mbo(42, 2_000),
		wiretest.Unknown(0x5A, 42, 40),
		wiretest.Trade(99, 1_500),
	)
	_, err = store.Ingest(dbn.NewStream(buf), "test.dbn")
	require.NoError(t, err)

	// A private registry per test keeps repeated setups from colliding.
	metrics := NewMetrics(prometheus.NewRegistry())
	return NewServer(store, config, metrics, zerolog.Nop())
}

func doRequest(t *testing.T, server *Server, target string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	Router(server).ServeHTTP(w, req)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return w, resp
}

func TestHandleHealth(t *testing.T) {
	server := setupTestServer(t, ServerConfig{})

	w, resp := doRequest(t, server, "/api/v1/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
}

func TestHandleRecords(t *testing.T) {
	server := setupTestServer(t, ServerConfig{})

	w, resp := doRequest(t, server, "/api/v1/records?instrument_id=42")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	views, ok := resp.Data.([]interface{})
	require.True(t, ok, "data: %T", resp.Data)
	require.Len(t, views, 3)

	first, ok := views[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "trade", first["kind"])
	assert.Equal(t, "1234.5", first["price"])

	third, ok := views[2].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "rtype-0x5A", third["kind"])
	assert.Equal(t, float64(40), third["body_len"])
}

func TestHandleRecordsRange(t *testing.T) {
	server := setupTestServer(t, ServerConfig{})

	w, resp := doRequest(t, server, "/api/v1/records?instrument_id=42&start=2000&end=3000&limit=10")
	require.Equal(t, http.StatusOK, w.Code)
	views := resp.Data.([]interface{})
	require.Len(t, views, 2)
}

func TestHandleRecordsBadRequest(t *testing.T) {
	server := setupTestServer(t, ServerConfig{})

	cases := []string{
		"/api/v1/records",
		"/api/v1/records?instrument_id=abc",
		"/api/v1/records?instrument_id=42&start=xyz",
		"/api/v1/records?instrument_id=42&limit=-1",
	}
	for _, target := range cases {
		w, resp := doRequest(t, server, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.False(t, resp.Success, target)
		assert.NotEmpty(t, resp.Error, target)
	}
}

func TestHandleInstruments(t *testing.T) {
	server := setupTestServer(t, ServerConfig{})

	w, resp := doRequest(t, server, "/api/v1/instruments")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	ids, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{float64(42), float64(99)}, ids)
}

func TestHandleJobs(t *testing.T) {
	server := setupTestServer(t, ServerConfig{})

	w, resp := doRequest(t, server, "/api/v1/jobs")
	require.Equal(t, http.StatusOK, w.Code)

	jobs, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, jobs, 1)
	job := jobs[0].(map[string]interface{})
	assert.Equal(t, "test.dbn", job["source"])
	assert.Equal(t, float64(4), job["records"])
	assert.Equal(t, float64(1), job["skipped"])
}

func TestHandleStats(t *testing.T) {
	server := setupTestServer(t, ServerConfig{})

	w, resp := doRequest(t, server, "/api/v1/stats")
	require.Equal(t, http.StatusOK, w.Code)

	st, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), st["jobs"])
	assert.Equal(t, float64(4), st["records"])
	assert.Equal(t, float64(1), st["skipped"])
	assert.Equal(t, float64(2), st["instruments"])
}

func TestSwaggerSpecRoute(t *testing.T) {
	server := setupTestServer(t, ServerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/swagger/swagger.json", nil)
	w := httptest.NewRecorder()
	Router(server).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc["swagger"])
	paths, ok := doc["paths"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, paths, "/records")
}

func TestMetricsRoute(t *testing.T) {
	server := setupTestServer(t, ServerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Router(server).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
