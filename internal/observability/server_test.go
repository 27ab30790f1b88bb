package observability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

var errNotSynced = errors.New("not synchronized yet")

type readiness struct {
	err error
}

func (r *readiness) CheckReadiness(context.Context) error { return r.err }

func get(t *testing.T, srv *Server, path string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)

	srv.ServeHTTP(rec, req)

	var body map[string]string
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}

	return rec, body
}

// TestServer_Probes checks liveness and both readiness outcomes.
func TestServer_Probes(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()

	rec, body := get(t, NewServer(":0", &readiness{}, reg), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "healthy", body["status"])

	rec, body = get(t, NewServer(":0", &readiness{}, reg), "/readyz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ready", body["status"])

	rec, body = get(t, NewServer(":0", &readiness{err: errNotSynced}, reg), "/readyz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "not ready", body["status"])
	require.Equal(t, errNotSynced.Error(), body["error"])
}

// TestServer_Metrics checks registered collectors are exported.
func TestServer_Metrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.Offset.Set(7200)
	m.Renders.WithLabelValues(RenderSkipped).Inc()
	m.Syncs.WithLabelValues(SyncSuccess).Inc()

	require.InDelta(t, 7200, testutil.ToFloat64(m.Offset), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.Renders.WithLabelValues(RenderSkipped)), 0)

	rec, _ := get(t, NewServer(":0", &readiness{}, reg), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "dst_clock_utc_offset_seconds 7200")
	require.Contains(t, rec.Body.String(), `dst_clock_renders_total{outcome="skipped"} 1`)
}
