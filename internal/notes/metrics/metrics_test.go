package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/notes/internal/notes/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestAuthEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	m.AuthEvent(metrics.EventLoginFailure)
	m.AuthEvent(metrics.EventLoginFailure)
	m.AuthEvent(metrics.EventLogout)

	require.Equal(t, 2.0, testutil.ToFloat64(m.AuthEventsTotal.WithLabelValues(metrics.EventLoginFailure)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.AuthEventsTotal.WithLabelValues(metrics.EventLogout)))
}

func TestSwept(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())

	m.Swept(3, nil)
	m.Swept(0, errors.New("redis down"))

	require.Equal(t, 3.0, testutil.ToFloat64(m.RevocationsSwept))
	require.Equal(t, 1.0, testutil.ToFloat64(m.RevocationSweepError))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	m.AuthEvent(metrics.EventSignup)
	m.Swept(1, nil)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	require.NotNil(t, m.Instrument("GET /x", h))
}

func TestInstrumentAndHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	h := m.Instrument("GET /api/notes/{id}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/notes/abc", nil))

	require.Equal(t, 1.0, testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues("GET /api/notes/{id}", http.MethodGet, "404"),
	))

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "notes_http_requests_total")
}
