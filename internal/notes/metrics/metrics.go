package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth event labels.
const (
	EventSignup          = "signup"
	EventLoginSuccess    = "login_success"
	EventLoginFailure    = "login_failure"
	EventLoginThrottled  = "login_throttled"
	EventLogout          = "logout"
	EventSessionExpired  = "session_expired"
	EventRevokedRejected = "revoked_token_rejected"
	EventCSRFRejected    = "csrf_rejected"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid
// and records nothing, which keeps tests free of registry plumbing.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	AuthEventsTotal      *prometheus.CounterVec
	RevocationsSwept     prometheus.Counter
	RevocationSweepError prometheus.Counter
}

// NewMetrics creates and registers all collectors on registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notes_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "notes_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		AuthEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notes_auth_events_total",
				Help: "Authentication and session events by kind",
			},
			[]string{"event"},
		),
		RevocationsSwept: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "notes_revocations_swept_total",
				Help: "Expired revocation entries removed by the sweeper",
			},
		),
		RevocationSweepError: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "notes_revocation_sweep_errors_total",
				Help: "Revocation sweeps that failed",
			},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AuthEventsTotal,
		m.RevocationsSwept,
		m.RevocationSweepError,
	)

	return m
}

// AuthEvent counts one occurrence of event.
func (m *Metrics) AuthEvent(event string) {
	if m == nil {
		return
	}
	m.AuthEventsTotal.WithLabelValues(event).Inc()
}

// Swept records the outcome of a revocation sweep.
func (m *Metrics) Swept(n int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.RevocationSweepError.Inc()
		return
	}
	m.RevocationsSwept.Add(float64(n))
}

// responseWriter captures the status code for labelling.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Instrument wraps h and records request count and latency under route.
// The route is the registered pattern, not the raw path, so ids in URLs do
// not blow up label cardinality.
func (m *Metrics) Instrument(route string, h http.Handler) http.Handler {
	if m == nil {
		return h
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		h.ServeHTTP(rw, r)

		m.HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rw.statusCode)).Inc()
		m.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
