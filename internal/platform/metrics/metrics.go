// Package metrics exposes Prometheus counters and histograms for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics:
// - http_requests_total: requests by route, method and status
// - http_request_duration_seconds: latency by route and method
// - tokens_issued_total: token pairs issued by sign-in or refresh
// - attendance_logs_created_total: attendance logs by type
// - users_created_total: accounts created
type Metrics struct {
	registry          *prometheus.Registry
	httpRequests      *prometheus.CounterVec
	httpLatency       *prometheus.HistogramVec
	tokensIssued      *prometheus.CounterVec
	attendanceCreated *prometheus.CounterVec
	usersCreated      prometheus.Counter
}

// New creates a Metrics with its own registry, including Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests by route, method and status."},
			[]string{"path", "method", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		tokensIssued: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "tokens_issued_total", Help: "Token pairs issued, by grant."},
			[]string{"grant"},
		),
		attendanceCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "attendance_logs_created_total", Help: "Attendance logs created, by type."},
			[]string{"type"},
		),
		usersCreated: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "users_created_total", Help: "User accounts created."},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpLatency,
		m.tokensIssued,
		m.attendanceCreated,
		m.usersCreated,
	)
	return m
}

// Middleware records request count and latency. Routes are labelled by
// their chi pattern so path parameters do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.httpLatency.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
		m.httpRequests.WithLabelValues(path, r.Method, strconv.Itoa(status)).Inc()
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// TokensIssued counts a token pair issued by grant ("password" or "refresh").
// Safe on a nil receiver.
func (m *Metrics) TokensIssued(grant string) {
	if m == nil {
		return
	}
	m.tokensIssued.WithLabelValues(grant).Inc()
}

// AttendanceCreated counts a created attendance log. Safe on a nil receiver.
func (m *Metrics) AttendanceCreated(attendanceType string) {
	if m == nil {
		return
	}
	m.attendanceCreated.WithLabelValues(attendanceType).Inc()
}

// UserCreated counts a created account. Safe on a nil receiver.
func (m *Metrics) UserCreated() {
	if m == nil {
		return
	}
	m.usersCreated.Inc()
}
