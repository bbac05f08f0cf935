package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the Prometheus registry and all gate counters. It satisfies
// both the session manager's and the auth handler's metrics interfaces so a
// single instance can be threaded through the whole wiring.
type Metrics struct {
	registry *prometheus.Registry

	logins          *prometheus.CounterVec
	sessionsCreated prometheus.Counter
	sessionsRenewed prometheus.Counter
	sessionsExpired prometheus.Counter
	httpRequests    *prometheus.CounterVec
}

// NewMetrics creates an isolated registry with gate counters plus the
// standard Go and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry: reg,
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gate_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"result"}),
		sessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gate_sessions_created_total",
			Help: "Sessions created.",
		}),
		sessionsRenewed: factory.NewCounter(prometheus.CounterOpts{
			Name: "gate_sessions_renewed_total",
			Help: "Sessions whose expiry was extended on validation.",
		}),
		sessionsExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "gate_sessions_expired_total",
			Help: "Expired sessions deleted on read.",
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gate_http_requests_total",
			Help: "HTTP requests by method, path, and status class.",
		}, []string{"method", "path", "class"}),
	}
}

// Handler serves the /metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SessionCreated implements the session manager metrics sink.
func (m *Metrics) SessionCreated() { m.sessionsCreated.Inc() }

// SessionRenewed implements the session manager metrics sink.
func (m *Metrics) SessionRenewed() { m.sessionsRenewed.Inc() }

// SessionExpired implements the session manager metrics sink.
func (m *Metrics) SessionExpired() { m.sessionsExpired.Inc() }

// LoginSucceeded implements the auth handler metrics sink.
func (m *Metrics) LoginSucceeded() { m.logins.WithLabelValues("success").Inc() }

// LoginFailed implements the auth handler metrics sink.
func (m *Metrics) LoginFailed() { m.logins.WithLabelValues("failure").Inc() }

// WithRequestMetrics counts requests by method, path, and status class.
// Path cardinality is bounded because gate serves a small fixed route set.
func WithRequestMetrics(next http.Handler, m *Metrics) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lrw := &loggingResponseWriter{
			ResponseWriter: w,
			status:         http.StatusOK,
		}

		next.ServeHTTP(lrw, r)

		m.httpRequests.WithLabelValues(r.Method, r.URL.Path, statusClass(lrw.status)).Inc()
	})
}
