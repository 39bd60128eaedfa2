package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the console's Prometheus collectors.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          *prometheus.CounterVec
	guardDecisions  *prometheus.CounterVec
	sessionEvents   *prometheus.CounterVec
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_http_requests_total",
			Help: "HTTP requests handled by the console.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "console_http_request_duration_seconds",
			Help:    "Latency of console HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_http_errors_total",
			Help: "Requests that ended in an error response, by error code.",
		}, []string{"route", "method", "code"}),
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_guard_decisions_total",
			Help: "Navigation guard outcomes.",
		}, []string{"outcome", "target"}),
		sessionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_session_events_total",
			Help: "Session lifecycle events.",
		}, []string{"type"}),
	}

	m.registry.MustRegister(m.requests, m.requestDuration, m.errors, m.guardDecisions, m.sessionEvents)
	return m
}

// Registry exposes the registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// RecordGuardDecision counts a navigation outcome. target is empty for renders.
func (m *Metrics) RecordGuardDecision(outcome, target string) {
	if m == nil {
		return
	}
	m.guardDecisions.WithLabelValues(outcome, target).Inc()
}

// RecordSessionEvent counts a session lifecycle event.
func (m *Metrics) RecordSessionEvent(eventType string) {
	if m == nil {
		return
	}
	m.sessionEvents.WithLabelValues(eventType).Inc()
}
