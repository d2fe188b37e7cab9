package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics provides observability for the request/connection lifecycle.
//
// The interface is optional: NewHTTPMetrics returns a no-op implementation
// when metrics are disabled, so callers never need a nil check.
type HTTPMetrics interface {
	// RecordRequest records a completed request with its method and the
	// status code of the response.
	RecordRequest(method string, status int)

	// RecordRateLimited increments the rejected-by-rate-limit counter.
	RecordRateLimited()

	// RecordConnectionAccepted increments the accepted connections counter.
	RecordConnectionAccepted()

	// RecordConnectionClosed increments the closed connections counter.
	RecordConnectionClosed()

	// SetInFlight updates the gauge of handlers currently running.
	SetInFlight(count int)
}

// httpMetrics is the Prometheus implementation of HTTPMetrics.
type httpMetrics struct {
	requestsTotal       *prometheus.CounterVec
	rateLimitedTotal    prometheus.Counter
	connectionsAccepted prometheus.Counter
	connectionsClosed   prometheus.Counter
	handlersInFlight    prometheus.Gauge
}

// NewHTTPMetrics creates a Prometheus-backed HTTPMetrics instance, or a no-op
// implementation if InitRegistry has not been called.
func NewHTTPMetrics() HTTPMetrics {
	if !IsEnabled() {
		return noopHTTPMetrics{}
	}

	reg := GetRegistry()

	return &httpMetrics{
		requestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "staticd_http_requests_total",
				Help: "Total number of HTTP requests by method and status code",
			},
			[]string{"method", "status"},
		),
		rateLimitedTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "staticd_http_rate_limited_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
		),
		connectionsAccepted: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "staticd_connections_accepted_total",
				Help: "Total number of accepted TCP connections",
			},
		),
		connectionsClosed: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "staticd_connections_closed_total",
				Help: "Total number of closed TCP connections",
			},
		),
		handlersInFlight: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "staticd_handlers_in_flight",
				Help: "Current number of connection handlers running",
			},
		),
	}
}

func (m *httpMetrics) RecordRequest(method string, status int) {
	m.requestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func (m *httpMetrics) RecordRateLimited() {
	m.rateLimitedTotal.Inc()
}

func (m *httpMetrics) RecordConnectionAccepted() {
	m.connectionsAccepted.Inc()
}

func (m *httpMetrics) RecordConnectionClosed() {
	m.connectionsClosed.Inc()
}

func (m *httpMetrics) SetInFlight(count int) {
	m.handlersInFlight.Set(float64(count))
}

// noopHTTPMetrics discards all observations.
type noopHTTPMetrics struct{}

func (noopHTTPMetrics) RecordRequest(string, int)    {}
func (noopHTTPMetrics) RecordRateLimited()           {}
func (noopHTTPMetrics) RecordConnectionAccepted()    {}
func (noopHTTPMetrics) RecordConnectionClosed()      {}
func (noopHTTPMetrics) SetInFlight(int)              {}
