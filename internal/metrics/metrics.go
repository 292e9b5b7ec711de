// Package metrics exposes Prometheus collectors for vendor calls and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	vendorRequests *prometheus.CounterVec
	vendorDuration *prometheus.HistogramVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// New creates a registry with all collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		vendorRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "katch_vendor_requests_total",
			Help: "Metadata vendor requests by endpoint and result.",
		}, []string{"endpoint", "status"}),
		vendorDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "katch_vendor_request_duration_seconds",
			Help:    "Metadata vendor request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "katch_http_requests_total",
			Help: "HTTP requests served by route and status code.",
		}, []string{"route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "katch_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(m.vendorRequests, m.vendorDuration, m.httpRequests, m.httpDuration)
	return m
}

// ObserveVendor records one vendor call. status is the HTTP status, or 0 on
// transport failure.
func (m *Metrics) ObserveVendor(endpoint string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.vendorRequests.WithLabelValues(endpoint, label).Inc()
	m.vendorDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
