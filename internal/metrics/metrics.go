// Package metrics defines the Prometheus instruments exported by sift.
//
// Instruments live on a private registry so tests and multiple servers in
// one process never collide on the global default registerer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every sift instrument.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	Records       prometheus.Gauge
	MatcherFired  *prometheus.CounterVec
	CreateOutcome *prometheus.CounterVec
}

// New creates and registers all instruments, plus Go runtime collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sift_http_requests_total",
				Help: "Total number of HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sift_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		Records: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sift_records",
				Help: "Number of records currently stored",
			},
		),
		MatcherFired: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sift_nl_matchers_total",
				Help: "Natural-language matchers that fired, by matcher name",
			},
			[]string{"matcher"},
		),
		CreateOutcome: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sift_create_total",
				Help: "Create operations by outcome (created, conflict, invalid, error)",
			},
			[]string{"outcome"},
		),
	}

	reg.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.Records,
		m.MatcherFired,
		m.CreateOutcome,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the instruments are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// ObserveMatchers counts each matcher name once.
func (m *Metrics) ObserveMatchers(names []string) {
	for _, n := range names {
		m.MatcherFired.WithLabelValues(n).Inc()
	}
}
