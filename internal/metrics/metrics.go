package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service. Each instance owns
// its registry, so tests can build as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	IndicatorComputeDur prometheus.Histogram
	IndicatorFailures   *prometheus.CounterVec // labels: indicator

	CacheRequests *prometheus.CounterVec   // labels: result=hit|miss|error
	FetchDur      *prometheus.HistogramVec // labels: source

	HTTPRequests *prometheus.CounterVec // labels: method, route, status
}

// New registers and returns all metrics on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		IndicatorComputeDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockinsight_indicator_compute_seconds",
			Help:    "Time to compute the full indicator set for one series",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		IndicatorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockinsight_indicator_failures_total",
			Help: "Indicator computations that failed and were omitted",
		}, []string{"indicator"}),

		CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockinsight_cache_requests_total",
			Help: "Prediction cache lookups by result",
		}, []string{"result"}),
		FetchDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stockinsight_fetch_seconds",
			Help:    "Price history fetch latency by data source",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),

		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockinsight_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.IndicatorComputeDur,
		m.IndicatorFailures,
		m.CacheRequests,
		m.FetchDur,
		m.HTTPRequests,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
