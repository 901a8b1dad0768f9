package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "runbox_http_requests_total",
		Help: "HTTP requests processed, by method, route, and status code.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "runbox_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	executionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "runbox_executions_total",
		Help: "Sandbox executions, by language and outcome.",
	}, []string{"language", "outcome"})

	executionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "runbox_execution_duration_seconds",
		Help:    "Sandbox execution wall-clock time in seconds.",
		Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2, 5},
	}, []string{"language"})

	benchmarksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "runbox_benchmarks_total",
		Help: "Benchmark invocations, by algorithm.",
	}, []string{"algorithm"})

	benchmarkDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "runbox_benchmark_duration_seconds",
		Help:    "Benchmark invocation wall-clock time in seconds.",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"algorithm"})
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		executionsTotal,
		executionDuration,
		benchmarksTotal,
		benchmarkDuration,
	)
}

// ObserveExecution records one sandbox execution. Rejected requests pass a
// zero duration and only count.
func ObserveExecution(language, outcome string, d time.Duration) {
	if language == "" {
		language = "unknown"
	}
	executionsTotal.WithLabelValues(language, outcome).Inc()
	if d > 0 {
		executionDuration.WithLabelValues(language).Observe(d.Seconds())
	}
}

// ObserveBenchmark records one completed benchmark invocation.
func ObserveBenchmark(algorithm string, d time.Duration) {
	benchmarksTotal.WithLabelValues(algorithm).Inc()
	benchmarkDuration.WithLabelValues(algorithm).Observe(d.Seconds())
}

// Handler returns the scrape endpoint for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
