package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported by the server. Each instance has its
// own registry so tests and servers do not clash.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal *prometheus.CounterVec
	JobsTotal         *prometheus.CounterVec
	JobsInProgress    prometheus.Gauge
	ObservationsTotal *prometheus.CounterVec
	BenchmarkDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gbench_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.JobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gbench_jobs_total",
			Help: "Benchmark jobs finished, by final status",
		},
		[]string{"status"},
	)

	m.JobsInProgress = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gbench_jobs_in_progress",
			Help: "Benchmark jobs currently running",
		},
	)

	m.ObservationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gbench_observations_total",
			Help: "Workload observations made, by measure",
		},
		[]string{"measure"},
	)

	m.BenchmarkDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gbench_benchmark_duration_seconds",
			Help:    "Wall-clock time to run one benchmark to completion",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
		[]string{"measure"},
	)

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.JobsTotal,
		m.JobsInProgress,
		m.ObservationsTotal,
		m.BenchmarkDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordBenchmark accounts for one finished benchmark.
func (m *Metrics) RecordBenchmark(measure string, observations int, elapsed time.Duration) {
	m.ObservationsTotal.WithLabelValues(measure).Add(float64(observations))
	m.BenchmarkDuration.WithLabelValues(measure).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordRequest(method, path string, status int) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}
