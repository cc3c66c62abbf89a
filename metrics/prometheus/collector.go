// Package prometheus exports vecmatch metrics in Prometheus format.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hupe1980/vecmatch"
)

// Compile time check to ensure Collector satisfies the metrics interface.
var _ vecmatch.MetricsCollector = (*Collector)(nil)

// Config configures the Prometheus collector.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Namespace prefixes every metric name.
	Namespace string

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64
}

// DefaultConfig returns default Prometheus configuration.
func DefaultConfig() Config {
	return Config{
		Namespace:      "vecmatch",
		LatencyBuckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
	}
}

// Collector implements vecmatch.MetricsCollector with Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry

	searchLatency  *prometheus.HistogramVec
	searchRequests *prometheus.CounterVec
	searchQueries  prometheus.Counter

	buildLatency  *prometheus.HistogramVec
	buildRequests *prometheus.CounterVec
	buildShards   prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics.
func NewCollector(cfg Config) *Collector {
	def := DefaultConfig()
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = def.LatencyBuckets
	}
	if cfg.Namespace == "" {
		cfg.Namespace = def.Namespace
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{registry: registry}

	c.searchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "search_latency_seconds",
			Help:      "Search call latency in seconds, build included",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"status"},
	)

	c.searchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "search_requests_total",
			Help:      "Total number of search calls",
		},
		[]string{"status"},
	)

	c.searchQueries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "search_queries_total",
			Help:      "Total number of query vectors searched",
		},
	)

	c.buildLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "build_latency_seconds",
			Help:      "Shard index build latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"quantized"},
	)

	c.buildRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "builds_total",
			Help:      "Total number of shard index builds",
		},
		[]string{"quantized", "status"},
	)

	c.buildShards = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "build_shards",
			Help:      "Number of shards per successful build",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		},
	)

	registry.MustRegister(
		c.searchLatency,
		c.searchRequests,
		c.searchQueries,
		c.buildLatency,
		c.buildRequests,
		c.buildShards,
	)

	return c
}

// RecordSearch implements vecmatch.MetricsCollector.
func (c *Collector) RecordSearch(numQueries, _ int, duration time.Duration, err error) {
	s := status(err)
	c.searchLatency.WithLabelValues(s).Observe(duration.Seconds())
	c.searchRequests.WithLabelValues(s).Inc()
	c.searchQueries.Add(float64(numQueries))
}

// RecordBuild implements vecmatch.MetricsCollector.
func (c *Collector) RecordBuild(shards int, quantized bool, duration time.Duration, err error) {
	q := strconv.FormatBool(quantized)
	c.buildLatency.WithLabelValues(q).Observe(duration.Seconds())
	c.buildRequests.WithLabelValues(q, status(err)).Inc()
	if err == nil {
		c.buildShards.Observe(float64(shards))
	}
}

// Registry returns the registry holding the metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ServeHTTP serves the metrics in the Prometheus text format.
func (c *Collector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
