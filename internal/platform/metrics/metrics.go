package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "shelf"

// Query outcomes recorded by ObserveListQuery.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Collector owns the registry and the metric vectors.
type Collector struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	listQueries  *prometheus.CounterVec
	listDuration *prometheus.HistogramVec
	listResults  *prometheus.HistogramVec
}

// NewCollector creates a collector and registers its metrics, plus the Go
// runtime and process collectors, with registry. If registry is nil a new
// one is created.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		listQueries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "list",
				Name:      "queries_total",
				Help:      "Total number of list queries by collection and outcome",
			},
			[]string{"collection", "outcome"},
		),
		listDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "list",
				Name:      "query_duration_seconds",
				Help:      "Duration of list queries in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"collection"},
		),
		listResults: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "list",
				Name:      "query_results",
				Help:      "Number of documents returned per list query",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
			},
			[]string{"collection"},
		),
	}

	registry.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.listQueries,
		c.listDuration,
		c.listResults,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the registry the collector writes to.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// ObserveHTTPRequest records one handled request. route is the matched
// route pattern, not the raw path, to keep label cardinality bounded.
func (c *Collector) ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveListQuery records one Find against collection.
func (c *Collector) ObserveListQuery(collection string, results int, d time.Duration, err error) {
	if err != nil {
		c.listQueries.WithLabelValues(collection, OutcomeError).Inc()
		return
	}
	c.listQueries.WithLabelValues(collection, OutcomeSuccess).Inc()
	c.listDuration.WithLabelValues(collection).Observe(d.Seconds())
	c.listResults.WithLabelValues(collection).Observe(float64(results))
}
