// Package prometheus wraps the Prometheus client behind small interfaces so
// that application code can record metrics without importing the client
// library, and tests can substitute no-op collectors.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter increments a monotonically growing value partitioned by labels.
type Counter interface {
	Inc(labels ...string)
	Add(value float64, labels ...string)
}

// Gauge records a value that can go up and down, partitioned by labels.
type Gauge interface {
	Set(value float64, labels ...string)
	Inc(labels ...string)
	Dec(labels ...string)
}

// Histogram observes value distributions partitioned by labels.
type Histogram interface {
	Observe(value float64, labels ...string)
}

// MetricsCollector creates and registers metric instruments.
type MetricsCollector interface {
	NewCounter(name, help string, labelNames ...string) Counter
	NewGauge(name, help string, labelNames ...string) Gauge
	NewHistogram(name, help string, buckets []float64, labelNames ...string) Histogram

	// Handler returns the HTTP handler serving the metrics endpoint.
	Handler() http.Handler
}

// ─────────────────────────────────────────────────────────────────────────────
// Prometheus-backed implementation
// ─────────────────────────────────────────────────────────────────────────────

type promCollector struct {
	namespace string
	registry  *prometheus.Registry
}

// NewCollector builds a MetricsCollector with its own registry under the given
// metric namespace.
func NewCollector(namespace string) MetricsCollector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())
	reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	return &promCollector{namespace: namespace, registry: reg}
}

func (c *promCollector) NewCounter(name, help string, labelNames ...string) Counter {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace,
		Name:      name,
		Help:      help,
	}, labelNames)
	c.registry.MustRegister(vec)
	return &counter{vec: vec}
}

func (c *promCollector) NewGauge(name, help string, labelNames ...string) Gauge {
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: c.namespace,
		Name:      name,
		Help:      help,
	}, labelNames)
	c.registry.MustRegister(vec)
	return &gauge{vec: vec}
}

func (c *promCollector) NewHistogram(name, help string, buckets []float64, labelNames ...string) Histogram {
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.namespace,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labelNames)
	c.registry.MustRegister(vec)
	return &histogram{vec: vec}
}

func (c *promCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

type counter struct{ vec *prometheus.CounterVec }

func (c *counter) Inc(labels ...string)                { c.vec.WithLabelValues(labels...).Inc() }
func (c *counter) Add(value float64, labels ...string) { c.vec.WithLabelValues(labels...).Add(value) }

type gauge struct{ vec *prometheus.GaugeVec }

func (g *gauge) Set(value float64, labels ...string) { g.vec.WithLabelValues(labels...).Set(value) }
func (g *gauge) Inc(labels ...string)                { g.vec.WithLabelValues(labels...).Inc() }
func (g *gauge) Dec(labels ...string)                { g.vec.WithLabelValues(labels...).Dec() }

type histogram struct{ vec *prometheus.HistogramVec }

func (h *histogram) Observe(value float64, labels ...string) {
	h.vec.WithLabelValues(labels...).Observe(value)
}

// ─────────────────────────────────────────────────────────────────────────────
// No-op implementation for tests
// ─────────────────────────────────────────────────────────────────────────────

type nopCollector struct{}

// NewNopCollector returns a MetricsCollector whose instruments discard all
// observations.
func NewNopCollector() MetricsCollector { return nopCollector{} }

func (nopCollector) NewCounter(string, string, ...string) Counter { return nopCounter{} }
func (nopCollector) NewGauge(string, string, ...string) Gauge     { return nopGauge{} }
func (nopCollector) NewHistogram(string, string, []float64, ...string) Histogram {
	return nopHistogram{}
}
func (nopCollector) Handler() http.Handler { return http.NotFoundHandler() }

type nopCounter struct{}

func (nopCounter) Inc(...string)          {}
func (nopCounter) Add(float64, ...string) {}

type nopGauge struct{}

func (nopGauge) Set(float64, ...string) {}
func (nopGauge) Inc(...string)          {}
func (nopGauge) Dec(...string)          {}

type nopHistogram struct{}

func (nopHistogram) Observe(float64, ...string) {}
