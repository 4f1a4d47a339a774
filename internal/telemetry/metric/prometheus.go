// Package metric provides Prometheus metrics for sigtok.
package metric

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sigtok"

// Registry holds all application metrics on a private Prometheus registry.
type Registry struct {
	registry *prometheus.Registry

	TokensCreated   prometheus.Counter
	TokensRead      *prometheus.CounterVec
	Verifications   *prometheus.CounterVec
	StoreOperations *prometheus.CounterVec
	StoreDuration   *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewRegistry creates a registry with every sigtok metric plus the Go
// runtime and process collectors registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		TokensCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_created_total",
			Help:      "Total number of tokens signed and issued",
		}),
		TokensRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_read_total",
			Help:      "Total number of token reads by outcome",
		}, []string{"result"}),
		Verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signature_verifications_total",
			Help:      "Signature verification outcomes by reason",
		}, []string{"result"}),
		StoreOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Content store operations by operation and result",
		}, []string{"op", "result"}),
		StoreDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Content store operation latency",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"op"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.TokensCreated,
		r.TokensRead,
		r.Verifications,
		r.StoreOperations,
		r.StoreDuration,
		r.RequestsTotal,
		r.RequestDuration,
	)

	return r
}

// Registerer exposes the underlying registry for components that bring
// their own collectors (e.g. the Badger store gauges).
func (r *Registry) Registerer() prometheus.Registerer {
	return r.registry
}

// Gatherer exposes the underlying registry for tests and exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns an HTTP handler serving this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		Registry: r.registry,
	})
}

// IncTokenCreated counts one issued token.
func (r *Registry) IncTokenCreated() {
	r.TokensCreated.Inc()
}

// RecordTokenRead counts a token read with result "valid" or "invalid".
func (r *Registry) RecordTokenRead(result string) {
	r.TokensRead.WithLabelValues(result).Inc()
}

// RecordVerification counts a verification outcome.
func (r *Registry) RecordVerification(result string) {
	r.Verifications.WithLabelValues(result).Inc()
}

// RecordStoreOperation counts one store operation and observes its latency.
func (r *Registry) RecordStoreOperation(op, result string, seconds float64) {
	r.StoreOperations.WithLabelValues(op, result).Inc()
	r.StoreDuration.WithLabelValues(op).Observe(seconds)
}

// RecordRequest counts one HTTP request and observes its latency.
func (r *Registry) RecordRequest(method, route, status string, seconds float64) {
	r.RequestsTotal.WithLabelValues(method, route, status).Inc()
	r.RequestDuration.WithLabelValues(method, route).Observe(seconds)
}

var (
	globalOnce     sync.Once
	globalRegistry *Registry
)

// Global returns the process-wide registry, creating it on first use.
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// Handler serves the process-wide registry.
func Handler() http.Handler {
	return Global().Handler()
}
