// Package metrics exposes Prometheus instruments for the API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "eightbin"

// Metrics holds all Prometheus metrics of the service on a private registry.
type Metrics struct {
	LinksCreated      prometheus.Counter
	FilesUploaded     *prometheus.CounterVec
	KeyCollisions     *prometheus.CounterVec
	StoreLatency      *prometheus.HistogramVec
	RateLimitRejected *prometheus.CounterVec
	RequestErrors     *prometheus.CounterVec
	registry          *prometheus.Registry
}

// New creates and registers all metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		LinksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_created_total",
			Help:      "Short links written to the bucket.",
		}),
		FilesUploaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_uploaded_total",
			Help:      "Files written under the f/ prefix.",
		}, []string{"content_type", "alias"}),
		KeyCollisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "key_collisions_total",
			Help:      "Generated keys that were already taken.",
		}, []string{"namespace"}),
		StoreLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Object store call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "outcome"}),
		RateLimitRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_rejections_total",
			Help:      "Requests rejected by the rate limiter.",
		}, []string{"scope"}),
		RequestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_errors_total",
			Help:      "Failed requests by operation and error kind.",
		}, []string{"operation", "kind"}),
		registry: registry,
	}

	registry.MustRegister(
		m.LinksCreated,
		m.FilesUploaded,
		m.KeyCollisions,
		m.StoreLatency,
		m.RateLimitRejected,
		m.RequestErrors,
	)

	return m
}

// ObserveStore records the latency of one store call.
func (m *Metrics) ObserveStore(operation string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	m.StoreLatency.WithLabelValues(operation, outcome).Observe(time.Since(started).Seconds())
}

// Collision counts one taken key in the labelled namespace.
func (m *Metrics) Collision(namespace string) {
	m.KeyCollisions.WithLabelValues(namespace).Inc()
}

// FileUploaded counts one stored file.
func (m *Metrics) FileUploaded(contentType string, alias bool) {
	label := "generated"
	if alias {
		label = "custom"
	}

	m.FilesUploaded.WithLabelValues(contentType, label).Inc()
}

// RateLimited counts one rejected request.
func (m *Metrics) RateLimited(scope string) {
	m.RateLimitRejected.WithLabelValues(scope).Inc()
}

// RequestFailed counts one failed request.
func (m *Metrics) RequestFailed(operation, kind string) {
	m.RequestErrors.WithLabelValues(operation, kind).Inc()
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus scrape handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
