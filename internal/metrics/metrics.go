// Package metrics defines the Prometheus collectors exported by the query API.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jonesrussell/north-cloud/query-api/internal/domain"
)

// Namespace prefixes every metric name.
const Namespace = "query_api"

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	RequestsTotal        *prometheus.CounterVec
	EngineDuration       *prometheus.HistogramVec
	SchemaLookupFailures prometheus.Counter
	FieldTypeCache       *prometheus.CounterVec
}

// New creates and registers the collectors on reg (the default registerer
// when nil).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "requests_total",
			Help:      "Query requests by route and outcome (ok or the error kind).",
		}, []string{"route", "outcome"}),

		EngineDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "engine",
			Name:      "duration_seconds",
			Help:      "Latency of search engine calls by operation.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"operation", "outcome"}),

		SchemaLookupFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "schema",
			Name:      "lookup_failures_total",
			Help:      "Field mapping or template lookups that fell back to defaults.",
		}),

		FieldTypeCache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "schema",
			Name:      "field_type_cache_total",
			Help:      "Field type cache lookups by result (hit or miss).",
		}, []string{"result"}),
	}
}

// ObserveRequest counts one handled request.
func (m *Metrics) ObserveRequest(route string, err error) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(route, outcome(err)).Inc()
}

// ObserveEngine records the latency of one engine call.
func (m *Metrics) ObserveEngine(operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.EngineDuration.WithLabelValues(operation, outcome(err)).Observe(d.Seconds())
}

// SchemaLookupFailed counts a lookup that degraded to defaults.
func (m *Metrics) SchemaLookupFailed() {
	if m == nil {
		return
	}
	m.SchemaLookupFailures.Inc()
}

// CacheLookup counts a field type cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.FieldTypeCache.WithLabelValues(result).Inc()
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return string(dErr.Kind)
	}
	return string(domain.KindInternal)
}
