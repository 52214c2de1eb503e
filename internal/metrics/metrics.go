// Package metrics exposes Prometheus instrumentation for the path
// extraction pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors incremented by the path service.
type Metrics struct {
	registry *prometheus.Registry

	QueriesTotal     *prometheus.CounterVec
	InfeasibleTotal  prometheus.Counter
	PathsSampled     prometheus.Counter
	PrunePasses      prometheus.Histogram
	QuerySeconds     prometheus.Histogram
	RetainedNodesObs prometheus.Histogram
}

// New registers the pathtrace collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pathtrace",
			Name:      "queries_total",
			Help:      "Path queries processed, labelled by operation and outcome.",
		}, []string{"operation", "outcome"}),
		InfeasibleTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pathtrace",
			Name:      "infeasible_queries_total",
			Help:      "Queries for which no cycle-free path of the requested length exists.",
		}),
		PathsSampled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pathtrace",
			Name:      "paths_sampled_total",
			Help:      "Paths returned by the sampler.",
		}),
		PrunePasses: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pathtrace",
			Name:      "prune_passes",
			Help:      "Refinement passes needed to reach the pruning fixpoint.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
		QuerySeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pathtrace",
			Name:      "query_duration_seconds",
			Help:      "End-to-end duration of path queries.",
			Buckets:   prometheus.DefBuckets,
		}),
		RetainedNodesObs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pathtrace",
			Name:      "retained_layered_nodes",
			Help:      "Layered nodes surviving pruning per query.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}

	registry.MustRegister(
		m.QueriesTotal,
		m.InfeasibleTotal,
		m.PathsSampled,
		m.PrunePasses,
		m.QuerySeconds,
		m.RetainedNodesObs,
	)
	return m
}

// Handler serves the /metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
