// Package metrics exposes Prometheus instruments for assessments.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ppiankov/churnwatch/internal/scoring"
)

// Metrics holds the collectors on a private registry so tests and
// multiple servers in one process do not collide on the global one.
type Metrics struct {
	registry    *prometheus.Registry
	assessments *prometheus.CounterVec
	scores      prometheus.Histogram
}

// New creates and registers the churnwatch collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "churnwatch",
			Name:      "assessments_total",
			Help:      "Assessments by source shell, risk level and result.",
		}, []string{"source", "level", "result"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "churnwatch",
			Name:      "risk_score",
			Help:      "Distribution of clamped risk scores.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),
	}
	m.registry.MustRegister(
		m.assessments,
		m.scores,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe records one assessment outcome. Safe on a nil receiver.
func (m *Metrics) Observe(source string, res scoring.Result) {
	if m == nil {
		return
	}
	if !res.OK() {
		m.assessments.WithLabelValues(source, "", "error").Inc()
		return
	}
	m.assessments.WithLabelValues(source, string(res.Report.RiskLevel), "ok").Inc()
	m.scores.Observe(float64(res.Report.RiskScore))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
