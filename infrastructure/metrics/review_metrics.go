// Package metrics provides Prometheus instrumentation for review sessions and exports.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"ehsaudit/domain/findings"
)

// ReviewMetrics contains Prometheus metrics for register and export operations
type ReviewMetrics struct {
	registry *prometheus.Registry

	// Register metrics
	findingsSeeded       prometheus.Counter
	fieldUpdates         prometheus.Counter
	transitions          *prometheus.CounterVec
	transitionRejections *prometheus.CounterVec
	riskLevels           *prometheus.CounterVec

	// Session metrics
	activeSessions prometheus.Gauge

	// Export metrics
	exports        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec

	collectors []prometheus.Collector
}

// NewReviewMetrics creates and registers review metrics
func NewReviewMetrics(registry *prometheus.Registry) (*ReviewMetrics, error) {
	m := &ReviewMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ReviewMetrics) initMetrics() {
	m.findingsSeeded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ehsaudit_findings_seeded_total",
		Help: "Total number of findings seeded from analysis results",
	})

	m.fieldUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ehsaudit_finding_updates_total",
		Help: "Total number of accepted finding field updates",
	})

	m.transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ehsaudit_status_transitions_total",
			Help: "Total number of accepted status transitions",
		},
		[]string{"from", "to"},
	)

	m.transitionRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ehsaudit_status_transition_rejections_total",
			Help: "Total number of status transitions blocked by a guard",
		},
		[]string{"rule"},
	)

	m.riskLevels = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ehsaudit_findings_by_risk_total",
			Help: "Findings seeded per risk tier",
		},
		[]string{"level"},
	)

	m.activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ehsaudit_active_sessions",
		Help: "Number of review sessions held in memory",
	})

	m.exports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ehsaudit_exports_total",
			Help: "Total number of document deliveries",
		},
		[]string{"format", "sink", "status"},
	)

	m.renderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ehsaudit_render_duration_seconds",
			Help:    "Time taken to render a register document",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
		},
		[]string{"format"},
	)

	m.collectors = []prometheus.Collector{
		m.findingsSeeded,
		m.fieldUpdates,
		m.transitions,
		m.transitionRejections,
		m.riskLevels,
		m.activeSessions,
		m.exports,
		m.renderDuration,
	}
}

// Describe implements the Collector interface
func (m *ReviewMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *ReviewMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

// RecordSeeded counts findings seeded into a new register
func (m *ReviewMetrics) RecordSeeded(items []findings.Finding) {
	m.findingsSeeded.Add(float64(len(items)))
	for _, f := range items {
		m.riskLevels.WithLabelValues(f.RiskLevel.String()).Inc()
	}
}

// RecordFieldUpdate counts an accepted field update
func (m *ReviewMetrics) RecordFieldUpdate() {
	m.fieldUpdates.Inc()
}

// RecordTransition counts a status change request outcome
func (m *ReviewMetrics) RecordTransition(from, to findings.Status, result findings.TransitionResult) {
	if result.Valid {
		m.transitions.WithLabelValues(from.String(), to.String()).Inc()
		return
	}
	m.transitionRejections.WithLabelValues(string(result.Rule)).Inc()
}

// SetActiveSessions updates the number of sessions held in memory
func (m *ReviewMetrics) SetActiveSessions(count int) {
	m.activeSessions.Set(float64(count))
}

// RecordExport counts a document delivery
func (m *ReviewMetrics) RecordExport(format, sink string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.exports.WithLabelValues(format, sink, status).Inc()
}

// ObserveRender records how long a document took to render
func (m *ReviewMetrics) ObserveRender(format string, duration time.Duration) {
	m.renderDuration.WithLabelValues(format).Observe(duration.Seconds())
}
