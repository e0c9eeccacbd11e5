package application

import (
	"time"

	"ehsaudit/domain/findings"
)

// ReviewMetrics records review activity. infrastructure/metrics provides the
// Prometheus implementation.
type ReviewMetrics interface {
	RecordSeeded(items []findings.Finding)
	RecordFieldUpdate()
	RecordTransition(from, to findings.Status, result findings.TransitionResult)
	SetActiveSessions(count int)
	RecordExport(format, sink string, err error)
	ObserveRender(format string, duration time.Duration)
}

// NoOpMetrics discards all measurements.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordSeeded([]findings.Finding)     {}
func (NoOpMetrics) RecordFieldUpdate()                  {}
func (NoOpMetrics) SetActiveSessions(int)               {}
func (NoOpMetrics) RecordExport(string, string, error)  {}
func (NoOpMetrics) ObserveRender(string, time.Duration) {}

func (NoOpMetrics) RecordTransition(findings.Status, findings.Status, findings.TransitionResult) {}
