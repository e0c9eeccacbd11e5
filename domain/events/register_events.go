package events

import (
	"time"

	"ehsaudit/domain/findings"
)

// RegisterSeededEvent represents a review session whose register was seeded from analysis
type RegisterSeededEvent struct {
	SessionID string
	Count     int
	Timestamp time.Time
}

// FindingUpdatedEvent represents a field edit on a finding
type FindingUpdatedEvent struct {
	SessionID string
	Finding   findings.Finding
	Timestamp time.Time
}

// StatusChangedEvent represents an accepted status transition
type StatusChangedEvent struct {
	SessionID string
	From      findings.Status
	Finding   findings.Finding
	Timestamp time.Time
}

// TransitionRejectedEvent represents a status transition blocked by a guard
type TransitionRejectedEvent struct {
	SessionID string
	FindingID string
	From      findings.Status
	To        findings.Status
	Result    findings.TransitionResult
	Timestamp time.Time
}
