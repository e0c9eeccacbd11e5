package application

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"ehsaudit/domain/audit"
	"ehsaudit/domain/contracts"
	"ehsaudit/domain/events"
	"ehsaudit/domain/findings"
	"ehsaudit/logging"
)

// ReviewSession hosts one finding register for the lifetime of an audit review.
// The register itself is not safe for concurrent use, so every call goes
// through the session mutex and reads the clock once.
type ReviewSession struct {
	id             string
	context        audit.AuditContext
	markdownReport string
	pdfReportHTML  string
	createdAt      time.Time

	mu       sync.Mutex
	register *findings.Register

	clock     clockwork.Clock
	publisher events.RegisterEventPublisher
	metrics   ReviewMetrics
	logger    *logging.Logger
}

// sessionDeps bundles the collaborators shared by every session.
type sessionDeps struct {
	clock     clockwork.Clock
	publisher events.RegisterEventPublisher
	metrics   ReviewMetrics
	logger    *logging.Logger
}

// newReviewSession seeds a register from an analysis result. The audit
// context fills blank site, area, audit type and date on each finding.
func newReviewSession(id string, actx audit.AuditContext, result *contracts.AnalysisResult, deps sessionDeps) (*ReviewSession, error) {
	if result == nil {
		return nil, fmt.Errorf("%w: no analysis result", contracts.ErrUpstreamAnalysis)
	}

	now := deps.clock.Now()
	items := make([]findings.Finding, len(result.Findings))
	copy(items, result.Findings)
	actx.ApplyTo(items)

	register := findings.NewRegister()
	if err := register.InsertMany(items, now); err != nil {
		return nil, fmt.Errorf("%w: failed to seed register: %w", contracts.ErrUpstreamAnalysis, err)
	}

	session := &ReviewSession{
		id:             id,
		context:        actx,
		markdownReport: result.MarkdownReport,
		pdfReportHTML:  result.PDFReportHTML,
		createdAt:      now,
		register:       register,
		clock:          deps.clock,
		publisher:      deps.publisher,
		metrics:        deps.metrics,
		logger:         deps.logger.WithSession(id),
	}

	session.metrics.RecordSeeded(register.Snapshot())
	session.publisher.PublishRegisterSeeded(events.RegisterSeededEvent{
		SessionID: id,
		Count:     register.Len(),
		Timestamp: now,
	})
	session.logger.Info("Register seeded", "findings", register.Len(), "context", actx.Label())
	return session, nil
}

// ID returns the session identifier.
func (s *ReviewSession) ID() string {
	return s.id
}

// Context returns the audit context the session was created with.
func (s *ReviewSession) Context() audit.AuditContext {
	return s.context
}

// CreatedAt returns when the register was seeded.
func (s *ReviewSession) CreatedAt() time.Time {
	return s.createdAt
}

// AnalysisReport returns the narrative report produced by the analysis collaborator.
func (s *ReviewSession) AnalysisReport() string {
	return s.markdownReport
}

// PrintableReport returns the collaborator's print-ready HTML, if any.
func (s *ReviewSession) PrintableReport() string {
	return s.pdfReportHTML
}

// Findings returns the register in insertion order with overdue state
// evaluated at the current instant.
func (s *ReviewSession) Findings() []findings.Finding {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.register.Refresh(s.clock.Now())
	return s.register.Snapshot()
}

// Ranked returns the register ordered by risk score, highest first.
func (s *ReviewSession) Ranked() []findings.Finding {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.register.Refresh(s.clock.Now())
	return s.register.Ranked()
}

// Summary returns counts for the current register.
func (s *ReviewSession) Summary() findings.Summary {
	return findings.Summarize(s.Findings())
}

// Len returns the number of findings.
func (s *ReviewSession) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.register.Len()
}

// Finding returns one finding by id.
func (s *ReviewSession) Finding(id string) (findings.Finding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.register.Refresh(s.clock.Now())
	return s.register.Get(id)
}

// UpdateFinding applies a partial edit.
func (s *ReviewSession) UpdateFinding(id string, patch findings.Patch) (findings.Finding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	updated, err := s.register.UpdateFields(id, patch, now)
	if err != nil {
		s.logger.RegisterError("Finding update failed", err, id)
		return findings.Finding{}, err
	}

	s.metrics.RecordFieldUpdate()
	s.publisher.PublishFindingUpdated(events.FindingUpdatedEvent{
		SessionID: s.id,
		Finding:   updated,
		Timestamp: now,
	})
	s.logger.Register("Finding updated", id, "risk_score", updated.RiskScore, "risk_level", updated.RiskLevel)
	return updated, nil
}

// ChangeStatus requests a status transition. A guard rejection is reported in
// the result, not as an error, and leaves the finding untouched.
func (s *ReviewSession) ChangeStatus(id string, to findings.Status) (findings.Finding, findings.TransitionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.register.Get(id)
	if err != nil {
		return findings.Finding{}, findings.TransitionResult{}, err
	}
	from := current.Status

	now := s.clock.Now()
	updated, result, err := s.register.RequestStatusChange(id, to, now)
	if err != nil {
		s.logger.RegisterError("Status change failed", err, id, "to", to)
		return findings.Finding{}, findings.TransitionResult{}, err
	}

	s.metrics.RecordTransition(from, to, result)
	if !result.Valid {
		s.publisher.PublishTransitionRejected(events.TransitionRejectedEvent{
			SessionID: s.id,
			FindingID: id,
			From:      from,
			To:        to,
			Result:    result,
			Timestamp: now,
		})
		s.logger.Register("Status change rejected", id, "from", from, "to", to, "rule", result.Rule)
		return updated, result, nil
	}

	s.publisher.PublishStatusChanged(events.StatusChangedEvent{
		SessionID: s.id,
		From:      from,
		Finding:   updated,
		Timestamp: now,
	})
	s.logger.Register("Status changed", id, "from", from, "to", to)
	return updated, result, nil
}
