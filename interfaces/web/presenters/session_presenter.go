package presenters

import (
	"ehsaudit/application"
	"ehsaudit/domain/audit"
	"ehsaudit/domain/findings"
)

// SummaryView represents register counts for dashboards
type SummaryView struct {
	Total    int            `json:"total"`
	Open     int            `json:"open"`
	Overdue  int            `json:"overdue"`
	ByStatus map[string]int `json:"by_status"`
	ByLevel  map[string]int `json:"by_level"`
}

// SessionView represents a review session for API responses
type SessionView struct {
	ID        string             `json:"id"`
	Context   audit.AuditContext `json:"context"`
	Label     string             `json:"label"`
	CreatedAt string             `json:"created_at"`
	Summary   SummaryView        `json:"summary"`
	Findings  []*FindingView     `json:"findings,omitempty"`
}

// SessionListView represents the live sessions
type SessionListView struct {
	Sessions []*SessionView `json:"sessions"`
}

// SessionPresenter transforms review sessions into view models.
type SessionPresenter struct {
	findings *FindingPresenter
}

// NewSessionPresenter creates a new session presenter.
func NewSessionPresenter(findingPresenter *FindingPresenter) *SessionPresenter {
	return &SessionPresenter{findings: findingPresenter}
}

// FormatSession converts a session with its findings ranked by risk.
func (p *SessionPresenter) FormatSession(session *application.ReviewSession) *SessionView {
	ranked := session.Ranked()
	view := p.formatHeader(session, findings.Summarize(ranked))
	view.Findings = p.findings.FormatFindings(ranked)
	return view
}

// FormatSessionList converts sessions without their findings.
func (p *SessionPresenter) FormatSessionList(sessions []*application.ReviewSession) *SessionListView {
	views := make([]*SessionView, len(sessions))
	for i, session := range sessions {
		views[i] = p.formatHeader(session, session.Summary())
	}
	return &SessionListView{Sessions: views}
}

// FormatSummary converts register counts, keyed by display label.
func (p *SessionPresenter) FormatSummary(summary findings.Summary) SummaryView {
	view := SummaryView{
		Total:    summary.Total,
		Open:     summary.Open(),
		Overdue:  summary.Overdue,
		ByStatus: make(map[string]int, len(summary.ByStatus)),
		ByLevel:  make(map[string]int, len(summary.ByLevel)),
	}
	for status, n := range summary.ByStatus {
		view.ByStatus[string(status)] = n
	}
	for level, n := range summary.ByLevel {
		view.ByLevel[string(level)] = n
	}
	return view
}

func (p *SessionPresenter) formatHeader(session *application.ReviewSession, summary findings.Summary) *SessionView {
	return &SessionView{
		ID:        session.ID(),
		Context:   session.Context(),
		Label:     session.Context().Label(),
		CreatedAt: formatTimestamp(session.CreatedAt()),
		Summary:   p.FormatSummary(summary),
	}
}
