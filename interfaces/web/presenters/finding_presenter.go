package presenters

import (
	"fmt"
	"time"

	"ehsaudit/domain/findings"
)

// Finding-related view data structures

// BadgeView is a coloured label for a risk tier or status
type BadgeView struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Class string `json:"class"`
}

// FindingView represents a finding for API responses and register tables
type FindingView struct {
	findings.Finding

	RiskBadge     BadgeView `json:"risk_badge"`
	StatusBadge   BadgeView `json:"status_badge"`
	DueLabel      string    `json:"due_label"`
	IsClosed      bool      `json:"is_closed"`
	CanClose      bool      `json:"can_close"`
	EvidenceCount int       `json:"evidence_count"`
}

// TransitionView is the outcome of a status change request
type TransitionView struct {
	Valid   bool         `json:"valid"`
	Message string       `json:"message,omitempty"`
	Rule    string       `json:"rule,omitempty"`
	Finding *FindingView `json:"finding"`
}

var riskBadges = map[findings.RiskLevel]BadgeView{
	findings.RiskCritical: {Label: "Critical", Color: "red", Class: "bg-red-100 text-red-800 border-red-300"},
	findings.RiskHigh:     {Label: "High", Color: "orange", Class: "bg-orange-100 text-orange-800 border-orange-300"},
	findings.RiskMedium:   {Label: "Medium", Color: "yellow", Class: "bg-yellow-100 text-yellow-800 border-yellow-300"},
	findings.RiskLow:      {Label: "Low", Color: "green", Class: "bg-green-100 text-green-800 border-green-300"},
}

var statusBadges = map[findings.Status]BadgeView{
	findings.StatusOpen:       {Label: "Open", Color: "blue", Class: "bg-blue-100 text-blue-800"},
	findings.StatusInProgress: {Label: "In-progress", Color: "amber", Class: "bg-amber-100 text-amber-800"},
	findings.StatusClosed:     {Label: "Closed", Color: "green", Class: "bg-green-100 text-green-800"},
	findings.StatusRejected:   {Label: "Rejected", Color: "slate", Class: "bg-slate-200 text-slate-700"},
}

// RiskBadge returns the colour identity of a risk tier.
func RiskBadge(level findings.RiskLevel) BadgeView {
	if badge, ok := riskBadges[level]; ok {
		return badge
	}
	return BadgeView{Label: string(level), Color: "gray", Class: "bg-gray-100 text-gray-700"}
}

// StatusBadge returns the colour identity of a lifecycle status.
func StatusBadge(status findings.Status) BadgeView {
	if badge, ok := statusBadges[status]; ok {
		return badge
	}
	return BadgeView{Label: string(status), Color: "gray", Class: "bg-gray-100 text-gray-700"}
}

// FindingPresenter transforms register data into UI-ready view models.
type FindingPresenter struct {
	validator findings.StatusTransitionValidator
}

// NewFindingPresenter creates a new finding presenter.
func NewFindingPresenter() *FindingPresenter {
	return &FindingPresenter{}
}

// FormatFinding converts a finding into its view model.
func (p *FindingPresenter) FormatFinding(f findings.Finding) *FindingView {
	return &FindingView{
		Finding:       f,
		RiskBadge:     RiskBadge(f.RiskLevel),
		StatusBadge:   StatusBadge(f.Status),
		DueLabel:      p.formatDue(f),
		IsClosed:      f.IsClosed(),
		CanClose:      !f.IsClosed() && p.validator.Validate(f, findings.StatusClosed).Valid,
		EvidenceCount: len(f.EvidenceLinks),
	}
}

// FormatFindings converts a register snapshot, keeping its order.
func (p *FindingPresenter) FormatFindings(items []findings.Finding) []*FindingView {
	views := make([]*FindingView, len(items))
	for i, f := range items {
		views[i] = p.FormatFinding(f)
	}
	return views
}

// FormatTransition converts a status change outcome.
func (p *FindingPresenter) FormatTransition(f findings.Finding, result findings.TransitionResult) *TransitionView {
	return &TransitionView{
		Valid:   result.Valid,
		Message: result.Message,
		Rule:    string(result.Rule),
		Finding: p.FormatFinding(f),
	}
}

// formatDue describes the due date relative to the last evaluation.
func (p *FindingPresenter) formatDue(f findings.Finding) string {
	switch {
	case f.DueDate.IsZero():
		return "No due date"
	case f.IsClosed():
		return "Due " + f.DueDate.String()
	case f.OverdueFlag:
		return fmt.Sprintf("Overdue by %s", pluralDays(-f.DaysToDue))
	case f.DaysToDue == 0:
		return "Due today"
	default:
		return fmt.Sprintf("Due in %s", pluralDays(f.DaysToDue))
	}
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// formatTimestamp renders timestamps the way the register tables show them.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("Jan 2, 2006 15:04 UTC")
}
