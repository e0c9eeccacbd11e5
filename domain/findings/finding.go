package findings

import (
	"fmt"
	"strings"
	"time"
)

// Finding is one identified non-conformity with its full remediation record.
// Field order matches the register export format.
type Finding struct {
	ID         string `json:"id"`
	Site       string `json:"site"`
	Area       string `json:"area"`
	AuditType  string `json:"audit_type"`
	Date       Date   `json:"date"`
	Category   string `json:"category"`
	PhotoIndex int    `json:"photo_index"` // index into the externally owned photo list

	FindingTitle       BilingualText `json:"finding_title"`
	Observation        BilingualText `json:"observation"`
	Evidence           BilingualText `json:"evidence"`
	PotentialImpact    BilingualText `json:"potential_impact"`
	ComplianceFlag     bool          `json:"compliance_flag"`
	ReferenceToVerify  BilingualText `json:"reference_to_verify"`
	Containment        BilingualText `json:"containment_0_24h"`
	CorrectiveAction   BilingualText `json:"corrective_action"`
	PreventiveAction   BilingualText `json:"preventive_action"`
	RootCause          BilingualText `json:"root_cause"`
	VerificationMethod BilingualText `json:"verification_method"`
	EvidenceToKeep     BilingualText `json:"evidence_to_keep"`
	StatusReason       BilingualText `json:"status_reason"`

	Likelihood int       `json:"likelihood"`
	Severity   int       `json:"severity"`
	RiskScore  int       `json:"risk_score"` // derived
	RiskLevel  RiskLevel `json:"risk_level"` // derived

	Owner          string `json:"owner"`
	OwnerConfirmed bool   `json:"owner_confirmed"`
	Status         Status `json:"status"`

	DueDate                 Date `json:"due_date"`
	DaysToDue               int  `json:"days_to_due"`  // derived
	OverdueFlag             bool `json:"overdue_flag"` // derived
	CompletionDate          Date `json:"completion_date"`
	EffectivenessReviewDate Date `json:"effectiveness_review_date"`

	EvidenceLinks      []string           `json:"evidence_links"`
	EvidenceTypes      []string           `json:"evidence_types"`
	VerificationResult VerificationResult `json:"verification_result"`
	Verifier           string             `json:"verifier"`
	VerificationDate   Date               `json:"verification_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the finding.
func (f Finding) Clone() Finding {
	out := f
	out.EvidenceLinks = cloneStrings(f.EvidenceLinks)
	out.EvidenceTypes = cloneStrings(f.EvidenceTypes)
	return out
}

// ApplyDefaults fills the creation-state defaults for fields the analysis
// collaborator may omit.
func (f *Finding) ApplyDefaults() {
	if f.Status == "" {
		f.Status = StatusOpen
	}
	if f.VerificationResult == "" {
		f.VerificationResult = VerificationPending
	}
	if f.EvidenceLinks == nil {
		f.EvidenceLinks = []string{}
	}
	if f.EvidenceTypes == nil {
		f.EvidenceTypes = []string{}
	}
}

// Validate checks the finding against the register schema.
func (f Finding) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidFinding)
	}
	if !IsValidRating(f.Likelihood) {
		return fmt.Errorf("%w: finding %s: likelihood must be between %d and %d, got %d",
			ErrInvalidFinding, f.ID, MinRating, MaxRating, f.Likelihood)
	}
	if !IsValidRating(f.Severity) {
		return fmt.Errorf("%w: finding %s: severity must be between %d and %d, got %d",
			ErrInvalidFinding, f.ID, MinRating, MaxRating, f.Severity)
	}
	if !f.Status.IsValid() {
		return fmt.Errorf("%w: finding %s: unknown status %q", ErrInvalidFinding, f.ID, f.Status)
	}
	if !f.VerificationResult.IsValid() {
		return fmt.Errorf("%w: finding %s: unknown verification result %q", ErrInvalidFinding, f.ID, f.VerificationResult)
	}
	if f.PhotoIndex < 0 {
		return fmt.Errorf("%w: finding %s: photo index cannot be negative, got %d", ErrInvalidFinding, f.ID, f.PhotoIndex)
	}
	return nil
}

// IsClosed reports whether the finding has been closed.
func (f Finding) IsClosed() bool {
	return f.Status == StatusClosed
}

// recomputeRisk refreshes the derived risk fields.
func (f *Finding) recomputeRisk() {
	risk := CalculateRisk(f.Likelihood, f.Severity)
	f.RiskScore = risk.Score
	f.RiskLevel = risk.Level
}

// recomputeOverdue refreshes the derived scheduling fields at the given instant.
func (f *Finding) recomputeOverdue(at time.Time) {
	state, ok := ComputeOverdue(f.DueDate, f.Status, at)
	if !ok {
		// Closed findings are never overdue, tracked or not.
		if f.Status == StatusClosed {
			f.OverdueFlag = false
		}
		return
	}
	f.DaysToDue = state.DaysToDue
	f.OverdueFlag = state.Overdue
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
