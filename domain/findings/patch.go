package findings

import "fmt"

// Patch is a typed partial update of the editable fields of a finding. Nil
// fields are left untouched. Derived fields, status, completion date, id and
// timestamps are not editable through a patch.
//
// A non-nil pointer to a zero Date clears the date; on the wire that is the
// empty string, since JSON null leaves a pointer field nil.
type Patch struct {
	Site       *string `json:"site,omitempty"`
	Area       *string `json:"area,omitempty"`
	AuditType  *string `json:"audit_type,omitempty"`
	Date       *Date   `json:"date,omitempty"`
	Category   *string `json:"category,omitempty"`
	PhotoIndex *int    `json:"photo_index,omitempty"`

	FindingTitle       *BilingualText `json:"finding_title,omitempty"`
	Observation        *BilingualText `json:"observation,omitempty"`
	Evidence           *BilingualText `json:"evidence,omitempty"`
	PotentialImpact    *BilingualText `json:"potential_impact,omitempty"`
	ComplianceFlag     *bool          `json:"compliance_flag,omitempty"`
	ReferenceToVerify  *BilingualText `json:"reference_to_verify,omitempty"`
	Containment        *BilingualText `json:"containment_0_24h,omitempty"`
	CorrectiveAction   *BilingualText `json:"corrective_action,omitempty"`
	PreventiveAction   *BilingualText `json:"preventive_action,omitempty"`
	RootCause          *BilingualText `json:"root_cause,omitempty"`
	VerificationMethod *BilingualText `json:"verification_method,omitempty"`
	EvidenceToKeep     *BilingualText `json:"evidence_to_keep,omitempty"`
	StatusReason       *BilingualText `json:"status_reason,omitempty"`

	Likelihood *int `json:"likelihood,omitempty"`
	Severity   *int `json:"severity,omitempty"`

	Owner          *string `json:"owner,omitempty"`
	OwnerConfirmed *bool   `json:"owner_confirmed,omitempty"`

	DueDate                 *Date `json:"due_date,omitempty"`
	EffectivenessReviewDate *Date `json:"effectiveness_review_date,omitempty"`

	EvidenceLinks      *[]string           `json:"evidence_links,omitempty"`
	EvidenceTypes      *[]string           `json:"evidence_types,omitempty"`
	VerificationResult *VerificationResult `json:"verification_result,omitempty"`
	Verifier           *string             `json:"verifier,omitempty"`
	VerificationDate   *Date               `json:"verification_date,omitempty"`
}

// Validate checks the values a patch would write.
func (p Patch) Validate() error {
	if p.Likelihood != nil && !IsValidRating(*p.Likelihood) {
		return fmt.Errorf("%w: likelihood must be between %d and %d, got %d",
			ErrInvalidPatch, MinRating, MaxRating, *p.Likelihood)
	}
	if p.Severity != nil && !IsValidRating(*p.Severity) {
		return fmt.Errorf("%w: severity must be between %d and %d, got %d",
			ErrInvalidPatch, MinRating, MaxRating, *p.Severity)
	}
	if p.VerificationResult != nil && !p.VerificationResult.IsValid() {
		return fmt.Errorf("%w: unknown verification result %q", ErrInvalidPatch, *p.VerificationResult)
	}
	if p.PhotoIndex != nil && *p.PhotoIndex < 0 {
		return fmt.Errorf("%w: photo index cannot be negative", ErrInvalidPatch)
	}
	return nil
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// applyTo writes the patch onto f and reports whether likelihood or severity changed.
func (p Patch) applyTo(f *Finding) (riskChanged bool) {
	setString(&f.Site, p.Site)
	setString(&f.Area, p.Area)
	setString(&f.AuditType, p.AuditType)
	setDate(&f.Date, p.Date)
	setString(&f.Category, p.Category)
	if p.PhotoIndex != nil {
		f.PhotoIndex = *p.PhotoIndex
	}

	setText(&f.FindingTitle, p.FindingTitle)
	setText(&f.Observation, p.Observation)
	setText(&f.Evidence, p.Evidence)
	setText(&f.PotentialImpact, p.PotentialImpact)
	setBool(&f.ComplianceFlag, p.ComplianceFlag)
	setText(&f.ReferenceToVerify, p.ReferenceToVerify)
	setText(&f.Containment, p.Containment)
	setText(&f.CorrectiveAction, p.CorrectiveAction)
	setText(&f.PreventiveAction, p.PreventiveAction)
	setText(&f.RootCause, p.RootCause)
	setText(&f.VerificationMethod, p.VerificationMethod)
	setText(&f.EvidenceToKeep, p.EvidenceToKeep)
	setText(&f.StatusReason, p.StatusReason)

	if p.Likelihood != nil && *p.Likelihood != f.Likelihood {
		f.Likelihood = *p.Likelihood
		riskChanged = true
	}
	if p.Severity != nil && *p.Severity != f.Severity {
		f.Severity = *p.Severity
		riskChanged = true
	}

	setString(&f.Owner, p.Owner)
	setBool(&f.OwnerConfirmed, p.OwnerConfirmed)

	setDate(&f.DueDate, p.DueDate)
	setDate(&f.EffectivenessReviewDate, p.EffectivenessReviewDate)

	if p.EvidenceLinks != nil {
		f.EvidenceLinks = nonNil(cloneStrings(*p.EvidenceLinks))
	}
	if p.EvidenceTypes != nil {
		f.EvidenceTypes = nonNil(cloneStrings(*p.EvidenceTypes))
	}
	if p.VerificationResult != nil {
		f.VerificationResult = *p.VerificationResult
	}
	setString(&f.Verifier, p.Verifier)
	setDate(&f.VerificationDate, p.VerificationDate)

	return riskChanged
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setText(dst *BilingualText, v *BilingualText) {
	if v != nil {
		*dst = *v
	}
}

func setDate(dst *Date, v *Date) {
	if v != nil {
		*dst = *v
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
