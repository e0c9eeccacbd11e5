package findings

import "fmt"

// Status is the remediation state of a finding.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In-progress"
	StatusClosed     Status = "Closed"
	StatusRejected   Status = "Rejected"
)

// Statuses lists every status in workflow order.
func Statuses() []Status {
	return []Status{StatusOpen, StatusInProgress, StatusClosed, StatusRejected}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is a recognized value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed, StatusRejected:
		return true
	}
	return false
}

// ParseStatus converts a raw value into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// RiskLevel is the tier implied by a risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// RiskLevels lists the tiers from least to most severe. Presentation
// collaborators rely on both the names and this ordering.
func RiskLevels() []RiskLevel {
	return []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical}
}

// String returns the string representation of the risk level.
func (l RiskLevel) String() string {
	return string(l)
}

// IsValid returns true if the level is a recognized value.
func (l RiskLevel) IsValid() bool {
	switch l {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// Rank returns the position of the level in RiskLevels, or -1.
func (l RiskLevel) Rank() int {
	for i, level := range RiskLevels() {
		if level == l {
			return i
		}
	}
	return -1
}

// VerificationResult is the outcome of the closure verification.
type VerificationResult string

const (
	VerificationPending VerificationResult = "Pending"
	VerificationPass    VerificationResult = "Pass"
	VerificationFail    VerificationResult = "Fail"
)

// String returns the string representation of the verification result.
func (v VerificationResult) String() string {
	return string(v)
}

// IsValid returns true if the verification result is a recognized value.
func (v VerificationResult) IsValid() bool {
	switch v {
	case VerificationPending, VerificationPass, VerificationFail:
		return true
	}
	return false
}

// EvidenceTypes is the catalogue of closure evidence tags suggested to
// operators. Tags outside the catalogue are still accepted.
var EvidenceTypes = []string{
	"before_after_photo",
	"training_record",
	"maintenance_log",
	"inspection_checklist",
	"measurement_result",
	"permit",
	"SOP_update",
	"test_record",
	"other",
}

// IsKnownEvidenceType reports whether tag is part of the catalogue.
func IsKnownEvidenceType(tag string) bool {
	for _, t := range EvidenceTypes {
		if t == tag {
			return true
		}
	}
	return false
}
