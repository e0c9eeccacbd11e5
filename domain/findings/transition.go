package findings

import "strings"

// TransitionRule identifies the guard that rejected a status change.
type TransitionRule string

const (
	RuleNone                   TransitionRule = ""
	RuleOwnerEvidenceOrReason  TransitionRule = "owner_evidence_or_reason_required"
	RuleVerificationIncomplete TransitionRule = "verification_incomplete"
	RuleReopenReasonRequired   TransitionRule = "reopen_reason_required"
)

// Operator-facing rejection messages.
const (
	MsgStartRequiresAccountability = "To move to In-progress, please Confirm Owner, add Evidence Links, or provide a Status Reason (VI/EN)."
	MsgCloseRequiresPass           = `Verification Result must be "Pass" to Close.`
	MsgCloseRequiresVerifier       = "Verifier and Verification Date are required."
	MsgReopenRequiresReason        = "Provide a Status Reason (recurrence evidence) to Reopen."
)

// TransitionResult is the outcome of a status change request. A rejected
// transition is a value, not an error.
type TransitionResult struct {
	Valid   bool           `json:"valid"`
	Message string         `json:"message,omitempty"`
	Rule    TransitionRule `json:"rule,omitempty"`
}

func accept() TransitionResult {
	return TransitionResult{Valid: true}
}

func reject(rule TransitionRule, message string) TransitionResult {
	return TransitionResult{Valid: false, Message: message, Rule: rule}
}

// StatusTransitionValidator decides whether a finding may move to a target
// status. It is a pure function of the current finding and the target.
//
//	Open        -> In-progress  owner confirmed, evidence links, or a status reason
//	any         -> Closed       verification Pass, verifier and verification date
//	Closed      -> In-progress  status reason (recurrence evidence)
//
// Every other pair, including moves into and out of Rejected, is accepted.
type StatusTransitionValidator struct{}

// Validate evaluates the guards in order and returns the first rejection.
// The target must be a known status; see ParseStatus.
func (StatusTransitionValidator) Validate(f Finding, to Status) TransitionResult {
	from := f.Status

	if from == StatusOpen && to == StatusInProgress {
		if !f.OwnerConfirmed && len(f.EvidenceLinks) == 0 && f.StatusReason.IsBlank() {
			return reject(RuleOwnerEvidenceOrReason, MsgStartRequiresAccountability)
		}
	}

	if to == StatusClosed {
		if f.VerificationResult != VerificationPass {
			return reject(RuleVerificationIncomplete, MsgCloseRequiresPass)
		}
		if strings.TrimSpace(f.Verifier) == "" || f.VerificationDate.IsZero() {
			return reject(RuleVerificationIncomplete, MsgCloseRequiresVerifier)
		}
	}

	if from == StatusClosed && to == StatusInProgress {
		if f.StatusReason.IsBlank() {
			return reject(RuleReopenReasonRequired, MsgReopenRequiresReason)
		}
	}

	return accept()
}
