package findings

import "errors"

// Errors returned for caller contract violations. Transition guard failures
// are not errors; see TransitionResult.
var (
	// ErrFindingNotFound occurs when a mutation references an unknown finding id
	ErrFindingNotFound = errors.New("finding not found")

	// ErrDuplicateFinding occurs when a seeded finding reuses an id already in the register
	ErrDuplicateFinding = errors.New("duplicate finding id")

	// ErrInvalidFinding occurs when a finding does not match the register schema
	ErrInvalidFinding = errors.New("invalid finding")

	// ErrInvalidPatch occurs when a partial update carries out-of-range values
	ErrInvalidPatch = errors.New("invalid finding update")

	// ErrInvalidStatus occurs when a transition targets an unknown status
	ErrInvalidStatus = errors.New("invalid status")
)
