package findings

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Register is the ordered collection of findings for one review session.
// Every write path recomputes the derived risk and scheduling fields before
// returning, and every status change goes through the transition validator.
//
// Register is not safe for concurrent use; hosts serialize calls.
type Register struct {
	items     []*Finding
	index     map[string]int
	validator StatusTransitionValidator
}

// NewRegister creates an empty register.
func NewRegister() *Register {
	return &Register{index: make(map[string]int)}
}

// InsertMany seeds the register with findings produced by the analysis
// collaborator. The batch is validated as a whole: on error nothing is inserted.
func (r *Register) InsertMany(items []Finding, at time.Time) error {
	seen := make(map[string]struct{}, len(items))
	prepared := make([]*Finding, 0, len(items))

	for i := range items {
		f := items[i].Clone()
		f.ID = strings.TrimSpace(f.ID)
		f.ApplyDefaults()

		if err := f.Validate(); err != nil {
			return fmt.Errorf("finding %d: %w", i, err)
		}
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateFinding, f.ID)
		}
		if _, exists := r.index[f.ID]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateFinding, f.ID)
		}
		seen[f.ID] = struct{}{}

		if f.CreatedAt.IsZero() {
			f.CreatedAt = at.UTC()
		}
		if f.UpdatedAt.IsZero() {
			f.UpdatedAt = f.CreatedAt
		}
		f.recomputeRisk()
		f.recomputeOverdue(at)

		prepared = append(prepared, &f)
	}

	for _, f := range prepared {
		r.index[f.ID] = len(r.items)
		r.items = append(r.items, f)
	}
	return nil
}

// Get returns a copy of the finding with the given id.
func (r *Register) Get(id string) (Finding, error) {
	f, err := r.lookup(id)
	if err != nil {
		return Finding{}, err
	}
	return f.Clone(), nil
}

// UpdateFields applies a partial update. Risk is recomputed when likelihood or
// severity changed; overdue state is always recomputed at the given instant.
func (r *Register) UpdateFields(id string, patch Patch, at time.Time) (Finding, error) {
	f, err := r.lookup(id)
	if err != nil {
		return Finding{}, err
	}
	if err := patch.Validate(); err != nil {
		return Finding{}, err
	}

	if patch.applyTo(f) {
		f.recomputeRisk()
	}
	f.recomputeOverdue(at)
	f.UpdatedAt = at.UTC()

	return f.Clone(), nil
}

// RequestStatusChange moves a finding to a new status if the transition
// guards allow it. A rejected transition leaves the finding untouched and is
// reported through the TransitionResult, not the error.
//
// On acceptance, closing a finding without a completion date stamps it with
// the evaluation date, and starting an open finding confirms its owner.
func (r *Register) RequestStatusChange(id string, to Status, at time.Time) (Finding, TransitionResult, error) {
	if !to.IsValid() {
		return Finding{}, TransitionResult{}, fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	f, err := r.lookup(id)
	if err != nil {
		return Finding{}, TransitionResult{}, err
	}

	result := r.validator.Validate(*f, to)
	if !result.Valid {
		return f.Clone(), result, nil
	}

	from := f.Status
	f.Status = to
	if to == StatusClosed && f.CompletionDate.IsZero() {
		f.CompletionDate = DateOf(at)
	}
	if from == StatusOpen && to == StatusInProgress {
		f.OwnerConfirmed = true
	}
	f.recomputeOverdue(at)
	f.UpdatedAt = at.UTC()

	return f.Clone(), result, nil
}

// Refresh recomputes the overdue state of every finding at a new evaluation
// instant. It does not count as an edit, so updated_at is preserved.
func (r *Register) Refresh(at time.Time) {
	for _, f := range r.items {
		f.recomputeOverdue(at)
	}
}

// Snapshot returns copies of all findings in insertion order.
func (r *Register) Snapshot() []Finding {
	out := make([]Finding, len(r.items))
	for i, f := range r.items {
		out[i] = f.Clone()
	}
	return out
}

// Ranked returns copies of all findings ordered by risk score, highest first.
// Findings with equal scores keep their insertion order.
func (r *Register) Ranked() []Finding {
	out := r.Snapshot()
	SortByRisk(out)
	return out
}

// Len returns the number of findings.
func (r *Register) Len() int {
	return len(r.items)
}

// SortByRisk orders findings by risk score descending, stable on ties.
func SortByRisk(items []Finding) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].RiskScore > items[j].RiskScore
	})
}

func (r *Register) lookup(id string) (*Finding, error) {
	i, ok := r.index[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFindingNotFound, id)
	}
	return r.items[i], nil
}
