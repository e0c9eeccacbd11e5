package findings

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// OverdueState is the derived scheduling state of a finding.
type OverdueState struct {
	DaysToDue int
	Overdue   bool
}

// ComputeOverdue derives days-to-due and the overdue flag from a due date,
// the finding status and an explicit evaluation instant. DaysToDue is the
// ceiling of the remaining time in days, negative once the due date has
// passed. Closed findings are never overdue.
//
// ok is false when no due date is set; callers then leave their previous
// values untouched.
func ComputeOverdue(due Date, status Status, at time.Time) (state OverdueState, ok bool) {
	if due.IsZero() {
		return OverdueState{}, false
	}

	remaining := due.Time().Sub(at)
	days := int(math.Ceil(float64(remaining) / float64(day)))

	return OverdueState{
		DaysToDue: days,
		Overdue:   days < 0 && status != StatusClosed,
	}, true
}
