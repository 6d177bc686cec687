package fine

import (
	"time"
)

// Fine policy constants, currency units per late day
const (
	BaseRatePerDay = 5   // per day for the first week overdue
	HighRatePerDay = 10  // per day beyond the first week
	HighRateAfter  = 7   // days after which the high rate applies
	MaxFine        = 500 // cap per borrow
	MinFine        = 0
)

// Calculate returns the fine owed for a borrow returned at returnDate with
// the given due date. Both inputs are truncated to UTC calendar days before
// comparison, so time of day never affects the result. A zero-value date
// yields a zero fine rather than an error: a bad date must never block a
// return transaction.
func Calculate(dueDate, returnDate time.Time) int {
	if dueDate.IsZero() || returnDate.IsZero() {
		return 0
	}

	due := startOfDay(dueDate)
	returned := startOfDay(returnDate)

	if !returned.After(due) {
		return 0
	}

	daysLate := int(returned.Sub(due) / (24 * time.Hour))

	var fine int
	if daysLate <= HighRateAfter {
		fine = daysLate * BaseRatePerDay
	} else {
		fine = HighRateAfter*BaseRatePerDay + (daysLate-HighRateAfter)*HighRatePerDay
	}

	if fine > MaxFine {
		fine = MaxFine
	}
	if fine < MinFine {
		fine = MinFine
	}

	return fine
}

func startOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
