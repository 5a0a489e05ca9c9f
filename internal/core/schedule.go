package core

import "time"

// Schedule describes a member's current billing period, derived from the
// payment history. A zero PeriodStart means the member has never paid.
type Schedule struct {
	PeriodStart time.Time
	NextPayment time.Time
}

// HasPayments reports whether the schedule was derived from at least one
// recorded payment.
func (s Schedule) HasPayments() bool {
	return !s.PeriodStart.IsZero()
}

// IsOverdue reports whether the member owes a payment as of today. A member
// with no payments is always overdue, and a payment due exactly today counts
// as overdue: the comparison is NextPayment <= today at day granularity.
func (s Schedule) IsOverdue(today time.Time) bool {
	if !s.HasPayments() {
		return true
	}
	return !DateOnly(s.NextPayment).After(DateOnly(today))
}

// DateOnly truncates a timestamp to local midnight. All billing comparisons
// happen at day granularity.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddCalendarMonth returns the same day-of-month one month later, clamped to
// the last day of the target month: Jan 31 becomes Feb 28 (Feb 29 in leap
// years), never Mar 3. Due dates must stay inside the month they name.
func AddCalendarMonth(d time.Time) time.Time {
	year, month, day := d.Date()
	firstOfNext := time.Date(year, month+1, 1, 0, 0, 0, 0, d.Location())
	if last := lastDayOfMonth(firstOfNext); day > last {
		day = last
	}
	return time.Date(firstOfNext.Year(), firstOfNext.Month(), day, 0, 0, 0, 0, d.Location())
}

func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// NextDueDate computes the due date that follows a period start.
func NextDueDate(periodStart time.Time) time.Time {
	return AddCalendarMonth(DateOnly(periodStart))
}

// ScheduleFromHistory derives the current billing schedule from a payment
// history: the period starts at the most recent payment date and the next
// payment is due one calendar month later. The history does not need to be
// sorted.
func ScheduleFromHistory(history []Payment) Schedule {
	var latest time.Time
	for _, p := range history {
		if p.PaymentDate.After(latest) {
			latest = p.PaymentDate
		}
	}
	if latest.IsZero() {
		return Schedule{}
	}
	start := DateOnly(latest)
	return Schedule{
		PeriodStart: start,
		NextPayment: NextDueDate(start),
	}
}
