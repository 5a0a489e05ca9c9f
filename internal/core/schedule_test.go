package core

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddCalendarMonth(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"mid month", date(2024, time.March, 15), date(2024, time.April, 15)},
		{"first of month", date(2024, time.June, 1), date(2024, time.July, 1)},
		{"jan 31 clamps to feb 29 in leap year", date(2024, time.January, 31), date(2024, time.February, 29)},
		{"jan 31 clamps to feb 28", date(2025, time.January, 31), date(2025, time.February, 28)},
		{"oct 31 clamps to nov 30", date(2024, time.October, 31), date(2024, time.November, 30)},
		{"dec crosses year boundary", date(2024, time.December, 10), date(2025, time.January, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddCalendarMonth(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("AddCalendarMonth(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestScheduleFromHistory(t *testing.T) {
	t.Run("no payments", func(t *testing.T) {
		s := ScheduleFromHistory(nil)
		if s.HasPayments() {
			t.Fatal("empty history should yield a zero schedule")
		}
	})

	t.Run("latest payment wins regardless of order", func(t *testing.T) {
		history := []Payment{
			{PaymentDate: date(2025, time.March, 10)},
			{PaymentDate: date(2025, time.May, 10)},
			{PaymentDate: date(2025, time.April, 10)},
		}
		s := ScheduleFromHistory(history)
		if !s.PeriodStart.Equal(date(2025, time.May, 10)) {
			t.Errorf("PeriodStart = %v, want 2025-05-10", s.PeriodStart)
		}
		if !s.NextPayment.Equal(date(2025, time.June, 10)) {
			t.Errorf("NextPayment = %v, want 2025-06-10", s.NextPayment)
		}
	})
}

func TestScheduleIsOverdue(t *testing.T) {
	paid := ScheduleFromHistory([]Payment{{PaymentDate: date(2025, time.January, 15)}})
	// Next payment is due 2025-02-15.

	tests := []struct {
		name  string
		sched Schedule
		today time.Time
		want  bool
	}{
		{"no payments is always overdue", Schedule{}, date(2025, time.January, 1), true},
		{"no payments overdue on any date", Schedule{}, date(2030, time.December, 31), true},
		{"day before due date", paid, date(2025, time.February, 14), false},
		{"due today counts as overdue", paid, date(2025, time.February, 15), true},
		{"past due", paid, date(2025, time.March, 1), true},
		{"time of day does not matter", paid, time.Date(2025, time.February, 14, 23, 59, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sched.IsOverdue(tt.today); got != tt.want {
				t.Errorf("IsOverdue(%v) = %v, want %v", tt.today, got, tt.want)
			}
		})
	}
}

func TestScheduleMonthEndChain(t *testing.T) {
	// A member who paid on Jan 31 is due Feb 28; the overdue check flips on
	// exactly that day.
	s := ScheduleFromHistory([]Payment{{PaymentDate: date(2025, time.January, 31)}})
	if !s.NextPayment.Equal(date(2025, time.February, 28)) {
		t.Fatalf("NextPayment = %v, want 2025-02-28", s.NextPayment)
	}
	if s.IsOverdue(date(2025, time.February, 27)) {
		t.Error("should not be overdue the day before the clamped due date")
	}
	if !s.IsOverdue(date(2025, time.February, 28)) {
		t.Error("should be overdue on the clamped due date")
	}
}
