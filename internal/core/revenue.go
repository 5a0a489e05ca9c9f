package core

import "time"

// Window is an inclusive date range at day granularity.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether a date falls inside the window, comparing at day
// granularity.
func (w Window) Contains(d time.Time) bool {
	day := DateOnly(d)
	return !day.Before(DateOnly(w.Start)) && !day.After(DateOnly(w.End))
}

// Days returns the window length in calendar days.
func (w Window) Days() int {
	return int(DateOnly(w.End).Sub(DateOnly(w.Start)).Hours()/24) + 1
}

// PreviousSpan returns the window of equal length that immediately precedes
// this one. Used to compute percentage changes for arbitrary ranges.
func (w Window) PreviousSpan() Window {
	days := w.Days()
	end := DateOnly(w.Start).AddDate(0, 0, -1)
	return Window{
		Start: end.AddDate(0, 0, -(days - 1)),
		End:   end,
	}
}

// RevenueSummary combines the three revenue sources over a window. Expenses
// is the absolute value of negative ledger entries; NetRevenue may be
// negative when expenses exceed income.
type RevenueSummary struct {
	Expenses        Money
	MonthlyPayments Money
	MembershipFees  Money
	GrossRevenue    Money
	NetRevenue      Money
}

// Summarize aggregates ledger entries, recurring payments, and one-time
// membership fees that fall inside the window. Payments contribute their
// total amount (late fee included) when present, the base amount otherwise.
func Summarize(w Window, ledger []LedgerEntry, payments []Payment, fees []MembershipFee) RevenueSummary {
	var sum RevenueSummary

	for _, e := range ledger {
		if !w.Contains(e.Date) {
			continue
		}
		if e.AmountCents < 0 {
			sum.Expenses.Cents += -e.AmountCents
		}
	}

	for _, p := range payments {
		if !w.Contains(p.PaymentDate) {
			continue
		}
		sum.MonthlyPayments.Cents += p.EffectiveAmount().Cents
	}

	for _, f := range fees {
		if !w.Contains(f.PaidDate) {
			continue
		}
		sum.MembershipFees.Cents += f.Amount.Cents
	}

	sum.GrossRevenue.Cents = sum.MonthlyPayments.Cents + sum.MembershipFees.Cents
	sum.NetRevenue.Cents = sum.GrossRevenue.Cents - sum.Expenses.Cents
	return sum
}

// PercentChange computes the relative change between two amounts in cents.
// A zero previous value yields 100 when the current value is positive and 0
// otherwise, so callers never see NaN or Inf.
func PercentChange(current, previous int64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	abs := previous
	if abs < 0 {
		abs = -abs
	}
	return float64(current-previous) / float64(abs) * 100
}
