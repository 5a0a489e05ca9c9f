package core

import "time"

// LateFeeCutoffDay is the last day of the month a payment can be made without
// incurring a late fee. Paying on the 5th is on time; the 6th is late.
const LateFeeCutoffDay = 5

// DefaultLateFeePercent is applied when no valid percentage is configured.
const DefaultLateFeePercent = 15

// allowedLateFeePercents are the percentages branches may configure.
var allowedLateFeePercents = [...]int{15, 25, 35, 40}

// NormalizeLateFeePercent maps an arbitrary configured value onto the allowed
// set, falling back to the default for anything else.
func NormalizeLateFeePercent(pct int) int {
	for _, allowed := range allowedLateFeePercents {
		if pct == allowed {
			return pct
		}
	}
	return DefaultLateFeePercent
}

// LateFeePercent returns the fee percentage for a payment made on the given
// date: the configured percentage when the day-of-month is past the cutoff,
// zero otherwise. The rule looks only at the payment being recorded, never at
// history.
func LateFeePercent(paymentDate time.Time, configured int) int {
	if paymentDate.Day() > LateFeeCutoffDay {
		return NormalizeLateFeePercent(configured)
	}
	return 0
}

// ApplyLateFee computes the fee percentage and the adjusted total for a
// payment: total = amount * (1 + pct/100), with half-up rounding on the fee
// cents.
func ApplyLateFee(amount Money, paymentDate time.Time, configured int) (pct int, total Money) {
	pct = LateFeePercent(paymentDate, configured)
	if pct == 0 {
		return 0, amount
	}
	fee := (amount.Cents*int64(pct) + 50) / 100
	return pct, Money{Cents: amount.Cents + fee}
}
