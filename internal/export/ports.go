// Package export mirrors recorded payments to an external report for the
// cooperative's bookkeeper.
package export

import "context"

// PaymentRow is one line of the payment report.
type PaymentRow struct {
	PaymentID       int64
	MemberName      string
	ReferenceNumber string
	PaymentDate     string
	AmountPesos     float64
	LateFeePercent  int
	TotalPesos      float64
}

// ReportWriter appends a payment row and returns a reference to where it
// landed.
type ReportWriter interface {
	AppendPayment(ctx context.Context, row PaymentRow) (rowRef string, err error)
}
