// Package memory is an in-memory ReportWriter used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"bafci/internal/export"
)

type Writer struct {
	mu   sync.Mutex
	rows []export.PaymentRow
}

var _ export.ReportWriter = (*Writer)(nil)

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) AppendPayment(_ context.Context, row export.PaymentRow) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rows = append(w.rows, row)
	return fmt.Sprintf("row-%d", len(w.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (w *Writer) Rows() []export.PaymentRow {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]export.PaymentRow, len(w.rows))
	copy(out, w.rows)
	return out
}
