package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bafci/internal/export"
	"bafci/internal/storage"
)

// ReportWorker mirrors recorded payments to the external report in batches.
type ReportWorker struct {
	storage   *storage.SQLiteRepository
	writer    export.ReportWriter
	batchSize int
}

func NewReportWorker(storage *storage.SQLiteRepository, writer export.ReportWriter, batchSize int) *ReportWorker {
	return &ReportWorker{
		storage:   storage,
		writer:    writer,
		batchSize: batchSize,
	}
}

// SyncPending pushes up to batchSize unsynced payments to the report and
// returns how many were mirrored. A failed row is marked and skipped so one
// bad payment cannot wedge the whole batch.
func (w *ReportWorker) SyncPending(ctx context.Context) (int, error) {
	pending, err := w.storage.GetPendingSyncPayments(ctx, w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("load pending payments: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	synced := 0
	for _, p := range pending {
		member, err := w.storage.GetMember(ctx, p.MemberID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load member for report row",
				"payment_id", p.ID, "member_id", p.MemberID, "error", err)
			if err := w.storage.MarkPaymentSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "payment_id", p.ID, "error", err)
			}
			continue
		}

		row := export.PaymentRow{
			PaymentID:       p.ID,
			MemberName:      member.FullName(),
			ReferenceNumber: p.ReferenceNumber,
			PaymentDate:     p.PaymentDate.Format("2006-01-02"),
			AmountPesos:     p.Amount.Pesos(),
			LateFeePercent:  p.LateFeePercent,
			TotalPesos:      p.EffectiveAmount().Pesos(),
		}

		ref, err := w.writer.AppendPayment(ctx, row)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to append report row",
				"payment_id", p.ID, "error", err)
			if err := w.storage.MarkPaymentSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "payment_id", p.ID, "error", err)
			}
			continue
		}

		if err := w.storage.MarkPaymentSynced(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to mark payment synced",
				"payment_id", p.ID, "error", err)
			continue
		}

		slog.InfoContext(ctx, "Payment mirrored to report",
			"payment_id", p.ID, "row", ref)
		synced++
	}

	return synced, nil
}

// Run syncs on every tick until the context ends.
func (w *ReportWorker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.SyncPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Report sync failed", "error", err)
			}
		}
	}
}
