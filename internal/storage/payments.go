package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bafci/internal/core"
)

const paymentColumns = `id, member_id, amount_cents, payment_date, reference_number,
	notes, period_start, next_payment, late_fee_percent, total_cents`

func scanPayment(row interface{ Scan(...any) error }) (core.Payment, error) {
	var (
		p                 core.Payment
		paid, start, next string
	)
	err := row.Scan(
		&p.ID, &p.MemberID, &p.Amount.Cents, &paid, &p.ReferenceNumber,
		&p.Notes, &start, &next, &p.LateFeePercent, &p.TotalAmount.Cents,
	)
	if err != nil {
		return core.Payment{}, err
	}
	p.PaymentDate = parseDate(paid)
	p.PeriodStart = parseDate(start)
	p.NextPayment = parseDate(next)
	return p, nil
}

func (r *SQLiteRepository) CreatePayment(ctx context.Context, p core.Payment) (core.Payment, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (
			member_id, amount_cents, payment_date, reference_number, notes,
			period_start, next_payment, late_fee_percent, total_cents
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.MemberID, p.Amount.Cents, formatDate(p.PaymentDate), p.ReferenceNumber,
		p.Notes, formatDate(p.PeriodStart), formatDate(p.NextPayment),
		p.LateFeePercent, p.TotalAmount.Cents,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Payment{}, ErrDuplicateReference
		}
		return core.Payment{}, fmt.Errorf("insert payment: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return core.Payment{}, fmt.Errorf("payment insert id: %w", err)
	}

	slog.InfoContext(ctx, "Payment recorded",
		"id", p.ID,
		"member_id", p.MemberID,
		"amount_cents", p.Amount.Cents,
		"total_cents", p.TotalAmount.Cents,
		"reference", p.ReferenceNumber)
	return p, nil
}

// ListPaymentsByMember returns a member's payment history, newest first.
func (r *SQLiteRepository) ListPaymentsByMember(ctx context.Context, memberID int64) ([]core.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE member_id = ? ORDER BY payment_date DESC, id DESC`,
		memberID)
	if err != nil {
		return nil, fmt.Errorf("list payments by member: %w", err)
	}
	defer rows.Close()

	var payments []core.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *SQLiteRepository) ListPaymentsInWindow(ctx context.Context, start, end time.Time) ([]core.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE payment_date >= ? AND payment_date <= ? ORDER BY payment_date`,
		formatDate(start), formatDate(end))
	if err != nil {
		return nil, fmt.Errorf("list payments in window: %w", err)
	}
	defer rows.Close()

	var payments []core.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// GetPendingSyncPayments returns payments not yet mirrored to the external
// report. Rows that previously failed to sync sort behind fresh ones, so a
// batch full of persistent failures cannot starve new payments.
func (r *SQLiteRepository) GetPendingSyncPayments(ctx context.Context, limit int) ([]core.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE synced = 0 ORDER BY sync_error, id LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync payments: %w", err)
	}
	defer rows.Close()

	var payments []core.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *SQLiteRepository) MarkPaymentSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE payments SET synced = 1, sync_error = 0 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark payment synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkPaymentSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE payments SET sync_error = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark payment sync error: %w", err)
	}
	slog.WarnContext(ctx, "Payment marked with sync error", "id", id)
	return nil
}
