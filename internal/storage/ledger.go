package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bafci/internal/core"
)

func (r *SQLiteRepository) CreateLedgerEntry(ctx context.Context, e core.LedgerEntry) (core.LedgerEntry, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO ledger_entries (amount_cents, description, category, entry_date, branch, receipt_path)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.AmountCents, e.Description, string(e.Category), formatDate(e.Date), e.Branch, e.ReceiptPath,
	)
	if err != nil {
		return core.LedgerEntry{}, fmt.Errorf("insert ledger entry: %w", err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return core.LedgerEntry{}, fmt.Errorf("ledger insert id: %w", err)
	}

	slog.InfoContext(ctx, "Ledger entry recorded",
		"id", e.ID,
		"category", e.Category,
		"amount_cents", e.AmountCents)
	return e, nil
}

func (r *SQLiteRepository) ListLedgerEntriesInWindow(ctx context.Context, start, end time.Time) ([]core.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, amount_cents, description, category, entry_date, branch, receipt_path
		FROM ledger_entries
		WHERE entry_date >= ? AND entry_date <= ?
		ORDER BY entry_date`,
		formatDate(start), formatDate(end))
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []core.LedgerEntry
	for rows.Next() {
		var (
			e   core.LedgerEntry
			day string
		)
		if err := rows.Scan(&e.ID, &e.AmountCents, &e.Description, &e.Category, &day, &e.Branch, &e.ReceiptPath); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.Date = parseDate(day)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
