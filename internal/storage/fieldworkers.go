package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"bafci/internal/core"
)

func (r *SQLiteRepository) CreateFieldWorker(ctx context.Context, w core.FieldWorker) (core.FieldWorker, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO field_workers (name, age, branch, total_collected_cents)
		VALUES (?, ?, ?, ?)`,
		w.Name, w.Age, w.Branch, w.TotalCollected.Cents,
	)
	if err != nil {
		return core.FieldWorker{}, fmt.Errorf("insert field worker: %w", err)
	}
	w.ID, err = res.LastInsertId()
	if err != nil {
		return core.FieldWorker{}, fmt.Errorf("field worker insert id: %w", err)
	}

	slog.InfoContext(ctx, "Field worker created", "id", w.ID, "name", w.Name, "branch", w.Branch)
	return w, nil
}

func (r *SQLiteRepository) GetFieldWorker(ctx context.Context, id int64) (core.FieldWorker, error) {
	var w core.FieldWorker
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, age, branch, total_collected_cents FROM field_workers WHERE id = ?`,
		id).Scan(&w.ID, &w.Name, &w.Age, &w.Branch, &w.TotalCollected.Cents)
	if err == sql.ErrNoRows {
		return core.FieldWorker{}, ErrNotFound
	}
	if err != nil {
		return core.FieldWorker{}, fmt.Errorf("get field worker: %w", err)
	}
	return w, nil
}

func (r *SQLiteRepository) ListFieldWorkers(ctx context.Context) ([]core.FieldWorker, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, age, branch, total_collected_cents FROM field_workers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list field workers: %w", err)
	}
	defer rows.Close()

	var workers []core.FieldWorker
	for rows.Next() {
		var w core.FieldWorker
		if err := rows.Scan(&w.ID, &w.Name, &w.Age, &w.Branch, &w.TotalCollected.Cents); err != nil {
			return nil, fmt.Errorf("scan field worker: %w", err)
		}
		workers = append(workers, w)
	}
	return workers, rows.Err()
}

func (r *SQLiteRepository) UpdateFieldWorker(ctx context.Context, w core.FieldWorker) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE field_workers SET name = ?, age = ?, branch = ?, total_collected_cents = ? WHERE id = ?`,
		w.Name, w.Age, w.Branch, w.TotalCollected.Cents, w.ID)
	if err != nil {
		return fmt.Errorf("update field worker: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update field worker rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddFieldWorkerCollection credits a collected amount to a worker's running
// total.
func (r *SQLiteRepository) AddFieldWorkerCollection(ctx context.Context, id int64, amount core.Money) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE field_workers SET total_collected_cents = total_collected_cents + ? WHERE id = ?`,
		amount.Cents, id)
	if err != nil {
		return fmt.Errorf("add field worker collection: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("add field worker collection rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
