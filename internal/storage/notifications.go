package storage

import (
	"context"
	"fmt"
	"time"

	"bafci/internal/core"
)

const timestampLayout = "2006-01-02 15:04:05"

func (r *SQLiteRepository) CreateNotification(ctx context.Context, n core.Notification) (core.Notification, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (type, message, is_read, member_id)
		VALUES (?, ?, 0, ?)`,
		string(n.Type), n.Message, n.MemberID,
	)
	if err != nil {
		return core.Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	n.ID, err = res.LastInsertId()
	if err != nil {
		return core.Notification{}, fmt.Errorf("notification insert id: %w", err)
	}
	n.CreatedAt = time.Now().UTC()
	return n, nil
}

func scanNotification(row interface{ Scan(...any) error }) (core.Notification, error) {
	var (
		n             core.Notification
		isRead        int
		created, sent string
	)
	err := row.Scan(&n.ID, &n.Type, &n.Message, &isRead, &n.MemberID, &created, &sent)
	if err != nil {
		return core.Notification{}, err
	}
	n.Read = isRead != 0
	if t, err := time.Parse(timestampLayout, created); err == nil {
		n.CreatedAt = t
	}
	if sent != "" {
		if t, err := time.Parse(timestampLayout, sent); err == nil {
			n.SentAt = t
		}
	}
	return n, nil
}

// ListNotifications returns notifications newest first. unreadOnly narrows to
// rows not yet acknowledged.
func (r *SQLiteRepository) ListNotifications(ctx context.Context, unreadOnly bool, limit int) ([]core.Notification, error) {
	query := `SELECT id, type, message, is_read, member_id, created_at, sent_at FROM notifications`
	if unreadOnly {
		query += ` WHERE is_read = 0`
	}
	query += ` ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []core.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *SQLiteRepository) CountUnreadNotifications(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE is_read = 0`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

func (r *SQLiteRepository) MarkNotificationRead(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark notification read rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) MarkAllNotificationsRead(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE is_read = 0`)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) MarkNotificationSent(ctx context.Context, id int64, at time.Time) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET sent_at = ? WHERE id = ?`,
		at.UTC().Format(timestampLayout), id); err != nil {
		return fmt.Errorf("mark notification sent: %w", err)
	}
	return nil
}

// HasNotificationSince reports whether a member already has a notification of
// the given type created on or after the cutoff. Used to avoid re-nagging
// overdue members every scan.
func (r *SQLiteRepository) HasNotificationSince(ctx context.Context, memberID int64, typ core.NotificationType, since time.Time) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM notifications
		WHERE member_id = ? AND type = ? AND created_at >= ?`,
		memberID, string(typ), since.UTC().Format(timestampLayout)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("has notification since: %w", err)
	}
	return count > 0, nil
}
