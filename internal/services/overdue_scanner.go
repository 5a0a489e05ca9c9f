package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bafci/internal/amqp"
	"bafci/internal/core"
	"bafci/internal/storage"
)

// OverdueScanner walks alive members and raises payment_due notifications
// for anyone whose next payment date has arrived.
type OverdueScanner struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewOverdueScanner(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *OverdueScanner {
	return &OverdueScanner{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// ProcessOverdueMembers scans once and returns how many notifications were
// created. A member is nagged at most once per billing period: the dedupe
// cutoff is the due date for members with history, the start of the current
// month for members who never paid.
func (s *OverdueScanner) ProcessOverdueMembers(ctx context.Context, now time.Time) (int, error) {
	members, err := s.storage.ListMembers(ctx, core.StatusAlive)
	if err != nil {
		return 0, fmt.Errorf("list alive members: %w", err)
	}

	created := 0
	for _, member := range members {
		history, err := s.storage.ListPaymentsByMember(ctx, member.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load payment history",
				"member_id", member.ID, "error", err)
			continue
		}

		sched := core.ScheduleFromHistory(history)
		if !sched.IsOverdue(now) {
			continue
		}

		since := sched.NextPayment
		if !sched.HasPayments() {
			day := core.DateOnly(now)
			since = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		}

		seen, err := s.storage.HasNotificationSince(ctx, member.ID, core.NotifyPaymentDue, since)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to check existing notifications",
				"member_id", member.ID, "error", err)
			continue
		}
		if seen {
			continue
		}

		var message string
		if sched.HasPayments() {
			message = fmt.Sprintf("%s has a payment due since %s",
				member.FullName(), sched.NextPayment.Format("2006-01-02"))
		} else {
			message = fmt.Sprintf("%s has not made any payments yet", member.FullName())
		}

		if _, err := createAndPublish(ctx, s.storage, s.amqpClient, core.Notification{
			Type:     core.NotifyPaymentDue,
			Message:  message,
			MemberID: member.ID,
		}, member.Phone); err != nil {
			slog.ErrorContext(ctx, "Failed to create payment due notification",
				"member_id", member.ID, "error", err)
			continue
		}
		created++
	}

	slog.InfoContext(ctx, "Overdue scan complete",
		"members_checked", len(members),
		"notifications_created", created)
	return created, nil
}

// Run scans immediately and then on every tick until the context ends.
func (s *OverdueScanner) Run(ctx context.Context, interval time.Duration) error {
	if _, err := s.ProcessOverdueMembers(ctx, time.Now()); err != nil {
		slog.ErrorContext(ctx, "Overdue scan failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.ProcessOverdueMembers(ctx, time.Now()); err != nil {
				slog.ErrorContext(ctx, "Overdue scan failed", "error", err)
			}
		}
	}
}
