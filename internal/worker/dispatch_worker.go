// Package worker holds the background processors run by cmd/bafci-worker.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bafci/internal/amqp"
	"bafci/internal/sms"
	"bafci/internal/storage"
)

// DispatchWorker delivers queued notifications through the SMS gateway.
type DispatchWorker struct {
	storage *storage.SQLiteRepository
	gateway sms.Gateway
}

func NewDispatchWorker(storage *storage.SQLiteRepository, gateway sms.Gateway) *DispatchWorker {
	return &DispatchWorker{
		storage: storage,
		gateway: gateway,
	}
}

// HandleNotification processes one dispatch message. An error requeues the
// message, so gateway outages retry instead of dropping SMS.
func (w *DispatchWorker) HandleNotification(ctx context.Context, msg *amqp.NotificationMessage) error {
	slog.InfoContext(ctx, "Dispatching notification",
		"notification_id", msg.NotificationID,
		"type", msg.Type)

	if msg.Phone == "" {
		// In-app only. Nothing to send but the message is handled.
		slog.InfoContext(ctx, "Notification has no phone number, skipping SMS",
			"notification_id", msg.NotificationID)
		return nil
	}

	if err := w.gateway.Send(ctx, msg.Phone, msg.Message); err != nil {
		return fmt.Errorf("send sms: %w", err)
	}

	if err := w.storage.MarkNotificationSent(ctx, msg.NotificationID, time.Now()); err != nil {
		slog.ErrorContext(ctx, "Failed to mark notification sent",
			"notification_id", msg.NotificationID,
			"error", err)
		// The SMS went out; don't requeue and send it twice.
	}

	return nil
}
