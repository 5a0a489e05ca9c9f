package services

import (
	"context"
	"fmt"
	"log/slog"

	"bafci/internal/amqp"
	"bafci/internal/core"
	"bafci/internal/storage"
)

// createAndPublish persists a notification and hands it to the dispatch
// queue. A missing or failing broker never fails the caller: the in-app
// notification is already saved, only the SMS is delayed.
func createAndPublish(ctx context.Context, st *storage.SQLiteRepository, client *amqp.Client, n core.Notification, phone string) (core.Notification, error) {
	if err := n.Validate(); err != nil {
		return core.Notification{}, err
	}

	created, err := st.CreateNotification(ctx, n)
	if err != nil {
		return core.Notification{}, fmt.Errorf("create notification: %w", err)
	}

	if client == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping dispatch message",
			"notification_id", created.ID)
		return created, nil
	}

	if err := client.PublishNotification(ctx, amqp.NewNotificationMessage(created, phone)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish dispatch message",
			"notification_id", created.ID,
			"error", err)
	}
	return created, nil
}
