package amqp

import (
	"encoding/json"
	"time"

	"bafci/internal/core"
)

// NotificationMessage is the queue payload for dispatching a notification.
// It carries the delivery details so the worker can send the SMS without a
// database round trip; the notification ID links back for the sent marker.
type NotificationMessage struct {
	NotificationID int64                 `json:"notification_id"`
	MemberID       int64                 `json:"member_id"`
	Type           core.NotificationType `json:"type"`
	Phone          string                `json:"phone"`
	Message        string                `json:"message"`
	Timestamp      time.Time             `json:"timestamp"`
}

func NewNotificationMessage(n core.Notification, phone string) *NotificationMessage {
	return &NotificationMessage{
		NotificationID: n.ID,
		MemberID:       n.MemberID,
		Type:           n.Type,
		Phone:          phone,
		Message:        n.Message,
		Timestamp:      time.Now(),
	}
}

func (m *NotificationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func NotificationMessageFromJSON(data []byte) (*NotificationMessage, error) {
	var msg NotificationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
