package sms

import (
	"context"
	"log/slog"
)

// ConsoleGateway logs messages instead of sending them. Used in development
// and when no gateway credentials are configured.
type ConsoleGateway struct{}

func NewConsoleGateway() *ConsoleGateway {
	return &ConsoleGateway{}
}

func (g *ConsoleGateway) Send(ctx context.Context, to, message string) error {
	slog.InfoContext(ctx, "SMS (console gateway)", "to", to, "message", message)
	return nil
}
