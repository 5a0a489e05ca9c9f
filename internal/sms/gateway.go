// Package sms sends text messages to members through a pluggable gateway.
package sms

import "context"

// Gateway delivers a single message to a phone number. Implementations must
// be safe for concurrent use.
type Gateway interface {
	Send(ctx context.Context, to, message string) error
}
