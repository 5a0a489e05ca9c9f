package sms

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPGateway sends messages through an HTTP SMS provider. The request shape
// follows the common Philippine gateway convention of an API key plus a JSON
// body with number, message, and sender name.
type HTTPGateway struct {
	client     *resty.Client
	apiKey     string
	senderName string
}

func NewHTTPGateway(baseURL, apiKey, senderName string) *HTTPGateway {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &HTTPGateway{
		client:     client,
		apiKey:     apiKey,
		senderName: senderName,
	}
}

type sendRequest struct {
	APIKey     string `json:"apikey"`
	Number     string `json:"number"`
	Message    string `json:"message"`
	SenderName string `json:"sendername,omitempty"`
}

func (g *HTTPGateway) Send(ctx context.Context, to, message string) error {
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(sendRequest{
			APIKey:     g.apiKey,
			Number:     to,
			Message:    message,
			SenderName: g.senderName,
		}).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("send sms: gateway returned %s", resp.Status())
	}
	return nil
}
