package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPGatewaySend(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("path = %s, want /messages", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, "secret", "BAFCI")
	if err := g.Send(context.Background(), "+639171234567", "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got.Number != "+639171234567" || got.Message != "hello" {
		t.Errorf("request = %+v", got)
	}
	if got.APIKey != "secret" || got.SenderName != "BAFCI" {
		t.Errorf("credentials not forwarded: %+v", got)
	}
}

func TestHTTPGatewaySendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, "bad", "")
	if err := g.Send(context.Background(), "+639171234567", "hello"); err == nil {
		t.Fatal("expected error on gateway failure")
	}
}
