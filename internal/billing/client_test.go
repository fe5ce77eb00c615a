package billing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCheckSubscription_ParsesActiveSubscription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header: %q", got)
		}
		if got := r.URL.Query().Get("email"); got != "user@example.com" {
			t.Errorf("unexpected email param: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"subscribed": true, "subscription_end": "2024-06-01T00:00:00Z"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	status, err := client.CheckSubscription(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("CheckSubscription returned error: %v", err)
	}
	if !status.Subscribed {
		t.Fatal("expected subscribed=true")
	}
	want := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if status.SubscriptionEnd == nil || !status.SubscriptionEnd.Equal(want) {
		t.Fatalf("expected end %v, got %v", want, status.SubscriptionEnd)
	}
}

func TestCheckSubscription_UnknownEmailIsNotSubscribed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	status, err := client.CheckSubscription(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("expected no error for unknown email, got %v", err)
	}
	if status.Subscribed {
		t.Fatal("unknown email must read as unsubscribed")
	}
}

func TestCheckSubscription_ServerErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	if _, err := client.CheckSubscription(context.Background(), "user@example.com"); err == nil {
		t.Fatal("expected error on 502")
	}
}
