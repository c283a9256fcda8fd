package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendSuccess(t *testing.T) {
	var gotAuth string
	var gotMessage message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fcm/send" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotMessage); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(sendResponse{Success: 1})
	}))
	defer server.Close()

	client := NewClient(Config{ServerKey: "test-key", BaseURL: server.URL})
	err := client.Send(context.Background(), "device-token", "FRIEND_REQUEST", "Ada Lovelace wants to be your new friend", map[string]string{
		"requester_id": "42",
	})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if gotAuth != "key=test-key" {
		t.Errorf("unexpected Authorization header: %q", gotAuth)
	}
	if gotMessage.To != "device-token" {
		t.Errorf("unexpected target token: %q", gotMessage.To)
	}
	if gotMessage.Notification.Title != "FRIEND_REQUEST" {
		t.Errorf("unexpected title: %q", gotMessage.Notification.Title)
	}
	if gotMessage.Data["requester_id"] != "42" {
		t.Errorf("unexpected data payload: %v", gotMessage.Data)
	}
}

func TestSendProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(Config{ServerKey: "bad-key", BaseURL: server.URL})
	err := client.Send(context.Background(), "device-token", "title", "body", nil)
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestSendRejectedMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sendResponse{Success: 0, Failure: 1})
	}))
	defer server.Close()

	client := NewClient(Config{ServerKey: "test-key", BaseURL: server.URL})
	err := client.Send(context.Background(), "stale-token", "title", "body", nil)
	if err == nil {
		t.Fatal("expected error when the provider rejects the message")
	}
}

func TestSendContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sendResponse{Success: 1})
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(Config{ServerKey: "test-key", BaseURL: server.URL})
	if err := client.Send(ctx, "device-token", "title", "body", nil); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
