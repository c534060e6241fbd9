package chat

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "shh"
	body := []byte(`{"hello":"world"}`)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	valid := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	if !VerifySignature(secret, body, valid) {
		t.Error("expected a correctly computed signature to verify")
	}
	if VerifySignature(secret, body, "sha256=deadbeef") {
		t.Error("expected a wrong signature to fail verification")
	}
	if VerifySignature(secret, body, "not-even-prefixed") {
		t.Error("expected a header without the sha256= prefix to fail")
	}
	if VerifySignature("different-secret", body, valid) {
		t.Error("expected a signature computed with a different secret to fail")
	}
}

func TestVerifyChallenge(t *testing.T) {
	if !VerifyChallenge("configured-token", "subscribe", "configured-token") {
		t.Error("expected matching mode+token to verify")
	}
	if VerifyChallenge("configured-token", "subscribe", "wrong-token") {
		t.Error("expected mismatched token to fail")
	}
	if VerifyChallenge("configured-token", "unsubscribe", "configured-token") {
		t.Error("expected a non-subscribe mode to fail")
	}
	if VerifyChallenge("configured-token", "subscribe", "") {
		t.Error("expected an empty verify token to fail")
	}
}

func TestClient_Send_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("expected bearer token header, got %q", r.Header.Get("Authorization"))
		}
		var payload outboundText
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if payload.To != "15551234" || payload.Text.Body != "hello" {
			t.Errorf("unexpected payload: %+v", payload)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", 100, 100, 5, newTestLogger())
	if err := client.Send(context.Background(), "15551234", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Send_NonRetryableOn4xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", 100, 100, 5, newTestLogger())
	err := client.Send(context.Background(), "15551234", "hello")
	if err == nil {
		t.Fatal("expected an error for a 400 response")
	}
	var sendErr *SendError
	if !asSendError(err, &sendErr) {
		t.Fatalf("expected a *SendError, got %T", err)
	}
	if sendErr.Retryable {
		t.Error("expected a 4xx response to be marked non-retryable")
	}
}

func TestClient_Send_RetryableOn5xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", 100, 100, 5, newTestLogger())
	err := client.Send(context.Background(), "15551234", "hello")
	var sendErr *SendError
	if !asSendError(err, &sendErr) {
		t.Fatalf("expected a *SendError, got %T", err)
	}
	if !sendErr.Retryable {
		t.Error("expected a 5xx response to be marked retryable")
	}
}

func asSendError(err error, target **SendError) bool {
	se, ok := err.(*SendError)
	if !ok {
		return false
	}
	*target = se
	return true
}
