package api

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hammed103/Aremu/internal/clock"
	"github.com/hammed103/Aremu/internal/config"
	"github.com/hammed103/Aremu/internal/models"
	"github.com/hammed103/Aremu/internal/window"
)

type fakeWindowStore struct {
	windows map[uuid.UUID]*models.Window
	opened  int
}

func newFakeWindowStore() *fakeWindowStore {
	return &fakeWindowStore{windows: make(map[uuid.UUID]*models.Window)}
}

func (s *fakeWindowStore) OpenWindow(ctx context.Context, userID uuid.UUID, now time.Time) (*models.Window, error) {
	w := &models.Window{ID: uuid.New(), UserID: userID, StartedAt: now, LastActivityAt: now, Status: models.WindowActive}
	s.windows[w.ID] = w
	s.opened++
	return w, nil
}

func (s *fakeWindowStore) GetActiveWindow(ctx context.Context, userID uuid.UUID) (*models.Window, error) {
	for _, w := range s.windows {
		if w.UserID == userID && w.Status == models.WindowActive {
			return w, nil
		}
	}
	return nil, nil
}

func (s *fakeWindowStore) TouchWindowActivity(ctx context.Context, windowID uuid.UUID, now time.Time) error {
	return nil
}

func (s *fakeWindowStore) ExpireWindow(ctx context.Context, windowID uuid.UUID) (bool, error) {
	return true, nil
}

func (s *fakeWindowStore) MarkWindowStageSent(ctx context.Context, windowID uuid.UUID, stage models.ReminderStage) (bool, error) {
	return true, nil
}

func (s *fakeWindowStore) ListActiveWindows(ctx context.Context) ([]*models.Window, error) {
	return nil, nil
}

func (s *fakeWindowStore) RecordReminderSent(ctx context.Context, entry *models.ReminderLogEntry) (bool, error) {
	return true, nil
}

func (s *fakeWindowStore) HasReminderBeenSent(ctx context.Context, windowID uuid.UUID, stage models.ReminderStage) (bool, error) {
	return false, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWebhook_VerificationChallenge_Success(t *testing.T) {
	router := chi.NewRouter()
	cfg := &config.Config{VerifyToken: "my-token"}
	deps := &Dependencies{Store: &fakeAPIStore{}, WindowMgr: window.New(newFakeWindowStore(), clock.NewFixed(time.Now()))}
	RegisterWebhookRoutes(router, deps, cfg, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/webhooks/chat?hub.mode=subscribe&hub.verify_token=my-token&hub.challenge=echo-this", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "echo-this" {
		t.Errorf("expected the challenge to be echoed back, got %q", rec.Body.String())
	}
}

func TestWebhook_VerificationChallenge_WrongTokenRejected(t *testing.T) {
	router := chi.NewRouter()
	cfg := &config.Config{VerifyToken: "my-token"}
	deps := &Dependencies{Store: &fakeAPIStore{}, WindowMgr: window.New(newFakeWindowStore(), clock.NewFixed(time.Now()))}
	RegisterWebhookRoutes(router, deps, cfg, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/webhooks/chat?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=echo-this", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for a wrong verify token, got %d", rec.Code)
	}
}

func TestWebhook_InboundMessage_OpensWindowForSender(t *testing.T) {
	router := chi.NewRouter()
	cfg := &config.Config{}
	windowStore := newFakeWindowStore()
	deps := &Dependencies{Store: &fakeAPIStore{}, WindowMgr: window.New(windowStore, clock.NewFixed(time.Now()))}
	RegisterWebhookRoutes(router, deps, cfg, testLogger())

	body := []byte(`{"entry":[{"changes":[{"field":"messages","value":{"messages":[{"from":"15551234","text":{"body":"hi"}}]}}]}]}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/chat", bytesReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 regardless of processing outcome, got %d", rec.Code)
	}

	// the handler dispatches inbound processing synchronously within this
	// request in this test (no background goroutine to await), so the
	// window should already be open once ServeHTTP returns.
	if windowStore.opened != 1 {
		t.Errorf("expected exactly one window opened for the sender, got %d", windowStore.opened)
	}
}

func TestWebhook_InboundMessage_RejectsBadSignatureWhenSecretConfigured(t *testing.T) {
	router := chi.NewRouter()
	cfg := &config.Config{WebhookSecret: "shh"}
	deps := &Dependencies{Store: &fakeAPIStore{}, WindowMgr: window.New(newFakeWindowStore(), clock.NewFixed(time.Now()))}
	RegisterWebhookRoutes(router, deps, cfg, testLogger())

	body := []byte(`{"entry":[]}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/chat", bytesReader(body))
	req.Header.Set("X-Hub-Signature-256", "sha256=deadbeef")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for a bad signature, got %d", rec.Code)
	}
}

func TestWebhook_InboundMessage_AcceptsValidSignature(t *testing.T) {
	router := chi.NewRouter()
	secret := "shh"
	cfg := &config.Config{WebhookSecret: secret}
	deps := &Dependencies{Store: &fakeAPIStore{}, WindowMgr: window.New(newFakeWindowStore(), clock.NewFixed(time.Now()))}
	RegisterWebhookRoutes(router, deps, cfg, testLogger())

	body := []byte(`{"entry":[]}`)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	sig := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/chat", bytesReader(body))
	req.Header.Set("X-Hub-Signature-256", sig)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for a valid signature, got %d", rec.Code)
	}
}

func bytesReader(b []byte) *httptestReaderCloser {
	return &httptestReaderCloser{b: b}
}

type httptestReaderCloser struct {
	b   []byte
	pos int
}

func (r *httptestReaderCloser) Read(p []byte) (int, error) {
	if r.pos >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.pos:])
	r.pos += n
	return n, nil
}
