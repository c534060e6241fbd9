package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hammed103/Aremu/internal/chat"
	"github.com/hammed103/Aremu/internal/config"
)

// RegisterWebhookRoutes registers the chat-provider inbound webhook:
// a GET verification-challenge echo and a POST message handler, both
// outside Huma's routing (the provider's contract is not OpenAPI-shaped)
// per spec.md §6.1.
func RegisterWebhookRoutes(router *chi.Mux, deps *Dependencies, cfg *config.Config, logger *slog.Logger) {
	router.Get("/webhooks/chat", func(w http.ResponseWriter, r *http.Request) {
		mode := r.URL.Query().Get("hub.mode")
		verifyToken := r.URL.Query().Get("hub.verify_token")
		challenge := r.URL.Query().Get("hub.challenge")

		if !chat.VerifyChallenge(cfg.VerifyToken, mode, verifyToken) {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
	})

	router.Post("/webhooks/chat", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			w.WriteHeader(http.StatusOK)
			return
		}

		if cfg.WebhookSecret != "" {
			signature := r.Header.Get("X-Hub-Signature-256")
			if !chat.VerifySignature(cfg.WebhookSecret, body, signature) {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
		}

		// The provider requires 200 regardless of processing outcome
		// (spec.md §6.1); processing failures are logged, never surfaced.
		w.WriteHeader(http.StatusOK)

		messages, err := chat.ParseInbound(body)
		if err != nil {
			logger.Warn("webhook: malformed inbound payload", "err", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		for _, m := range messages {
			if err := handleInboundMessage(ctx, deps, m); err != nil {
				logger.Warn("webhook: failed to handle inbound message", "handle", m.Handle, "err", err)
			}
		}
	})
}

func handleInboundMessage(ctx context.Context, deps *Dependencies, m chat.InboundMessage) error {
	now := time.Now()

	user, err := deps.Store.UpsertUserByHandle(ctx, m.Handle, now)
	if err != nil {
		return err
	}

	if _, err := deps.WindowMgr.OnInboundMessage(ctx, user.ID); err != nil {
		return err
	}

	return nil
}
