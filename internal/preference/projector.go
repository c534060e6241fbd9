// Package preference is the Preference Projector (spec.md §4.4) and the
// closed-schema boundary decoder for inbound preference updates.
package preference

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/hammed103/Aremu/internal/embedding"
	"github.com/hammed103/Aremu/internal/models"
)

// Store is the subset of internal/store.Store the projector needs.
type Store interface {
	UpsertPreference(ctx context.Context, p *models.Preference) error
	SetPreferenceEmbedding(ctx context.Context, userID uuid.UUID, vec pgvector.Vector, sourceText, version string) error
}

// Projector re-renders profile text and refreshes the embedding after
// every successful preference write.
type Projector struct {
	store        Store
	embeddingSvc *embedding.Service
	logger       *slog.Logger
}

// New builds a Preference Projector.
func New(store Store, embeddingSvc *embedding.Service, logger *slog.Logger) *Projector {
	return &Projector{store: store, embeddingSvc: embeddingSvc, logger: logger}
}

// Apply writes the preference and refreshes its embedding. On embedding
// failure the write itself still succeeds: the prior embedding (if any)
// is left intact and a warning is logged, per spec.md §4.4's idempotency
// contract — a retry later simply tries the embed again.
func (p *Projector) Apply(ctx context.Context, pref *models.Preference) error {
	if err := p.store.UpsertPreference(ctx, pref); err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}

	text := embedding.BuildUserProfileText(pref)
	vec, err := p.embeddingSvc.Embed(ctx, text)
	if err != nil {
		p.logger.Warn("preference projector: embedding refresh failed, keeping prior vector", "user_id", pref.UserID, "err", err)
		return nil
	}

	if err := p.store.SetPreferenceEmbedding(ctx, pref.UserID, vec, text, p.embeddingSvc.Model()); err != nil {
		return fmt.Errorf("set preference embedding: %w", err)
	}

	return nil
}
