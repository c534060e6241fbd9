package api

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hammed103/Aremu/internal/chat"
	"github.com/hammed103/Aremu/internal/config"
	"github.com/hammed103/Aremu/internal/models"
	"github.com/hammed103/Aremu/internal/preference"
	"github.com/hammed103/Aremu/internal/window"
)

// Queue is the subset of internal/queue.Queue the ingest endpoint needs.
type Queue interface {
	Enqueue(ctx context.Context, source, sourceID string, payload map[string]interface{}, url string, scrapedAt time.Time) (uuid.UUID, bool, error)
}

// Store is the subset of internal/store.Store the API layer needs.
type Store interface {
	Ping(ctx context.Context) error
	GetUserByHandle(ctx context.Context, handle string) (*models.User, error)
	UpsertUserByHandle(ctx context.Context, handle string, now time.Time) (*models.User, error)
	GetPreference(ctx context.Context, userID uuid.UUID) (*models.Preference, error)

	CountActiveUsers24h(ctx context.Context, since time.Time) (int, error)
	CountUsersTotal(ctx context.Context) (int, error)
	CountRawPostingsReceived(ctx context.Context) (int, error)
	CountRawPostingsProcessed(ctx context.Context) (int, error)
	CountCanonicalPostings(ctx context.Context) (int, error)
	CountDeliveredSince(ctx context.Context, since time.Time) (int, error)
	EmbeddingCoverage(ctx context.Context) (usersPct, postingsPct float64, err error)
	AvgEnrichmentLatencySeconds(ctx context.Context) (float64, error)
}

// Dependencies bundles everything the HTTP handlers need, assembled once
// in cmd/jobhub/main.go and passed to NewServer.
type Dependencies struct {
	Store       Store
	Queue       Queue
	ChatClient  *chat.Client
	WindowMgr   *window.Manager
	Projector   *preference.Projector
	Config      *config.Config
	EnrichModel string
	EmbedModel  string
	StartedAt   time.Time
}
