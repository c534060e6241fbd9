package scheduler

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/hammed103/Aremu/internal/clock"
	"github.com/hammed103/Aremu/internal/models"
)

type fakeStore struct {
	unprocessedCount int
	forDedup         []*models.CanonicalPosting
	deletedIDs       []uuid.UUID
	oldCutoff        time.Time
	oldDeletedCount  int64
}

func (s *fakeStore) CountUnprocessedOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	return s.unprocessedCount, nil
}

func (s *fakeStore) ListMissingEmbeddings(ctx context.Context) ([]*models.Preference, error) {
	return nil, nil
}

func (s *fakeStore) SetPreferenceEmbedding(ctx context.Context, userID uuid.UUID, vec pgvector.Vector, sourceText, version string) error {
	return nil
}

func (s *fakeStore) ListStaleEmbeddings(ctx context.Context, maxAge time.Duration, now time.Time) ([]*models.CanonicalPosting, error) {
	return nil, nil
}

func (s *fakeStore) SetCanonicalEmbedding(ctx context.Context, id uuid.UUID, vec pgvector.Vector, sourceText, version string) error {
	return nil
}

func (s *fakeStore) ListForDedup(ctx context.Context, since time.Time) ([]*models.CanonicalPosting, error) {
	return s.forDedup, nil
}

func (s *fakeStore) DeleteCanonicalPostings(ctx context.Context, ids []uuid.UUID) (int64, error) {
	s.deletedIDs = ids
	return int64(len(ids)), nil
}

func (s *fakeStore) DeleteOldWithoutDelivery(ctx context.Context, cutoff time.Time) (int64, error) {
	s.oldCutoff = cutoff
	return s.oldDeletedCount, nil
}

func newTestScheduler(store Store, clk clock.Clock) *Scheduler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store, nil, func(ctx context.Context) {}, Config{OldRecordMaxAge: 90 * 24 * time.Hour}, clk, logger)
}

func TestRunDuplicatePurge_KeepsLatestScrapedAndDeletesRest(t *testing.T) {
	now := time.Now()
	older := &models.CanonicalPosting{ID: uuid.New(), Title: "Engineer", Company: "Acme", DisplayLocation: "Lagos", ScrapedAt: now.Add(-2 * time.Hour)}
	newer := &models.CanonicalPosting{ID: uuid.New(), Title: "Engineer", Company: "Acme", DisplayLocation: "Lagos", ScrapedAt: now}
	distinct := &models.CanonicalPosting{ID: uuid.New(), Title: "Analyst", Company: "Acme", DisplayLocation: "Lagos", ScrapedAt: now}

	store := &fakeStore{forDedup: []*models.CanonicalPosting{older, newer, distinct}}
	sched := newTestScheduler(store, clock.NewFixed(now))

	sched.runDuplicatePurge(context.Background())

	if len(store.deletedIDs) != 1 || store.deletedIDs[0] != older.ID {
		t.Errorf("expected only the older duplicate to be deleted, got %v", store.deletedIDs)
	}
}

func TestRunDuplicatePurge_NoDuplicatesDeletesNothing(t *testing.T) {
	now := time.Now()
	a := &models.CanonicalPosting{ID: uuid.New(), Title: "Engineer", Company: "Acme", DisplayLocation: "Lagos", ScrapedAt: now}
	b := &models.CanonicalPosting{ID: uuid.New(), Title: "Nurse", Company: "Acme", DisplayLocation: "Abuja", ScrapedAt: now}

	store := &fakeStore{forDedup: []*models.CanonicalPosting{a, b}}
	sched := newTestScheduler(store, clock.NewFixed(now))

	sched.runDuplicatePurge(context.Background())

	if store.deletedIDs != nil {
		t.Errorf("expected no deletions when every group has one member, got %v", store.deletedIDs)
	}
}

func TestRunEnrichmentTrigger_FiresOnBacklog(t *testing.T) {
	store := &fakeStore{unprocessedCount: 3}
	fired := false
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sched := New(store, nil, func(ctx context.Context) { fired = true }, Config{}, clock.NewFixed(time.Now()), logger)

	sched.runEnrichmentTrigger(context.Background())

	if !fired {
		t.Error("expected the enrichment trigger to fire when a backlog is detected")
	}
}

func TestRunEnrichmentTrigger_SkipsWhenNoBacklog(t *testing.T) {
	store := &fakeStore{unprocessedCount: 0}
	fired := false
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sched := New(store, nil, func(ctx context.Context) { fired = true }, Config{}, clock.NewFixed(time.Now()), logger)

	sched.runEnrichmentTrigger(context.Background())

	if fired {
		t.Error("expected no trigger when there is no backlog")
	}
}

func TestRunOldRecordPurge_UsesConfiguredMaxAge(t *testing.T) {
	now := time.Now()
	store := &fakeStore{oldDeletedCount: 7}
	sched := newTestScheduler(store, clock.NewFixed(now))

	sched.runOldRecordPurge(context.Background())

	wantCutoff := now.AddDate(0, 0, -90)
	if !store.oldCutoff.Equal(wantCutoff) {
		t.Errorf("expected cutoff %v, got %v", wantCutoff, store.oldCutoff)
	}
}

func TestEveryDuration_FormatsAsCronEverySpec(t *testing.T) {
	if got := everyDuration(5 * time.Minute); got != "@every 5m0s" {
		t.Errorf("unexpected cron spec: %q", got)
	}
}
