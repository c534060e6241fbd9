// Package scheduler is the Scheduler (spec.md §4.9): coarse, independent
// cron-style triggers for enrichment, embedding back-fill, stale-embedding
// refresh, duplicate-canonical-posting purge, and old-record purge.
package scheduler

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/robfig/cron/v3"

	"github.com/hammed103/Aremu/internal/clock"
	"github.com/hammed103/Aremu/internal/embedding"
	"github.com/hammed103/Aremu/internal/models"
)

// Store is the subset of internal/store.Store the scheduler needs.
type Store interface {
	CountUnprocessedOlderThan(ctx context.Context, cutoff time.Time) (int, error)
	ListMissingEmbeddings(ctx context.Context) ([]*models.Preference, error)
	SetPreferenceEmbedding(ctx context.Context, userID uuid.UUID, vec pgvector.Vector, sourceText, version string) error
	ListStaleEmbeddings(ctx context.Context, maxAge time.Duration, now time.Time) ([]*models.CanonicalPosting, error)
	SetCanonicalEmbedding(ctx context.Context, id uuid.UUID, vec pgvector.Vector, sourceText, version string) error
	ListForDedup(ctx context.Context, since time.Time) ([]*models.CanonicalPosting, error)
	DeleteCanonicalPostings(ctx context.Context, ids []uuid.UUID) (int64, error)
	DeleteOldWithoutDelivery(ctx context.Context, cutoff time.Time) (int64, error)
}

// EnrichmentTrigger is called when the enrichment-trigger entry finds
// unprocessed raw postings. Declared as a function so the scheduler
// needn't import the worker package. The trigger wired in cmd/jobhub only
// logs the backlog; it does not start a worker poll, and the worker pool
// polls the queue on its own ticker.
type EnrichmentTrigger func(ctx context.Context)

// Config bounds the scheduler's trigger cadences (spec.md §4.9 defaults).
type Config struct {
	EnrichmentTriggerCadence time.Duration
	EmbeddingBackfillCadence time.Duration
	StaleEmbeddingMaxAge     time.Duration
	DuplicatePurgeCadence    time.Duration
	OldRecordMaxAge          time.Duration
}

// Scheduler owns one cron instance running each trigger on its own
// entry, independent of the others.
type Scheduler struct {
	store           Store
	embeddingSvc    *embedding.Service
	enrichTrigger   EnrichmentTrigger
	cfg             Config
	logger          *slog.Logger
	clk             clock.Clock
	cron            *cron.Cron
}

// New builds a Scheduler. Call Start to register and run its entries.
func New(store Store, embeddingSvc *embedding.Service, enrichTrigger EnrichmentTrigger, cfg Config, clk clock.Clock, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		store:         store,
		embeddingSvc:  embeddingSvc,
		enrichTrigger: enrichTrigger,
		cfg:           cfg,
		logger:        logger,
		clk:           clk,
		cron:          cron.New(),
	}
}

// Start registers every trigger on its own cadence and begins running.
func (s *Scheduler) Start(ctx context.Context) error {
	entries := []struct {
		name string
		spec string
		fn   func()
	}{
		{"enrichment-trigger", everyDuration(s.cfg.EnrichmentTriggerCadence), func() { s.runEnrichmentTrigger(ctx) }},
		{"embedding-backfill", everyDuration(s.cfg.EmbeddingBackfillCadence), func() { s.runEmbeddingBackfill(ctx) }},
		{"stale-embedding-refresh", "@daily", func() { s.runStaleEmbeddingRefresh(ctx) }},
		{"duplicate-purge", everyDuration(s.cfg.DuplicatePurgeCadence), func() { s.runDuplicatePurge(ctx) }},
		{"old-record-purge", everyDuration(s.cfg.DuplicatePurgeCadence), func() { s.runOldRecordPurge(ctx) }},
	}

	for _, e := range entries {
		if _, err := s.cron.AddFunc(e.spec, e.fn); err != nil {
			return err
		}
		s.logger.Info("scheduled trigger", "name", e.name, "spec", e.spec)
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron loop, waiting for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func everyDuration(d time.Duration) string {
	return "@every " + d.String()
}

func (s *Scheduler) runEnrichmentTrigger(ctx context.Context) {
	cutoff := s.clk.Now().Add(-5 * time.Minute)
	count, err := s.store.CountUnprocessedOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("enrichment trigger: count unprocessed failed", "err", err)
		return
	}
	if count > 0 {
		s.logger.Info("enrichment trigger: backlog detected, nudging worker pool", "backlog", count)
		s.enrichTrigger(ctx)
	}
}

func (s *Scheduler) runEmbeddingBackfill(ctx context.Context) {
	prefs, err := s.store.ListMissingEmbeddings(ctx)
	if err != nil {
		s.logger.Error("embedding backfill: list missing failed", "err", err)
		return
	}
	for _, p := range prefs {
		text := embedding.BuildUserProfileText(p)
		vec, err := s.embeddingSvc.Embed(ctx, text)
		if err != nil {
			s.logger.Warn("embedding backfill: embed failed", "user_id", p.UserID, "err", err)
			continue
		}
		if err := s.store.SetPreferenceEmbedding(ctx, p.UserID, vec, text, s.embeddingSvc.Model()); err != nil {
			s.logger.Warn("embedding backfill: store failed", "user_id", p.UserID, "err", err)
		}
	}
	if len(prefs) > 0 {
		s.logger.Info("embedding backfill complete", "count", len(prefs))
	}
}

func (s *Scheduler) runStaleEmbeddingRefresh(ctx context.Context) {
	now := s.clk.Now()
	postings, err := s.store.ListStaleEmbeddings(ctx, s.cfg.StaleEmbeddingMaxAge, now)
	if err != nil {
		s.logger.Error("stale embedding refresh: list failed", "err", err)
		return
	}
	for _, c := range postings {
		text := embedding.BuildJobProfileText(c)
		vec, err := s.embeddingSvc.Embed(ctx, text)
		if err != nil {
			s.logger.Warn("stale embedding refresh: embed failed", "posting_id", c.ID, "err", err)
			continue
		}
		if err := s.store.SetCanonicalEmbedding(ctx, c.ID, vec, text, s.embeddingSvc.Model()); err != nil {
			s.logger.Warn("stale embedding refresh: store failed", "posting_id", c.ID, "err", err)
		}
	}
	if len(postings) > 0 {
		s.logger.Info("stale embedding refresh complete", "count", len(postings))
	}
}

// runDuplicatePurge groups recent canonical postings by DedupKey (spec.md
// §4.9: lowercased trimmed (title, company, location) tuple) and deletes
// every row but the one with the latest scraped_at in each group.
func (s *Scheduler) runDuplicatePurge(ctx context.Context) {
	since := s.clk.Now().AddDate(0, 0, -30)
	postings, err := s.store.ListForDedup(ctx, since)
	if err != nil {
		s.logger.Error("duplicate purge: list failed", "err", err)
		return
	}

	groups := make(map[string][]*models.CanonicalPosting)
	for _, c := range postings {
		key := c.DedupKey()
		groups[key] = append(groups[key], c)
	}

	var toDelete []uuid.UUID
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].ScrapedAt.After(group[j].ScrapedAt) })
		for _, dup := range group[1:] {
			toDelete = append(toDelete, dup.ID)
		}
	}

	if len(toDelete) == 0 {
		return
	}

	n, err := s.store.DeleteCanonicalPostings(ctx, toDelete)
	if err != nil {
		s.logger.Error("duplicate purge: delete failed", "err", err)
		return
	}
	s.logger.Info("duplicate purge complete", "deleted", n)
}

func (s *Scheduler) runOldRecordPurge(ctx context.Context) {
	cutoff := s.clk.Now().AddDate(0, 0, -s.cfg.oldRecordMaxAgeDays())
	n, err := s.store.DeleteOldWithoutDelivery(ctx, cutoff)
	if err != nil {
		s.logger.Error("old record purge: delete failed", "err", err)
		return
	}
	if n > 0 {
		s.logger.Info("old record purge complete", "deleted", n)
	}
}

func (c Config) oldRecordMaxAgeDays() int {
	return int(c.OldRecordMaxAge.Hours() / 24)
}
