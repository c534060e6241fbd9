// Package queue is the Ingestion Queue: raw scraped postings, held as rows
// in the raw_postings table, with Processed as the in-band claim flag
// (spec.md §3.1, §4.2). There is no separate message broker — the queue
// semantics (Enqueue, Dequeue, MarkComplete, MarkFailed) are the same
// vocabulary the teacher's queue.PostgresQueue exposes over its
// EnrichmentJob table, adapted here to a FOR UPDATE SKIP LOCKED batch
// claim instead of the teacher's single-row query+update loop, since the
// Enrichment Worker here runs a pool of concurrent workers rather than one.
package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hammed103/Aremu/internal/models"
)

// Store is the subset of the Store Gateway the queue needs.
type Store interface {
	EnqueueRawPosting(ctx context.Context, rp *models.RawPosting) (uuid.UUID, bool, error)
	ClaimRawPostingBatch(ctx context.Context, limit int) ([]*models.RawPosting, error)
	MarkRawPostingProcessed(ctx context.Context, id uuid.UUID) error
	MarkRawPostingFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	CountUnprocessedOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// Queue is the Ingestion Queue.
type Queue struct {
	store Store
}

// New builds an Ingestion Queue over the given store.
func New(store Store) *Queue {
	return &Queue{store: store}
}

// Enqueue admits a scraped posting, returning whether it was newly
// inserted or a duplicate (source, source_id) no-op (spec.md §4.1).
func (q *Queue) Enqueue(ctx context.Context, source, sourceID string, payload map[string]interface{}, url string, scrapedAt time.Time) (uuid.UUID, bool, error) {
	rp := &models.RawPosting{
		Source:    source,
		SourceID:  sourceID,
		Payload:   payload,
		URL:       url,
		ScrapedAt: scrapedAt,
	}
	id, inserted, err := q.store.EnqueueRawPosting(ctx, rp)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("enqueue raw posting: %w", err)
	}
	return id, inserted, nil
}

// Dequeue claims up to batchSize unprocessed postings for one enrichment
// pass. Claimed rows remain visible to other workers as "processed=false"
// until MarkComplete/MarkFailed finalizes them, but FOR UPDATE SKIP LOCKED
// ensures no two concurrent calls return overlapping rows.
func (q *Queue) Dequeue(ctx context.Context, batchSize int) ([]*models.RawPosting, error) {
	batch, err := q.store.ClaimRawPostingBatch(ctx, batchSize)
	if err != nil {
		return nil, fmt.Errorf("claim raw posting batch: %w", err)
	}
	return batch, nil
}

// MarkComplete finalizes a successfully enriched posting.
func (q *Queue) MarkComplete(ctx context.Context, id uuid.UUID) error {
	return q.store.MarkRawPostingProcessed(ctx, id)
}

// MarkFailed finalizes a posting that exhausted its enrichment retry
// budget, recording the terminal error.
func (q *Queue) MarkFailed(ctx context.Context, id uuid.UUID, cause error) error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	return q.store.MarkRawPostingFailed(ctx, id, msg)
}

// Backlog reports how many postings have sat unprocessed since before
// cutoff, for the scheduler's stuck-queue check.
func (q *Queue) Backlog(ctx context.Context, cutoff time.Time) (int, error) {
	return q.store.CountUnprocessedOlderThan(ctx, cutoff)
}
