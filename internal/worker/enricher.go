// Package worker runs the Enrichment Worker: a pool of goroutines that
// pull bounded batches from the Ingestion Queue, ask the language model to
// infer structured attributes, write canonical records and their
// embeddings, and trigger delivery fan-out. Grounded directly on the
// teacher's worker.Enricher (same stopChan/doneChan pool shape, same
// per-goroutine ticker poll loop), generalized from one job-type switch to
// the enrich-then-embed two-step pipeline spec.md §4.2 describes.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/hammed103/Aremu/internal/embedding"
	"github.com/hammed103/Aremu/internal/enrichment"
	"github.com/hammed103/Aremu/internal/models"
	"github.com/hammed103/Aremu/internal/webhook"
)

// Queue is the subset of the Ingestion Queue the worker needs.
type Queue interface {
	Dequeue(ctx context.Context, batchSize int) ([]*models.RawPosting, error)
	MarkComplete(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, cause error) error
}

// Store is the subset of the Store Gateway the worker needs to persist
// canonical records and their embeddings.
type Store interface {
	InsertCanonicalPosting(ctx context.Context, c *models.CanonicalPosting) (uuid.UUID, error)
	SetCanonicalEmbedding(ctx context.Context, id uuid.UUID, vec pgvector.Vector, sourceText, version string) error
}

// Delivery is triggered once a canonical posting is fully enhanced, to
// fan an alert out to matched, eligible users (spec.md §4.2 step 8).
type Delivery interface {
	DispatchForPosting(ctx context.Context, postingID uuid.UUID) error
}

// Enricher is the Enrichment Worker pool.
type Enricher struct {
	queue         Queue
	store         Store
	enrichmentSvc *enrichment.Service
	embeddingSvc  *embedding.Service
	delivery      Delivery
	dispatcher    *webhook.Dispatcher
	workers       int
	batchSize     int
	pollInterval  time.Duration
	embeddingVer  string
	logger        *slog.Logger
	stopChan      chan struct{}
	doneChan      chan struct{}
}

// Config bundles the Enricher's tunable parameters.
type Config struct {
	Workers         int
	BatchSize       int
	PollInterval    time.Duration
	EmbeddingModel  string
}

// New builds an Enrichment Worker pool.
func New(q Queue, store Store, enrichmentSvc *enrichment.Service, embeddingSvc *embedding.Service, delivery Delivery, dispatcher *webhook.Dispatcher, cfg Config, logger *slog.Logger) *Enricher {
	return &Enricher{
		queue:         q,
		store:         store,
		enrichmentSvc: enrichmentSvc,
		embeddingSvc:  embeddingSvc,
		delivery:      delivery,
		dispatcher:    dispatcher,
		workers:       cfg.Workers,
		batchSize:     cfg.BatchSize,
		pollInterval:  cfg.PollInterval,
		embeddingVer:  cfg.EmbeddingModel,
		logger:        logger,
		stopChan:      make(chan struct{}),
		doneChan:      make(chan struct{}),
	}
}

// Start launches the worker pool and blocks until the context is
// cancelled or Stop is called.
func (e *Enricher) Start(ctx context.Context) {
	e.logger.Info("starting enrichment worker pool", "workers", e.workers, "poll_interval", e.pollInterval)

	for i := 0; i < e.workers; i++ {
		go e.worker(ctx, i+1)
	}

	select {
	case <-ctx.Done():
		e.logger.Info("enrichment workers shutting down...")
	case <-e.stopChan:
		e.logger.Info("enrichment workers stopped")
	}

	close(e.doneChan)
}

// Stop gracefully stops all workers.
func (e *Enricher) Stop() {
	close(e.stopChan)
	<-e.doneChan
}

func (e *Enricher) worker(ctx context.Context, workerID int) {
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	e.logger.Debug("worker started", "worker_id", workerID)

	for {
		select {
		case <-ctx.Done():
			e.logger.Debug("worker stopping", "worker_id", workerID)
			return
		case <-e.stopChan:
			e.logger.Debug("worker stopping", "worker_id", workerID)
			return
		case <-ticker.C:
			batch, err := e.queue.Dequeue(ctx, e.batchSize)
			if err != nil {
				e.logger.Error("failed to dequeue batch", "worker_id", workerID, "error", err)
				continue
			}
			for _, rp := range batch {
				e.processRawPosting(ctx, workerID, rp)
			}
		}
	}
}

// processRawPosting runs the full enrich -> insert -> embed -> dispatch
// pipeline for one raw posting. A per-record failure never blocks the
// rest of the batch (spec.md §4.2 failure semantics).
func (e *Enricher) processRawPosting(ctx context.Context, workerID int, rp *models.RawPosting) {
	logger := e.logger.With("worker_id", workerID, "raw_posting_id", rp.ID)
	logger.Info("enriching raw posting")

	hints := enrichment.Hints{
		TitleHint:       rp.TitleHint(),
		CompanyHint:     rp.CompanyHint(),
		DescriptionHint: rp.DescriptionHint(),
		RawPayloadHints: summarizePayload(rp.Payload),
	}

	result, err := e.enrichmentSvc.Enrich(ctx, hints)
	if err != nil {
		logger.Warn("enrichment failed", "error", err)
		if markErr := e.queue.MarkFailed(ctx, rp.ID, err); markErr != nil {
			logger.Error("failed to mark raw posting failed", "error", markErr)
		}
		return
	}

	canonical := composeCanonical(rp, result)

	id, err := e.store.InsertCanonicalPosting(ctx, canonical)
	if err != nil {
		logger.Error("failed to insert canonical posting", "error", err)
		if markErr := e.queue.MarkFailed(ctx, rp.ID, err); markErr != nil {
			logger.Error("failed to mark raw posting failed", "error", markErr)
		}
		return
	}
	canonical.ID = id

	profileText := embedding.BuildJobProfileText(canonical)
	vec, err := e.embeddingSvc.Embed(ctx, profileText)
	if err != nil {
		// Spec §4.4 parity: an embedding failure leaves the canonical record
		// without a usable embedding but does not undo the enrichment; the
		// scheduler's stale-embedding sweep will retry it later.
		logger.Warn("embedding generation failed, canonical record left without embedding", "error", err)
	} else if err := e.store.SetCanonicalEmbedding(ctx, id, vec, profileText, e.embeddingSvc.Model()); err != nil {
		logger.Error("failed to persist canonical embedding", "error", err)
	}

	if err := e.queue.MarkComplete(ctx, rp.ID); err != nil {
		logger.Error("failed to mark raw posting complete", "error", err)
		return
	}

	if e.dispatcher != nil {
		e.dispatcher.DispatchAsync(webhook.EventJobEnriched, canonical)
	}

	if e.delivery != nil {
		if err := e.delivery.DispatchForPosting(ctx, id); err != nil {
			logger.Error("delivery dispatch failed", "canonical_posting_id", id, "error", err)
		}
	}

	logger.Info("enrichment completed successfully", "canonical_posting_id", id)
}

func summarizePayload(payload map[string]interface{}) string {
	if len(payload) == 0 {
		return ""
	}
	return fmt.Sprintf("%d additional payload fields available", len(payload))
}
