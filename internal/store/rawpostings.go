package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/hammed103/Aremu/internal/models"
)

// EnqueueRawPosting inserts a scraped posting. (Source, SourceID) is the
// deduplication key (spec.md §3.2); a duplicate scrape is a silent no-op.
// Returns the inserted id, or uuid.Nil with ok=false when the row already
// existed.
func (s *Store) EnqueueRawPosting(ctx context.Context, rp *models.RawPosting) (uuid.UUID, bool, error) {
	payload, err := marshalJSON(rp.Payload)
	if err != nil {
		return uuid.Nil, false, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, false, err
	}

	const q = `
		INSERT INTO raw_postings (id, source, source_id, payload, url, scraped_at, processed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, $7)
		ON CONFLICT (source, source_id) DO NOTHING
		RETURNING id`

	var returned uuid.UUID
	err = s.db.QueryRowContext(ctx, q, id, rp.Source, rp.SourceID, payload, rp.URL, rp.ScrapedAt, rp.ScrapedAt).Scan(&returned)
	if err == sql.ErrNoRows {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	return returned, true, nil
}

// ClaimRawPostingBatch atomically claims up to limit unprocessed postings,
// ordered oldest-scrape-first, for one enrichment worker to enrich. Claimed
// rows are not yet marked processed — MarkRawPostingProcessed/MarkRawPostingFailed finalizes
// each one once enrichment completes or exhausts its retries. FOR UPDATE
// SKIP LOCKED lets concurrent workers claim disjoint batches without
// blocking on each other (spec.md §4.2 batch pull, generalized from the
// teacher's single-row dequeue to a worker-pool-safe batch claim).
func (s *Store) ClaimRawPostingBatch(ctx context.Context, limit int) ([]*models.RawPosting, error) {
	const q = `
		SELECT id, source, source_id, payload, url, scraped_at, processed, error, created_at
		FROM raw_postings
		WHERE id IN (
			SELECT id FROM raw_postings
			WHERE processed = false
			ORDER BY scraped_at ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)`

	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.RawPosting
	for rows.Next() {
		var (
			rp      models.RawPosting
			payload []byte
		)
		if err := rows.Scan(&rp.ID, &rp.Source, &rp.SourceID, &payload, &rp.URL, &rp.ScrapedAt, &rp.Processed, &rp.Error, &rp.CreatedAt); err != nil {
			return nil, err
		}
		if err := unmarshalJSON(payload, &rp.Payload); err != nil {
			return nil, err
		}
		out = append(out, &rp)
	}
	return out, rows.Err()
}

// MarkRawPostingProcessed marks a raw posting as successfully enriched.
func (s *Store) MarkRawPostingProcessed(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE raw_postings SET processed = true, error = NULL WHERE id = $1`
	_, err := s.db.ExecContext(ctx, q, id)
	return err
}

// MarkRawPostingFailed records the terminal enrichment error for a raw
// posting that exhausted its retry budget, marking it processed so it is
// not claimed again (spec.md §4.2 exhaustion path).
func (s *Store) MarkRawPostingFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	const q = `UPDATE raw_postings SET processed = true, error = $2 WHERE id = $1`
	_, err := s.db.ExecContext(ctx, q, id, errMsg)
	return err
}

// CountUnprocessedOlderThan reports how many raw postings have sat
// unprocessed since before cutoff, used by the scheduler's stuck-queue
// alerting.
func (s *Store) CountUnprocessedOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	const q = `SELECT count(*) FROM raw_postings WHERE processed = false AND scraped_at < $1`
	var n int
	err := s.db.QueryRowContext(ctx, q, cutoff).Scan(&n)
	return n, err
}
