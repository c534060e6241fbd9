package store

import (
	"context"
	"time"
)

// CountUsersTotal returns the number of user rows (active or not).
func (s *Store) CountUsersTotal(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}

// CountActiveUsers24h returns users whose last_active_at is within the
// last 24h (spec.md §6.5: "users total / active-24h").
func (s *Store) CountActiveUsers24h(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM users WHERE is_active = true AND last_active_at >= $1`, since).Scan(&n)
	return n, err
}

// CountRawPostingsReceived returns the total raw postings ever enqueued.
func (s *Store) CountRawPostingsReceived(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM raw_postings`).Scan(&n)
	return n, err
}

// CountRawPostingsProcessed returns raw postings the enrichment worker
// has finished with, successfully or not.
func (s *Store) CountRawPostingsProcessed(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM raw_postings WHERE processed = true`).Scan(&n)
	return n, err
}

// CountCanonicalPostings returns the number of canonical postings
// produced by enrichment.
func (s *Store) CountCanonicalPostings(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM canonical_postings`).Scan(&n)
	return n, err
}

// CountDeliveredSince returns delivery history rows that were
// successfully sent at or after since (used for "alerts sent today").
func (s *Store) CountDeliveredSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM delivery_history WHERE sent = true AND shown_at >= $1`, since).Scan(&n)
	return n, err
}

// EmbeddingCoverage reports the percentage of confirmed preferences and
// of recent (30-day) canonical postings that carry an embedding
// (spec.md §6.5: "embedding coverage").
func (s *Store) EmbeddingCoverage(ctx context.Context) (usersPct, postingsPct float64, err error) {
	usersPct, err = s.ratio(ctx,
		`SELECT count(*) FROM preferences WHERE confirmed = true`,
		`SELECT count(*) FROM preferences WHERE confirmed = true AND embedding IS NOT NULL`,
	)
	if err != nil {
		return 0, 0, err
	}

	postingsPct, err = s.ratio(ctx,
		`SELECT count(*) FROM canonical_postings WHERE created_at >= now() - interval '30 days'`,
		`SELECT count(*) FROM canonical_postings WHERE created_at >= now() - interval '30 days' AND embedding IS NOT NULL`,
	)
	if err != nil {
		return 0, 0, err
	}

	return usersPct, postingsPct, nil
}

// AvgEnrichmentLatencySeconds reports the mean time between a raw
// posting's scrape and its canonical posting's creation, over the last
// 24h of canonical postings (spec.md §6.5: "average end-to-end
// enrichment latency").
func (s *Store) AvgEnrichmentLatencySeconds(ctx context.Context) (float64, error) {
	const q = `
		SELECT COALESCE(avg(extract(epoch from (c.created_at - r.scraped_at))), 0)
		FROM canonical_postings c
		JOIN raw_postings r ON r.id = c.raw_posting_id
		WHERE c.created_at >= now() - interval '24 hours'`

	var seconds float64
	err := s.db.QueryRowContext(ctx, q).Scan(&seconds)
	return seconds, err
}

func (s *Store) ratio(ctx context.Context, totalQuery, matchQuery string) (float64, error) {
	var total, match int
	if err := s.db.QueryRowContext(ctx, totalQuery).Scan(&total); err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	if err := s.db.QueryRowContext(ctx, matchQuery).Scan(&match); err != nil {
		return 0, err
	}
	return float64(match) / float64(total) * 100, nil
}
