package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hammed103/Aremu/internal/models"
)

// InsertPendingDelivery records a dispatch attempt before the chat-provider
// send happens, so a mid-send crash never causes a duplicate alert
// (spec.md §4.6 insert-before-send idempotency). The unique index on
// (user_id, canonical_posting_id) — invariant 1 — makes a concurrent
// duplicate attempt return store.ErrAlreadyDelivered instead of a second
// row.
func (s *Store) InsertPendingDelivery(ctx context.Context, d *models.DeliveryHistory) (uuid.UUID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, err
	}

	const q = `
		INSERT INTO delivery_history (id, user_id, canonical_posting_id, score, stage, sent, shown_at)
		VALUES ($1, $2, $3, $4, $5, false, $6)`

	_, err = s.db.ExecContext(ctx, q, id, d.UserID, d.CanonicalPostingID, d.Score, string(d.Stage), d.ShownAt)
	if IsUniqueViolation(err) {
		return uuid.Nil, ErrAlreadyDelivered
	}
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// MarkDeliverySent finalizes a pending delivery row with the chat-provider
// send outcome.
func (s *Store) MarkDeliverySent(ctx context.Context, id uuid.UUID, sent bool, sendErr string) error {
	const q = `UPDATE delivery_history SET sent = $2, error = NULLIF($3, '') WHERE id = $1`
	_, err := s.db.ExecContext(ctx, q, id, sent, sendErr)
	return err
}

// HasBeenDelivered reports whether this (user, posting) pair already has a
// delivery history row, the eligibility predicate's duplicate-suppression
// check.
func (s *Store) HasBeenDelivered(ctx context.Context, userID, postingID uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM delivery_history WHERE user_id = $1 AND canonical_posting_id = $2)`
	var exists bool
	err := s.db.QueryRowContext(ctx, q, userID, postingID).Scan(&exists)
	return exists, err
}

// CountDeliveredToday returns how many alerts a user has received since
// the start of the given day, enforcing the daily cap (spec.md §4.6).
func (s *Store) CountDeliveredToday(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	const q = `SELECT count(*) FROM delivery_history WHERE user_id = $1 AND sent = true AND shown_at >= $2`
	var n int
	err := s.db.QueryRowContext(ctx, q, userID, dayStart).Scan(&n)
	return n, err
}

// ErrAlreadyDelivered signals the unique-constraint idempotency path: the
// caller should treat this as "nothing to do", not as an error to surface.
var ErrAlreadyDelivered = errors.New("store: delivery already recorded")
