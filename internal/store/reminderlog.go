package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/hammed103/Aremu/internal/models"
)

// RecordReminderSent appends to the reminder ledger. The unique index on
// (window_id, stage) — invariant 3 — makes a duplicate scan a silent
// no-op rather than a duplicate send; ok is false when the stage was
// already logged for this window.
func (s *Store) RecordReminderSent(ctx context.Context, entry *models.ReminderLogEntry) (bool, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return false, err
	}

	const q = `
		INSERT INTO reminder_log (id, user_id, window_id, stage, sent_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (window_id, stage) DO NOTHING`

	res, err := s.db.ExecContext(ctx, q, id, entry.UserID, entry.WindowID, string(entry.Stage), entry.SentAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// HasReminderBeenSent reports whether a stage has already been logged for
// a window. The reminder scan does not call it: window.Manager.ScanOne
// treats a conflicting RecordReminderSent insert as already sent.
func (s *Store) HasReminderBeenSent(ctx context.Context, windowID uuid.UUID, stage models.ReminderStage) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM reminder_log WHERE window_id = $1 AND stage = $2)`
	var exists bool
	err := s.db.QueryRowContext(ctx, q, windowID, string(stage)).Scan(&exists)
	return exists, err
}
