package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/hammed103/Aremu/internal/models"
)

// OpenWindow closes any existing active window for the user and opens a
// fresh one, all inside one transaction. The partial unique index on
// (user_id, status) WHERE status = 'active' (invariant 2) still backstops
// this against a concurrent opener, whose insert then fails with the
// database's unique-violation error.
func (s *Store) OpenWindow(ctx context.Context, userID uuid.UUID, now time.Time) (*models.Window, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE windows SET status = 'expired' WHERE user_id = $1 AND status = 'active'`, userID,
	); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	const q = `
		INSERT INTO windows (id, user_id, started_at, last_activity_at, status, messages_in_window)
		VALUES ($1, $2, $3, $3, 'active', 1)
		RETURNING id, user_id, started_at, last_activity_at, status,
			stage1_sent, stage2_sent, stage3_sent, stage4_sent, stage5_sent, messages_in_window`

	w, err := scanWindow(tx.QueryRowContext(ctx, q, id, userID, now))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return w, nil
}

// GetActiveWindow loads a user's current active window, if any.
func (s *Store) GetActiveWindow(ctx context.Context, userID uuid.UUID) (*models.Window, error) {
	const q = `
		SELECT id, user_id, started_at, last_activity_at, status,
			stage1_sent, stage2_sent, stage3_sent, stage4_sent, stage5_sent, messages_in_window
		FROM windows WHERE user_id = $1 AND status = 'active'`
	w, err := scanWindow(s.db.QueryRowContext(ctx, q, userID))
	if err == ErrNotFound {
		return nil, nil
	}
	return w, err
}

// TouchWindowActivity bumps last_activity_at and the message counter on an
// inbound message, resetting the reminder clock (spec.md §4.8).
func (s *Store) TouchWindowActivity(ctx context.Context, windowID uuid.UUID, now time.Time) error {
	const q = `UPDATE windows SET last_activity_at = $2, messages_in_window = messages_in_window + 1
		WHERE id = $1 AND status = 'active'`
	_, err := s.db.ExecContext(ctx, q, windowID, now)
	return err
}

// ExpireWindow conditionally transitions a window from active to expired;
// returns false if it was already expired or touched concurrently.
func (s *Store) ExpireWindow(ctx context.Context, windowID uuid.UUID) (bool, error) {
	const q = `UPDATE windows SET status = 'expired' WHERE id = $1 AND status = 'active'`
	res, err := s.db.ExecContext(ctx, q, windowID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// MarkWindowStageSent conditionally flips the given reminder stage flag,
// returning false if it was already set — the guard that keeps the
// Reminder Daemon's periodic scan idempotent alongside the reminder log.
func (s *Store) MarkWindowStageSent(ctx context.Context, windowID uuid.UUID, stage models.ReminderStage) (bool, error) {
	column, ok := stageColumn(stage)
	if !ok {
		return false, nil
	}
	q := `UPDATE windows SET ` + column + ` = true WHERE id = $1 AND ` + column + ` = false`
	res, err := s.db.ExecContext(ctx, q, windowID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListActiveWindows returns every active window for the Reminder Daemon's
// periodic scan.
func (s *Store) ListActiveWindows(ctx context.Context) ([]*models.Window, error) {
	const q = `
		SELECT id, user_id, started_at, last_activity_at, status,
			stage1_sent, stage2_sent, stage3_sent, stage4_sent, stage5_sent, messages_in_window
		FROM windows WHERE status = 'active'`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Window
	for rows.Next() {
		w, err := scanWindowRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func stageColumn(stage models.ReminderStage) (string, bool) {
	switch stage {
	case models.ReminderS1:
		return "stage1_sent", true
	case models.ReminderS2:
		return "stage2_sent", true
	case models.ReminderS3:
		return "stage3_sent", true
	case models.ReminderS4:
		return "stage4_sent", true
	case models.ReminderS5:
		return "stage5_sent", true
	}
	return "", false
}

func scanWindow(row *sql.Row) (*models.Window, error) {
	w, err := scanWindowRows(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return w, err
}

func scanWindowRows(row scannable) (*models.Window, error) {
	var w models.Window
	var status string
	if err := row.Scan(
		&w.ID, &w.UserID, &w.StartedAt, &w.LastActivityAt, &status,
		&w.Stage1Sent, &w.Stage2Sent, &w.Stage3Sent, &w.Stage4Sent, &w.Stage5Sent, &w.MessagesInWindow,
	); err != nil {
		return nil, err
	}
	w.Status = models.WindowStatus(status)
	return &w, nil
}
