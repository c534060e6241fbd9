package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hammed103/Aremu/internal/models"
)

// UpsertUserByHandle creates a user for the contact handle if none exists,
// otherwise touches last_active_at. Used on every inbound chat-provider
// message (spec.md §4.1).
func (s *Store) UpsertUserByHandle(ctx context.Context, handle string, now time.Time) (*models.User, error) {
	const q = `
		INSERT INTO users (id, contact_handle, created_at, last_active_at, is_active)
		VALUES ($1, $2, $3, $3, true)
		ON CONFLICT (contact_handle) DO UPDATE
			SET last_active_at = $3, is_active = true
		RETURNING id, contact_handle, display_name, created_at, last_active_at, is_active`

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate user id: %w", err)
	}

	row := s.db.QueryRowContext(ctx, q, id, handle, now)
	return scanUser(row)
}

// GetUser loads a user by id.
func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const q = `SELECT id, contact_handle, display_name, created_at, last_active_at, is_active
		FROM users WHERE id = $1`
	return scanUser(s.db.QueryRowContext(ctx, q, id))
}

// GetUserByHandle loads a user by contact handle.
func (s *Store) GetUserByHandle(ctx context.Context, handle string) (*models.User, error) {
	const q = `SELECT id, contact_handle, display_name, created_at, last_active_at, is_active
		FROM users WHERE contact_handle = $1`
	return scanUser(s.db.QueryRowContext(ctx, q, handle))
}

// DeactivateUser marks a user inactive, excluding them from cohort scans.
func (s *Store) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE users SET is_active = false WHERE id = $1`
	_, err := s.db.ExecContext(ctx, q, id)
	return err
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.ContactHandle, &u.DisplayName, &u.CreatedAt, &u.LastActiveAt, &u.IsActive); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
