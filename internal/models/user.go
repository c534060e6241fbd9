// Package models provides the domain entities shared by every component of
// the pipeline: users, preferences, raw and canonical postings, delivery
// history, conversation windows, and the reminder ledger. These are plain
// Go structs — the logical schema also documented in internal/ent/schema —
// read and written directly by internal/store.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is keyed by a stable contact handle (e.g. a WhatsApp number). Users
// are never deleted, only deactivated.
type User struct {
	ID            uuid.UUID `json:"id"`
	ContactHandle string    `json:"contact_handle"`
	DisplayName   *string   `json:"display_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	LastActiveAt  time.Time `json:"last_active_at"`
	IsActive      bool      `json:"is_active"`
}

// Touch marks the user active and bumps last_active_at to now.
func (u *User) Touch(now time.Time) {
	u.LastActiveAt = now
	u.IsActive = true
}
