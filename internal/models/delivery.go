package models

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryHistory records one row per (user, canonical posting) pair that
// reached dispatch. The (UserID, CanonicalPostingID) pair is unique —
// invariant 1 in spec.md §3.2.
type DeliveryHistory struct {
	ID                 uuid.UUID     `json:"id"`
	UserID             uuid.UUID     `json:"user_id"`
	CanonicalPostingID uuid.UUID     `json:"canonical_posting_id"`
	Score              float64       `json:"score"`
	Stage              DeliveryStage `json:"stage"`
	Sent               bool          `json:"sent"`
	Error              *string       `json:"error,omitempty"`
	ShownAt            time.Time     `json:"shown_at"`
}

// Window is the conversation window owning the 24-hour outbound
// eligibility state for one user. At most one row has Status == WindowActive
// at any time (invariant 2).
type Window struct {
	ID             uuid.UUID    `json:"id"`
	UserID         uuid.UUID    `json:"user_id"`
	StartedAt      time.Time    `json:"started_at"`
	LastActivityAt time.Time    `json:"last_activity_at"`
	Status         WindowStatus `json:"status"`
	Stage1Sent     bool         `json:"stage1_sent"`
	Stage2Sent     bool         `json:"stage2_sent"`
	Stage3Sent     bool         `json:"stage3_sent"`
	Stage4Sent     bool         `json:"stage4_sent"`
	Stage5Sent     bool         `json:"stage5_sent"`
	MessagesInWindow int        `json:"messages_in_window"`
}

// Elapsed returns how long the window has been quiet as of now.
func (w *Window) Elapsed(now time.Time) time.Duration {
	return now.Sub(w.LastActivityAt)
}

// StageSent reports whether the given reminder stage has already fired in
// this window.
func (w *Window) StageSent(stage ReminderStage) bool {
	switch stage {
	case ReminderS1:
		return w.Stage1Sent
	case ReminderS2:
		return w.Stage2Sent
	case ReminderS3:
		return w.Stage3Sent
	case ReminderS4:
		return w.Stage4Sent
	case ReminderS5:
		return w.Stage5Sent
	}
	return true // unknown stage: treat as already sent so it is never dispatched
}

// MarkStageSent flips the flag for the given reminder stage.
func (w *Window) MarkStageSent(stage ReminderStage) {
	switch stage {
	case ReminderS1:
		w.Stage1Sent = true
	case ReminderS2:
		w.Stage2Sent = true
	case ReminderS3:
		w.Stage3Sent = true
	case ReminderS4:
		w.Stage4Sent = true
	case ReminderS5:
		w.Stage5Sent = true
	}
}

// ReminderLogEntry is the append-only idempotency ledger for reminder
// dispatch: at most one row per (WindowID, Stage) — invariant 3.
type ReminderLogEntry struct {
	ID       uuid.UUID     `json:"id"`
	UserID   uuid.UUID     `json:"user_id"`
	WindowID uuid.UUID     `json:"window_id"`
	Stage    ReminderStage `json:"stage"`
	SentAt   time.Time     `json:"sent_at"`
}
