// Package window is the Window Manager (spec.md §4.7): the conversation
// window state machine (none → active → expired), and the reminder
// cascade that fires the highest unsent stage whose elapsed-time
// threshold has been crossed.
package window

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hammed103/Aremu/internal/clock"
	"github.com/hammed103/Aremu/internal/models"
)

// Store is the subset of internal/store.Store the Window Manager needs.
type Store interface {
	OpenWindow(ctx context.Context, userID uuid.UUID, now time.Time) (*models.Window, error)
	GetActiveWindow(ctx context.Context, userID uuid.UUID) (*models.Window, error)
	TouchWindowActivity(ctx context.Context, windowID uuid.UUID, now time.Time) error
	ExpireWindow(ctx context.Context, windowID uuid.UUID) (bool, error)
	MarkWindowStageSent(ctx context.Context, windowID uuid.UUID, stage models.ReminderStage) (bool, error)
	ListActiveWindows(ctx context.Context) ([]*models.Window, error)
	RecordReminderSent(ctx context.Context, entry *models.ReminderLogEntry) (bool, error)
	HasReminderBeenSent(ctx context.Context, windowID uuid.UUID, stage models.ReminderStage) (bool, error)
}

// stageThresholds gives each reminder stage its elapsed-time cutoff
// (spec.md §4.7 table).
var stageThresholds = []struct {
	stage     models.ReminderStage
	threshold time.Duration
}{
	{models.ReminderS1, 16 * time.Hour},
	{models.ReminderS2, 19 * time.Hour},
	{models.ReminderS3, 21 * time.Hour},
	{models.ReminderS4, 23 * time.Hour},
	{models.ReminderS5, 23*time.Hour + 45*time.Minute},
}

// ExpiryThreshold is the elapsed duration at which an active window
// transitions to expired.
const ExpiryThreshold = 24 * time.Hour

// Manager drives the per-user window state machine.
type Manager struct {
	store Store
	clock clock.Clock
}

// New builds a Window Manager.
func New(store Store, clk clock.Clock) *Manager {
	return &Manager{store: store, clock: clk}
}

// OnInboundMessage implements the "inbound resets the window" transition:
// opens a fresh window if none is active (or the active one has already
// crossed the expiry threshold), otherwise bumps last_activity on the
// existing one.
func (m *Manager) OnInboundMessage(ctx context.Context, userID uuid.UUID) (*models.Window, error) {
	now := m.clock.Now()

	w, err := m.store.GetActiveWindow(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load active window: %w", err)
	}

	if w == nil || w.Elapsed(now) >= ExpiryThreshold {
		if w != nil {
			if _, err := m.store.ExpireWindow(ctx, w.ID); err != nil {
				return nil, fmt.Errorf("expire stale window: %w", err)
			}
		}
		return m.store.OpenWindow(ctx, userID, now)
	}

	if err := m.store.TouchWindowActivity(ctx, w.ID, now); err != nil {
		return nil, fmt.Errorf("touch window activity: %w", err)
	}
	w.LastActivityAt = now
	return w, nil
}

// NextReminderStage returns the highest unsent stage whose threshold has
// been crossed as of now, or ("", false) if none has (spec.md §4.7:
// "the *highest* unsent stage whose threshold the user has crossed").
func NextReminderStage(w *models.Window, now time.Time) (models.ReminderStage, bool) {
	elapsed := w.Elapsed(now)

	var best models.ReminderStage
	found := false
	for _, st := range stageThresholds {
		if elapsed >= st.threshold && !w.StageSent(st.stage) {
			best = st.stage
			found = true
		}
	}
	return best, found
}

// ScanOne evaluates one active window: expires it if past the 24h
// threshold, otherwise fires the highest unsent crossed reminder stage
// (if any). Returns the stage fired, or "" if nothing fired this pass.
// The caller supplies send, invoked only after the reminder ledger
// accepts the (window, stage) pair. Because the ledger row is written
// before send runs, a failed send leaves the stage logged: later scans
// do not send it again, and the send error is returned.
func (m *Manager) ScanOne(ctx context.Context, w *models.Window, send func(stage models.ReminderStage) error) (models.ReminderStage, error) {
	now := m.clock.Now()

	if w.Elapsed(now) >= ExpiryThreshold {
		if _, err := m.store.ExpireWindow(ctx, w.ID); err != nil {
			return "", fmt.Errorf("expire window: %w", err)
		}
		return "", nil
	}

	stage, ok := NextReminderStage(w, now)
	if !ok {
		return "", nil
	}

	logged, err := m.store.RecordReminderSent(ctx, &models.ReminderLogEntry{
		UserID:   w.UserID,
		WindowID: w.ID,
		Stage:    stage,
		SentAt:   now,
	})
	if err != nil {
		return "", fmt.Errorf("record reminder sent: %w", err)
	}
	if !logged {
		// another scan already claimed this (window, stage) pair.
		return "", nil
	}

	if err := send(stage); err != nil {
		return "", fmt.Errorf("send reminder: %w", err)
	}

	if _, err := m.store.MarkWindowStageSent(ctx, w.ID, stage); err != nil {
		return "", fmt.Errorf("mark window stage sent: %w", err)
	}
	w.MarkStageSent(stage)

	return stage, nil
}
