// Package reminder is the Reminder Daemon (spec.md §4.8): a periodic
// scanner that walks every active conversation window and fires the
// Window Manager's reminder cascade.
package reminder

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hammed103/Aremu/internal/models"
	"github.com/hammed103/Aremu/internal/window"
)

// Store is the subset of internal/store.Store the daemon needs.
type Store interface {
	ListActiveWindows(ctx context.Context) ([]*models.Window, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Chat is the subset of internal/chat.Client the daemon needs.
type Chat interface {
	Send(ctx context.Context, handle, text string) error
}

// Delivery is the Delivery Dispatcher's back-fill entry point (spec.md
// §4.6, "also invoked by the Reminder Daemon's back-fill scan"). Optional:
// a nil Delivery disables the back-fill pass and the daemon only runs the
// S1-S5 reminder cascade.
type Delivery interface {
	DispatchBackfillForUser(ctx context.Context, userID uuid.UUID) error
}

// RenderFunc builds the outbound body for a given reminder stage.
type RenderFunc func(stage models.ReminderStage) string

// Daemon periodically scans active windows and dispatches reminders.
type Daemon struct {
	store    Store
	chat     Chat
	manager  *window.Manager
	delivery Delivery
	render   RenderFunc
	interval time.Duration
	logger   *slog.Logger

	stopChan chan struct{}
	doneChan chan struct{}
}

// New builds a Reminder Daemon. interval is the scan cadence (config:
// ReminderCadenceMin, spec default 5 minutes). delivery may be nil to
// disable the back-fill Match Engine re-run.
func New(store Store, chatClient Chat, manager *window.Manager, delivery Delivery, render RenderFunc, interval time.Duration, logger *slog.Logger) *Daemon {
	return &Daemon{
		store:    store,
		chat:     chatClient,
		manager:  manager,
		delivery: delivery,
		render:   render,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start runs the scan loop until the context is canceled or Stop is
// called.
func (d *Daemon) Start(ctx context.Context) {
	go d.loop(ctx)
}

// Stop signals the scan loop to exit and blocks until it has.
func (d *Daemon) Stop() {
	close(d.stopChan)
	<-d.doneChan
}

func (d *Daemon) loop(ctx context.Context) {
	defer close(d.doneChan)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("starting reminder daemon", "interval", d.interval)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("reminder daemon stopping: context canceled")
			return
		case <-d.stopChan:
			d.logger.Info("reminder daemon stopping")
			return
		case <-ticker.C:
			d.scan(ctx)
		}
	}
}

func (d *Daemon) scan(ctx context.Context) {
	windows, err := d.store.ListActiveWindows(ctx)
	if err != nil {
		d.logger.Error("list active windows failed", "err", err)
		return
	}

	for _, w := range windows {
		stage, err := d.manager.ScanOne(ctx, w, func(stage models.ReminderStage) error {
			user, err := d.store.GetUser(ctx, w.UserID)
			if err != nil {
				return err
			}
			if user == nil || !user.IsActive {
				return nil
			}
			return d.chat.Send(ctx, user.ContactHandle, d.render(stage))
		})
		if err != nil {
			d.logger.Warn("reminder scan failed for window", "window_id", w.ID, "user_id", w.UserID, "err", err)
			continue
		}
		if stage != "" {
			d.logger.Info("reminder dispatched", "window_id", w.ID, "user_id", w.UserID, "stage", stage)
		}

		if d.delivery != nil {
			if err := d.delivery.DispatchBackfillForUser(ctx, w.UserID); err != nil {
				d.logger.Warn("backfill dispatch failed for window", "window_id", w.ID, "user_id", w.UserID, "err", err)
			}
		}
	}
}
