// Package delivery is the Delivery Dispatcher (spec.md §4.6): given a
// freshly enriched posting, it pulls the eligible user cohort, scores
// each against the posting with the Match Engine, and sends outbound
// alerts to whoever clears the dispatch threshold — inserting the
// Delivery History row before the send so a concurrent attempt never
// double-sends the same (user, job) pair.
package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/hammed103/Aremu/internal/chat"
	"github.com/hammed103/Aremu/internal/clock"
	"github.com/hammed103/Aremu/internal/match"
	"github.com/hammed103/Aremu/internal/models"
)

// Store is the subset of internal/store.Store the dispatcher needs.
type Store interface {
	GetCanonicalPosting(ctx context.Context, id uuid.UUID) (*models.CanonicalPosting, error)
	ListConfirmedPreferences(ctx context.Context) ([]*models.Preference, error)
	GetPreference(ctx context.Context, userID uuid.UUID) (*models.Preference, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetActiveWindow(ctx context.Context, userID uuid.UUID) (*models.Window, error)
	CountDeliveredToday(ctx context.Context, userID uuid.UUID, now time.Time) (int, error)
	HasBeenDelivered(ctx context.Context, userID, postingID uuid.UUID) (bool, error)
	InsertPendingDelivery(ctx context.Context, d *models.DeliveryHistory) (uuid.UUID, error)
	MarkDeliverySent(ctx context.Context, id uuid.UUID, sent bool, sendErr string) error
	TouchWindowActivity(ctx context.Context, windowID uuid.UUID, now time.Time) error
	TopEmbeddingMatches(ctx context.Context, vec pgvector.Vector, maxAge time.Duration, now time.Time, topL int) ([]*models.CanonicalPosting, error)
	ListRuleMatchCandidates(ctx context.Context, maxAge time.Duration, now time.Time) ([]*models.CanonicalPosting, error)
}

// Chat is the subset of internal/chat.Client the dispatcher needs.
type Chat interface {
	Send(ctx context.Context, handle, text string) error
}

// Config bounds the dispatcher's eligibility checks and scoring
// thresholds.
type Config struct {
	DailyCap              int
	EmbeddingSimThreshold float64
	RuleMatchThreshold    float64
	MatchTopL             int
	CanonicalMaxAge       time.Duration
}

// Dispatcher implements the eligibility predicate and dispatch algorithm
// of spec.md §4.6.
type Dispatcher struct {
	store            Store
	chatClient       Chat
	embeddingMatcher *match.EmbeddingMatcher
	ruleMatcher      *match.RuleMatcher
	clock            clock.Clock
	cfg              Config
	logger           *slog.Logger

	// per-user locks serialize a single user's dispatches while leaving
	// cross-user dispatch fully parallel (spec.md §4.6 concurrency note).
	userLocks   map[uuid.UUID]*sync.Mutex
	userLocksMu sync.Mutex
}

// NewDispatcher builds a Delivery Dispatcher.
func NewDispatcher(store Store, chatClient Chat, cfg Config, clk clock.Clock, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		store:            store,
		chatClient:       chatClient,
		embeddingMatcher: match.NewEmbeddingMatcher(cfg.EmbeddingSimThreshold),
		ruleMatcher:      match.NewRuleMatcher(),
		clock:            clk,
		cfg:              cfg,
		logger:           logger,
		userLocks:        make(map[uuid.UUID]*sync.Mutex),
	}
}

// DispatchForPosting runs the full eligibility + match + send pipeline
// for one newly enriched posting against every eligible user.
func (d *Dispatcher) DispatchForPosting(ctx context.Context, postingID uuid.UUID) error {
	posting, err := d.store.GetCanonicalPosting(ctx, postingID)
	if err != nil {
		return fmt.Errorf("load posting: %w", err)
	}

	prefs, err := d.store.ListConfirmedPreferences(ctx)
	if err != nil {
		return fmt.Errorf("list confirmed preferences: %w", err)
	}

	var wg sync.WaitGroup
	for _, pref := range prefs {
		pref := pref
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.dispatchToUser(ctx, pref, posting); err != nil {
				d.logger.Warn("dispatch to user failed", "user_id", pref.UserID, "posting_id", posting.ID, "err", err)
			}
		}()
	}
	wg.Wait()

	return nil
}

func (d *Dispatcher) dispatchToUser(ctx context.Context, pref *models.Preference, posting *models.CanonicalPosting) error {
	lock := d.lockFor(pref.UserID)
	lock.Lock()
	defer lock.Unlock()

	now := d.clock.Now()

	eligible, err := d.checkEligibility(ctx, pref.UserID, posting.ID, now)
	if err != nil {
		return err
	}
	if !eligible {
		return nil
	}

	result, matched := d.score(pref, posting)
	if !matched {
		return nil
	}

	return d.send(ctx, pref.UserID, posting, result, models.StageRealTime, now)
}

// DispatchBackfillForUser re-runs the Match Engine for one user against
// the top-L candidates currently in the canonical pool, the Reminder
// Daemon's periodic back-fill trigger for the Delivery Dispatcher (spec.md
// §4.6, "also invoked by the Reminder Daemon's back-fill scan"). It
// catches postings a user's real-time dispatch missed — e.g. one enriched
// before the user confirmed their preferences, or whose embedding only
// landed later via the stale-embedding refresh.
func (d *Dispatcher) DispatchBackfillForUser(ctx context.Context, userID uuid.UUID) error {
	pref, err := d.store.GetPreference(ctx, userID)
	if err != nil {
		return fmt.Errorf("load preference: %w", err)
	}
	if pref == nil || !pref.Confirmed {
		return nil
	}

	lock := d.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	now := d.clock.Now()

	var candidates []*models.CanonicalPosting
	if pref.HasEmbedding() {
		candidates, err = d.store.TopEmbeddingMatches(ctx, *pref.Embedding, d.cfg.CanonicalMaxAge, now, d.cfg.MatchTopL)
	} else {
		candidates, err = d.store.ListRuleMatchCandidates(ctx, d.cfg.CanonicalMaxAge, now)
	}
	if err != nil {
		return fmt.Errorf("list backfill candidates: %w", err)
	}

	for _, posting := range candidates {
		eligible, err := d.checkEligibility(ctx, userID, posting.ID, now)
		if err != nil {
			d.logger.Warn("backfill eligibility check failed", "user_id", userID, "posting_id", posting.ID, "err", err)
			continue
		}
		if !eligible {
			continue
		}

		result, matched := d.score(pref, posting)
		if !matched {
			continue
		}

		if err := d.send(ctx, userID, posting, result, models.StageBackfill, now); err != nil {
			d.logger.Warn("backfill dispatch failed", "user_id", userID, "posting_id", posting.ID, "err", err)
		}
	}

	return nil
}

func (d *Dispatcher) checkEligibility(ctx context.Context, userID, postingID uuid.UUID, now time.Time) (bool, error) {
	user, err := d.store.GetUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("load user: %w", err)
	}
	if user == nil || !user.IsActive {
		return false, nil
	}

	window, err := d.store.GetActiveWindow(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("load active window: %w", err)
	}
	if window == nil || window.Elapsed(now) >= 24*time.Hour {
		return false, nil
	}

	count, err := d.store.CountDeliveredToday(ctx, userID, now)
	if err != nil {
		return false, fmt.Errorf("count deliveries today: %w", err)
	}
	if count >= d.cfg.DailyCap {
		return false, nil
	}

	delivered, err := d.store.HasBeenDelivered(ctx, userID, postingID)
	if err != nil {
		return false, fmt.Errorf("check delivery history: %w", err)
	}
	return !delivered, nil
}

// score uses the embedding matcher when both the preference and the
// posting carry an embedding, and the rule matcher whenever either side
// lacks one (spec.md
// §4.5: "Primary: embedding matcher; fallback: rule matcher").
func (d *Dispatcher) score(pref *models.Preference, posting *models.CanonicalPosting) (match.Result, bool) {
	candidates := []*models.CanonicalPosting{posting}

	if pref.HasEmbedding() && posting.HasEmbedding() {
		results := d.embeddingMatcher.Match(pref.UserID, pref, candidates)
		if len(results) > 0 {
			return results[0], true
		}
		return match.Result{}, false
	}

	results := d.ruleMatcher.Match(pref.UserID, pref, candidates)
	if len(results) > 0 {
		return results[0], true
	}
	return match.Result{}, false
}

func (d *Dispatcher) send(ctx context.Context, userID uuid.UUID, posting *models.CanonicalPosting, result match.Result, stage models.DeliveryStage, now time.Time) error {
	entry := &models.DeliveryHistory{
		UserID:             userID,
		CanonicalPostingID: posting.ID,
		Score:              result.Score,
		Stage:              stage,
		Sent:                false,
		ShownAt:            now,
	}

	id, err := d.store.InsertPendingDelivery(ctx, entry)
	if err != nil {
		return fmt.Errorf("insert pending delivery: %w", err)
	}

	user, err := d.store.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("reload user for send: %w", err)
	}

	body := RenderJobAlert(result.Score, posting)
	sendErr := d.chatClient.Send(ctx, user.ContactHandle, body)

	if sendErr != nil {
		_ = d.store.MarkDeliverySent(ctx, id, false, sendErr.Error())
		return fmt.Errorf("send outbound alert: %w", sendErr)
	}

	if err := d.store.MarkDeliverySent(ctx, id, true, ""); err != nil {
		return fmt.Errorf("mark delivery sent: %w", err)
	}

	// Outbound dispatch does not touch window.last_activity: elapsed time
	// (and the reminder cascade derived from it) is driven only by
	// inbound activity, never by the alerts we send out.
	d.logger.Info("dispatched job alert", "user_id", userID, "posting_id", posting.ID, "score", result.Score)
	return nil
}

func (d *Dispatcher) lockFor(userID uuid.UUID) *sync.Mutex {
	d.userLocksMu.Lock()
	defer d.userLocksMu.Unlock()
	if l, ok := d.userLocks[userID]; ok {
		return l
	}
	l := &sync.Mutex{}
	d.userLocks[userID] = l
	return l
}

var _ Chat = (*chat.Client)(nil)
