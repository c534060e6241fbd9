package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/hammed103/Aremu/internal/models"
)

func windowRows(id, userID uuid.UUID, now time.Time, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "started_at", "last_activity_at", "status",
		"stage1_sent", "stage2_sent", "stage3_sent", "stage4_sent", "stage5_sent", "messages_in_window",
	}).AddRow(id, userID, now, now, status, false, false, false, false, false, 1)
}

func TestOpenWindow_ExpiresPriorThenInsertsAndCommits(t *testing.T) {
	s, mock := newMockStore(t)
	userID := uuid.New()
	windowID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE windows SET status = 'expired' WHERE user_id = \\$1 AND status = 'active'").
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO windows").
		WillReturnRows(windowRows(windowID, userID, now, "active"))
	mock.ExpectCommit()

	w, err := s.OpenWindow(context.Background(), userID, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Status != models.WindowActive {
		t.Errorf("Status = %v, want %v", w.Status, models.WindowActive)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestOpenWindow_RollsBackOnInsertFailure(t *testing.T) {
	s, mock := newMockStore(t)
	userID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE windows SET status = 'expired'").
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INSERT INTO windows").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, err := s.OpenWindow(context.Background(), userID, now)
	if err == nil {
		t.Fatal("expected an error when the insert fails")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetActiveWindow_ReturnsNilWhenNoneActive(t *testing.T) {
	s, mock := newMockStore(t)
	userID := uuid.New()

	mock.ExpectQuery("SELECT (.|\n)* FROM windows WHERE user_id = \\$1 AND status = 'active'").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "started_at", "last_activity_at", "status",
			"stage1_sent", "stage2_sent", "stage3_sent", "stage4_sent", "stage5_sent", "messages_in_window",
		}))

	w, err := s.GetActiveWindow(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w != nil {
		t.Errorf("expected a nil window, got %+v", w)
	}
}

func TestExpireWindow_ReturnsFalseWhenNoRowsAffected(t *testing.T) {
	s, mock := newMockStore(t)
	windowID := uuid.New()

	mock.ExpectExec("UPDATE windows SET status = 'expired' WHERE id = \\$1 AND status = 'active'").
		WithArgs(windowID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := s.ExpireWindow(context.Background(), windowID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected false when the window was already expired")
	}
}

func TestMarkWindowStageSent_ReturnsTrueWhenNewlyFlipped(t *testing.T) {
	s, mock := newMockStore(t)
	windowID := uuid.New()

	mock.ExpectExec("UPDATE windows SET stage1_sent = true WHERE id = \\$1 AND stage1_sent = false").
		WithArgs(windowID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := s.MarkWindowStageSent(context.Background(), windowID, models.ReminderS1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected true when the stage flag was newly set")
	}
}

func TestMarkWindowStageSent_UnknownStageIsANoOp(t *testing.T) {
	s, _ := newMockStore(t)
	windowID := uuid.New()

	ok, err := s.MarkWindowStageSent(context.Background(), windowID, models.ReminderStage("bogus"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected false for an unrecognized stage")
	}
}

func TestListActiveWindows_ReturnsAllRows(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "started_at", "last_activity_at", "status",
		"stage1_sent", "stage2_sent", "stage3_sent", "stage4_sent", "stage5_sent", "messages_in_window",
	}).
		AddRow(uuid.New(), uuid.New(), now, now, "active", false, false, false, false, false, 1).
		AddRow(uuid.New(), uuid.New(), now, now, "active", true, false, false, false, false, 3)

	mock.ExpectQuery("SELECT (.|\n)* FROM windows WHERE status = 'active'").
		WillReturnRows(rows)

	out, err := s.ListActiveWindows(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(out))
	}
	if !out[1].Stage1Sent {
		t.Error("expected the second window's Stage1Sent to be true")
	}
}
