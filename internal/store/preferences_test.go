package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

func TestSetPreferenceEmbedding_ExecutesUpdateWithVectorAndVersion(t *testing.T) {
	s, mock := newMockStore(t)
	userID := uuid.New()
	vec := pgvector.NewVector([]float32{0.1, 0.2, 0.3})

	mock.ExpectExec("UPDATE preferences SET embedding = \\$2, embedding_source_text = \\$3, embedding_version = \\$4 WHERE user_id = \\$1").
		WithArgs(userID, vec, "Desired roles: software engineer", "text-embedding-3-small").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.SetPreferenceEmbedding(context.Background(), userID, vec, "Desired roles: software engineer", "text-embedding-3-small")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
