package match

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/hammed103/Aremu/internal/models"
)

func TestEmbeddingMatcher_Match(t *testing.T) {
	m := NewEmbeddingMatcher(0.65)
	userID := uuid.New()

	userVec := pgvector.NewVector([]float32{1, 0, 0})
	pref := &models.Preference{UserID: userID, Embedding: &userVec}

	closeVec := pgvector.NewVector([]float32{0.9, 0.1, 0})
	farVec := pgvector.NewVector([]float32{0, 1, 0})

	nearPosting := &models.CanonicalPosting{ID: uuid.New(), Embedding: &closeVec}
	farPosting := &models.CanonicalPosting{ID: uuid.New(), Embedding: &farVec}
	noEmbedding := &models.CanonicalPosting{ID: uuid.New()}

	results := m.Match(userID, pref, []*models.CanonicalPosting{nearPosting, farPosting, noEmbedding})
	if len(results) != 1 {
		t.Fatalf("expected exactly one candidate above threshold, got %d", len(results))
	}
	if results[0].PostingID != nearPosting.ID {
		t.Errorf("expected the close candidate to match, got %v", results[0].PostingID)
	}
	if results[0].Score <= 0 || results[0].Score > 100 {
		t.Errorf("score out of [0,100] bounds: %v", results[0].Score)
	}
}

func TestEmbeddingMatcher_Match_NoUserEmbedding(t *testing.T) {
	m := NewEmbeddingMatcher(0.65)
	pref := &models.Preference{UserID: uuid.New()}

	vec := pgvector.NewVector([]float32{1, 0, 0})
	posting := &models.CanonicalPosting{ID: uuid.New(), Embedding: &vec}

	if results := m.Match(pref.UserID, pref, []*models.CanonicalPosting{posting}); results != nil {
		t.Errorf("expected nil results when user has no embedding, got %v", results)
	}
}
