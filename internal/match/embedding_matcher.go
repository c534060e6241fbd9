package match

import (
	"github.com/google/uuid"

	"github.com/hammed103/Aremu/internal/models"
)

// EmbeddingMatcher is the primary matcher (spec.md §4.5.1): given a
// user's preference embedding and a candidate set of enriched postings
// (already filtered to posted_date ≥ today-60d and carrying embeddings),
// it returns the candidates at or above τ_sim in the order they were
// given. Results are not sorted, and no caller sorts them with
// ByScoreThenPostedDate.
type EmbeddingMatcher struct {
	threshold float64
}

// NewEmbeddingMatcher builds an Embedding Matcher with the given
// similarity threshold (spec.md §4.5.1 default: 0.65).
func NewEmbeddingMatcher(threshold float64) *EmbeddingMatcher {
	return &EmbeddingMatcher{threshold: threshold}
}

// Match scores every candidate against the user's preference embedding,
// keeping only those at or above the similarity threshold. Score is
// surfaced on a 0-100 scale (100 × cosine similarity).
func (m *EmbeddingMatcher) Match(userID uuid.UUID, pref *models.Preference, candidates []*models.CanonicalPosting) []Result {
	if !pref.HasEmbedding() {
		return nil
	}

	userVec := pref.Embedding.Slice()
	var results []Result

	for _, c := range candidates {
		if !c.HasEmbedding() {
			continue
		}
		sim := cosineSimilarity(userVec, c.Embedding.Slice())
		if sim < m.threshold {
			continue
		}
		results = append(results, Result{
			UserID:    userID,
			PostingID: c.ID,
			Score:     100 * sim,
			Reasons:   []string{semanticReason(sim)},
		})
	}

	return results
}
