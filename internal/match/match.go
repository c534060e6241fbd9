// Package match is the Match Engine: two matchers that score a canonical
// posting against an eligible user. The Embedding Matcher is primary; the
// Rule Matcher is the fallback when either side lacks a usable embedding
// (spec.md §4.5). Neither matcher touches the store directly — callers
// supply the candidate set, keeping both pure and easy to test.
package match

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Result is one scored (user, posting) pair.
type Result struct {
	UserID    uuid.UUID
	PostingID uuid.UUID
	Score     float64
	Reasons   []string
}

// DispatchThreshold is the minimum total score required for a match to be
// eligible for dispatch (spec.md §4.5.2: "Dispatch requires total ≥ 39").
const DispatchThreshold = 39.0

// EmbeddingSimThreshold is the minimum cosine similarity the Embedding
// Matcher requires (spec.md §4.5.1: τ_sim = 0.65).
const EmbeddingSimThreshold = 0.65

// ByScoreThenPostedDate sorts results by score descending, then by the
// associated posting's posted_date descending (spec.md §4.5 ordering).
// Callers pass the posting lookup since Result does not carry posted_date
// directly.
func ByScoreThenPostedDate(results []Result, postedDate func(postingID uuid.UUID) (int64, bool)) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		di, oki := postedDate(results[i].PostingID)
		dj, okj := postedDate(results[j].PostingID)
		if !oki || !okj {
			return false
		}
		return di > dj
	})
}

func semanticReason(similarity float64) string {
	return fmt.Sprintf("semantic similarity: %.0f%%", similarity*100)
}
