// Package embedding is the Embedding Service: a deterministic text-to-vector
// function in front of OpenAI's embedding model, with an in-process
// content-hash cache and batch-input support, grounded on the teacher's
// embedding.Service (same client, model, and per-call timeout shape).
package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/pgvector/pgvector-go"
)

// maxTextLength truncates very long profile text before it reaches the
// model, avoiding token-limit errors on oversized job descriptions.
const maxTextLength = 8000

// defaultCacheCapacity bounds the in-process LRU; large enough to cover a
// busy enrichment or back-fill cycle without unbounded growth.
const defaultCacheCapacity = 10_000

// Service generates 1536-dimensional embeddings for user and job profile
// text, deterministic per backing model version (spec.md §4.3).
type Service struct {
	client  openai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
	cache   *lruCache
}

// NewService builds an Embedding Service.
func NewService(apiKey, model string, timeoutSeconds int, logger *slog.Logger) *Service {
	return &Service{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		logger:  logger,
		cache:   newLRUCache(defaultCacheCapacity),
	}
}

// Embed returns the embedding for one piece of text, consulting the
// content-hash cache before calling out to the model.
func (s *Service) Embed(ctx context.Context, text string) (pgvector.Vector, error) {
	key := hashText(text)
	if v, ok := s.cache.get(key); ok {
		return v, nil
	}

	vecs, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return pgvector.Vector{}, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds many texts in one call, the preferred path for cold
// inputs (spec.md §4.3: "Batch endpoint preferred for cold inputs").
// Cache hits are served without touching the network; only cache misses
// are sent to the model, in their original relative order.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([]pgvector.Vector, error) {
	out := make([]pgvector.Vector, len(texts))
	keys := make([]cacheKey, len(texts))

	var missIdx []int
	var missTexts []string

	for i, text := range texts {
		key := hashText(text)
		keys[i] = key
		if v, ok := s.cache.get(key); ok {
			out[i] = v
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, truncate(text))
	}

	if len(missTexts) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: missTexts,
		},
		Model: s.model,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings api error: %w", err)
	}
	if len(resp.Data) != len(missTexts) {
		return nil, fmt.Errorf("openai returned %d embeddings for %d inputs", len(resp.Data), len(missTexts))
	}

	for j, datum := range resp.Data {
		i := missIdx[j]
		vec := toVector(datum.Embedding)
		out[i] = vec
		s.cache.put(keys[i], vec)
	}

	return out, nil
}

// Model returns the embedding model name in use.
func (s *Service) Model() string {
	return s.model
}

func toVector(embedding []float64) pgvector.Vector {
	slice := make([]float32, len(embedding))
	for i, v := range embedding {
		slice[i] = float32(v)
	}
	return pgvector.NewVector(slice)
}

func truncate(text string) string {
	if len(text) > maxTextLength {
		return text[:maxTextLength] + "..."
	}
	return text
}
