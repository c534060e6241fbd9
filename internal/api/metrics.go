package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type metricsResponse struct {
	UsersTotal              int     `json:"users_total"`
	UsersActive24h          int     `json:"users_active_24h"`
	RawPostingsReceived     int     `json:"raw_postings_received"`
	RawPostingsProcessed    int     `json:"raw_postings_processed"`
	CanonicalPostingsCreated int    `json:"canonical_postings_created"`
	AlertsSentToday         int     `json:"alerts_sent_today"`
	UserEmbeddingCoverage   float64 `json:"user_embedding_coverage_pct"`
	JobEmbeddingCoverage    float64 `json:"job_embedding_coverage_pct"`
	AvgEnrichmentLatencySec float64 `json:"avg_enrichment_latency_seconds"`
}

// RegisterMetricsRoutes registers the gated /metrics endpoint (spec.md
// §6.5). It is a raw chi route (like /health) so it is authenticated
// directly here rather than relying on the Huma middleware chain.
func RegisterMetricsRoutes(router *chi.Mux, deps *Dependencies, apiKey string) {
	router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		if apiKey != "" && r.Header.Get("X-API-Key") != apiKey {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		now := time.Now()
		todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		resp := metricsResponse{}

		resp.UsersTotal, _ = deps.Store.CountUsersTotal(ctx)
		resp.UsersActive24h, _ = deps.Store.CountActiveUsers24h(ctx, now.Add(-24*time.Hour))
		resp.RawPostingsReceived, _ = deps.Store.CountRawPostingsReceived(ctx)
		resp.RawPostingsProcessed, _ = deps.Store.CountRawPostingsProcessed(ctx)
		resp.CanonicalPostingsCreated, _ = deps.Store.CountCanonicalPostings(ctx)
		resp.AlertsSentToday, _ = deps.Store.CountDeliveredSince(ctx, todayStart)
		resp.UserEmbeddingCoverage, resp.JobEmbeddingCoverage, _ = deps.Store.EmbeddingCoverage(ctx)
		resp.AvgEnrichmentLatencySec, _ = deps.Store.AvgEnrichmentLatencySeconds(ctx)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
}
