package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type dependencyStatus struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type healthResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// RegisterHealthRoutes registers the health endpoint outside of Huma,
// matching the teacher's raw chi /health handler.
func RegisterHealthRoutes(router *chi.Mux, deps *Dependencies) {
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Dependencies: map[string]dependencyStatus{}}

		if err := deps.Store.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Dependencies["store"] = dependencyStatus{Status: "down", Detail: err.Error()}
		} else {
			resp.Dependencies["store"] = dependencyStatus{Status: "ok"}
		}

		resp.Dependencies["chat"] = configuredStatus(deps.Config.IsChatEnabled())
		resp.Dependencies["model"] = configuredStatus(deps.Config.IsEnrichmentEnabled())
		resp.Dependencies["embedding"] = configuredStatus(deps.Config.IsEmbeddingEnabled())

		w.Header().Set("Content-Type", "application/json")
		if resp.Status != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
}

func configuredStatus(enabled bool) dependencyStatus {
	if enabled {
		return dependencyStatus{Status: "ok"}
	}
	return dependencyStatus{Status: "not_configured"}
}
