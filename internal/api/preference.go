package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hammed103/Aremu/internal/preference"
)

type preferenceWriteInput struct {
	Handle  string `path:"handle"`
	RawBody []byte
}

type preferenceWriteOutput struct {
	Body struct {
		Confirmed bool `json:"confirmed"`
	}
}

// RegisterPreferenceRoutes registers the authenticated preference-write
// endpoint used by the conversational front-end to persist a user's
// attribute bag, triggering the Preference Projector's embedding refresh.
func RegisterPreferenceRoutes(api huma.API, deps *Dependencies, logger *slog.Logger) {
	huma.Register(api, huma.Operation{
		OperationID: "write-preference",
		Method:      "PUT",
		Path:        "/users/{handle}/preferences",
		Summary:     "Create or replace a user's job-search preferences",
	}, func(ctx context.Context, input *preferenceWriteInput) (*preferenceWriteOutput, error) {
		now := time.Now()

		user, err := deps.Store.UpsertUserByHandle(ctx, input.Handle, now)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to resolve user", err)
		}

		pref, err := preference.DecodeRaw(user.ID, input.RawBody, now, logger)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("invalid preference payload", err)
		}

		if err := deps.Projector.Apply(ctx, pref); err != nil {
			return nil, huma.Error500InternalServerError("failed to apply preference", err)
		}

		out := &preferenceWriteOutput{}
		out.Body.Confirmed = pref.Confirmed
		return out, nil
	})
}
