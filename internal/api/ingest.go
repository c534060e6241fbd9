package api

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
)

type ingestInput struct {
	Body struct {
		Source    string                 `json:"source" doc:"Scraper adapter identifier" required:"true"`
		SourceID  string                 `json:"source_id" doc:"Adapter-assigned unique id for this posting" required:"true"`
		Payload   map[string]interface{} `json:"payload" doc:"Raw scraped fields, adapter-shaped" required:"true"`
		URL       string                 `json:"url" doc:"Canonical listing URL"`
		ScrapedAt *time.Time             `json:"scraped_at" doc:"Defaults to receipt time when absent"`
	}
}

type ingestOutput struct {
	Body struct {
		ID     uuid.UUID `json:"id"`
		Status string    `json:"status" doc:"inserted or duplicate"`
	}
}

// RegisterIngestRoutes registers the Ingestion Queue's only write path:
// scraper adapters submit one record at a time, keyed for dedup on
// (source, source_id) (spec.md §4.1).
func RegisterIngestRoutes(api huma.API, deps *Dependencies) {
	huma.Register(api, huma.Operation{
		OperationID: "ingest-posting",
		Method:      "POST",
		Path:        "/postings",
		Summary:     "Submit a scraped job posting to the ingestion queue",
	}, func(ctx context.Context, input *ingestInput) (*ingestOutput, error) {
		scrapedAt := time.Now()
		if input.Body.ScrapedAt != nil {
			scrapedAt = *input.Body.ScrapedAt
		}

		id, inserted, err := deps.Queue.Enqueue(ctx, input.Body.Source, input.Body.SourceID, input.Body.Payload, input.Body.URL, scrapedAt)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to enqueue posting", err)
		}

		out := &ingestOutput{}
		out.Body.ID = id
		out.Body.Status = "duplicate"
		if inserted {
			out.Body.Status = "inserted"
		}
		return out, nil
	})
}
