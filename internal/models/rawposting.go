package models

import (
	"time"

	"github.com/google/uuid"
)

// RawPosting is an immutable snapshot of a scraped posting. The
// (Source, SourceID) pair is the sole deduplication key; Processed is the
// in-band queue flag — there is no separate in-memory queue.
type RawPosting struct {
	ID         uuid.UUID              `json:"id"`
	Source     string                 `json:"source"`
	SourceID   string                 `json:"source_id"`
	Payload    map[string]interface{} `json:"payload"`
	URL        string                 `json:"url"`
	ScrapedAt  time.Time              `json:"scraped_at"`
	Processed  bool                   `json:"processed"`
	Error      *string                `json:"error,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// TitleHint extracts a best-effort title hint from the opaque payload for
// the enrichment prompt (spec.md §4.2 step 2).
func (r *RawPosting) TitleHint() string {
	return stringField(r.Payload, "title", "job_title", "position")
}

// CompanyHint extracts a best-effort company hint from the opaque payload.
func (r *RawPosting) CompanyHint() string {
	return stringField(r.Payload, "company", "company_name", "employer")
}

// DescriptionHint extracts the raw description text, if present.
func (r *RawPosting) DescriptionHint() string {
	return stringField(r.Payload, "description", "job_description", "body")
}

func stringField(payload map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := payload[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
