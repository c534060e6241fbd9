package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// CanonicalPosting is the normalized, enriched record produced from one
// raw posting. Direct fields come from the scrape; inferred fields come
// from the enrichment model (spec.md §3.1, §4.2).
type CanonicalPosting struct {
	ID           uuid.UUID `json:"id"`
	RawPostingID uuid.UUID `json:"raw_posting_id"`

	// Direct fields
	Title          string      `json:"title"`
	Company        string      `json:"company"`
	DisplayLocation string     `json:"display_location"`
	PostingURL     string      `json:"posting_url"`
	Description    string      `json:"description"`
	EmploymentType string      `json:"employment_type,omitempty"`
	Salary         SalaryRange `json:"salary"`
	PostedDate     time.Time   `json:"posted_date"`
	Source         string      `json:"source"`
	ScrapedAt      time.Time   `json:"scraped_at"`

	// Inferred fields
	AlternateTitles    []string        `json:"alternate_titles,omitempty"`
	RequiredSkills     []string        `json:"required_skills,omitempty"`
	PreferredSkills    []string        `json:"preferred_skills,omitempty"`
	Industry           []string        `json:"industry,omitempty"`
	JobFunction        string          `json:"job_function,omitempty"`
	JobLevel           []string        `json:"job_level,omitempty"`
	City               string          `json:"city,omitempty"`
	State              string          `json:"state,omitempty"`
	Country            string          `json:"country,omitempty"`
	WorkArrangement    WorkArrangement `json:"work_arrangement,omitempty"`
	RemoteAllowed      bool            `json:"remote_allowed"`
	InferredSalary     SalaryRange     `json:"inferred_salary"`
	YearsExperienceMin *int            `json:"years_experience_min,omitempty"`
	YearsExperienceMax *int            `json:"years_experience_max,omitempty"`
	Summary            string          `json:"summary,omitempty"`

	// Embedding
	Embedding           *pgvector.Vector `json:"-"`
	EmbeddingSourceText string           `json:"embedding_source_text,omitempty"`
	EmbeddingVersion    string           `json:"embedding_version,omitempty"`

	AIEnhanced bool      `json:"ai_enhanced"`
	CreatedAt  time.Time `json:"created_at"`
}

// HasEmbedding reports whether the posting has a usable embedding vector.
func (c *CanonicalPosting) HasEmbedding() bool {
	return c.Embedding != nil
}

// EffectiveSalary returns the inferred salary range if the direct range is
// empty, otherwise the direct range. Used by the rule matcher and by the
// job profile-text generator.
func (c *CanonicalPosting) EffectiveSalary() SalaryRange {
	if c.Salary.Min != nil || c.Salary.Max != nil {
		return c.Salary
	}
	return c.InferredSalary
}

// ResolvedWorkArrangement returns the inferred arrangement when it is
// valid; otherwise "remote" if RemoteAllowed is set, else "on-site".
func (c *CanonicalPosting) ResolvedWorkArrangement() WorkArrangement {
	if c.WorkArrangement.IsValid() {
		return c.WorkArrangement
	}
	if c.RemoteAllowed {
		return WorkArrangementRemote
	}
	return WorkArrangementOnsite
}

// DedupKey returns the lowercased, trimmed (title, company, location)
// tuple the scheduler's duplicate-purge pass groups on (spec.md §4.9).
func (c *CanonicalPosting) DedupKey() string {
	return normalizeDedup(c.Title) + "|" + normalizeDedup(c.Company) + "|" + normalizeDedup(c.DisplayLocation)
}
