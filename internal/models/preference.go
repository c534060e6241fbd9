package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// SalaryRange is a min/max pair in a stated currency and period. When only
// one bound is present, the enrichment worker sets the other equal to it
// (spec.md §4.2, numeric semantics); a preference's range is stored with
// the bounds as given.
type SalaryRange struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Currency string   `json:"currency,omitempty"`
	Period   string   `json:"period,omitempty"` // "monthly" is the canonical normalized period
}

// Preference is the dense attribute bag attached to a user (0..1 rows).
// Unknown fields arriving from the upstream conversational front-end are
// dropped at the boundary with a structured warning rather than stored —
// see internal/preference.DecodeRaw.
type Preference struct {
	UserID uuid.UUID `json:"user_id"`

	DesiredTitles      []string          `json:"desired_titles,omitempty"`
	JobCategories      []string          `json:"job_categories,omitempty"`
	DesiredLocations   []string          `json:"desired_locations,omitempty"`
	WillingToRelocate  bool              `json:"willing_to_relocate"`
	WorkArrangements   []WorkArrangement `json:"work_arrangements,omitempty"`
	EmploymentTypes    []EmploymentType  `json:"employment_types,omitempty"`
	ExperienceLevel    ExperienceLevel   `json:"experience_level,omitempty"`
	YearsExperience    *int              `json:"years_experience,omitempty"`
	Salary             SalaryRange       `json:"salary"`
	RequiredSkills     []string          `json:"required_skills,omitempty"`
	SoftSkills         []string          `json:"soft_skills,omitempty"`
	Industries         []string          `json:"industries,omitempty"`
	CompanySizePrefs   []string          `json:"company_size_prefs,omitempty"`
	Confirmed          bool              `json:"confirmed"`

	// Embedding (populated by the Preference Projector, internal/preference)
	Embedding           *pgvector.Vector `json:"-"`
	EmbeddingSourceText string           `json:"embedding_source_text,omitempty"`
	EmbeddingVersion    string           `json:"embedding_version,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// HasEmbedding reports whether the preference carries a usable embedding.
func (p *Preference) HasEmbedding() bool {
	return p.Embedding != nil
}
