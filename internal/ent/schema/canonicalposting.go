package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// CanonicalPosting holds the schema definition for the CanonicalPosting
// entity, produced by the Enrichment Worker from exactly one RawPosting
// (spec.md §3.1). ai_enhanced is true iff both structured enrichment and
// the embedding have been written (invariant 4).
type CanonicalPosting struct {
	ent.Schema
}

// Fields of the CanonicalPosting.
func (CanonicalPosting) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(func() uuid.UUID {
				id, _ := uuid.NewV7()
				return id
			}).
			Immutable(),

		field.UUID("raw_posting_id", uuid.UUID{}).Immutable(),

		// Direct fields
		field.String("title"),
		field.String("company"),
		field.String("display_location").Optional(),
		field.String("posting_url").Optional(),
		field.Text("description").Optional(),
		field.String("employment_type").Optional(),
		field.Float("salary_min").Optional().Nillable(),
		field.Float("salary_max").Optional().Nillable(),
		field.String("salary_currency").Optional(),
		field.Time("posted_date"),
		field.String("source"),
		field.Time("scraped_at"),

		// Inferred fields
		field.JSON("alternate_titles", []string{}).Optional(),
		field.JSON("required_skills", []string{}).Optional(),
		field.JSON("preferred_skills", []string{}).Optional(),
		field.JSON("industry", []string{}).Optional(),
		field.String("job_function").Optional(),
		field.JSON("job_level", []string{}).Optional(),
		field.String("city").Optional(),
		field.String("state").Optional(),
		field.String("country").Optional(),
		field.String("work_arrangement").Optional(),
		field.Bool("remote_allowed").Default(false),
		field.Float("inferred_salary_min").Optional().Nillable(),
		field.Float("inferred_salary_max").Optional().Nillable(),
		field.String("inferred_salary_currency").Optional(),
		field.Int("years_experience_min").Optional().Nillable(),
		field.Int("years_experience_max").Optional().Nillable(),
		field.String("summary").MaxLen(280).Optional(),

		field.Other("embedding", pgvector.Vector{}).
			Optional().
			Nillable().
			SchemaType(map[string]string{dialect.Postgres: "vector(1536)"}).
			Comment("Job-profile embedding, 1536 dimensions"),
		field.String("embedding_source_text").Optional(),
		field.String("embedding_version").Optional(),

		field.Bool("ai_enhanced").
			Default(false).
			Comment("True iff structured enrichment AND the embedding have both been written"),

		field.Time("created_at").Default(time.Now).Immutable(),
	}
}

// Edges of the CanonicalPosting.
func (CanonicalPosting) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("raw_posting", RawPosting.Type).Unique().Required().Immutable().Field("raw_posting_id"),
	}
}

// Indexes of the CanonicalPosting.
func (CanonicalPosting) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("posted_date"),
		index.Fields("required_skills").
			Annotations(entsql.IndexTypes(map[string]string{dialect.Postgres: "GIN"})),
		index.Fields("industry").
			Annotations(entsql.IndexTypes(map[string]string{dialect.Postgres: "GIN"})),
		index.Fields("job_level").
			Annotations(entsql.IndexTypes(map[string]string{dialect.Postgres: "GIN"})),
		index.Fields("city", "state", "country"),
		index.Fields("embedding").
			Annotations(entsql.IndexType("hnsw"), entsql.OpClass("vector_cosine_ops")),
	}
}
