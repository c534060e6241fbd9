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

// Preference holds the schema definition for the Preference entity: the
// dense attribute bag described in spec.md §3.1. Zero or one row per user.
type Preference struct {
	ent.Schema
}

// Fields of the Preference.
func (Preference) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable(),

		field.UUID("user_id", uuid.UUID{}).
			Unique().
			Immutable().
			Comment("One-to-one owner; enforced unique so a user has at most one preference row"),

		field.JSON("desired_titles", []string{}).Optional(),
		field.JSON("job_categories", []string{}).Optional(),
		field.JSON("desired_locations", []string{}).Optional(),
		field.Bool("willing_to_relocate").Default(false),
		field.JSON("work_arrangements", []string{}).Optional(),
		field.JSON("employment_types", []string{}).Optional(),

		field.String("experience_level").
			Optional().
			Comment("entry, junior, mid, senior, lead, or executive"),
		field.Int("years_experience").Optional().Nillable(),

		field.Float("salary_min").Optional().Nillable(),
		field.Float("salary_max").Optional().Nillable(),
		field.String("salary_currency").Optional(),
		field.String("salary_period").Optional(),

		field.JSON("required_skills", []string{}).Optional(),
		field.JSON("soft_skills", []string{}).Optional(),
		field.JSON("industries", []string{}).Optional(),
		field.JSON("company_size_prefs", []string{}).Optional(),

		field.Bool("confirmed").Default(false),

		field.Other("embedding", pgvector.Vector{}).
			Optional().
			Nillable().
			SchemaType(map[string]string{dialect.Postgres: "vector(1536)"}).
			Comment("User-profile embedding, refreshed by the Preference Projector"),
		field.String("embedding_source_text").Optional(),
		field.String("embedding_version").Optional(),

		field.Time("updated_at").Default(time.Now).UpdateDefault(time.Now),
	}
}

// Edges of the Preference.
func (Preference) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("user", User.Type).Unique().Required().Immutable().Field("user_id"),
	}
}

// Indexes of the Preference.
func (Preference) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id").Unique(),
		index.Fields("required_skills").
			Annotations(entsql.IndexTypes(map[string]string{dialect.Postgres: "GIN"})),
		index.Fields("desired_locations").
			Annotations(entsql.IndexTypes(map[string]string{dialect.Postgres: "GIN"})),
		index.Fields("embedding").
			Annotations(entsql.IndexType("hnsw"), entsql.OpClass("vector_cosine_ops")),
	}
}
