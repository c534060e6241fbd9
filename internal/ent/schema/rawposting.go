package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/google/uuid"
)

// RawPosting holds the schema definition for the RawPosting entity: an
// immutable snapshot of a scraped posting, deduplicated on
// (source, source_id). The processed flag IS the ingestion queue — there
// is no separate in-memory queue table (spec.md §4.1).
type RawPosting struct {
	ent.Schema
}

// Fields of the RawPosting.
func (RawPosting) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(func() uuid.UUID {
				id, _ := uuid.NewV7()
				return id
			}).
			Immutable(),

		field.String("source").NotEmpty().Immutable(),
		field.String("source_id").NotEmpty().Immutable(),
		field.JSON("payload", map[string]interface{}{}).Immutable(),
		field.String("url").Optional().Immutable(),
		field.Time("scraped_at").Immutable(),

		field.Bool("processed").Default(false),
		field.Text("error").Optional().Nillable(),

		field.Time("created_at").Default(time.Now).Immutable(),
	}
}

// Edges of the RawPosting.
func (RawPosting) Edges() []ent.Edge {
	return nil
}

// Indexes of the RawPosting.
func (RawPosting) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("source", "source_id").Unique(),
		// Supports the enrichment worker's batch-claim query:
		// WHERE processed = false ORDER BY scraped_at ASC LIMIT K
		index.Fields("processed", "scraped_at").
			Annotations(entsql.IndexTypes(map[string]string{dialect.Postgres: "BTREE"})),
	}
}
