package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/google/uuid"
)

// DeliveryHistory holds the schema definition for the DeliveryHistory
// entity: one row per (user, canonical posting) pair that reached
// dispatch. Unique on (user_id, canonical_posting_id) — invariant 1.
type DeliveryHistory struct {
	ent.Schema
}

// Fields of the DeliveryHistory.
func (DeliveryHistory) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Immutable(),
		field.UUID("user_id", uuid.UUID{}).Immutable(),
		field.UUID("canonical_posting_id", uuid.UUID{}).Immutable(),
		field.Float("score"),
		field.String("stage").Comment("real_time or backfill"),
		field.Bool("sent").Default(false),
		field.Text("error").Optional().Nillable(),
		field.Time("shown_at").Default(time.Now),
	}
}

// Edges of the DeliveryHistory.
func (DeliveryHistory) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("user", User.Type).Unique().Required().Immutable().Field("user_id"),
		edge.To("canonical_posting", CanonicalPosting.Type).Unique().Required().Immutable().Field("canonical_posting_id"),
	}
}

// Indexes of the DeliveryHistory.
func (DeliveryHistory) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "canonical_posting_id").Unique(),
		// Supports the daily-cap predicate: count rows with shown_at::date = today
		index.Fields("user_id", "shown_at"),
	}
}
