package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/google/uuid"
)

// ReminderLog holds the schema definition for the append-only reminder
// ledger. At most one row per (window_id, stage) — invariant 3.
type ReminderLog struct {
	ent.Schema
}

// Fields of the ReminderLog.
func (ReminderLog) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Immutable(),
		field.UUID("user_id", uuid.UUID{}).Immutable(),
		field.UUID("window_id", uuid.UUID{}).Immutable(),
		field.String("stage").Immutable().Comment("S1..S5"),
		field.Time("sent_at").Default(time.Now).Immutable(),
	}
}

// Edges of the ReminderLog.
func (ReminderLog) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("window", Window.Type).Unique().Required().Immutable().Field("window_id"),
	}
}

// Indexes of the ReminderLog.
func (ReminderLog) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("window_id", "stage").Unique(),
	}
}
