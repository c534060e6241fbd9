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
)

// Window holds the schema definition for the ConversationWindow entity.
// At most one row per user has status = "active" at any time (invariant
// 2), enforced here with a partial unique index on (user_id) WHERE
// status = 'active' — Postgres supports partial indexes; Ent expresses
// them through an IndexWhere annotation.
type Window struct {
	ent.Schema
}

// Fields of the Window.
func (Window) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Immutable(),
		field.UUID("user_id", uuid.UUID{}).Immutable(),
		field.Time("started_at").Default(time.Now),
		field.Time("last_activity_at").Default(time.Now),
		field.String("status").Default("active").Comment("active or expired"),
		field.Bool("stage1_sent").Default(false),
		field.Bool("stage2_sent").Default(false),
		field.Bool("stage3_sent").Default(false),
		field.Bool("stage4_sent").Default(false),
		field.Bool("stage5_sent").Default(false),
		field.Int("messages_in_window").Default(0),
	}
}

// Edges of the Window.
func (Window) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("user", User.Type).Unique().Required().Immutable().Field("user_id"),
	}
}

// Indexes of the Window.
func (Window) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "status").
			Unique().
			Annotations(entsql.IndexWhere(map[string]string{dialect.Postgres: "status = 'active'"})),
		index.Fields("status", "last_activity_at"),
	}
}
