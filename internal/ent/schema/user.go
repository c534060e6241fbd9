package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/google/uuid"
)

// User holds the schema definition for the User entity. Users are created
// on first inbound message and are never deleted, only deactivated.
type User struct {
	ent.Schema
}

// Fields of the User.
func (User) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(func() uuid.UUID {
				id, _ := uuid.NewV7()
				return id
			}).
			Immutable().
			Comment("UUIDv7 primary key (time-ordered)"),

		field.String("contact_handle").
			NotEmpty().
			Unique().
			Comment("Stable contact identity (e.g. a WhatsApp number) used for chat-provider send"),

		field.String("display_name").
			Optional().
			Nillable().
			Comment("Optional human-readable name"),

		field.Time("created_at").
			Default(time.Now).
			Immutable().
			Comment("When this user was first seen"),

		field.Time("last_active_at").
			Default(time.Now).
			Comment("Last inbound-message timestamp; drives the conversation window"),

		field.Bool("is_active").
			Default(true).
			Comment("False once the user has been deactivated"),
	}
}

// Edges of the User.
func (User) Edges() []ent.Edge {
	return nil
}

// Indexes of the User.
func (User) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("contact_handle").Unique(),
		index.Fields("is_active", "last_active_at"),
	}
}
