// Package store is the Store Gateway: the logical persistence API described
// in spec.md §3 and §4.10. It wraps a connection pool opened through
// entgo.io/ent/dialect/sql (the same non-generated helper the teacher's
// cmd/hub/main.go uses to open its database connection) and exposes typed
// operations over plain SQL, using github.com/pgvector/pgvector-go for the
// vector columns and github.com/lib/pq as the driver.
//
// The generated Ent fluent client is not committed to this repository —
// see DESIGN.md for why — so every operation here is a hand-written SQL
// statement executed through the pooled *sql.DB that dialect/sql.Open
// returns, instead of the teacher's client.ExperienceData.Query()-style
// builder calls.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/lib/pq"

	"github.com/hammed103/Aremu/internal/config"
)

// Store is the Store Gateway: a pooled Postgres connection plus the typed
// operations every other component calls instead of touching SQL directly.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres and configures the pool exactly as the
// teacher's main.go does.
func Open(cfg *config.Config) (*Store, error) {
	drv, err := entsql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db := drv.DB()
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetime) * time.Minute)
	db.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTime) * time.Minute)

	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies store connectivity for the health endpoint (§6.5).
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DB exposes the raw pool for components (schema bootstrap, tests) that
// need it directly.
func (s *Store) DB() *sql.DB {
	return s.db
}

func marshalJSON(v interface{}) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func unmarshalJSON(raw []byte, dst interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505), the signal the dispatcher and reminder
// ledger treat as an idempotent no-op rather than a failure.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23505"
}

// ErrNotFound is returned when a lookup by id finds no row.
var ErrNotFound = sql.ErrNoRows
