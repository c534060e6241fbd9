// Package ent would normally hold the client generated from ./schema by
// `ent generate`. In this build the generated client is not committed —
// see DESIGN.md — and internal/store reads Postgres directly through
// entgo.io/ent/dialect/sql's connection-pool wrapper instead of the
// generated fluent API. The schema package remains the canonical
// definition of every entity's columns, indexes, and constraints.
package ent

//go:generate go run -mod=mod entgo.io/ent/cmd/ent generate ./schema
