package db

import (
	"context"
	"database/sql"
	"testing"
)

// NewTestDB returns an empty in-memory database with the schema applied.
// Default equipment types are not seeded.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("applying test schema: %v", err)
	}
	return database
}

// NewSeededTestDB is NewTestDB plus the default equipment types, as a new
// server database starts out.
func NewSeededTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database := NewTestDB(t)
	if _, err := SeedDefaults(context.Background(), database); err != nil {
		t.Fatalf("seeding test database: %v", err)
	}
	return database
}
