package db

import (
	"context"
	"testing"
)

func TestEnsureSchemaIdempotent(t *testing.T) {
	database := NewTestDB(t)

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	database := NewTestDB(t)

	_, err := database.Exec(`INSERT INTO equipment (name, type_id) VALUES ('Orphan', 999)`)
	if err == nil {
		t.Error("expected foreign key violation for unknown type")
	}
}

func TestSeedDefaults(t *testing.T) {
	database := NewTestDB(t)
	ctx := context.Background()

	n, err := SeedDefaults(ctx, database)
	if err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}
	if n != len(DefaultEquipmentTypes) {
		t.Errorf("expected %d seeded types, got %d", len(DefaultEquipmentTypes), n)
	}

	// Second run leaves existing types alone.
	n, err = SeedDefaults(ctx, database)
	if err != nil {
		t.Fatalf("SeedDefaults again: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no types on second seed, got %d", n)
	}
}

func TestNewSeededTestDB(t *testing.T) {
	database := NewSeededTestDB(t)

	var n int
	if err := database.QueryRow(`SELECT COUNT(*) FROM equipment_types WHERE deleted_at IS NULL`).Scan(&n); err != nil {
		t.Fatalf("counting types: %v", err)
	}
	if n != len(DefaultEquipmentTypes) {
		t.Errorf("expected %d types, got %d", len(DefaultEquipmentTypes), n)
	}
}
