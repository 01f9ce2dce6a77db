package db

import (
	"context"
	"database/sql"
	"fmt"
)

// DefaultEquipmentTypes are created on a fresh database.
var DefaultEquipmentTypes = []string{
	"Računalnik",
	"Prenosnik",
	"Monitor",
	"Tiskalnik",
	"Multifunkcijska naprava",
	"Projektor",
	"Stikalo",
	"Usmerjevalnik",
	"UPS",
	"Strežnik",
	"Miza",
	"Stol",
	"Omara",
	"Drugo",
}

// SeedDefaults inserts the default equipment types when none exist yet.
// It reports how many types were inserted.
func SeedDefaults(ctx context.Context, db *sql.DB) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM equipment_types`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting equipment types: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	for _, name := range DefaultEquipmentTypes {
		if _, err := tx.ExecContext(ctx, `INSERT INTO equipment_types (name) VALUES (?)`, name); err != nil {
			return 0, fmt.Errorf("seeding equipment type %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing seed: %w", err)
	}
	return len(DefaultEquipmentTypes), nil
}
