package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS equipment_types (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_equipment_types_name_active
    ON equipment_types(name) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS rooms (
    id          INTEGER PRIMARY KEY,
    floor       INTEGER NOT NULL DEFAULT 0,
    name        TEXT NOT NULL,
    description TEXT,
    is_service  INTEGER NOT NULL DEFAULT 0,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at  DATETIME
);

CREATE TABLE IF NOT EXISTS equipment (
    id               INTEGER PRIMARY KEY,
    name             TEXT NOT NULL,
    type_id          INTEGER NOT NULL REFERENCES equipment_types(id),
    inventory_number TEXT,
    serial_number    TEXT,
    room_id          INTEGER REFERENCES rooms(id),
    quantity         INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 1),
    status           TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'repair', 'broken', 'written_off')),
    purchase_date    TEXT,
    comment          TEXT,
    photo_ref        TEXT,
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at       DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_equipment_inventory_number_active
    ON equipment(inventory_number) WHERE inventory_number IS NOT NULL AND deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS movements (
    id           INTEGER PRIMARY KEY,
    equipment_id INTEGER NOT NULL REFERENCES equipment(id),
    from_room_id INTEGER REFERENCES rooms(id),
    to_room_id   INTEGER NOT NULL REFERENCES rooms(id),
    reason       TEXT NOT NULL DEFAULT '',
    moved_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS inventory_sessions (
    id           INTEGER PRIMARY KEY,
    name         TEXT NOT NULL,
    description  TEXT,
    room_id      INTEGER NOT NULL REFERENCES rooms(id),
    status       TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'in_progress', 'completed')),
    created_by   TEXT NOT NULL DEFAULT '',
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    completed_at DATETIME
);

CREATE TABLE IF NOT EXISTS inventory_results (
    id                INTEGER PRIMARY KEY,
    session_id        INTEGER NOT NULL REFERENCES inventory_sessions(id) ON DELETE CASCADE,
    equipment_id      INTEGER NOT NULL REFERENCES equipment(id),
    expected_quantity INTEGER NOT NULL CHECK (expected_quantity >= 0),
    actual_quantity   INTEGER NOT NULL CHECK (actual_quantity >= 0),
    note              TEXT,
    checked_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (session_id, equipment_id)
);

CREATE TABLE IF NOT EXISTS inventory_additional_items (
    id         INTEGER PRIMARY KEY,
    session_id INTEGER NOT NULL REFERENCES inventory_sessions(id) ON DELETE CASCADE,
    name       TEXT NOT NULL,
    type_name  TEXT NOT NULL,
    quantity   INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 1),
    note       TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: history lookups per equipment item.
	`CREATE INDEX IF NOT EXISTS idx_movements_equipment
	     ON movements(equipment_id, moved_at)`,
	// Migration 2: room listings and count sheets filter on room_id.
	`CREATE INDEX IF NOT EXISTS idx_equipment_room
	     ON equipment(room_id) WHERE deleted_at IS NULL`,
}

// EnsureSchema creates all tables and indexes if they don't already exist,
// then applies migrations.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}
	return nil
}
