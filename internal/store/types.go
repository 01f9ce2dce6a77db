package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/popis/internal/model"
)

// CreateType creates a new equipment type.
func CreateType(ctx context.Context, db *sql.DB, name string) (*model.EquipmentType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: type name required", model.ErrInvalid)
	}

	result, err := db.ExecContext(ctx, `INSERT INTO equipment_types (name) VALUES (?)`, name)
	if isUniqueViolation(err) {
		return nil, conflictf("equipment type %q already exists", name)
	}
	if err != nil {
		return nil, fmt.Errorf("creating equipment type: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting equipment type id: %w", err)
	}

	return GetType(ctx, db, id)
}

// GetType returns an equipment type by ID.
func GetType(ctx context.Context, db *sql.DB, id int64) (*model.EquipmentType, error) {
	t := &model.EquipmentType{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, created_at, deleted_at FROM equipment_types WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.CreatedAt, &t.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting equipment type: %w", err)
	}
	return t, nil
}

// FindTypeByName returns the live type with the given name (case-insensitive).
func FindTypeByName(ctx context.Context, db *sql.DB, name string) (*model.EquipmentType, error) {
	t := &model.EquipmentType{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, created_at, deleted_at FROM equipment_types
		 WHERE deleted_at IS NULL AND lower(name) = lower(?)
		 ORDER BY id LIMIT 1`, strings.TrimSpace(name),
	).Scan(&t.ID, &t.Name, &t.CreatedAt, &t.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding equipment type: %w", err)
	}
	return t, nil
}

// ListTypes returns all live equipment types with their live equipment count.
func ListTypes(ctx context.Context, db *sql.DB) ([]model.EquipmentType, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT t.id, t.name, t.created_at, t.deleted_at,
		        (SELECT COUNT(*) FROM equipment e WHERE e.type_id = t.id AND e.deleted_at IS NULL)
		 FROM equipment_types t
		 WHERE t.deleted_at IS NULL
		 ORDER BY t.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing equipment types: %w", err)
	}
	defer rows.Close()

	var types []model.EquipmentType
	for rows.Next() {
		var t model.EquipmentType
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.DeletedAt, &t.EquipmentCount); err != nil {
			return nil, fmt.Errorf("scanning equipment type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// RenameType changes an equipment type's name.
func RenameType(ctx context.Context, db *sql.DB, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: type name required", model.ErrInvalid)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE equipment_types SET name = ? WHERE id = ? AND deleted_at IS NULL`, name, id,
	)
	if isUniqueViolation(err) {
		return conflictf("equipment type %q already exists", name)
	}
	if err != nil {
		return fmt.Errorf("renaming equipment type: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("equipment type %d: %w", id, model.ErrNotFound)
	}
	return nil
}

// DeleteType soft-deletes an equipment type. Types still used by live
// equipment cannot be deleted.
func DeleteType(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var inUse int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM equipment WHERE type_id = ? AND deleted_at IS NULL`, id,
	).Scan(&inUse); err != nil {
		return fmt.Errorf("checking equipment type usage: %w", err)
	}
	if inUse > 0 {
		return conflictf("equipment type is used by %d equipment records", inUse)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE equipment_types SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id,
	)
	if err != nil {
		return fmt.Errorf("deleting equipment type: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("equipment type %d: %w", id, model.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing equipment type delete: %w", err)
	}
	return nil
}
