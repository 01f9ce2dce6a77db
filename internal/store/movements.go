package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/popis/internal/model"
)

const movementSelect = `SELECT m.id, m.equipment_id, m.from_room_id, m.to_room_id, m.reason, m.moved_at,
        e.name, e.inventory_number, fr.name, tr.name
 FROM movements m
 JOIN equipment e ON e.id = m.equipment_id
 LEFT JOIN rooms fr ON fr.id = m.from_room_id
 JOIN rooms tr ON tr.id = m.to_room_id`

func scanMovement(s scanner) (*model.Movement, error) {
	m := &model.Movement{}
	var invNumber, fromName sql.NullString
	if err := s.Scan(&m.ID, &m.EquipmentID, &m.FromRoomID, &m.ToRoomID, &m.Reason, &m.MovedAt,
		&m.EquipmentName, &invNumber, &fromName, &m.ToRoomName); err != nil {
		return nil, err
	}
	m.InventoryNumber = invNumber.String
	m.FromRoomName = fromName.String
	return m, nil
}

// RecordMovement appends a movement inside the caller's transaction. It is
// the only write path into the movement log.
func RecordMovement(ctx context.Context, tx *sql.Tx, equipmentID int64, fromRoomID *int64, toRoomID int64, reason string) (int64, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = model.DefaultMoveReason
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO movements (equipment_id, from_room_id, to_room_id, reason) VALUES (?, ?, ?, ?)`,
		equipmentID, nullInt64(fromRoomID), toRoomID, reason,
	)
	if err != nil {
		return 0, fmt.Errorf("recording movement: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting movement id: %w", err)
	}
	return id, nil
}

// MoveEquipment relocates equipment to another room and records the
// movement in a single transaction.
func MoveEquipment(ctx context.Context, db *sql.DB, equipmentID, toRoomID int64, reason string) (*model.Movement, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var fromRoomID *int64
	err = tx.QueryRowContext(ctx,
		`SELECT room_id FROM equipment WHERE id = ? AND deleted_at IS NULL`, equipmentID,
	).Scan(&fromRoomID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("equipment %d: %w", equipmentID, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting equipment room: %w", err)
	}

	if fromRoomID != nil && *fromRoomID == toRoomID {
		return nil, fmt.Errorf("%w: equipment is already in this room", model.ErrInvalid)
	}

	var live int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rooms WHERE id = ? AND deleted_at IS NULL`, toRoomID,
	).Scan(&live); err != nil {
		return nil, fmt.Errorf("checking target room: %w", err)
	}
	if live == 0 {
		return nil, fmt.Errorf("%w: unknown room %d", model.ErrInvalid, toRoomID)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE equipment SET room_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		toRoomID, equipmentID,
	); err != nil {
		return nil, fmt.Errorf("moving equipment: %w", err)
	}

	id, err := RecordMovement(ctx, tx, equipmentID, fromRoomID, toRoomID, reason)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing movement: %w", err)
	}
	return GetMovement(ctx, db, id)
}

// GetMovement returns a movement by ID.
func GetMovement(ctx context.Context, db *sql.DB, id int64) (*model.Movement, error) {
	m, err := scanMovement(db.QueryRowContext(ctx, movementSelect+` WHERE m.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting movement: %w", err)
	}
	return m, nil
}

// ListMovementsByEquipment returns the movement history of one equipment
// record, newest first.
func ListMovementsByEquipment(ctx context.Context, db *sql.DB, equipmentID int64) ([]model.Movement, error) {
	return queryMovements(ctx, db,
		movementSelect+` WHERE m.equipment_id = ? ORDER BY m.moved_at DESC, m.id DESC`, equipmentID,
	)
}

// ListMovements returns the most recent movements. A limit of 0 returns all.
func ListMovements(ctx context.Context, db *sql.DB, limit int) ([]model.Movement, error) {
	if limit <= 0 {
		limit = -1
	}
	return queryMovements(ctx, db,
		movementSelect+` ORDER BY m.moved_at DESC, m.id DESC LIMIT ?`, limit,
	)
}

func queryMovements(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.Movement, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing movements: %w", err)
	}
	defer rows.Close()

	var list []model.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning movement: %w", err)
		}
		list = append(list, *m)
	}
	return list, rows.Err()
}
