package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/popis/internal/model"
)

// CreateRoom creates a new room.
func CreateRoom(ctx context.Context, db *sql.DB, in model.RoomInput) (*model.Room, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO rooms (floor, name, description, is_service) VALUES (?, ?, ?, ?)`,
		in.Floor, in.Name, nullString(in.Description), in.IsService,
	)
	if err != nil {
		return nil, fmt.Errorf("creating room: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting room id: %w", err)
	}

	return GetRoom(ctx, db, id)
}

// GetRoom returns a room by ID, including soft-deleted rooms.
func GetRoom(ctx context.Context, db *sql.DB, id int64) (*model.Room, error) {
	r := &model.Room{}
	var description sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, floor, name, description, is_service, created_at, deleted_at
		 FROM rooms WHERE id = ?`, id,
	).Scan(&r.ID, &r.Floor, &r.Name, &description, &r.IsService, &r.CreatedAt, &r.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting room: %w", err)
	}
	r.Description = description.String
	return r, nil
}

// FindRoomByName returns the first live room with the given name
// (case-insensitive).
func FindRoomByName(ctx context.Context, db *sql.DB, name string) (*model.Room, error) {
	r := &model.Room{}
	var description sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, floor, name, description, is_service, created_at, deleted_at
		 FROM rooms WHERE deleted_at IS NULL AND lower(name) = lower(?)
		 ORDER BY id LIMIT 1`, strings.TrimSpace(name),
	).Scan(&r.ID, &r.Floor, &r.Name, &description, &r.IsService, &r.CreatedAt, &r.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding room: %w", err)
	}
	r.Description = description.String
	return r, nil
}

// ListRooms returns all live rooms ordered by floor and name.
func ListRooms(ctx context.Context, db *sql.DB) ([]model.Room, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, floor, name, description, is_service, created_at, deleted_at
		 FROM rooms WHERE deleted_at IS NULL ORDER BY floor, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	defer rows.Close()

	var rooms []model.Room
	for rows.Next() {
		var r model.Room
		var description sql.NullString
		if err := rows.Scan(&r.ID, &r.Floor, &r.Name, &description, &r.IsService, &r.CreatedAt, &r.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning room: %w", err)
		}
		r.Description = description.String
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

// UpdateRoom updates a room's metadata.
func UpdateRoom(ctx context.Context, db *sql.DB, id int64, in model.RoomInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	result, err := db.ExecContext(ctx,
		`UPDATE rooms SET floor = ?, name = ?, description = ?, is_service = ?
		 WHERE id = ? AND deleted_at IS NULL`,
		in.Floor, in.Name, nullString(in.Description), in.IsService, id,
	)
	if err != nil {
		return fmt.Errorf("updating room: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("room %d: %w", id, model.ErrNotFound)
	}
	return nil
}

// DeleteRoom soft-deletes a room. Rooms that still hold live equipment
// cannot be deleted.
func DeleteRoom(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var assigned int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM equipment WHERE room_id = ? AND deleted_at IS NULL`, id,
	).Scan(&assigned); err != nil {
		return fmt.Errorf("checking room equipment: %w", err)
	}
	if assigned > 0 {
		return conflictf("room still holds %d equipment records", assigned)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE rooms SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id,
	)
	if err != nil {
		return fmt.Errorf("deleting room: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("room %d: %w", id, model.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing room delete: %w", err)
	}
	return nil
}

// RoomStatistics returns every live room with its equipment totals.
func RoomStatistics(ctx context.Context, db *sql.DB) ([]model.RoomStats, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT r.id, r.floor, r.name, r.description, r.is_service, r.created_at, r.deleted_at,
		        COUNT(e.id), COALESCE(SUM(e.quantity), 0),
		        COALESCE(GROUP_CONCAT(DISTINCT t.name), '')
		 FROM rooms r
		 LEFT JOIN equipment e ON e.room_id = r.id AND e.deleted_at IS NULL
		 LEFT JOIN equipment_types t ON t.id = e.type_id
		 WHERE r.deleted_at IS NULL
		 GROUP BY r.id
		 ORDER BY r.floor, r.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying room statistics: %w", err)
	}
	defer rows.Close()

	var stats []model.RoomStats
	for rows.Next() {
		var s model.RoomStats
		var description sql.NullString
		var typeNames string
		if err := rows.Scan(&s.Room.ID, &s.Room.Floor, &s.Room.Name, &description, &s.Room.IsService,
			&s.Room.CreatedAt, &s.Room.DeletedAt, &s.EquipmentCount, &s.TotalQuantity, &typeNames); err != nil {
			return nil, fmt.Errorf("scanning room statistics: %w", err)
		}
		s.Room.Description = description.String
		if typeNames != "" {
			s.TypeNames = strings.Split(typeNames, ",")
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// RoomTypeBreakdown groups a room's live equipment by type.
func RoomTypeBreakdown(ctx context.Context, db *sql.DB, roomID int64) ([]model.TypeBreakdown, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT t.name, COUNT(e.id), SUM(e.quantity)
		 FROM equipment e
		 JOIN equipment_types t ON t.id = e.type_id
		 WHERE e.room_id = ? AND e.deleted_at IS NULL
		 GROUP BY t.id
		 ORDER BY t.name`, roomID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying room type breakdown: %w", err)
	}
	defer rows.Close()

	var breakdown []model.TypeBreakdown
	for rows.Next() {
		var b model.TypeBreakdown
		if err := rows.Scan(&b.TypeName, &b.EquipmentCount, &b.TotalQuantity); err != nil {
			return nil, fmt.Errorf("scanning room type breakdown: %w", err)
		}
		breakdown = append(breakdown, b)
	}
	return breakdown, rows.Err()
}
