package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/popis/internal/model"
)

const equipmentSelect = `SELECT e.id, e.name, e.type_id, e.inventory_number, e.serial_number, e.room_id,
        e.quantity, e.status, e.purchase_date, e.comment, e.photo_ref,
        e.created_at, e.updated_at, e.deleted_at,
        t.name, r.name, r.floor
 FROM equipment e
 JOIN equipment_types t ON t.id = e.type_id
 LEFT JOIN rooms r ON r.id = e.room_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanEquipment(s scanner) (*model.Equipment, error) {
	e := &model.Equipment{}
	var invNumber, serial, purchaseDate, comment, photoRef, roomName sql.NullString
	err := s.Scan(&e.ID, &e.Name, &e.TypeID, &invNumber, &serial, &e.RoomID,
		&e.Quantity, &e.Status, &purchaseDate, &comment, &photoRef,
		&e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
		&e.TypeName, &roomName, &e.RoomFloor)
	if err != nil {
		return nil, err
	}
	e.InventoryNumber = invNumber.String
	e.SerialNumber = serial.String
	e.PurchaseDate = purchaseDate.String
	e.Comment = comment.String
	e.PhotoRef = photoRef.String
	e.RoomName = roomName.String
	return e, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// checkReferences verifies that the type and the optional room are live.
func checkReferences(ctx context.Context, q queryer, typeID int64, roomID *int64) error {
	var n int
	if err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM equipment_types WHERE id = ? AND deleted_at IS NULL`, typeID,
	).Scan(&n); err != nil {
		return fmt.Errorf("checking equipment type: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: unknown equipment type %d", model.ErrInvalid, typeID)
	}

	if roomID == nil {
		return nil
	}
	if err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rooms WHERE id = ? AND deleted_at IS NULL`, *roomID,
	).Scan(&n); err != nil {
		return fmt.Errorf("checking room: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: unknown room %d", model.ErrInvalid, *roomID)
	}
	return nil
}

func insertEquipment(ctx context.Context, tx *sql.Tx, in model.EquipmentInput) (int64, error) {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO equipment (name, type_id, inventory_number, serial_number, room_id,
		                        quantity, status, purchase_date, comment)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.TypeID, nullString(in.InventoryNumber), nullString(in.SerialNumber), nullInt64(in.RoomID),
		in.Quantity, in.Status, nullString(in.PurchaseDate), nullString(in.Comment),
	)
	if isUniqueViolation(err) {
		return 0, conflictf("inventory number %q already in use", in.InventoryNumber)
	}
	if err != nil {
		return 0, fmt.Errorf("creating equipment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting equipment id: %w", err)
	}
	return id, nil
}

// CreateEquipment validates and creates an equipment record. Creating
// equipment directly in a room does not record a movement.
func CreateEquipment(ctx context.Context, db *sql.DB, in model.EquipmentInput) (*model.Equipment, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := checkReferences(ctx, tx, in.TypeID, in.RoomID); err != nil {
		return nil, err
	}
	id, err := insertEquipment(ctx, tx, in)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing equipment: %w", err)
	}
	return GetEquipment(ctx, db, id)
}

// GetEquipment returns an equipment record by ID, including soft-deleted ones.
func GetEquipment(ctx context.Context, db *sql.DB, id int64) (*model.Equipment, error) {
	e, err := scanEquipment(db.QueryRowContext(ctx, equipmentSelect+` WHERE e.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting equipment: %w", err)
	}
	return e, nil
}

// ListEquipment returns live equipment matching the filter, ordered by name.
func ListEquipment(ctx context.Context, db *sql.DB, f model.EquipmentFilter) ([]model.Equipment, error) {
	where := []string{"e.deleted_at IS NULL"}
	var args []any

	if f.TypeID > 0 {
		where = append(where, "e.type_id = ?")
		args = append(args, f.TypeID)
	}
	if f.Status != "" {
		where = append(where, "e.status = ?")
		args = append(args, f.Status)
	}
	switch {
	case f.Unassigned:
		where = append(where, "e.room_id IS NULL")
	case f.RoomID > 0:
		where = append(where, "e.room_id = ?")
		args = append(args, f.RoomID)
	}

	query := equipmentSelect + ` WHERE ` + strings.Join(where, " AND ") + ` ORDER BY e.name, e.id`
	return queryEquipment(ctx, db, query, args...)
}

// ListEquipmentByRoom returns the live equipment assigned to a room, ordered
// by type and name. It is the baseline of an inventory count.
func ListEquipmentByRoom(ctx context.Context, db *sql.DB, roomID int64) ([]model.Equipment, error) {
	return queryEquipment(ctx, db,
		equipmentSelect+` WHERE e.room_id = ? AND e.deleted_at IS NULL ORDER BY t.name, e.name, e.id`,
		roomID,
	)
}

func queryEquipment(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.Equipment, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing equipment: %w", err)
	}
	defer rows.Close()

	var list []model.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning equipment: %w", err)
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// UpdateEquipment edits an equipment record. A room change made here is a
// data correction and is not recorded as a movement; use MoveEquipment for
// physical relocations.
func UpdateEquipment(ctx context.Context, db *sql.DB, id int64, in model.EquipmentInput) error {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := checkReferences(ctx, tx, in.TypeID, in.RoomID); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE equipment SET name = ?, type_id = ?, inventory_number = ?, serial_number = ?,
		        room_id = ?, quantity = ?, status = ?, purchase_date = ?, comment = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		in.Name, in.TypeID, nullString(in.InventoryNumber), nullString(in.SerialNumber),
		nullInt64(in.RoomID), in.Quantity, in.Status, nullString(in.PurchaseDate), nullString(in.Comment),
		id,
	)
	if isUniqueViolation(err) {
		return conflictf("inventory number %q already in use", in.InventoryNumber)
	}
	if err != nil {
		return fmt.Errorf("updating equipment: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("equipment %d: %w", id, model.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing equipment update: %w", err)
	}
	return nil
}

// DeleteEquipment soft-deletes an equipment record. Movement and count
// history keep referring to it.
func DeleteEquipment(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE equipment SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id,
	)
	if err != nil {
		return fmt.Errorf("deleting equipment: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("equipment %d: %w", id, model.ErrNotFound)
	}
	return nil
}

// SetEquipmentPhoto stores a photo reference and returns the one it replaced.
func SetEquipmentPhoto(ctx context.Context, db *sql.DB, id int64, ref string) (string, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var old sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT photo_ref FROM equipment WHERE id = ? AND deleted_at IS NULL`, id,
	).Scan(&old)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("equipment %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("getting equipment photo: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE equipment SET photo_ref = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		nullString(ref), id,
	); err != nil {
		return "", fmt.Errorf("setting equipment photo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing equipment photo: %w", err)
	}
	return old.String, nil
}

// CountPhotoReferences returns how many equipment records use a photo.
func CountPhotoReferences(ctx context.Context, db *sql.DB, ref string) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM equipment WHERE photo_ref = ?`, ref,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting photo references: %w", err)
	}
	return n, nil
}

// GroupAddEquipment creates the units described by spec in one room. Each
// unit is created together with its initial-placement movement in its own
// transaction; failed units are reported in the result and do not stop the
// batch.
func GroupAddEquipment(ctx context.Context, db *sql.DB, spec model.GroupSpec) (*model.BatchResult, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	roomID := spec.RoomID
	if err := checkReferences(ctx, db, spec.TypeID, &roomID); err != nil {
		return nil, err
	}

	units := spec.Units()
	res := &model.BatchResult{Total: len(units)}
	for i, u := range units {
		in := model.EquipmentInput{
			Name:            u.Name,
			TypeID:          spec.TypeID,
			InventoryNumber: u.InventoryNumber,
			RoomID:          &roomID,
			Quantity:        1,
			Status:          spec.Status,
			PurchaseDate:    spec.PurchaseDate,
			Comment:         spec.Comment,
		}
		in.Normalize()
		if err := in.Validate(); err != nil {
			return nil, err
		}

		if err := createPlaced(ctx, db, in, roomID); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			res.Errors = append(res.Errors, fmt.Sprintf("unit %d (%s): %v", i+1, u.Name, err))
			continue
		}
		res.Created++
	}
	return res, nil
}

func createPlaced(ctx context.Context, db *sql.DB, in model.EquipmentInput, roomID int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := insertEquipment(ctx, tx, in)
	if err != nil {
		return err
	}
	if _, err := RecordMovement(ctx, tx, id, nil, roomID, model.GroupAddReason); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing equipment: %w", err)
	}
	return nil
}
