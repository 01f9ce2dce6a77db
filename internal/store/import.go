package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/popis/internal/model"
)

// ImportEquipment creates one equipment record per row. Types and rooms are
// matched by name; rows that fail are reported in the result and skipped.
func ImportEquipment(ctx context.Context, db *sql.DB, rows []model.ImportRow) (*model.BatchResult, error) {
	res := &model.BatchResult{Total: len(rows)}
	for _, row := range rows {
		if err := importRow(ctx, db, row); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			res.Errors = append(res.Errors, fmt.Sprintf("line %d: %v", row.Line, err))
			continue
		}
		res.Created++
	}
	return res, nil
}

func importRow(ctx context.Context, db *sql.DB, row model.ImportRow) error {
	if row.Problem != "" {
		return fmt.Errorf("%w: %s", model.ErrInvalid, row.Problem)
	}
	if row.TypeName == "" {
		return fmt.Errorf("%w: type_name required", model.ErrInvalid)
	}
	if row.InventoryNumber == "" {
		return fmt.Errorf("%w: inventory_number required", model.ErrInvalid)
	}

	t, err := FindTypeByName(ctx, db, row.TypeName)
	if err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("%w: unknown equipment type %q", model.ErrInvalid, row.TypeName)
	}

	var roomID *int64
	if row.RoomName != "" {
		r, err := FindRoomByName(ctx, db, row.RoomName)
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("%w: unknown room %q", model.ErrInvalid, row.RoomName)
		}
		roomID = &r.ID
	}

	status, err := model.ParseEquipmentStatus(row.Status)
	if err != nil {
		return err
	}

	name := row.Name
	if name == "" {
		name = t.Name
	}

	_, err = CreateEquipment(ctx, db, model.EquipmentInput{
		Name:            name,
		TypeID:          t.ID,
		InventoryNumber: row.InventoryNumber,
		SerialNumber:    row.SerialNumber,
		RoomID:          roomID,
		Quantity:        row.Quantity,
		Status:          status,
		PurchaseDate:    row.PurchaseDate,
		Comment:         row.Comment,
	})
	return err
}
