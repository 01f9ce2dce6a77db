package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/popis/internal/model"
)

const sessionSelect = `SELECT s.id, s.name, s.description, s.room_id, s.status, s.created_by,
        s.created_at, s.completed_at, r.name, r.floor,
        (SELECT COUNT(*) FROM inventory_results ir WHERE ir.session_id = s.id),
        (SELECT COUNT(*) FROM equipment e WHERE e.room_id = s.room_id AND e.deleted_at IS NULL)
 FROM inventory_sessions s
 JOIN rooms r ON r.id = s.room_id`

func scanSession(sc scanner) (*model.Session, error) {
	s := &model.Session{}
	var description sql.NullString
	if err := sc.Scan(&s.ID, &s.Name, &description, &s.RoomID, &s.Status, &s.CreatedBy,
		&s.CreatedAt, &s.CompletedAt, &s.RoomName, &s.RoomFloor,
		&s.CheckedItems, &s.TotalItems); err != nil {
		return nil, err
	}
	s.Description = description.String
	return s, nil
}

// CreateSession opens a new inventory session in the draft state.
func CreateSession(ctx context.Context, db *sql.DB, in model.NewSession) (*model.Session, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO inventory_sessions (name, description, room_id, status, created_by)
		 VALUES (?, ?, ?, ?, ?)`,
		strings.TrimSpace(in.Name), nullString(strings.TrimSpace(in.Description)), in.RoomID,
		model.SessionDraft, strings.TrimSpace(in.CreatedBy),
	)
	if err != nil {
		return nil, fmt.Errorf("creating inventory session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting inventory session id: %w", err)
	}

	return GetSession(ctx, db, id)
}

// GetSession returns an inventory session with its room and counters.
func GetSession(ctx context.Context, db *sql.DB, id int64) (*model.Session, error) {
	s, err := scanSession(db.QueryRowContext(ctx, sessionSelect+` WHERE s.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting inventory session: %w", err)
	}
	return s, nil
}

// ListSessions returns all inventory sessions, newest first.
func ListSessions(ctx context.Context, db *sql.DB) ([]model.Session, error) {
	rows, err := db.QueryContext(ctx, sessionSelect+` ORDER BY s.created_at DESC, s.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing inventory sessions: %w", err)
	}
	defer rows.Close()

	var list []model.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning inventory session: %w", err)
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

// ReplaceResults deletes every result of a session, inserts rows and moves
// the session to status, all in one transaction. completed_at is set when
// status is completed. A session that is already completed is left as is
// and model.ErrSessionCompleted is returned.
func ReplaceResults(ctx context.Context, db *sql.DB, sessionID int64, rows []model.ResultRow, status model.SessionStatus) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var current model.SessionStatus
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM inventory_sessions WHERE id = ?`, sessionID,
	).Scan(&current)
	if err == sql.ErrNoRows {
		return fmt.Errorf("inventory session %d: %w", sessionID, model.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("getting inventory session status: %w", err)
	}
	if current.Terminal() {
		return model.ErrSessionCompleted
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM inventory_results WHERE session_id = ?`, sessionID,
	); err != nil {
		return fmt.Errorf("clearing inventory results: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO inventory_results (session_id, equipment_id, expected_quantity, actual_quantity, note)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("preparing inventory result insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, sessionID, r.EquipmentID, r.Expected, r.Actual, nullString(r.Note)); err != nil {
			return fmt.Errorf("inserting inventory result for equipment %d: %w", r.EquipmentID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE inventory_sessions
		 SET status = ?, completed_at = CASE WHEN ? = 'completed' THEN CURRENT_TIMESTAMP ELSE NULL END
		 WHERE id = ?`,
		status, status, sessionID,
	); err != nil {
		return fmt.Errorf("updating inventory session status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing inventory results: %w", err)
	}
	return nil
}

// ListResults returns the persisted results of a session with equipment
// details, ordered like the count sheet.
func ListResults(ctx context.Context, db *sql.DB, sessionID int64) ([]model.Result, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT ir.id, ir.session_id, ir.equipment_id, ir.expected_quantity, ir.actual_quantity,
		        ir.note, ir.checked_at, e.name, e.inventory_number, e.serial_number, t.name
		 FROM inventory_results ir
		 JOIN equipment e ON e.id = ir.equipment_id
		 JOIN equipment_types t ON t.id = e.type_id
		 WHERE ir.session_id = ?
		 ORDER BY t.name, e.name, e.id`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing inventory results: %w", err)
	}
	defer rows.Close()

	var list []model.Result
	for rows.Next() {
		var r model.Result
		var note, invNumber, serial sql.NullString
		if err := rows.Scan(&r.ID, &r.SessionID, &r.EquipmentID, &r.ExpectedQuantity, &r.ActualQuantity,
			&note, &r.CheckedAt, &r.EquipmentName, &invNumber, &serial, &r.TypeName); err != nil {
			return nil, fmt.Errorf("scanning inventory result: %w", err)
		}
		r.Note = note.String
		r.InventoryNumber = invNumber.String
		r.SerialNumber = serial.String
		list = append(list, r)
	}
	return list, rows.Err()
}

// AddAdditionalItem records an item found during a count that is not in
// the registry.
func AddAdditionalItem(ctx context.Context, db *sql.DB, item model.AdditionalItem) (*model.AdditionalItem, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO inventory_additional_items (session_id, name, type_name, quantity, note)
		 VALUES (?, ?, ?, ?, ?)`,
		item.SessionID, item.Name, item.TypeName, item.Quantity, nullString(item.Note),
	)
	if err != nil {
		return nil, fmt.Errorf("adding additional item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting additional item id: %w", err)
	}

	added := &model.AdditionalItem{}
	var note sql.NullString
	if err := db.QueryRowContext(ctx,
		`SELECT id, session_id, name, type_name, quantity, note, created_at
		 FROM inventory_additional_items WHERE id = ?`, id,
	).Scan(&added.ID, &added.SessionID, &added.Name, &added.TypeName, &added.Quantity, &note, &added.CreatedAt); err != nil {
		return nil, fmt.Errorf("getting additional item: %w", err)
	}
	added.Note = note.String
	return added, nil
}

// RemoveAdditionalItem deletes an additional item of a session. Removing an
// item that does not exist is not an error.
func RemoveAdditionalItem(ctx context.Context, db *sql.DB, sessionID, itemID int64) error {
	if _, err := db.ExecContext(ctx,
		`DELETE FROM inventory_additional_items WHERE id = ? AND session_id = ?`, itemID, sessionID,
	); err != nil {
		return fmt.Errorf("removing additional item: %w", err)
	}
	return nil
}

// ListAdditionalItems returns the additional items of a session in the
// order they were added.
func ListAdditionalItems(ctx context.Context, db *sql.DB, sessionID int64) ([]model.AdditionalItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, session_id, name, type_name, quantity, note, created_at
		 FROM inventory_additional_items WHERE session_id = ? ORDER BY id`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing additional items: %w", err)
	}
	defer rows.Close()

	var list []model.AdditionalItem
	for rows.Next() {
		var a model.AdditionalItem
		var note sql.NullString
		if err := rows.Scan(&a.ID, &a.SessionID, &a.Name, &a.TypeName, &a.Quantity, &note, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning additional item: %w", err)
		}
		a.Note = note.String
		list = append(list, a)
	}
	return list, rows.Err()
}

// DeleteSession removes a session together with its results and additional
// items. It reports whether the session existed.
func DeleteSession(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_results WHERE session_id = ?`, id); err != nil {
		return false, fmt.Errorf("deleting inventory results: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_additional_items WHERE session_id = ?`, id); err != nil {
		return false, fmt.Errorf("deleting additional items: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM inventory_sessions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting inventory session: %w", err)
	}
	n, _ := result.RowsAffected()

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing inventory session delete: %w", err)
	}
	return n > 0, nil
}
