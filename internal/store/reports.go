package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/popis/internal/model"
)

// StatusSummary counts live equipment per status. Every status is present,
// in display order, even when it has no equipment.
func StatusSummary(ctx context.Context, db *sql.DB) ([]model.StatusCount, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT status, COUNT(*), SUM(quantity)
		 FROM equipment WHERE deleted_at IS NULL
		 GROUP BY status`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying status summary: %w", err)
	}
	defer rows.Close()

	byStatus := make(map[model.EquipmentStatus]model.StatusCount)
	for rows.Next() {
		var c model.StatusCount
		if err := rows.Scan(&c.Status, &c.EquipmentCount, &c.TotalQuantity); err != nil {
			return nil, fmt.Errorf("scanning status summary: %w", err)
		}
		byStatus[c.Status] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	summary := make([]model.StatusCount, 0, len(model.EquipmentStatuses))
	for _, st := range model.EquipmentStatuses {
		c := byStatus[st]
		c.Status = st
		summary = append(summary, c)
	}
	return summary, nil
}

// TypeSummaries splits live equipment of each type by status.
func TypeSummaries(ctx context.Context, db *sql.DB) ([]model.TypeSummary, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT t.name, COUNT(e.id), COALESCE(SUM(e.quantity), 0),
		        COUNT(CASE WHEN e.status = 'active' THEN 1 END),
		        COUNT(CASE WHEN e.status = 'repair' THEN 1 END),
		        COUNT(CASE WHEN e.status = 'broken' THEN 1 END),
		        COUNT(CASE WHEN e.status = 'written_off' THEN 1 END)
		 FROM equipment_types t
		 LEFT JOIN equipment e ON e.type_id = t.id AND e.deleted_at IS NULL
		 WHERE t.deleted_at IS NULL
		 GROUP BY t.id
		 ORDER BY t.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying type summary: %w", err)
	}
	defer rows.Close()

	var list []model.TypeSummary
	for rows.Next() {
		var s model.TypeSummary
		if err := rows.Scan(&s.TypeName, &s.Total, &s.TotalQuantity,
			&s.Active, &s.Repair, &s.Broken, &s.WrittenOff); err != nil {
			return nil, fmt.Errorf("scanning type summary: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// GetOverview returns the dashboard counters.
func GetOverview(ctx context.Context, db *sql.DB) (*model.Overview, error) {
	o := &model.Overview{}
	err := db.QueryRowContext(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM equipment WHERE deleted_at IS NULL),
		   (SELECT COALESCE(SUM(quantity), 0) FROM equipment WHERE deleted_at IS NULL),
		   (SELECT COUNT(*) FROM rooms WHERE deleted_at IS NULL),
		   (SELECT COUNT(*) FROM equipment_types WHERE deleted_at IS NULL),
		   (SELECT COUNT(*) FROM equipment WHERE deleted_at IS NULL AND room_id IS NULL),
		   (SELECT COUNT(*) FROM inventory_sessions WHERE status != 'completed')`,
	).Scan(&o.Equipment, &o.TotalQuantity, &o.Rooms, &o.Types, &o.Unassigned, &o.OpenSessions)
	if err != nil {
		return nil, fmt.Errorf("querying overview: %w", err)
	}
	return o, nil
}
