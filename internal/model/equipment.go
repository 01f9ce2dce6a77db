package model

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// EquipmentStatus is the condition of an equipment record.
type EquipmentStatus string

// Equipment statuses.
const (
	EquipmentActive     EquipmentStatus = "active"
	EquipmentRepair     EquipmentStatus = "repair"
	EquipmentBroken     EquipmentStatus = "broken"
	EquipmentWrittenOff EquipmentStatus = "written_off"
)

// EquipmentStatuses lists every status in display order.
var EquipmentStatuses = []EquipmentStatus{
	EquipmentActive,
	EquipmentRepair,
	EquipmentBroken,
	EquipmentWrittenOff,
}

// ParseEquipmentStatus validates s. An empty string means active.
func ParseEquipmentStatus(s string) (EquipmentStatus, error) {
	if s == "" {
		return EquipmentActive, nil
	}
	for _, st := range EquipmentStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown equipment status %q", ErrInvalid, s)
}

// Label returns the display name of the status.
func (s EquipmentStatus) Label() string {
	switch s {
	case EquipmentActive:
		return "V uporabi"
	case EquipmentRepair:
		return "V popravilu"
	case EquipmentBroken:
		return "Pokvarjeno"
	case EquipmentWrittenOff:
		return "Odpisano"
	default:
		return string(s)
	}
}

// EquipmentType groups equipment (monitor, chair, projector...).
type EquipmentType struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	// Joined fields (not always populated).
	EquipmentCount int `json:"equipment_count,omitempty"`
}

// Equipment is one registry row. Quantity counts identical co-located units,
// so 25 chairs in one room can be a single row.
type Equipment struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	TypeID          int64           `json:"type_id"`
	InventoryNumber string          `json:"inventory_number,omitempty"`
	SerialNumber    string          `json:"serial_number,omitempty"`
	RoomID          *int64          `json:"room_id,omitempty"`
	Quantity        int             `json:"quantity"`
	Status          EquipmentStatus `json:"status"`
	PurchaseDate    string          `json:"purchase_date,omitempty"`
	Comment         string          `json:"comment,omitempty"`
	PhotoRef        string          `json:"photo_ref,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       *time.Time      `json:"deleted_at,omitempty"`

	// Joined fields (not always populated).
	TypeName  string `json:"type_name,omitempty"`
	RoomName  string `json:"room_name,omitempty"`
	RoomFloor *int   `json:"room_floor,omitempty"`
}

// EquipmentInput carries the editable fields of an equipment record.
type EquipmentInput struct {
	Name            string          `json:"name"`
	TypeID          int64           `json:"type_id"`
	InventoryNumber string          `json:"inventory_number"`
	SerialNumber    string          `json:"serial_number"`
	RoomID          *int64          `json:"room_id"`
	Quantity        int             `json:"quantity"`
	Status          EquipmentStatus `json:"status"`
	PurchaseDate    string          `json:"purchase_date"`
	Comment         string          `json:"comment"`
}

// Normalize trims text fields and applies defaults (quantity 1, status active).
func (in *EquipmentInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.InventoryNumber = strings.TrimSpace(in.InventoryNumber)
	in.SerialNumber = strings.TrimSpace(in.SerialNumber)
	in.PurchaseDate = strings.TrimSpace(in.PurchaseDate)
	in.Comment = strings.TrimSpace(in.Comment)
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Status == "" {
		in.Status = EquipmentActive
	}
	if in.RoomID != nil && *in.RoomID <= 0 {
		in.RoomID = nil
	}
}

// Validate checks the input after Normalize.
func (in *EquipmentInput) Validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalid)
	}
	if in.TypeID <= 0 {
		return fmt.Errorf("%w: type required", ErrInvalid)
	}
	if in.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalid)
	}
	if _, err := ParseEquipmentStatus(string(in.Status)); err != nil {
		return err
	}
	if in.PurchaseDate != "" {
		if _, err := time.Parse(time.DateOnly, in.PurchaseDate); err != nil {
			return fmt.Errorf("%w: purchase date must be YYYY-MM-DD", ErrInvalid)
		}
	}
	return nil
}

// EquipmentFilter narrows an equipment listing. Zero values match everything.
type EquipmentFilter struct {
	TypeID     int64
	Status     EquipmentStatus
	RoomID     int64
	Unassigned bool
}

// ParseEquipmentFilter reads a filter from the query parameters type,
// status and room. room may be a room id or "unassigned".
func ParseEquipmentFilter(q url.Values) (EquipmentFilter, error) {
	var f EquipmentFilter
	if v := q.Get("type"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return f, fmt.Errorf("%w: invalid type filter %q", ErrInvalid, v)
		}
		f.TypeID = id
	}
	if v := q.Get("status"); v != "" {
		st, err := ParseEquipmentStatus(v)
		if err != nil {
			return f, err
		}
		f.Status = st
	}
	switch v := q.Get("room"); v {
	case "":
	case "unassigned":
		f.Unassigned = true
	default:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return f, fmt.Errorf("%w: invalid room filter %q", ErrInvalid, v)
		}
		f.RoomID = id
	}
	return f, nil
}
