package model

import (
	"fmt"
	"strings"
	"time"
)

// Room is a classroom, office, or storage location that holds equipment.
type Room struct {
	ID          int64      `json:"id"`
	Floor       int        `json:"floor"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	IsService   bool       `json:"is_service"`
	CreatedAt   time.Time  `json:"created_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// DisplayName includes the floor, e.g. "2. nadstropje / 201".
func (r Room) DisplayName() string {
	return fmt.Sprintf("%d. nadstropje / %s", r.Floor, r.Name)
}

// RoomStats summarizes the equipment held in a room.
type RoomStats struct {
	Room           Room     `json:"room"`
	EquipmentCount int      `json:"equipment_count"`
	TotalQuantity  int      `json:"total_quantity"`
	TypeNames      []string `json:"type_names"`
}

// TypeBreakdown is one equipment type's share of a room or of the registry.
type TypeBreakdown struct {
	TypeName       string `json:"type_name"`
	EquipmentCount int    `json:"equipment_count"`
	TotalQuantity  int    `json:"total_quantity"`
}

// RoomInput carries the editable fields of a room.
type RoomInput struct {
	Floor       int    `json:"floor"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsService   bool   `json:"is_service"`
}

// Validate trims the input and checks required fields.
func (in *RoomInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return fmt.Errorf("%w: room name required", ErrInvalid)
	}
	return nil
}
