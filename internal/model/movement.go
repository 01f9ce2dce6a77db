package model

import "time"

// Movement records equipment relocating between rooms. FromRoomID is nil for
// an initial placement.
type Movement struct {
	ID          int64     `json:"id"`
	EquipmentID int64     `json:"equipment_id"`
	FromRoomID  *int64    `json:"from_room_id,omitempty"`
	ToRoomID    int64     `json:"to_room_id"`
	Reason      string    `json:"reason"`
	MovedAt     time.Time `json:"moved_at"`

	// Joined fields (not always populated).
	EquipmentName   string `json:"equipment_name,omitempty"`
	InventoryNumber string `json:"inventory_number,omitempty"`
	FromRoomName    string `json:"from_room_name,omitempty"`
	ToRoomName      string `json:"to_room_name,omitempty"`
}

// DefaultMoveReason is stored when a move gives no reason.
const DefaultMoveReason = "Not specified"

// GroupAddReason is the reason recorded for group-add placements.
const GroupAddReason = "Skupinski vnos opreme"
