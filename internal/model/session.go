package model

import (
	"errors"
	"fmt"
	"time"
)

// SessionStatus is the lifecycle state of an inventory session.
type SessionStatus string

// Session statuses. A session moves draft -> in_progress -> completed and
// never leaves completed.
const (
	SessionDraft      SessionStatus = "draft"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
)

// ErrSessionCompleted is returned when a completed session would change.
var ErrSessionCompleted = errors.New("inventory session already completed")

// ParseSessionStatus validates s.
func ParseSessionStatus(s string) (SessionStatus, error) {
	switch st := SessionStatus(s); st {
	case SessionDraft, SessionInProgress, SessionCompleted:
		return st, nil
	default:
		return "", fmt.Errorf("%w: unknown session status %q", ErrInvalid, s)
	}
}

// Terminal reports whether no further transition is allowed.
func (s SessionStatus) Terminal() bool {
	switch s {
	case SessionCompleted:
		return true
	case SessionDraft, SessionInProgress:
		return false
	default:
		panic(fmt.Sprintf("unhandled session status %q", string(s)))
	}
}

// Next returns the status after saving results. A draft save moves the
// session to in_progress, a final save completes it.
func (s SessionStatus) Next(isFinal bool) (SessionStatus, error) {
	switch s {
	case SessionDraft, SessionInProgress:
		if isFinal {
			return SessionCompleted, nil
		}
		return SessionInProgress, nil
	case SessionCompleted:
		return s, ErrSessionCompleted
	default:
		return s, fmt.Errorf("%w: unknown session status %q", ErrInvalid, string(s))
	}
}

// Label returns the display name of the status.
func (s SessionStatus) Label() string {
	switch s {
	case SessionDraft:
		return "Osnutek"
	case SessionInProgress:
		return "V teku"
	case SessionCompleted:
		return "Zaključen"
	default:
		return string(s)
	}
}

// Session is one physical count of a room.
type Session struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	RoomID      int64         `json:"room_id"`
	Status      SessionStatus `json:"status"`
	CreatedBy   string        `json:"created_by"`
	CreatedAt   time.Time     `json:"created_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`

	// Joined fields (not always populated).
	RoomName     string `json:"room_name,omitempty"`
	RoomFloor    int    `json:"room_floor,omitempty"`
	CheckedItems int    `json:"checked_items,omitempty"`
	TotalItems   int    `json:"total_items,omitempty"`
}

// Result is the persisted count of one equipment row within a session.
type Result struct {
	ID               int64     `json:"id"`
	SessionID        int64     `json:"session_id"`
	EquipmentID      int64     `json:"equipment_id"`
	ExpectedQuantity int       `json:"expected_quantity"`
	ActualQuantity   int       `json:"actual_quantity"`
	Note             string    `json:"note,omitempty"`
	CheckedAt        time.Time `json:"checked_at"`

	// Joined fields (not always populated).
	EquipmentName   string `json:"equipment_name,omitempty"`
	InventoryNumber string `json:"inventory_number,omitempty"`
	SerialNumber    string `json:"serial_number,omitempty"`
	TypeName        string `json:"type_name,omitempty"`
}

// ResultRow is one row to persist when results are replaced.
type ResultRow struct {
	EquipmentID int64
	Expected    int
	Actual      int
	Note        string
}

// AdditionalItem is equipment found during a count that has no registry row.
type AdditionalItem struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	Name      string    `json:"name"`
	TypeName  string    `json:"type_name"`
	Quantity  int       `json:"quantity"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DefaultAdditionalType is used when an additional item has no type.
const DefaultAdditionalType = "Other"

// NewSession carries the fields needed to open a session.
type NewSession struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	RoomID      int64  `json:"room_id"`
	CreatedBy   string `json:"created_by"`
}
