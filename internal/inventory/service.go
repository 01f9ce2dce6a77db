package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/erazemk/popis/internal/model"
)

// Registry is the read side of the equipment registry.
type Registry interface {
	ListEquipmentByRoom(ctx context.Context, roomID int64) ([]model.Equipment, error)
	GetEquipment(ctx context.Context, id int64) (*model.Equipment, error)
	ListTypes(ctx context.Context) ([]model.EquipmentType, error)
}

// Rooms looks up rooms.
type Rooms interface {
	GetRoom(ctx context.Context, id int64) (*model.Room, error)
}

// Sessions persists sessions, their results and their additional items.
// Getters return nil, nil when the row does not exist.
type Sessions interface {
	CreateSession(ctx context.Context, in model.NewSession) (*model.Session, error)
	GetSession(ctx context.Context, id int64) (*model.Session, error)
	ReplaceResults(ctx context.Context, sessionID int64, rows []model.ResultRow, status model.SessionStatus) error
	ListResults(ctx context.Context, sessionID int64) ([]model.Result, error)
	AddAdditionalItem(ctx context.Context, item model.AdditionalItem) (*model.AdditionalItem, error)
	RemoveAdditionalItem(ctx context.Context, sessionID, itemID int64) error
	ListAdditionalItems(ctx context.Context, sessionID int64) ([]model.AdditionalItem, error)
	DeleteSession(ctx context.Context, id int64) (bool, error)
}

// DefaultCreatedBy is recorded when a session names no author.
const DefaultCreatedBy = "Skrbnik"

// Service runs the count workflow: open a session, present the count sheet,
// save counts as a draft or final, and report.
type Service struct {
	registry Registry
	rooms    Rooms
	sessions Sessions
}

// NewService creates a Service.
func NewService(registry Registry, rooms Rooms, sessions Sessions) *Service {
	return &Service{registry: registry, rooms: rooms, sessions: sessions}
}

// ResultInput is the count submitted for one equipment row.
type ResultInput struct {
	Expected int    `json:"expected"`
	Actual   int    `json:"actual"`
	Note     string `json:"note"`
}

// AdditionalInput describes an item found in the room but not in the registry.
type AdditionalInput struct {
	Name     string `json:"name"`
	TypeName string `json:"type_name"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note"`
}

// SheetRow is one line of the count sheet. Actual is nil until the row has
// been counted and saved.
type SheetRow struct {
	Equipment   model.Equipment `json:"equipment"`
	Expected    int             `json:"expected"`
	Actual      *int            `json:"actual,omitempty"`
	Note        string          `json:"note,omitempty"`
	Discrepancy *Discrepancy    `json:"discrepancy,omitempty"`
}

// Sheet is everything needed to conduct a count.
type Sheet struct {
	Session         model.Session          `json:"session"`
	Rows            []SheetRow             `json:"rows"`
	AdditionalItems []model.AdditionalItem `json:"additional_items"`
	TypeNames       []string               `json:"type_names"`
	Stats           Stats                  `json:"stats"`
}

// SaveOutcome reports the session status after a save.
type SaveOutcome struct {
	Status  model.SessionStatus `json:"status"`
	Message string              `json:"message"`
}

// CreateSession opens a draft session for a live room.
func (s *Service) CreateSession(ctx context.Context, in model.NewSession) (*model.Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.CreatedBy = strings.TrimSpace(in.CreatedBy)
	if in.Name == "" {
		return nil, invalid("session name is required")
	}
	if in.RoomID <= 0 {
		return nil, invalid("room is required")
	}
	if in.CreatedBy == "" {
		in.CreatedBy = DefaultCreatedBy
	}

	room, err := s.rooms.GetRoom(ctx, in.RoomID)
	if err != nil {
		return nil, storageErr("getting room", err)
	}
	if room == nil || room.DeletedAt != nil {
		return nil, invalid("room %d does not exist", in.RoomID)
	}

	session, err := s.sessions.CreateSession(ctx, in)
	if err != nil {
		return nil, storageErr("creating session", err)
	}
	return session, nil
}

func (s *Service) getSession(ctx context.Context, id int64) (*model.Session, error) {
	session, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		return nil, storageErr("getting session", err)
	}
	if session == nil {
		return nil, fmt.Errorf("inventory session %d: %w", id, ErrNotFound)
	}
	return session, nil
}

// Sheet loads a session, then the equipment of its room, then the saved
// counts, additional items and type names. Saved counts for equipment that
// has since left the room are kept on the sheet.
func (s *Service) Sheet(ctx context.Context, sessionID int64) (*Sheet, error) {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	equipment, err := s.registry.ListEquipmentByRoom(ctx, session.RoomID)
	if err != nil {
		return nil, storageErr("listing room equipment", err)
	}
	results, err := s.sessions.ListResults(ctx, session.ID)
	if err != nil {
		return nil, storageErr("listing results", err)
	}
	additional, err := s.sessions.ListAdditionalItems(ctx, session.ID)
	if err != nil {
		return nil, storageErr("listing additional items", err)
	}
	types, err := s.registry.ListTypes(ctx)
	if err != nil {
		return nil, storageErr("listing equipment types", err)
	}

	saved := make(map[int64]model.Result, len(results))
	for _, r := range results {
		saved[r.EquipmentID] = r
	}

	sheet := &Sheet{Session: *session, AdditionalItems: additional}
	for _, e := range equipment {
		row := SheetRow{Equipment: e, Expected: e.Quantity}
		if r, ok := saved[e.ID]; ok {
			row.Expected = r.ExpectedQuantity
			row.Note = r.Note
			row.Actual = &r.ActualQuantity
			delete(saved, e.ID)
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	for _, r := range results {
		if _, ok := saved[r.EquipmentID]; !ok {
			continue
		}
		actual := r.ActualQuantity
		sheet.Rows = append(sheet.Rows, SheetRow{
			Equipment: model.Equipment{
				ID:              r.EquipmentID,
				Name:            r.EquipmentName,
				InventoryNumber: r.InventoryNumber,
				SerialNumber:    r.SerialNumber,
				TypeName:        r.TypeName,
			},
			Expected: r.ExpectedQuantity,
			Actual:   &actual,
			Note:     r.Note,
		})
	}

	var counted []Counted
	for i := range sheet.Rows {
		row := &sheet.Rows[i]
		if row.Actual == nil {
			continue
		}
		d := ComputeItemStatus(row.Expected, *row.Actual)
		row.Discrepancy = &d
		counted = append(counted, Counted{Expected: row.Expected, Actual: *row.Actual})
	}
	sheet.Stats = ComputeStatistics(counted)

	for _, t := range types {
		sheet.TypeNames = append(sheet.TypeNames, t.Name)
	}
	return sheet, nil
}

// SaveResults replaces every saved count of a session with results and
// moves the session to in_progress, or to completed when isFinal is set.
// The replacement and the status change happen atomically. Completed
// sessions cannot be saved again.
func (s *Service) SaveResults(ctx context.Context, sessionID int64, results map[int64]ResultInput, isFinal bool) (*SaveOutcome, error) {
	if results == nil {
		return nil, invalid("no results to save")
	}
	for id, r := range results {
		if id <= 0 {
			return nil, invalid("invalid equipment id %d", id)
		}
		if r.Expected < 0 || r.Actual < 0 {
			return nil, invalid("quantities for equipment %d must not be negative", id)
		}
	}

	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	next, err := session.Status.Next(isFinal)
	if errors.Is(err, model.ErrSessionCompleted) {
		return nil, invalid("inventory session %d is already completed", sessionID)
	}
	if err != nil {
		return nil, invalid("%v", err)
	}

	if err := s.checkEquipment(ctx, session, results); err != nil {
		return nil, err
	}

	rows := make([]model.ResultRow, 0, len(results))
	for id, r := range results {
		rows = append(rows, model.ResultRow{
			EquipmentID: id,
			Expected:    r.Expected,
			Actual:      r.Actual,
			Note:        strings.TrimSpace(r.Note),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].EquipmentID < rows[j].EquipmentID })

	err = s.sessions.ReplaceResults(ctx, session.ID, rows, next)
	switch {
	case errors.Is(err, model.ErrSessionCompleted):
		return nil, invalid("inventory session %d is already completed", sessionID)
	case errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("inventory session %d: %w", sessionID, ErrNotFound)
	case err != nil:
		return nil, storageErr("saving results", err)
	}

	out := &SaveOutcome{Status: next, Message: "Draft saved"}
	if next == model.SessionCompleted {
		out.Message = "Inventory completed"
	}
	return out, nil
}

// checkEquipment rejects counts for equipment that does not exist.
func (s *Service) checkEquipment(ctx context.Context, session *model.Session, results map[int64]ResultInput) error {
	known := make(map[int64]bool)
	inRoom, err := s.registry.ListEquipmentByRoom(ctx, session.RoomID)
	if err != nil {
		return storageErr("listing room equipment", err)
	}
	for _, e := range inRoom {
		known[e.ID] = true
	}

	// Deleted equipment outside the room is only accepted when the session
	// already holds a count for it.
	var saved map[int64]bool
	for id := range results {
		if known[id] {
			continue
		}
		e, err := s.registry.GetEquipment(ctx, id)
		if err != nil {
			return storageErr("getting equipment", err)
		}
		if e == nil {
			return invalid("equipment %d does not exist", id)
		}
		if e.DeletedAt == nil {
			continue
		}
		if saved == nil {
			prev, err := s.sessions.ListResults(ctx, session.ID)
			if err != nil {
				return storageErr("listing results", err)
			}
			saved = make(map[int64]bool, len(prev))
			for _, r := range prev {
				saved[r.EquipmentID] = true
			}
		}
		if !saved[id] {
			return invalid("equipment %d has been deleted", id)
		}
	}
	return nil
}

func (s *Service) openSession(ctx context.Context, sessionID int64) (*model.Session, error) {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status.Terminal() {
		return nil, invalid("inventory session %d is already completed", sessionID)
	}
	return session, nil
}

// AddAdditionalItem records an item found during the count. The type
// defaults to "Other" and the quantity to 1.
func (s *Service) AddAdditionalItem(ctx context.Context, sessionID int64, in AdditionalInput) (*model.AdditionalItem, error) {
	item := model.AdditionalItem{
		SessionID: sessionID,
		Name:      strings.TrimSpace(in.Name),
		TypeName:  strings.TrimSpace(in.TypeName),
		Quantity:  in.Quantity,
		Note:      strings.TrimSpace(in.Note),
	}
	if item.Name == "" {
		return nil, invalid("item name is required")
	}
	if item.TypeName == "" {
		item.TypeName = model.DefaultAdditionalType
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	if item.Quantity < 0 {
		return nil, invalid("quantity must be positive")
	}

	if _, err := s.openSession(ctx, sessionID); err != nil {
		return nil, err
	}

	added, err := s.sessions.AddAdditionalItem(ctx, item)
	if err != nil {
		return nil, storageErr("adding additional item", err)
	}
	return added, nil
}

// RemoveAdditionalItem deletes an additional item of the session. Removing
// an item that is already gone succeeds.
func (s *Service) RemoveAdditionalItem(ctx context.Context, sessionID, itemID int64) error {
	if _, err := s.openSession(ctx, sessionID); err != nil {
		return err
	}
	if err := s.sessions.RemoveAdditionalItem(ctx, sessionID, itemID); err != nil {
		return storageErr("removing additional item", err)
	}
	return nil
}

// DeleteSession removes a session with its results and additional items.
func (s *Service) DeleteSession(ctx context.Context, sessionID int64) error {
	found, err := s.sessions.DeleteSession(ctx, sessionID)
	if err != nil {
		return storageErr("deleting session", err)
	}
	if !found {
		return fmt.Errorf("inventory session %d: %w", sessionID, ErrNotFound)
	}
	return nil
}
