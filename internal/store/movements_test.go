package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/popis/internal/db"
	"github.com/erazemk/popis/internal/model"
)

func TestMoveEquipment(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	et := mustType(t, database, "Projektor")
	from := mustRoom(t, database, 1, "101")
	to := mustRoom(t, database, 2, "201")
	e := mustEquipment(t, database, model.EquipmentInput{Name: "Epson", TypeID: et.ID, RoomID: &from.ID})

	m, err := MoveEquipment(ctx, database, e.ID, to.ID, "")
	if err != nil {
		t.Fatalf("MoveEquipment: %v", err)
	}
	if m.FromRoomID == nil || *m.FromRoomID != from.ID || m.ToRoomID != to.ID {
		t.Errorf("unexpected movement rooms: %+v", m)
	}
	if m.Reason != "Not specified" {
		t.Errorf("expected default reason, got %q", m.Reason)
	}
	if m.FromRoomName != "101" || m.ToRoomName != "201" || m.EquipmentName != "Epson" {
		t.Errorf("expected joined names, got %+v", m)
	}

	got, _ := GetEquipment(ctx, database, e.ID)
	if got.RoomID == nil || *got.RoomID != to.ID {
		t.Errorf("expected equipment in room %d, got %v", to.ID, got.RoomID)
	}
}

func TestMoveEquipmentFromStorage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	et := mustType(t, database, "Stol")
	to := mustRoom(t, database, 1, "101")
	e := mustEquipment(t, database, model.EquipmentInput{Name: "Stol", TypeID: et.ID})

	m, err := MoveEquipment(ctx, database, e.ID, to.ID, "Nova učilnica")
	if err != nil {
		t.Fatalf("MoveEquipment: %v", err)
	}
	if m.FromRoomID != nil || m.FromRoomName != "" {
		t.Errorf("expected no source room, got %+v", m)
	}
}

func TestMoveEquipmentRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	et := mustType(t, database, "Stol")
	room := mustRoom(t, database, 1, "101")
	e := mustEquipment(t, database, model.EquipmentInput{Name: "Stol", TypeID: et.ID, RoomID: &room.ID})

	if _, err := MoveEquipment(ctx, database, e.ID, room.ID, ""); !errors.Is(err, model.ErrInvalid) {
		t.Errorf("expected ErrInvalid moving to same room, got %v", err)
	}
	if _, err := MoveEquipment(ctx, database, e.ID, 999, ""); !errors.Is(err, model.ErrInvalid) {
		t.Errorf("expected ErrInvalid moving to unknown room, got %v", err)
	}
	if _, err := MoveEquipment(ctx, database, 999, room.ID, ""); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound moving unknown equipment, got %v", err)
	}

	all, _ := ListMovements(ctx, database, 0)
	if len(all) != 0 {
		t.Errorf("expected no movements after rejected moves, got %d", len(all))
	}
}

func TestListMovementsLimit(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	et := mustType(t, database, "Stol")
	a := mustRoom(t, database, 1, "A")
	b := mustRoom(t, database, 1, "B")
	e := mustEquipment(t, database, model.EquipmentInput{Name: "Stol", TypeID: et.ID, RoomID: &a.ID})

	MoveEquipment(ctx, database, e.ID, b.ID, "1")
	MoveEquipment(ctx, database, e.ID, a.ID, "2")
	MoveEquipment(ctx, database, e.ID, b.ID, "3")

	recent, err := ListMovements(ctx, database, 2)
	if err != nil {
		t.Fatalf("ListMovements: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(recent))
	}
	if recent[0].Reason != "3" {
		t.Errorf("expected newest first, got %q", recent[0].Reason)
	}

	history, _ := ListMovementsByEquipment(ctx, database, e.ID)
	if len(history) != 3 {
		t.Errorf("expected 3 movements in history, got %d", len(history))
	}
}
