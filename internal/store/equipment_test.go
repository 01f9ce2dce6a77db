package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/popis/internal/db"
	"github.com/erazemk/popis/internal/model"
)

func TestCreateAndGetEquipment(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	et := mustType(t, database, "Projektor")
	room := mustRoom(t, database, 2, "201")

	e, err := CreateEquipment(ctx, database, model.EquipmentInput{
		Name:            "Epson EB-X05",
		TypeID:          et.ID,
		InventoryNumber: "INV-001",
		RoomID:          &room.ID,
		PurchaseDate:    "2021-09-01",
	})
	if err != nil {
		t.Fatalf("CreateEquipment: %v", err)
	}
	if e.Quantity != 1 {
		t.Errorf("expected default quantity 1, got %d", e.Quantity)
	}
	if e.Status != model.EquipmentActive {
		t.Errorf("expected status active, got %q", e.Status)
	}
	if e.TypeName != "Projektor" || e.RoomName != "201" {
		t.Errorf("expected joined names, got type %q room %q", e.TypeName, e.RoomName)
	}
	if e.RoomFloor == nil || *e.RoomFloor != 2 {
		t.Errorf("expected room floor 2, got %v", e.RoomFloor)
	}

	missing, err := GetEquipment(ctx, database, 9999)
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for unknown id, got %+v, %v", missing, err)
	}
}

func TestEquipmentInventoryNumberUnique(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	et := mustType(t, database, "Monitor")
	first := mustEquipment(t, database, model.EquipmentInput{Name: "Dell", TypeID: et.ID, InventoryNumber: "M-1"})

	_, err := CreateEquipment(ctx, database, model.EquipmentInput{Name: "LG", TypeID: et.ID, InventoryNumber: "M-1"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate inventory number, got %v", err)
	}

	// Rows without an inventory number never collide.
	mustEquipment(t, database, model.EquipmentInput{Name: "A", TypeID: et.ID})
	mustEquipment(t, database, model.EquipmentInput{Name: "B", TypeID: et.ID})

	// A deleted record releases its number.
	DeleteEquipment(ctx, database, first.ID)
	if _, err := CreateEquipment(ctx, database, model.EquipmentInput{Name: "LG", TypeID: et.ID, InventoryNumber: "M-1"}); err != nil {
		t.Errorf("reusing number of deleted equipment: %v", err)
	}
}

func TestCreateEquipmentRejectsUnknownReferences(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	et := mustType(t, database, "Stol")
	badRoom := int64(42)

	if _, err := CreateEquipment(ctx, database, model.EquipmentInput{Name: "X", TypeID: 999}); !errors.Is(err, model.ErrInvalid) {
		t.Errorf("expected ErrInvalid for unknown type, got %v", err)
	}
	if _, err := CreateEquipment(ctx, database, model.EquipmentInput{Name: "X", TypeID: et.ID, RoomID: &badRoom}); !errors.Is(err, model.ErrInvalid) {
		t.Errorf("expected ErrInvalid for unknown room, got %v", err)
	}
}

func TestListEquipmentFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	chair := mustType(t, database, "Stol")
	pc := mustType(t, database, "Računalnik")
	room := mustRoom(t, database, 1, "101")

	mustEquipment(t, database, model.EquipmentInput{Name: "Stoli", TypeID: chair.ID, RoomID: &room.ID, Quantity: 20})
	mustEquipment(t, database, model.EquipmentInput{Name: "PC", TypeID: pc.ID, RoomID: &room.ID, Status: model.EquipmentRepair})
	mustEquipment(t, database, model.EquipmentInput{Name: "Rezervni PC", TypeID: pc.ID})

	tests := []struct {
		name   string
		filter model.EquipmentFilter
		want   int
	}{
		{"all", model.EquipmentFilter{}, 3},
		{"by type", model.EquipmentFilter{TypeID: pc.ID}, 2},
		{"by status", model.EquipmentFilter{Status: model.EquipmentRepair}, 1},
		{"by room", model.EquipmentFilter{RoomID: room.ID}, 2},
		{"unassigned", model.EquipmentFilter{Unassigned: true}, 1},
		{"type and room", model.EquipmentFilter{TypeID: pc.ID, RoomID: room.ID}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := ListEquipment(ctx, database, tt.filter)
			if err != nil {
				t.Fatalf("ListEquipment: %v", err)
			}
			if len(list) != tt.want {
				t.Errorf("expected %d rows, got %d", tt.want, len(list))
			}
		})
	}
}

func TestUpdateEquipmentDoesNotRecordMovement(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	et := mustType(t, database, "Miza")
	from := mustRoom(t, database, 1, "101")
	to := mustRoom(t, database, 1, "102")
	e := mustEquipment(t, database, model.EquipmentInput{Name: "Miza", TypeID: et.ID, RoomID: &from.ID})

	err := UpdateEquipment(ctx, database, e.ID, model.EquipmentInput{Name: "Miza", TypeID: et.ID, RoomID: &to.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("UpdateEquipment: %v", err)
	}

	got, _ := GetEquipment(ctx, database, e.ID)
	if got.RoomID == nil || *got.RoomID != to.ID || got.Quantity != 2 {
		t.Errorf("unexpected equipment after update: %+v", got)
	}

	history, _ := ListMovementsByEquipment(ctx, database, e.ID)
	if len(history) != 0 {
		t.Errorf("expected no movements after edit, got %d", len(history))
	}
}

func TestSoftDeleteEquipment(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	et := mustType(t, database, "Tiskalnik")
	e := mustEquipment(t, database, model.EquipmentInput{Name: "HP", TypeID: et.ID})

	if err := DeleteEquipment(ctx, database, e.ID); err != nil {
		t.Fatalf("DeleteEquipment: %v", err)
	}

	list, _ := ListEquipment(ctx, database, model.EquipmentFilter{})
	if len(list) != 0 {
		t.Errorf("expected 0 rows after soft delete, got %d", len(list))
	}

	// Should still be fetchable by ID (for history).
	got, _ := GetEquipment(ctx, database, e.ID)
	if got == nil || got.DeletedAt == nil {
		t.Error("expected soft-deleted equipment to still be fetchable by ID")
	}
}

func TestSetEquipmentPhoto(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	et := mustType(t, database, "Monitor")
	a := mustEquipment(t, database, model.EquipmentInput{Name: "A", TypeID: et.ID})
	b := mustEquipment(t, database, model.EquipmentInput{Name: "B", TypeID: et.ID})

	old, err := SetEquipmentPhoto(ctx, database, a.ID, "ref1")
	if err != nil || old != "" {
		t.Fatalf("first SetEquipmentPhoto: old %q, err %v", old, err)
	}
	SetEquipmentPhoto(ctx, database, b.ID, "ref1")

	old, err = SetEquipmentPhoto(ctx, database, a.ID, "ref2")
	if err != nil || old != "ref1" {
		t.Fatalf("second SetEquipmentPhoto: old %q, err %v", old, err)
	}

	n, _ := CountPhotoReferences(ctx, database, "ref1")
	if n != 1 {
		t.Errorf("expected ref1 used once, got %d", n)
	}

	if _, err := SetEquipmentPhoto(ctx, database, 999, "ref3"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGroupAddEquipment(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	et := mustType(t, database, "Računalnik")
	room := mustRoom(t, database, 3, "301")

	// Occupy INV-3 so one unit fails.
	mustEquipment(t, database, model.EquipmentInput{Name: "Star PC", TypeID: et.ID, InventoryNumber: "INV-3"})

	res, err := GroupAddEquipment(ctx, database, model.GroupSpec{
		BaseName:        "PC",
		TypeID:          et.ID,
		RoomID:          room.ID,
		Count:           4,
		InventoryPrefix: "INV-",
		Naming:          model.NamingWithNumber,
	})
	if err != nil {
		t.Fatalf("GroupAddEquipment: %v", err)
	}
	if res.Total != 4 || res.Created != 3 || len(res.Errors) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	inRoom, _ := ListEquipmentByRoom(ctx, database, room.ID)
	if len(inRoom) != 3 {
		t.Fatalf("expected 3 units in room, got %d", len(inRoom))
	}

	for _, e := range inRoom {
		history, err := ListMovementsByEquipment(ctx, database, e.ID)
		if err != nil {
			t.Fatalf("ListMovementsByEquipment: %v", err)
		}
		if len(history) != 1 {
			t.Fatalf("expected one placement movement for %s, got %d", e.Name, len(history))
		}
		m := history[0]
		if m.FromRoomID != nil || m.ToRoomID != room.ID || m.Reason != model.GroupAddReason {
			t.Errorf("unexpected placement movement: %+v", m)
		}
	}
}

func TestGroupAddEquipmentRejectsInvalidSpec(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	et := mustType(t, database, "Stol")

	_, err := GroupAddEquipment(ctx, database, model.GroupSpec{BaseName: "Stol", TypeID: et.ID, RoomID: 77, Count: 2})
	if !errors.Is(err, model.ErrInvalid) {
		t.Errorf("expected ErrInvalid for unknown room, got %v", err)
	}
}
