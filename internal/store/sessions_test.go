package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/popis/internal/db"
	"github.com/erazemk/popis/internal/model"
)

func TestCreateAndGetSession(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	et := mustType(t, database, "Stol")
	room := mustRoom(t, database, 1, "101")
	mustEquipment(t, database, model.EquipmentInput{Name: "Stoli", TypeID: et.ID, RoomID: &room.ID, Quantity: 30})
	mustEquipment(t, database, model.EquipmentInput{Name: "Katedra", TypeID: et.ID, RoomID: &room.ID})

	s, err := CreateSession(ctx, database, model.NewSession{Name: "Popis 2024", RoomID: room.ID, CreatedBy: "Ana"})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if s.Status != model.SessionDraft {
		t.Errorf("expected draft, got %q", s.Status)
	}
	if s.CompletedAt != nil {
		t.Error("expected no completed_at on a new session")
	}
	if s.RoomName != "101" || s.TotalItems != 2 || s.CheckedItems != 0 {
		t.Errorf("unexpected joined fields: %+v", s)
	}

	missing, err := GetSession(ctx, database, 999)
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for unknown session, got %+v, %v", missing, err)
	}
}

func TestReplaceResults(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	et := mustType(t, database, "Monitor")
	room := mustRoom(t, database, 1, "101")
	a := mustEquipment(t, database, model.EquipmentInput{Name: "A", TypeID: et.ID, RoomID: &room.ID, Quantity: 5})
	b := mustEquipment(t, database, model.EquipmentInput{Name: "B", TypeID: et.ID, RoomID: &room.ID})
	s, _ := CreateSession(ctx, database, model.NewSession{Name: "Popis", RoomID: room.ID})

	rows := []model.ResultRow{
		{EquipmentID: a.ID, Expected: 5, Actual: 3, Note: "dva manjkata"},
		{EquipmentID: b.ID, Expected: 1, Actual: 1},
	}

	// Saving twice leaves exactly one row per equipment.
	for i := 0; i < 2; i++ {
		if err := ReplaceResults(ctx, database, s.ID, rows, model.SessionInProgress); err != nil {
			t.Fatalf("ReplaceResults #%d: %v", i+1, err)
		}
	}

	results, err := ListResults(ctx, database, s.ID)
	if err != nil {
		t.Fatalf("ListResults: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].EquipmentName != "A" || results[0].ActualQuantity != 3 || results[0].Note != "dva manjkata" {
		t.Errorf("unexpected first result: %+v", results[0])
	}

	got, _ := GetSession(ctx, database, s.ID)
	if got.Status != model.SessionInProgress || got.CompletedAt != nil {
		t.Errorf("expected in_progress without completed_at, got %q %v", got.Status, got.CompletedAt)
	}
	if got.CheckedItems != 2 {
		t.Errorf("expected 2 checked items, got %d", got.CheckedItems)
	}

	// A smaller save drops rows that are no longer submitted.
	if err := ReplaceResults(ctx, database, s.ID, rows[:1], model.SessionCompleted); err != nil {
		t.Fatalf("final ReplaceResults: %v", err)
	}
	results, _ = ListResults(ctx, database, s.ID)
	if len(results) != 1 {
		t.Errorf("expected 1 result after replace, got %d", len(results))
	}
	got, _ = GetSession(ctx, database, s.ID)
	if got.Status != model.SessionCompleted || got.CompletedAt == nil {
		t.Errorf("expected completed with completed_at, got %q %v", got.Status, got.CompletedAt)
	}

	// Completed sessions are frozen.
	err = ReplaceResults(ctx, database, s.ID, nil, model.SessionInProgress)
	if !errors.Is(err, model.ErrSessionCompleted) {
		t.Errorf("expected ErrSessionCompleted, got %v", err)
	}
	results, _ = ListResults(ctx, database, s.ID)
	if len(results) != 1 {
		t.Errorf("expected results untouched after refused save, got %d", len(results))
	}
}

func TestReplaceResultsIsAtomic(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	et := mustType(t, database, "Monitor")
	room := mustRoom(t, database, 1, "101")
	a := mustEquipment(t, database, model.EquipmentInput{Name: "A", TypeID: et.ID, RoomID: &room.ID})
	s, _ := CreateSession(ctx, database, model.NewSession{Name: "Popis", RoomID: room.ID})

	ReplaceResults(ctx, database, s.ID, []model.ResultRow{{EquipmentID: a.ID, Expected: 1, Actual: 1}}, model.SessionInProgress)

	// The second row violates the equipment foreign key.
	bad := []model.ResultRow{
		{EquipmentID: a.ID, Expected: 1, Actual: 0},
		{EquipmentID: 999, Expected: 1, Actual: 1},
	}
	if err := ReplaceResults(ctx, database, s.ID, bad, model.SessionCompleted); err == nil {
		t.Fatal("expected error for unknown equipment")
	}

	results, _ := ListResults(ctx, database, s.ID)
	if len(results) != 1 || results[0].ActualQuantity != 1 {
		t.Errorf("expected previous results to survive, got %+v", results)
	}
	got, _ := GetSession(ctx, database, s.ID)
	if got.Status != model.SessionInProgress {
		t.Errorf("expected status unchanged, got %q", got.Status)
	}
}

func TestAdditionalItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	room := mustRoom(t, database, 1, "101")
	s, _ := CreateSession(ctx, database, model.NewSession{Name: "Popis", RoomID: room.ID})

	item, err := AddAdditionalItem(ctx, database, model.AdditionalItem{SessionID: s.ID, Name: "Tabla", TypeName: "Drugo", Quantity: 1})
	if err != nil {
		t.Fatalf("AddAdditionalItem: %v", err)
	}
	if item.ID == 0 || item.Name != "Tabla" {
		t.Errorf("unexpected item: %+v", item)
	}

	list, _ := ListAdditionalItems(ctx, database, s.ID)
	if len(list) != 1 {
		t.Fatalf("expected 1 additional item, got %d", len(list))
	}

	// Scoped to the session: a wrong session id removes nothing.
	if err := RemoveAdditionalItem(ctx, database, s.ID+1, item.ID); err != nil {
		t.Fatalf("RemoveAdditionalItem with other session: %v", err)
	}
	list, _ = ListAdditionalItems(ctx, database, s.ID)
	if len(list) != 1 {
		t.Fatalf("expected item to survive removal from another session, got %d", len(list))
	}

	if err := RemoveAdditionalItem(ctx, database, s.ID, item.ID); err != nil {
		t.Fatalf("RemoveAdditionalItem: %v", err)
	}
	// Removing again is not an error.
	if err := RemoveAdditionalItem(ctx, database, s.ID, item.ID); err != nil {
		t.Fatalf("second RemoveAdditionalItem: %v", err)
	}
	list, _ = ListAdditionalItems(ctx, database, s.ID)
	if len(list) != 0 {
		t.Errorf("expected no additional items, got %d", len(list))
	}
}

func TestDeleteSessionCascades(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	et := mustType(t, database, "Stol")
	room := mustRoom(t, database, 1, "101")
	e := mustEquipment(t, database, model.EquipmentInput{Name: "Stol", TypeID: et.ID, RoomID: &room.ID})
	s, _ := CreateSession(ctx, database, model.NewSession{Name: "Popis", RoomID: room.ID})
	ReplaceResults(ctx, database, s.ID, []model.ResultRow{{EquipmentID: e.ID, Expected: 1, Actual: 1}}, model.SessionInProgress)
	AddAdditionalItem(ctx, database, model.AdditionalItem{SessionID: s.ID, Name: "Tabla", TypeName: "Drugo", Quantity: 1})

	found, err := DeleteSession(ctx, database, s.ID)
	if err != nil || !found {
		t.Fatalf("DeleteSession: found %v, err %v", found, err)
	}

	var n int
	database.QueryRow(`SELECT (SELECT COUNT(*) FROM inventory_results) + (SELECT COUNT(*) FROM inventory_additional_items)`).Scan(&n)
	if n != 0 {
		t.Errorf("expected results and additional items removed, %d rows left", n)
	}

	found, err = DeleteSession(ctx, database, s.ID)
	if err != nil || found {
		t.Errorf("expected not found on second delete, got found %v, err %v", found, err)
	}
}

func TestListSessionsNewestFirst(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	room := mustRoom(t, database, 1, "101")
	CreateSession(ctx, database, model.NewSession{Name: "Prvi", RoomID: room.ID})
	CreateSession(ctx, database, model.NewSession{Name: "Drugi", RoomID: room.ID})

	list, err := ListSessions(ctx, database)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Drugi" {
		t.Errorf("expected newest first, got %+v", list)
	}
}
