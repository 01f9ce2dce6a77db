package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/popis/internal/db"
	"github.com/erazemk/popis/internal/model"
)

func TestCreateTypeDuplicate(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	mustType(t, database, "Monitor")

	_, err := CreateType(ctx, database, "Monitor")
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict for duplicate type, got %v", err)
	}

	if _, err := CreateType(ctx, database, "  "); !errors.Is(err, model.ErrInvalid) {
		t.Errorf("expected ErrInvalid for blank name, got %v", err)
	}
}

func TestDeleteTypeInUse(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	used := mustType(t, database, "Stol")
	unused := mustType(t, database, "Omara")
	mustEquipment(t, database, model.EquipmentInput{Name: "Stol", TypeID: used.ID})

	if err := DeleteType(ctx, database, used.ID); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict deleting used type, got %v", err)
	}
	if err := DeleteType(ctx, database, unused.ID); err != nil {
		t.Fatalf("DeleteType: %v", err)
	}

	types, _ := ListTypes(ctx, database)
	if len(types) != 1 || types[0].Name != "Stol" {
		t.Fatalf("expected only 'Stol' to remain, got %+v", types)
	}
	if types[0].EquipmentCount != 1 {
		t.Errorf("expected equipment count 1, got %d", types[0].EquipmentCount)
	}

	// The name is free again once the type is deleted.
	if _, err := CreateType(ctx, database, "Omara"); err != nil {
		t.Errorf("recreating deleted type: %v", err)
	}
}

func TestFindTypeByNameCaseInsensitive(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	want := mustType(t, database, "Projektor")
	got, err := FindTypeByName(ctx, database, " projektor ")
	if err != nil {
		t.Fatalf("FindTypeByName: %v", err)
	}
	if got == nil || got.ID != want.ID {
		t.Errorf("expected type %d, got %+v", want.ID, got)
	}

	missing, err := FindTypeByName(ctx, database, "Tabla")
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for unknown type, got %+v, %v", missing, err)
	}
}
