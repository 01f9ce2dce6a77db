package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/erazemk/popis/internal/model"
)

func mustType(t *testing.T, database *sql.DB, name string) *model.EquipmentType {
	t.Helper()
	et, err := CreateType(context.Background(), database, name)
	if err != nil {
		t.Fatalf("CreateType(%q): %v", name, err)
	}
	return et
}

func mustRoom(t *testing.T, database *sql.DB, floor int, name string) *model.Room {
	t.Helper()
	r, err := CreateRoom(context.Background(), database, model.RoomInput{Floor: floor, Name: name})
	if err != nil {
		t.Fatalf("CreateRoom(%q): %v", name, err)
	}
	return r
}

func mustEquipment(t *testing.T, database *sql.DB, in model.EquipmentInput) *model.Equipment {
	t.Helper()
	e, err := CreateEquipment(context.Background(), database, in)
	if err != nil {
		t.Fatalf("CreateEquipment(%q): %v", in.Name, err)
	}
	return e
}
