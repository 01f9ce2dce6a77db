package model

import (
	"errors"
	"net/url"
	"testing"
)

func TestEquipmentInputDefaults(t *testing.T) {
	zero := int64(0)
	in := EquipmentInput{Name: "  Projektor  ", TypeID: 3, RoomID: &zero}
	in.Normalize()

	if in.Name != "Projektor" {
		t.Errorf("expected trimmed name, got %q", in.Name)
	}
	if in.Quantity != 1 {
		t.Errorf("expected default quantity 1, got %d", in.Quantity)
	}
	if in.Status != EquipmentActive {
		t.Errorf("expected default status active, got %q", in.Status)
	}
	if in.RoomID != nil {
		t.Error("expected room 0 to mean unassigned")
	}
	if err := in.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestEquipmentInputValidate(t *testing.T) {
	tests := []struct {
		name string
		in   EquipmentInput
	}{
		{"missing name", EquipmentInput{TypeID: 1, Quantity: 1, Status: EquipmentActive}},
		{"missing type", EquipmentInput{Name: "Stol", Quantity: 1, Status: EquipmentActive}},
		{"negative quantity", EquipmentInput{Name: "Stol", TypeID: 1, Quantity: -2, Status: EquipmentActive}},
		{"bad status", EquipmentInput{Name: "Stol", TypeID: 1, Quantity: 1, Status: "lost"}},
		{"bad date", EquipmentInput{Name: "Stol", TypeID: 1, Quantity: 1, Status: EquipmentActive, PurchaseDate: "12.3.2020"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.in.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestParseEquipmentStatus(t *testing.T) {
	st, err := ParseEquipmentStatus("")
	if err != nil || st != EquipmentActive {
		t.Errorf("empty status: got %q, %v", st, err)
	}
	for _, want := range EquipmentStatuses {
		got, err := ParseEquipmentStatus(string(want))
		if err != nil || got != want {
			t.Errorf("ParseEquipmentStatus(%q) = %q, %v", want, got, err)
		}
	}
}

func TestParseEquipmentFilter(t *testing.T) {
	f, err := ParseEquipmentFilter(url.Values{"type": {"4"}, "status": {"repair"}, "room": {"unassigned"}})
	if err != nil {
		t.Fatalf("ParseEquipmentFilter: %v", err)
	}
	if f.TypeID != 4 || f.Status != EquipmentRepair || !f.Unassigned || f.RoomID != 0 {
		t.Errorf("unexpected filter: %+v", f)
	}

	f, err = ParseEquipmentFilter(url.Values{"room": {"12"}})
	if err != nil || f.RoomID != 12 || f.Unassigned {
		t.Errorf("expected room 12, got %+v (%v)", f, err)
	}

	for _, q := range []url.Values{{"type": {"x"}}, {"status": {"lost"}}, {"room": {"-1"}}} {
		if _, err := ParseEquipmentFilter(q); !errors.Is(err, ErrInvalid) {
			t.Errorf("ParseEquipmentFilter(%v): expected ErrInvalid, got %v", q, err)
		}
	}
}
