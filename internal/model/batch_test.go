package model

import (
	"errors"
	"testing"
)

func TestGroupSpecUnits(t *testing.T) {
	tests := []struct {
		name string
		spec GroupSpec
		want []GroupUnit
	}{
		{
			name: "plain",
			spec: GroupSpec{BaseName: "Stol", TypeID: 1, RoomID: 1, Count: 2},
			want: []GroupUnit{{Name: "Stol"}, {Name: "Stol"}},
		},
		{
			name: "with number and prefix",
			spec: GroupSpec{BaseName: "PC", TypeID: 1, RoomID: 1, Count: 3, InventoryPrefix: "INV-", StartNumber: 8, Naming: NamingWithNumber},
			want: []GroupUnit{
				{Name: "PC #8", InventoryNumber: "INV-8"},
				{Name: "PC #9", InventoryNumber: "INV-9"},
				{Name: "PC #10", InventoryNumber: "INV-10"},
			},
		},
		{
			name: "custom",
			spec: GroupSpec{BaseName: "Monitor", TypeID: 1, RoomID: 1, Count: 1, InventoryPrefix: "M", Naming: NamingCustom, CustomTemplate: "{base} ({prefix}{n})"},
			want: []GroupUnit{{Name: "Monitor (M1)", InventoryNumber: "M1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := tt.spec
			if err := spec.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			got := spec.Units()
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d units, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("unit %d: got %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGroupSpecValidate(t *testing.T) {
	tests := []struct {
		name string
		spec GroupSpec
	}{
		{"no base name", GroupSpec{TypeID: 1, RoomID: 1}},
		{"no room", GroupSpec{BaseName: "Stol", TypeID: 1}},
		{"too many", GroupSpec{BaseName: "Stol", TypeID: 1, RoomID: 1, Count: MaxGroupSize + 1}},
		{"custom without template", GroupSpec{BaseName: "Stol", TypeID: 1, RoomID: 1, Naming: NamingCustom}},
		{"unknown naming", GroupSpec{BaseName: "Stol", TypeID: 1, RoomID: 1, Naming: "fancy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.spec.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}
