package model

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxGroupSize caps how many units one group add may create.
const MaxGroupSize = 100

// NamingTemplate selects how group-added units are named.
type NamingTemplate string

// Naming templates.
const (
	NamingPlain      NamingTemplate = "plain"
	NamingWithNumber NamingTemplate = "with_number"
	NamingCustom     NamingTemplate = "custom"
)

// GroupSpec describes a batch of identical equipment placed in one room.
type GroupSpec struct {
	BaseName        string          `json:"base_name"`
	TypeID          int64           `json:"type_id"`
	RoomID          int64           `json:"room_id"`
	Count           int             `json:"count"`
	InventoryPrefix string          `json:"inventory_prefix"`
	StartNumber     int             `json:"start_number"`
	Naming          NamingTemplate  `json:"naming"`
	CustomTemplate  string          `json:"custom_template"`
	Status          EquipmentStatus `json:"status"`
	PurchaseDate    string          `json:"purchase_date"`
	Comment         string          `json:"comment"`
}

// GroupUnit is one planned equipment row of a group add.
type GroupUnit struct {
	Name            string
	InventoryNumber string
}

// Validate applies defaults and checks the spec.
func (g *GroupSpec) Validate() error {
	g.BaseName = strings.TrimSpace(g.BaseName)
	g.InventoryPrefix = strings.TrimSpace(g.InventoryPrefix)
	if g.Count == 0 {
		g.Count = 1
	}
	if g.StartNumber == 0 {
		g.StartNumber = 1
	}
	if g.Naming == "" {
		g.Naming = NamingPlain
	}
	if g.Status == "" {
		g.Status = EquipmentActive
	}

	if g.BaseName == "" || g.TypeID <= 0 || g.RoomID <= 0 {
		return fmt.Errorf("%w: base name, type and room are required", ErrInvalid)
	}
	if g.Count < 1 {
		return fmt.Errorf("%w: count must be at least 1", ErrInvalid)
	}
	if g.Count > MaxGroupSize {
		return fmt.Errorf("%w: at most %d units per group add", ErrInvalid, MaxGroupSize)
	}
	switch g.Naming {
	case NamingPlain, NamingWithNumber:
	case NamingCustom:
		if strings.TrimSpace(g.CustomTemplate) == "" {
			return fmt.Errorf("%w: custom naming needs a template", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown naming template %q", ErrInvalid, g.Naming)
	}
	if _, err := ParseEquipmentStatus(string(g.Status)); err != nil {
		return err
	}
	return nil
}

// Units expands the spec into the rows to create.
func (g GroupSpec) Units() []GroupUnit {
	units := make([]GroupUnit, 0, g.Count)
	for i := 0; i < g.Count; i++ {
		n := strconv.Itoa(g.StartNumber + i)

		name := g.BaseName
		switch g.Naming {
		case NamingWithNumber:
			name = g.BaseName + " #" + n
		case NamingCustom:
			name = strings.NewReplacer(
				"{n}", n,
				"{prefix}", g.InventoryPrefix,
				"{base}", g.BaseName,
			).Replace(g.CustomTemplate)
		case NamingPlain:
		}

		var invNumber string
		if g.InventoryPrefix != "" {
			invNumber = g.InventoryPrefix + n
		}
		units = append(units, GroupUnit{Name: name, InventoryNumber: invNumber})
	}
	return units
}

// BatchResult reports the outcome of a group add or an import.
type BatchResult struct {
	Total   int      `json:"total"`
	Created int      `json:"created"`
	Errors  []string `json:"errors"`
}

// ImportRow is one parsed line of an equipment import. Problem is set when
// the line could not be parsed; such rows are reported, not created.
type ImportRow struct {
	Line            int
	Problem         string
	Name            string
	TypeName        string
	InventoryNumber string
	SerialNumber    string
	RoomName        string
	Quantity        int
	Status          string
	PurchaseDate    string
	Comment         string
}
