package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/erazemk/popis/internal/importer"
	"github.com/erazemk/popis/internal/inventory"
	"github.com/erazemk/popis/internal/model"
)

func TestEquipmentCSVRoundTrip(t *testing.T) {
	list := []model.Equipment{
		{Name: "Dell", TypeName: "Monitor", InventoryNumber: "M-1", RoomName: "101", Quantity: 1, Status: model.EquipmentActive},
		{Name: "=cmd()", TypeName: "Drugo", InventoryNumber: "X-1", Quantity: 3, Status: model.EquipmentBroken, Comment: "a, b"},
	}

	var buf bytes.Buffer
	if err := EquipmentCSV(&buf, list); err != nil {
		t.Fatalf("EquipmentCSV: %v", err)
	}

	rows, err := importer.ParseCSV(strings.NewReader(buf.String()), "")
	if err != nil {
		t.Fatalf("re-importing export: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].RoomName != "101" || rows[0].InventoryNumber != "M-1" {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Name != "'=cmd()" {
		t.Errorf("expected formula to be neutralized, got %q", rows[1].Name)
	}
	if rows[1].Quantity != 3 || rows[1].Status != "broken" || rows[1].Comment != "a, b" {
		t.Errorf("unexpected second row: %+v", rows[1])
	}
}

func TestSummaryCSV(t *testing.T) {
	var buf bytes.Buffer
	err := RoomCSV(&buf, []model.RoomStats{
		{Room: model.Room{Floor: 1, Name: "101"}, EquipmentCount: 2, TotalQuantity: 26, TypeNames: []string{"Stol", "Miza"}},
	})
	if err != nil {
		t.Fatalf("RoomCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[1][1] != "101" || records[1][4] != "26" || records[1][5] != "Stol; Miza" {
		t.Errorf("unexpected records: %v", records)
	}

	buf.Reset()
	if err := StatusCSV(&buf, []model.StatusCount{{Status: model.EquipmentRepair, EquipmentCount: 1, TotalQuantity: 4}}); err != nil {
		t.Fatalf("StatusCSV: %v", err)
	}
	if !strings.Contains(buf.String(), "repair,1,4") {
		t.Errorf("unexpected status CSV: %q", buf.String())
	}
}

func TestSessionXLSX(t *testing.T) {
	done := time.Date(2024, 6, 14, 10, 30, 0, 0, time.UTC)
	report := &inventory.Report{
		Session: model.Session{Name: "Popis 2024", RoomName: "101", RoomFloor: 1, Status: model.SessionCompleted, CompletedAt: &done},
		Results: []inventory.ReportRow{
			{
				Result:      model.Result{EquipmentName: "Dell", ExpectedQuantity: 5, ActualQuantity: 3},
				Discrepancy: inventory.ComputeItemStatus(5, 3),
			},
		},
		AdditionalItems: []model.AdditionalItem{{Name: "Tabla", TypeName: "Drugo", Quantity: 1}},
		Stats:           inventory.Stats{Total: 1, Deficit: 1},
	}

	var buf bytes.Buffer
	if err := SessionXLSX(&buf, report); err != nil {
		t.Fatalf("SessionXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Popis")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	var found bool
	for _, row := range rows {
		if len(row) >= 8 && row[0] == "Dell" && row[6] == "Primanjkljaj" && row[7] == "2" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a deficit row for Dell, got %v", rows)
	}
	if v, _ := f.GetCellValue("Popis", "B4"); v != "2024-06-14 10:30" {
		t.Errorf("expected completion time in B4, got %q", v)
	}
}

func TestEquipmentXLSX(t *testing.T) {
	var buf bytes.Buffer
	err := EquipmentXLSX(&buf, []model.Equipment{{Name: "Stoli", TypeName: "Stol", Quantity: 25, Status: model.EquipmentRepair}})
	if err != nil {
		t.Fatalf("EquipmentXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	if v, _ := f.GetCellValue("Oprema", "A1"); v != "Naziv" {
		t.Errorf("expected header in A1, got %q", v)
	}
	if v, _ := f.GetCellValue("Oprema", "F2"); v != "25" {
		t.Errorf("expected quantity 25 in F2, got %q", v)
	}
	if v, _ := f.GetCellValue("Oprema", "G2"); v != "V popravilu" {
		t.Errorf("expected status label in G2, got %q", v)
	}
}
