package importer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

func TestParseCSV(t *testing.T) {
	input := "\ufeffname,type_name,inventory_number,room_name,quantity,status\n" +
		"Dell P2419H,Monitor,M-1,101,1,active\n" +
		",,,,,\n" +
		"Stoli,Stol,S-1,101,25,\n"

	rows, err := ParseCSV(strings.NewReader(input), "")
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows (blank skipped), got %d", len(rows))
	}
	if rows[0].Name != "Dell P2419H" || rows[0].TypeName != "Monitor" || rows[0].Line != 2 {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Quantity != 25 || rows[1].Line != 4 {
		t.Errorf("unexpected second row: %+v", rows[1])
	}
}

func TestParseCSVSemicolonAndColumnOrder(t *testing.T) {
	input := "inventory_number;comment;type_name\nINV-1;pod oknom;Omara\n"

	rows, err := ParseCSV(strings.NewReader(input), "utf-8")
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(rows) != 1 || rows[0].InventoryNumber != "INV-1" || rows[0].Comment != "pod oknom" || rows[0].TypeName != "Omara" {
		t.Errorf("unexpected rows: %+v", rows)
	}
}

func TestParseCSVWindows1250(t *testing.T) {
	text := "name,type_name,inventory_number\nŠolska tabla,Drugo,T-1\n"
	encoded, err := charmap.Windows1250.NewEncoder().String(text)
	if err != nil {
		t.Fatal(err)
	}

	rows, err := ParseCSV(strings.NewReader(encoded), "windows-1250")
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if rows[0].Name != "Šolska tabla" {
		t.Errorf("expected decoded name, got %q", rows[0].Name)
	}
}

func TestParseCSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		charset string
		want    error
	}{
		{"header only", "type_name,inventory_number\n", "", ErrNoData},
		{"missing required column", "name,type_name\nA,B\n", "", ErrBadHeader},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.input), tt.charset)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := ParseCSV(strings.NewReader("x"), "ebcdic"); err == nil {
		t.Error("expected error for unknown charset")
	}
}

func TestParseCSVBadQuantity(t *testing.T) {
	input := "type_name,inventory_number,quantity\nStol,S-1,pet\n"
	rows, err := ParseCSV(strings.NewReader(input), "")
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if rows[0].Problem == "" {
		t.Error("expected the row to carry a problem")
	}
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	f.SetSheetRow(sheet, "A1", &[]any{"type_name", "inventory_number", "name"})
	f.SetSheetRow(sheet, "A2", &[]any{"Projektor", "P-7", "Epson"})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	rows, err := ParseXLSX(&buf)
	if err != nil {
		t.Fatalf("ParseXLSX: %v", err)
	}
	if len(rows) != 1 || rows[0].InventoryNumber != "P-7" || rows[0].Name != "Epson" {
		t.Errorf("unexpected rows: %+v", rows)
	}
}
