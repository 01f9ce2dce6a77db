package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/erazemk/popis/internal/inventory"
	"github.com/erazemk/popis/internal/model"
)

type sheetWriter struct {
	f      *excelize.File
	name   string
	header int
}

func newWorkbook(sheet string) (*sheetWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}
	return &sheetWriter{f: f, name: sheet, header: header}, nil
}

// row writes values starting at column A of row n (1-based).
func (s *sheetWriter) row(n int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	return s.f.SetSheetRow(s.name, cell, &values)
}

func (s *sheetWriter) headerRow(n int, titles ...string) error {
	values := make([]any, len(titles))
	for i, t := range titles {
		values[i] = t
	}
	if err := s.row(n, values...); err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(1, n)
	last, _ := excelize.CoordinatesToCellName(len(titles), n)
	return s.f.SetCellStyle(s.name, first, last, s.header)
}

func (s *sheetWriter) widths(widths ...float64) {
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		s.f.SetColWidth(s.name, col, col, w)
	}
}

func (s *sheetWriter) finish(w io.Writer) error {
	defer s.f.Close()
	if err := s.f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// EquipmentXLSX writes the equipment registry as a workbook.
func EquipmentXLSX(w io.Writer, list []model.Equipment) error {
	s, err := newWorkbook("Oprema")
	if err != nil {
		return err
	}
	s.widths(30, 18, 16, 18, 16, 10, 14, 14, 30)

	if err := s.headerRow(1, "Naziv", "Vrsta", "Inventarna št.", "Serijska št.", "Prostor",
		"Količina", "Stanje", "Datum nakupa", "Opomba"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range list {
		if err := s.row(i+2, e.Name, e.TypeName, e.InventoryNumber, e.SerialNumber, e.RoomName,
			e.Quantity, e.Status.Label(), e.PurchaseDate, e.Comment); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return s.finish(w)
}

// SessionXLSX writes a count report: a summary block, the per-equipment
// results and the additional items.
func SessionXLSX(w io.Writer, r *inventory.Report) error {
	s, err := newWorkbook("Popis")
	if err != nil {
		return err
	}
	s.widths(30, 16, 18, 18, 12, 12, 16, 10, 30)

	completed := ""
	if r.Session.CompletedAt != nil {
		completed = r.Session.CompletedAt.Format("2006-01-02 15:04")
	}
	summary := [][]any{
		{"Popis", r.Session.Name},
		{"Prostor", fmt.Sprintf("%d. nadstropje / %s", r.Session.RoomFloor, r.Session.RoomName)},
		{"Stanje", r.Session.Status.Label()},
		{"Zaključen", completed},
		{"Ujema se", r.Stats.Matched},
		{"Primanjkljaj", r.Stats.Deficit},
		{"Presežek", r.Stats.Surplus},
		{"Manjka", r.Stats.Missing},
		{"Dodatna oprema", len(r.AdditionalItems)},
	}
	n := 1
	for _, line := range summary {
		if err := s.row(n, line...); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
		n++
	}

	n++
	if err := s.headerRow(n, "Oprema", "Inventarna št.", "Serijska št.", "Vrsta",
		"Pričakovano", "Prešteto", "Stanje", "Razlika", "Opomba"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	n++
	for _, res := range r.Results {
		if err := s.row(n, res.EquipmentName, res.InventoryNumber, res.SerialNumber, res.TypeName,
			res.ExpectedQuantity, res.ActualQuantity, res.Status.Label(), res.Amount, res.Note); err != nil {
			return fmt.Errorf("writing result: %w", err)
		}
		n++
	}

	if len(r.AdditionalItems) > 0 {
		n++
		if err := s.headerRow(n, "Dodatna oprema", "Vrsta", "Količina", "Opomba"); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
		n++
		for _, a := range r.AdditionalItems {
			if err := s.row(n, a.Name, a.TypeName, a.Quantity, a.Note); err != nil {
				return fmt.Errorf("writing additional item: %w", err)
			}
			n++
		}
	}
	return s.finish(w)
}
