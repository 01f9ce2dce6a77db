// Package export writes registry data and count reports as CSV and XLSX.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/erazemk/popis/internal/importer"
	"github.com/erazemk/popis/internal/model"
)

// csvSafe neutralizes cells a spreadsheet would evaluate as a formula.
func csvSafe(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		for i := range row {
			row[i] = csvSafe(row[i])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EquipmentCSV writes equipment with the import columns, so an export can
// be edited and imported again.
func EquipmentCSV(w io.Writer, list []model.Equipment) error {
	rows := make([][]string, 0, len(list))
	for _, e := range list {
		rows = append(rows, []string{
			e.Name,
			e.TypeName,
			e.InventoryNumber,
			e.SerialNumber,
			e.RoomName,
			strconv.Itoa(e.Quantity),
			string(e.Status),
			e.PurchaseDate,
			e.Comment,
		})
	}
	return writeCSV(w, importer.Columns, rows)
}

// StatusCSV writes the per-status summary.
func StatusCSV(w io.Writer, summary []model.StatusCount) error {
	rows := make([][]string, 0, len(summary))
	for _, s := range summary {
		rows = append(rows, []string{
			string(s.Status),
			strconv.Itoa(s.EquipmentCount),
			strconv.Itoa(s.TotalQuantity),
		})
	}
	return writeCSV(w, []string{"status", "equipment_count", "total_quantity"}, rows)
}

// TypeCSV writes the per-type summary.
func TypeCSV(w io.Writer, summaries []model.TypeSummary) error {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.TypeName,
			strconv.Itoa(s.Total),
			strconv.Itoa(s.TotalQuantity),
			strconv.Itoa(s.Active),
			strconv.Itoa(s.Repair),
			strconv.Itoa(s.Broken),
			strconv.Itoa(s.WrittenOff),
		})
	}
	return writeCSV(w, []string{"type_name", "total", "total_quantity", "active", "repair", "broken", "written_off"}, rows)
}

// RoomCSV writes the per-room summary.
func RoomCSV(w io.Writer, stats []model.RoomStats) error {
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			strconv.Itoa(s.Room.Floor),
			s.Room.Name,
			strconv.FormatBool(s.Room.IsService),
			strconv.Itoa(s.EquipmentCount),
			strconv.Itoa(s.TotalQuantity),
			strings.Join(s.TypeNames, "; "),
		})
	}
	return writeCSV(w, []string{"floor", "room_name", "is_service", "equipment_count", "total_quantity", "type_names"}, rows)
}
