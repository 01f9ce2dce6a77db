// Package importer parses equipment import files (CSV or XLSX) into rows.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/erazemk/popis/internal/model"
)

// MaxRows caps the data rows of one import.
const MaxRows = 5000

// Columns is the import header, in export order.
var Columns = []string{
	"name",
	"type_name",
	"inventory_number",
	"serial_number",
	"room_name",
	"quantity",
	"status",
	"purchase_date",
	"comment",
}

var (
	ErrNoData      = errors.New("file has no data rows (the first row is the header)")
	ErrTooManyRows = fmt.Errorf("file has more than %d data rows", MaxRows)
	ErrBadHeader   = errors.New("header must contain type_name and inventory_number")
)

// Charsets lists the accepted CSV encodings by form value.
var Charsets = map[string]encoding.Encoding{
	"utf-8":        unicode.UTF8,
	"windows-1250": charmap.Windows1250,
	"windows-1251": charmap.Windows1251,
	"iso-8859-2":   charmap.ISO8859_2,
}

// ParseCSV decodes r from charset (UTF-8 when empty) and parses it. A UTF-8
// byte order mark is dropped whatever the charset. Both comma and semicolon
// separated files are accepted.
func ParseCSV(r io.Reader, charset string) ([]model.ImportRow, error) {
	if charset == "" {
		charset = "utf-8"
	}
	enc, ok := Charsets[strings.ToLower(charset)]
	if !ok {
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}

	data, err := io.ReadAll(transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())))
	if err != nil {
		return nil, fmt.Errorf("decoding file: %w", err)
	}

	cr := csv.NewReader(strings.NewReader(string(data)))
	cr.Comma = detectSeparator(string(data))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	return parseRecords(records)
}

// ParseXLSX parses the first sheet of a workbook.
func ParseXLSX(r io.Reader) ([]model.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	records, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}
	return parseRecords(records)
}

// detectSeparator picks ';' when the header line has more semicolons than
// commas, as spreadsheets in comma-decimal locales export.
func detectSeparator(data string) rune {
	header, _, _ := strings.Cut(data, "\n")
	if strings.Count(header, ";") > strings.Count(header, ",") {
		return ';'
	}
	return ','
}

func parseRecords(records [][]string) ([]model.ImportRow, error) {
	if len(records) < 2 {
		return nil, ErrNoData
	}
	if len(records)-1 > MaxRows {
		return nil, ErrTooManyRows
	}

	index := headerIndex(records[0])
	if index["type_name"] < 0 || index["inventory_number"] < 0 {
		return nil, ErrBadHeader
	}

	var rows []model.ImportRow
	for i, rec := range records[1:] {
		get := func(col string) string {
			if idx := index[col]; idx >= 0 && idx < len(rec) {
				return strings.TrimSpace(rec[idx])
			}
			return ""
		}

		row := model.ImportRow{
			Line:            i + 2,
			Name:            get("name"),
			TypeName:        get("type_name"),
			InventoryNumber: get("inventory_number"),
			SerialNumber:    get("serial_number"),
			RoomName:        get("room_name"),
			Status:          get("status"),
			PurchaseDate:    get("purchase_date"),
			Comment:         get("comment"),
		}
		if q := get("quantity"); q != "" {
			n, err := strconv.Atoi(q)
			if err != nil || n < 1 {
				row.Problem = fmt.Sprintf("invalid quantity %q", q)
			}
			row.Quantity = n
		}

		if row.Name == "" && row.TypeName == "" && row.InventoryNumber == "" && row.SerialNumber == "" {
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, ErrNoData
	}
	return rows, nil
}

// headerIndex maps every known column to its position, or -1.
func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(Columns))
	for _, c := range Columns {
		index[c] = -1
	}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, ok := index[key]; ok && index[key] < 0 {
			index[key] = i
		}
	}
	return index
}
