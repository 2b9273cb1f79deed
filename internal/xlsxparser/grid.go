// =============================================================================
// Invoice Report Importer - XLSX Grid Reader
// =============================================================================
//
// This module decodes the first worksheet of an XLSX workbook into an
// invoice.Grid, the untyped row/cell form the report parser consumes.
//
// CELL TYPING:
//   Spreadsheet cells are mapped onto three Go shapes:
//
//   | Stored as                        | Grid value |
//   |----------------------------------|------------|
//   | shared / inline string, formula  | string     |
//   | number (including dates)         | float64    |
//   | boolean                          | "TRUE"/"FALSE" |
//   | empty                            | nil        |
//
//   A string cell holding "100" stays a string. Only cells Excel itself
//   stores as numbers become float64, so the report parser can tell a rate
//   typed as text apart from a real number.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ginjaninja78/invoice-report-importer/internal/invoice"
	"github.com/xuri/excelize/v2"
)

// ReadGridFile opens an XLSX file and returns the grid of its first sheet.
func ReadGridFile(path string) (invoice.Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return readFirstSheet(f)
}

// ReadGrid reads an XLSX workbook from r and returns the grid of its first
// sheet. Used for uploads that never touch the disk.
func ReadGrid(r io.Reader) (invoice.Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	defer f.Close()

	return readFirstSheet(f)
}

// readFirstSheet decodes the first worksheet. Other sheets are ignored.
func readFirstSheet(f *excelize.File) (invoice.Grid, error) {
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	// Raw values keep numbers free of display formatting ("1,000.00").
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	grid := make(invoice.Grid, 0, len(rows))
	for r, raw := range rows {
		row := make(invoice.Row, len(raw))
		for c, value := range raw {
			if value == "" {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, fmt.Errorf("invalid cell at row %d column %d: %w", r+1, c+1, err)
			}
			typ, err := f.GetCellType(sheetName, ref)
			if err != nil {
				return nil, fmt.Errorf("failed to read cell %s: %w", ref, err)
			}
			row[c] = typedValue(typ, value)
		}
		grid = append(grid, trimRow(row))
	}

	return grid, nil
}

// typedValue converts a raw cell string using the cell's stored type.
func typedValue(typ excelize.CellType, raw string) any {
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return raw
	case excelize.CellTypeBool:
		if raw == "1" || raw == "TRUE" || raw == "true" {
			return "TRUE"
		}
		return "FALSE"
	}

	// Numbers carry no type attribute in most writers, so anything left is
	// numeric when it parses as one.
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	return raw
}

// trimRow drops trailing empty cells.
func trimRow(row invoice.Row) invoice.Row {
	end := len(row)
	for end > 0 && row[end-1] == nil {
		end--
	}
	return row[:end]
}
