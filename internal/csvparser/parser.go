// =============================================================================
// Invoice Report Importer - CSV Grid Reader
// =============================================================================
//
// Some teams export the monthly report as CSV instead of XLSX. This module
// reads such an export into the same invoice.Grid the XLSX reader produces.
//
// CELL TYPING:
//   CSV carries no types, so values are classified by their text:
//   - empty (after trimming)        -> nil
//   - plain decimal number ("0.92") -> float64
//   - anything else                 -> string
//
//   Thousands separators, currency signs and hex or special float spellings
//   ("NaN", "Inf") stay text.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/ginjaninja78/invoice-report-importer/internal/config"
	"github.com/ginjaninja78/invoice-report-importer/internal/invoice"
)

const utf8BOM = "\uFEFF"

var numberPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ReadGridFile reads the CSV file at filePath.
func ReadGridFile(filePath string, settings config.CSVSettings) (invoice.Grid, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ReadGrid(file, settings)
}

// ReadGrid reads CSV from r into a grid, one row per record. Blank lines
// become empty rows so section breaks survive.
func ReadGrid(r io.Reader, settings config.CSVSettings) (invoice.Grid, error) {
	csvReader := csv.NewReader(bufio.NewReader(r))
	configureReader(csvReader, settings)

	var grid invoice.Grid
	lastLine := 0
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		// encoding/csv drops blank lines; put them back as empty rows.
		line, _ := csvReader.FieldPos(0)
		for ; lastLine+1 < line; lastLine++ {
			grid = append(grid, invoice.Row{})
		}
		endLine, _ := csvReader.FieldPos(len(record) - 1)
		lastLine = endLine + strings.Count(record[len(record)-1], "\n")

		if len(grid) == 0 {
			record[0] = strings.TrimPrefix(record[0], utf8BOM)
		}
		grid = append(grid, toRow(record, settings.TrimFields()))
	}

	return grid, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Section rows have fewer cells than invoice rows.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
}

// toRow converts one record into typed cells.
func toRow(record []string, trim bool) invoice.Row {
	row := make(invoice.Row, len(record))
	for i, field := range record {
		row[i] = parseValue(field, trim)
	}

	end := len(row)
	for end > 0 && row[end-1] == nil {
		end--
	}
	return row[:end]
}

// parseValue classifies a single CSV field.
func parseValue(field string, trim bool) any {
	trimmed := strings.TrimSpace(field)
	if trimmed == "" {
		return nil
	}
	if numberPattern.MatchString(trimmed) {
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
	}
	if trim {
		return trimmed
	}
	return field
}
