// =============================================================================
// Invoice Report Importer - XLSX Schema Template Parser
// =============================================================================
//
// Finance teams maintain the list of required invoice columns in a small
// workbook instead of in code. This module reads that workbook into a
// validation.Schema.
//
// TEMPLATE STRUCTURE (Expected Columns):
//
//   | Column A            | Column B | Column C |
//   |---------------------|----------|----------|
//   | Field               | Kind     | Required |
//   | Customer            | text     | yes      |
//   | Cust No             | any      | yes      |
//   | Quantity            | number   | yes      |
//   | PO Number           | text     | no       |
//
// Row 1 is a header and is skipped. Rows with an empty Field are skipped.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/invoice-report-importer/internal/validation"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// TEMPLATE COLUMN CONFIGURATION
// =============================================================================

// TemplateColumns defines which columns in the template hold which data.
// Column indices are 0-based (A=0, B=1, C=2).
type TemplateColumns struct {
	FieldColumn    int
	KindColumn     int
	RequiredColumn int

	// DataStartRow is the first row holding a field (0-based).
	DataStartRow int
}

// DefaultTemplateColumns returns the layout shown above.
func DefaultTemplateColumns() TemplateColumns {
	return TemplateColumns{
		FieldColumn:    0, // Column A
		KindColumn:     1, // Column B
		RequiredColumn: 2, // Column C
		DataStartRow:   1, // Row 2
	}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseSchemaTemplate reads a schema template from the first sheet of the
// workbook at templatePath.
func ParseSchemaTemplate(templatePath string) (validation.Schema, error) {
	return ParseSchemaTemplateWithConfig(templatePath, DefaultTemplateColumns())
}

// ParseSchemaTemplateWithConfig reads a schema template using a custom column
// layout.
func ParseSchemaTemplateWithConfig(templatePath string, columns TemplateColumns) (validation.Schema, error) {
	f, err := excelize.OpenFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open template file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("template file has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	var schema validation.Schema
	for i := columns.DataStartRow; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}

		field, err := parseRow(row, columns)
		if err != nil {
			return nil, fmt.Errorf("error parsing template row %d: %w", i+1, err)
		}
		if field.Name == "" {
			continue
		}
		schema = append(schema, field)
	}

	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("template %s: %w", templatePath, err)
	}
	return schema, nil
}

// parseRow extracts one field definition from a template row.
func parseRow(row []string, columns TemplateColumns) (validation.Field, error) {
	getCell := func(index int) string {
		if index < len(row) {
			return strings.TrimSpace(row[index])
		}
		return ""
	}

	field := validation.Field{
		Name:     getCell(columns.FieldColumn),
		Required: normalizeRequired(getCell(columns.RequiredColumn)),
	}
	if field.Name == "" {
		return field, nil
	}

	kind, err := normalizeKind(getCell(columns.KindColumn))
	if err != nil {
		return field, fmt.Errorf("field %q: %w", field.Name, err)
	}
	field.Kind = kind
	return field, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// normalizeRequired maps the spellings finance uses onto a bool. Anything
// unrecognized, including blank, counts as required.
func normalizeRequired(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "optional", "opt", "o", "no", "n", "false", "0":
		return false
	default:
		return true
	}
}

// normalizeKind defaults a blank kind to text-or-number.
func normalizeKind(value string) (validation.Kind, error) {
	if strings.TrimSpace(value) == "" {
		return validation.KindTextOrNumber, nil
	}
	return validation.ParseKind(value)
}
