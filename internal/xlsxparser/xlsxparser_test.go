package xlsxparser

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/invoice-report-importer/internal/invoice"
	"github.com/ginjaninja78/invoice-report-importer/internal/validation"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, cells map[string]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for ref, v := range cells {
		if err := f.SetCellValue("Sheet1", ref, v); err != nil {
			t.Fatalf("SetCellValue(%s): %v", ref, err)
		}
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

func TestReadGridFileTypesCells(t *testing.T) {
	path := writeWorkbook(t, map[string]any{
		"A1": "March 2024",
		"A2": "USD",
		"B2": 1,
		"A3": "EUR Rate",
		"B3": 0.92,
		"A4": "Code",
		"B4": "00123",
		"A6": "Customer",
		"C6": "Status",
	})

	grid, err := ReadGridFile(path)
	if err != nil {
		t.Fatalf("ReadGridFile: %v", err)
	}
	if len(grid) != 6 {
		t.Fatalf("got %d rows, want 6", len(grid))
	}

	if grid[0][0] != "March 2024" || len(grid[0]) != 1 {
		t.Errorf("row 1 = %#v", grid[0])
	}
	if grid[1][1] != 1.0 {
		t.Errorf("USD rate = %#v (%T), want float64 1", grid[1][1], grid[1][1])
	}
	if grid[2][1] != 0.92 {
		t.Errorf("EUR rate = %#v", grid[2][1])
	}
	if grid[3][1] != "00123" {
		t.Errorf("numeric-looking text = %#v (%T), want string", grid[3][1], grid[3][1])
	}
	if len(grid[4]) != 0 {
		t.Errorf("blank row = %#v, want empty", grid[4])
	}
	if grid[5][1] != nil || grid[5][2] != "Status" {
		t.Errorf("row with gap = %#v", grid[5])
	}
}

func TestReadGridFromReader(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", "03/2024")
	f.SetCellValue("Sheet1", "B2", 12.5)

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	grid, err := ReadGrid(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadGrid: %v", err)
	}
	want := invoice.Grid{{"03/2024"}, {nil, 12.5}}
	if len(grid) != len(want) || grid[0][0] != want[0][0] || grid[1][0] != nil || grid[1][1] != 12.5 {
		t.Fatalf("grid = %#v", grid)
	}
}

func TestReadGridRejectsGarbage(t *testing.T) {
	if _, err := ReadGrid(bytes.NewReader([]byte("not a workbook"))); err == nil {
		t.Fatal("expected an error for a non-xlsx body")
	}
}

func TestParseSchemaTemplate(t *testing.T) {
	path := writeWorkbook(t, map[string]any{
		"A1": "Field", "B1": "Kind", "C1": "Required",
		"A2": "Customer", "B2": "string", "C2": "yes",
		"A3": "Cust No", "B3": "any", "C3": "Y",
		"A4": "Quantity", "B4": "numeric",
		"A6": "PO Number", "B6": "text", "C6": "optional",
	})

	schema, err := ParseSchemaTemplate(path)
	if err != nil {
		t.Fatalf("ParseSchemaTemplate: %v", err)
	}

	want := validation.Schema{
		{Name: "Customer", Required: true, Kind: validation.KindText},
		{Name: "Cust No", Required: true, Kind: validation.KindTextOrNumber},
		{Name: "Quantity", Required: true, Kind: validation.KindNumber},
		{Name: "PO Number", Required: false, Kind: validation.KindText},
	}
	if len(schema) != len(want) {
		t.Fatalf("schema = %+v", schema)
	}
	for i := range want {
		if schema[i] != want[i] {
			t.Errorf("field %d = %+v, want %+v", i, schema[i], want[i])
		}
	}
}

func TestParseSchemaTemplateUnknownKind(t *testing.T) {
	path := writeWorkbook(t, map[string]any{
		"A1": "Field", "B1": "Kind", "C1": "Required",
		"A2": "Due Date", "B2": "date", "C2": "yes",
	})
	if _, err := ParseSchemaTemplate(path); err == nil {
		t.Fatal("expected an error for an unknown kind")
	}
}
