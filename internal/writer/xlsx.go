package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/invoice-report-importer/internal/invoice"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the XLSX output.
const (
	InvoicesSheet = "Invoices"
	RatesSheet    = "Rates"
)

// XLSX writes res as a workbook with an Invoices sheet (source row, every
// column, total, validation errors) and a Rates sheet.
func XLSX(w io.Writer, res *invoice.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", InvoicesSheet); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}
	if _, err := f.NewSheet(RatesSheet); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}

	if err := writeInvoicesSheet(f, res, headerStyle); err != nil {
		return err
	}
	if err := writeRatesSheet(f, res, headerStyle); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func writeInvoicesSheet(f *excelize.File, res *invoice.Result, headerStyle int) error {
	var columns []string
	if len(res.Invoices) > 0 {
		columns = res.Invoices[0].Columns
	}

	header := []any{"Row"}
	for _, col := range columns {
		header = append(header, col)
	}
	header = append(header, invoice.TotalKey, "Validation Errors")

	if err := f.SetSheetRow(InvoicesSheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	_ = f.SetCellStyle(InvoicesSheet, "A1", last, headerStyle)

	for i, inv := range res.Invoices {
		row := []any{inv.SourceRow}
		for _, col := range columns {
			row = append(row, inv.Values[col])
		}
		if inv.Total != nil {
			total, _ := inv.Total.Float64()
			row = append(row, total)
		} else {
			row = append(row, nil)
		}
		row = append(row, strings.Join(inv.ValidationErrors, "; "))

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(InvoicesSheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(InvoicesSheet, "B", "Z", 16)
	return nil
}

func writeRatesSheet(f *excelize.File, res *invoice.Result, headerStyle int) error {
	if err := f.SetSheetRow(RatesSheet, "A1", &[]any{"Currency", "Rate"}); err != nil {
		return fmt.Errorf("xlsx header: %w", err)
	}
	_ = f.SetCellStyle(RatesSheet, "A1", "B1", headerStyle)
	_ = f.SetCellValue(RatesSheet, "D1", "Invoicing Month")
	_ = f.SetCellValue(RatesSheet, "E1", res.InvoicingMonth.String())

	for i, code := range res.CurrencyRates.Codes() {
		rate, _ := res.CurrencyRates.Rate(code)
		value, _ := rate.Float64()
		if err := f.SetSheetRow(RatesSheet, fmt.Sprintf("A%d", i+2), &[]any{code, value}); err != nil {
			return fmt.Errorf("xlsx rate %s: %w", code, err)
		}
	}
	return nil
}
