package writer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ginjaninja78/invoice-report-importer/internal/currency"
	"github.com/ginjaninja78/invoice-report-importer/internal/invoice"
	"github.com/ginjaninja78/invoice-report-importer/internal/period"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func sampleResult(t *testing.T) *invoice.Result {
	t.Helper()
	rates := currency.NewRateTable()
	if err := rates.Add("USD", decimal.NewFromInt(1)); err != nil {
		t.Fatal(err)
	}
	if err := rates.Add("GBP", decimal.RequireFromString("0.8")); err != nil {
		t.Fatal(err)
	}

	total := decimal.NewFromInt(80)
	return &invoice.Result{
		InvoicingMonth: period.MustParseDeclared("2024-03"),
		CurrencyRates:  rates,
		Invoices: []invoice.InvoiceRow{
			{
				SourceRow:        6,
				Columns:          []string{"Customer", "Invoice #", "Notes"},
				Values:           map[string]any{"Customer": "Smith & Sons", "Invoice #": "INV-1", "Notes": nil},
				Total:            &total,
				ValidationErrors: []string{},
			},
			{
				SourceRow:        7,
				Columns:          []string{"Customer", "Invoice #", "Notes"},
				Values:           map[string]any{"Customer": "Acme", "Invoice #": "INV-2", "Notes": 12.5},
				ValidationErrors: []string{`Missing required field "Status"`},
			},
		},
	}
}

func TestForFormat(t *testing.T) {
	for name, ext := range map[string]string{"json": ".json", "XML": ".xml", "xlsx": ".xlsx"} {
		w, err := ForFormat(name)
		if err != nil {
			t.Fatalf("ForFormat(%q): %v", name, err)
		}
		if w.Extension() != ext {
			t.Errorf("ForFormat(%q).Extension() = %q", name, w.Extension())
		}
	}
	if _, err := ForFormat("pdf"); err == nil {
		t.Error("ForFormat(pdf) should fail")
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleResult(t)); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded["invoicingMonth"] != "2024-03" {
		t.Errorf("invoicingMonth = %v", decoded["invoicingMonth"])
	}
	if !strings.Contains(buf.String(), `"Smith & Sons"`) {
		t.Errorf("HTML escaping applied:\n%s", buf.String())
	}
}

func TestXML(t *testing.T) {
	var buf bytes.Buffer
	if err := XML(&buf, sampleResult(t)); err != nil {
		t.Fatalf("XML: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<invoiceReport month="2024-03">`,
		`<rate code="GBP">0.8</rate>`,
		`<invoice n="1" row="6">`,
		`<field name="Customer">Smith &amp; Sons</field>`,
		`<field name="Invoice #">INV-1</field>`,
		`<field name="Notes"/>`,
		`<total>80</total>`,
		`<field name="Notes">12.5</field>`,
		`<total/>`,
		`<error>Missing required field &quot;Status&quot;</error>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("XML lacks %s\n%s", want, out)
		}
	}
	if strings.Index(out, `code="GBP"`) > strings.Index(out, `code="USD"`) {
		t.Error("rates are not sorted by code")
	}
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := XLSX(&buf, sampleResult(t)); err != nil {
		t.Fatalf("XLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(InvoicesSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	wantHeader := "Row,Customer,Invoice #,Notes,Invoice Total,Validation Errors"
	if got := strings.Join(rows[0], ","); got != wantHeader {
		t.Errorf("header = %s", got)
	}
	if rows[1][1] != "Smith & Sons" || rows[1][4] != "80" {
		t.Errorf("row 1 = %v", rows[1])
	}
	if rows[2][5] != `Missing required field "Status"` {
		t.Errorf("row 2 = %v", rows[2])
	}

	rates, err := f.GetRows(RatesSheet)
	if err != nil {
		t.Fatalf("GetRows rates: %v", err)
	}
	if len(rates) != 3 || rates[1][0] != "GBP" || rates[1][1] != "0.8" {
		t.Errorf("rates = %v", rates)
	}
}
