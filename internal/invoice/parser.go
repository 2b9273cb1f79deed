// =============================================================================
// Invoice Report Importer - Invoice Parser
// =============================================================================
//
// Drives the four report stages (period, rates, header, invoices) over a
// decoded grid and produces a Result or a single ParseError.
//
// =============================================================================

// Package invoice turns the grid of a monthly invoice report into a typed
// result.
//
// A report is read top to bottom in four stages that never go back:
//
//	period         one cell naming the invoicing month
//	currency rates two-cell rows of code and rate
//	header         column names for the invoice rows
//	invoice rows   data, ending at the first empty row or end of input
//
// Structural problems abort the parse with a *ParseError. Problems with a
// single invoice are recorded on that invoice and parsing continues.
package invoice

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/invoice-report-importer/internal/cell"
	"github.com/ginjaninja78/invoice-report-importer/internal/currency"
	"github.com/ginjaninja78/invoice-report-importer/internal/period"
	"github.com/ginjaninja78/invoice-report-importer/internal/validation"
	"github.com/shopspring/decimal"
)

// Stage is a step of the parse.
type Stage int

const (
	StagePeriod Stage = iota
	StageCurrencyRates
	StageHeader
	StageInvoiceRows
	stageDone
)

func (s Stage) String() string {
	switch s {
	case StagePeriod:
		return "period"
	case StageCurrencyRates:
		return "currency rates"
	case StageHeader:
		return "header"
	case StageInvoiceRows:
		return "invoice rows"
	}
	return "done"
}

// Column names the parser itself depends on.
const (
	StatusColumn        = validation.FieldStatus
	InvoiceNumberColumn = validation.FieldInvoiceNumber
	TotalPriceColumn    = validation.FieldInvoiceTotalPrice
	CurrencyColumn      = validation.FieldInvoiceCurrency

	// ReadyStatus is the only status whose rows are imported.
	ReadyStatus = "Ready"
)

// Parse reads grid as an invoice report for the declared month. Invoice rows
// are checked against schema; pass validation.DefaultInvoiceSchema() for the
// standard layout.
//
// Parse keeps no state between calls and is safe to call concurrently.
func Parse(grid Grid, declared period.Period, schema validation.Schema) (*Result, error) {
	m := &machine{
		cur:      cursor{grid: grid},
		declared: declared,
		schema:   schema,
		stage:    StagePeriod,
		rates:    currency.NewRateTable(),
	}
	return m.run()
}

type machine struct {
	cur      cursor
	declared period.Period
	schema   validation.Schema
	stage    Stage

	month    period.Period
	rates    *currency.RateTable
	columns  []string
	invoices []InvoiceRow
}

func (m *machine) run() (*Result, error) {
	for m.stage != stageDone {
		row, ok := m.cur.peek()
		if !ok {
			return m.endOfInput()
		}

		var err error
		switch m.stage {
		case StagePeriod:
			err = m.readPeriod(row)
		case StageCurrencyRates:
			err = m.readRate(row)
		case StageHeader:
			err = m.readHeader(row)
		case StageInvoiceRows:
			err = m.readInvoice(row)
		}
		if err != nil {
			return nil, err
		}
	}
	return m.result(), nil
}

func (m *machine) result() *Result {
	invoices := m.invoices
	if invoices == nil {
		invoices = []InvoiceRow{}
	}
	return &Result{
		InvoicingMonth: m.month,
		CurrencyRates:  m.rates,
		Invoices:       invoices,
	}
}

func (m *machine) fail(kind ErrorKind, err error, format string, args ...any) *ParseError {
	return &ParseError{
		Kind:    kind,
		Stage:   m.stage,
		Row:     m.cur.line(),
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

func (m *machine) endOfInput() (*Result, error) {
	end := func(kind ErrorKind, msg string) error {
		return &ParseError{Kind: kind, Stage: m.stage, Message: msg}
	}

	switch m.stage {
	case StagePeriod:
		return nil, end(KindUnexpectedEndOfInput, "report is empty, expected the invoicing period row")
	case StageCurrencyRates:
		if m.rates.Len() == 0 {
			return nil, end(KindNoCurrencyRatesFound, "report ends before any currency rate")
		}
		return nil, end(KindUnexpectedEndOfInput, "report ends before the header row")
	case StageHeader:
		return nil, end(KindUnexpectedEndOfInput, "report ends before the header row")
	case StageInvoiceRows:
		if len(m.invoices) == 0 {
			return nil, end(KindNoInvoiceDataFound, "report ends before any ready invoice row")
		}
	}
	return m.result(), nil
}

// ============================================================================
// Period
// ============================================================================

func (m *machine) readPeriod(row Row) error {
	cells := row.trimmed()
	label, isText := "", false
	if len(cells) == 1 {
		label, isText = cell.Text(cells[0])
	}
	if !isText {
		return m.fail(KindUnexpectedRowInPeriodStage, nil,
			"expected the invoicing period as text in the first cell, got %s", describeRow(row))
	}

	month, err := period.Parse(label)
	if err != nil {
		return m.fail(KindPeriodUnparsable, err, "cannot read %q as a month and year", label)
	}
	if !month.Equal(m.declared) {
		return m.fail(KindPeriodMismatch, nil,
			"report covers %s but %s was declared", month, m.declared)
	}

	m.month = month
	m.cur.advance()
	m.stage = StageCurrencyRates
	return nil
}

// ============================================================================
// Currency rates
// ============================================================================

// readRate consumes one rate row. The first row that is not rate-shaped ends
// the stage and is left for the header stage, provided a rate was read.
func (m *machine) readRate(row Row) error {
	label, rate, ok := rateShape(row)
	if !ok {
		if m.rates.Len() == 0 {
			return m.fail(KindNoCurrencyRatesFound, nil,
				"expected a currency rate row after the invoicing period")
		}
		m.stage = StageHeader
		return nil
	}

	code, err := currency.ParseSymbol(label)
	if err != nil {
		return m.fail(KindCurrencySymbolUnparsable, err, "cannot read a currency code from %q", label)
	}

	if err := m.rates.Add(code, rate); err != nil {
		switch {
		case errors.Is(err, currency.ErrDuplicateCode):
			return m.fail(KindDuplicateCurrencyCode, err, "currency %s is listed twice", code)
		default:
			return m.fail(KindInvalidCurrencyRate, err, "rate %s for %s is not positive", rate, code)
		}
	}

	m.cur.advance()
	return nil
}

func rateShape(row Row) (string, decimal.Decimal, bool) {
	cells := row.trimmed()
	if len(cells) != 2 {
		return "", decimal.Decimal{}, false
	}
	label, isText := cell.Text(cells[0])
	rate, isNumber := cell.Number(cells[1])
	if !isText || !isNumber {
		return "", decimal.Decimal{}, false
	}
	return label, rate, true
}

// ============================================================================
// Header
// ============================================================================

func (m *machine) readHeader(row Row) error {
	cells := row.trimmed()
	if len(cells) == 0 {
		return m.fail(KindInvalidHeaderRow, nil, "header row is empty")
	}

	columns := make([]string, len(cells))
	seen := make(map[string]int, len(cells))
	for i, c := range cells {
		name, ok := cell.Text(c)
		if !ok {
			return m.fail(KindInvalidHeaderRow, nil,
				"column %d of the header must be a name, got %s", i+1, cell.Describe(c))
		}
		name = strings.TrimSpace(name)
		if name == TotalKey || name == ValidationErrorsKey {
			return m.fail(KindInvalidHeaderRow, nil,
				"column %d is named %q, which is reserved for computed output", i+1, name)
		}
		if prev, dup := seen[name]; dup {
			return m.fail(KindInvalidHeaderRow, nil,
				"column %q appears at positions %d and %d", name, prev+1, i+1)
		}
		seen[name] = i
		columns[i] = name
	}

	m.columns = columns
	m.cur.advance()
	m.stage = StageInvoiceRows
	return nil
}

// ============================================================================
// Invoice rows
// ============================================================================

func (m *machine) readInvoice(row Row) error {
	if row.isEmpty() {
		if len(m.invoices) == 0 {
			return m.fail(KindNoInvoiceDataFound, nil, "no ready invoice row before the first empty row")
		}
		m.stage = stageDone
		return nil
	}

	values := make(map[string]any, len(m.columns))
	for i, col := range m.columns {
		var v any
		if i < len(row) && !cell.IsBlank(row[i]) {
			v = row[i]
		}
		values[col] = v
	}
	line := m.cur.line()
	m.cur.advance()

	if !isReady(values) {
		return nil
	}

	errs := m.schema.Messages(values)
	total := currency.ComputeTotal(values[TotalPriceColumn], values[CurrencyColumn], m.rates)
	errs = append(errs, total.Errors...)

	m.invoices = append(m.invoices, InvoiceRow{
		SourceRow:        line,
		Columns:          m.columns,
		Values:           values,
		Total:            total.Ptr(),
		ValidationErrors: errs,
	})
	return nil
}

// isReady reports whether a row is meant for import: its status is exactly
// "Ready" or it already carries an invoice number. Drafts and placeholder
// rows fail both and are dropped without an error.
func isReady(values map[string]any) bool {
	if status, ok := values[StatusColumn].(string); ok && status == ReadyStatus {
		return true
	}
	_, hasNumber := cell.Text(values[InvoiceNumberColumn])
	return hasNumber
}

func countFilled(row Row) int {
	n := 0
	for _, c := range row {
		if !cell.IsBlank(c) {
			n++
		}
	}
	return n
}

// describeRow summarizes a row's shape for error messages, e.g. "a row of 2
// cells (1 non-empty, first cell empty)".
func describeRow(row Row) string {
	cells := row.trimmed()
	if len(cells) == 0 {
		return "an empty row"
	}
	desc := fmt.Sprintf("a row of %d cell(s) (%d non-empty", len(cells), countFilled(cells))
	if cell.IsBlank(cells[0]) {
		desc += ", first cell empty"
	} else {
		desc += ", first cell " + cell.Describe(cells[0])
	}
	return desc + ")"
}
