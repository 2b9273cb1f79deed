// =============================================================================
// Invoice Report Importer - Parse Result
// =============================================================================
//
// The parsed report: period, rates, header, invoices and their computed
// totals. Serializes to the JSON document the writers and the server emit.
//
// =============================================================================

package invoice

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/ginjaninja78/invoice-report-importer/internal/currency"
	"github.com/ginjaninja78/invoice-report-importer/internal/period"
	"github.com/shopspring/decimal"
)

// Keys added to every serialized invoice row.
const (
	TotalKey            = "Invoice Total"
	ValidationErrorsKey = "validationErrors"
)

// Result is the outcome of one successful parse.
type Result struct {
	InvoicingMonth period.Period
	CurrencyRates  *currency.RateTable
	Invoices       []InvoiceRow
}

// InvoiceRow is one accepted data row.
type InvoiceRow struct {
	// SourceRow is the 1-based grid row the invoice was read from.
	SourceRow int

	// Columns are the header names in header order.
	Columns []string

	// Values holds a value for every column; absent cells are nil.
	Values map[string]any

	// Total is the invoice total in the reference currency, nil when it
	// could not be computed.
	Total *decimal.Decimal

	// ValidationErrors is never nil.
	ValidationErrors []string
}

// Valid reports whether the row carries no validation errors.
func (r InvoiceRow) Valid() bool {
	return len(r.ValidationErrors) == 0
}

// Summary counts invoices by outcome.
type Summary struct {
	Invoices           int
	InvoicesWithErrors int
	InvoicesWithTotal  int
}

// Summary returns the counts for r.
func (r *Result) Summary() Summary {
	s := Summary{Invoices: len(r.Invoices)}
	for _, inv := range r.Invoices {
		if !inv.Valid() {
			s.InvoicesWithErrors++
		}
		if inv.Total != nil {
			s.InvoicesWithTotal++
		}
	}
	return s
}

type resultJSON struct {
	InvoicingMonth period.Period       `json:"invoicingMonth"`
	CurrencyRates  *currency.RateTable `json:"currencyRates"`
	InvoicesData   []InvoiceRow        `json:"invoicesData"`
}

// MarshalJSON writes the result in its published shape.
func (r *Result) MarshalJSON() ([]byte, error) {
	rates := r.CurrencyRates
	if rates == nil {
		rates = currency.NewRateTable()
	}
	invoices := r.Invoices
	if invoices == nil {
		invoices = []InvoiceRow{}
	}
	return marshal(resultJSON{
		InvoicingMonth: r.InvoicingMonth,
		CurrencyRates:  rates,
		InvoicesData:   invoices,
	})
}

// MarshalJSON writes every column plus the total and the error list.
func (r InvoiceRow) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Columns)+2)
	for _, col := range r.Columns {
		out[col] = jsonValue(r.Values[col])
	}

	if r.Total != nil {
		out[TotalKey] = json.Number(r.Total.String())
	} else {
		out[TotalKey] = nil
	}

	errs := r.ValidationErrors
	if errs == nil {
		errs = []string{}
	}
	out[ValidationErrorsKey] = errs

	return marshal(out)
}

// marshal is json.Marshal without HTML escaping, so customer names like
// "Smith & Sons" survive as written.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// jsonValue converts a cell for encoding. Non-finite floats, which JSON
// cannot represent, become null.
func jsonValue(v any) any {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(t)) || math.IsInf(float64(t), 0) {
			return nil
		}
	case decimal.Decimal:
		return json.Number(t.String())
	case *decimal.Decimal:
		if t == nil {
			return nil
		}
		return json.Number(t.String())
	}
	return v
}
