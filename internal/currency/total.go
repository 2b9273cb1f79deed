// =============================================================================
// Invoice Report Importer - Invoice Totals
// =============================================================================
//
// Converts an invoice total into the reference currency using the rate
// table. Amounts use shopspring/decimal throughout.
//
// =============================================================================

package currency

import (
	"strings"

	"github.com/ginjaninja78/invoice-report-importer/internal/cell"
	"github.com/shopspring/decimal"
)

// TotalState tells a resolved total apart from the two ways of having none.
type TotalState int

const (
	// Insufficient means the inputs were not usable yet (no currency given or
	// a non-numeric price). It carries no errors.
	Insufficient TotalState = iota
	// Resolved means Value holds price × rate.
	Resolved
	// Unresolved means a lookup failed; Errors says why.
	Unresolved
)

// Total is the outcome of resolving one invoice total.
type Total struct {
	State  TotalState
	Value  decimal.Decimal
	Errors []string
}

// Ptr returns the value for a resolved total and nil otherwise.
func (t Total) Ptr() *decimal.Decimal {
	if t.State != Resolved {
		return nil
	}
	v := t.Value
	return &v
}

// ComputeTotal converts price, given in invoiceCurrency, using rates.
//
// A currency that is present but missing from the table is an error. A
// missing currency or a non-numeric price is not: the total is simply
// Insufficient.
func ComputeTotal(price, invoiceCurrency any, rates *RateTable) Total {
	if cell.IsBlank(invoiceCurrency) {
		return Total{State: Insufficient}
	}

	code, isText := invoiceCurrency.(string)
	code = strings.TrimSpace(code)
	rate, found := rates.Rate(code)
	if !isText || !found {
		label := code
		if !isText {
			label = cell.Describe(invoiceCurrency) + " value"
		}
		err := &Error{Kind: KindRateNotFound, Input: label}
		return Total{State: Unresolved, Errors: []string{err.Error()}}
	}

	amount, ok := cell.Number(price)
	if !ok {
		return Total{State: Insufficient}
	}
	return Total{State: Resolved, Value: amount.Mul(rate)}
}
