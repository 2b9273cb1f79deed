// =============================================================================
// Invoice Report Importer - Rate Table
// =============================================================================
//
// Conversion rates into the reference currency, read from the rates section
// of a report.
//
// =============================================================================

package currency

import (
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"
)

// RateTable maps a currency code to its multiplicative conversion rate into
// the report's reference currency. It is built once per parse and is not
// safe for concurrent mutation.
type RateTable struct {
	rates map[string]decimal.Decimal
}

// NewRateTable returns an empty table.
func NewRateTable() *RateTable {
	return &RateTable{rates: make(map[string]decimal.Decimal)}
}

// Add inserts a rate. Codes must be unique and rates positive.
func (t *RateTable) Add(code string, rate decimal.Decimal) error {
	if _, exists := t.rates[code]; exists {
		return &Error{Kind: KindDuplicateCode, Input: code}
	}
	if !rate.IsPositive() {
		return &Error{Kind: KindInvalidRate, Input: code}
	}
	t.rates[code] = rate
	return nil
}

// Rate looks up the rate for code.
func (t *RateTable) Rate(code string) (decimal.Decimal, bool) {
	if t == nil {
		return decimal.Decimal{}, false
	}
	r, ok := t.rates[code]
	return r, ok
}

// Len returns the number of rates.
func (t *RateTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rates)
}

// Codes returns the currency codes in sorted order.
func (t *RateTable) Codes() []string {
	if t == nil {
		return nil
	}
	codes := make([]string, 0, len(t.rates))
	for code := range t.rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// MarshalJSON writes the table as an object of code -> number.
func (t *RateTable) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.Number, t.Len())
	for _, code := range t.Codes() {
		out[code] = json.Number(t.rates[code].String())
	}
	return json.Marshal(out)
}
