// =============================================================================
// Invoice Report Importer - Currency Symbols
// =============================================================================
//
// Reads currency codes out of rate-table labels such as "USD" or
// "EUR Rate".
//
// =============================================================================

// Package currency holds the rate table of an invoice report and resolves
// invoice totals into the report's reference currency.
package currency

import (
	"regexp"
	"strings"
)

var codePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// rateMarker separates the code from the rest of a label like "EUR Rate".
const rateMarker = "Rate"

// ParseSymbol extracts a currency code from a rate-table label. Plain codes
// ("USD") are taken as-is; otherwise the trimmed text before "Rate" is used.
func ParseSymbol(label string) (string, error) {
	s := strings.TrimSpace(label)
	if codePattern.MatchString(s) {
		return s, nil
	}

	idx := strings.Index(s, rateMarker)
	if idx < 0 {
		return "", &Error{Kind: KindSymbolUnparsable, Input: label}
	}

	code := strings.TrimSpace(s[:idx])
	if code == "" {
		return "", &Error{Kind: KindSymbolUnparsable, Input: label}
	}
	return code, nil
}
