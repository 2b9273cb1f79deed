// =============================================================================
// Invoice Report Importer - Cell Values
// =============================================================================
//
// Interprets the untyped cell values produced by the XLSX and CSV decoders.
//
// =============================================================================

// Package cell interprets the untyped values found in decoded spreadsheet rows.
//
// A cell is one of: a string, a Go numeric value (decoders produce float64),
// a decimal.Decimal, or nil for an absent cell. Strings that are empty after
// trimming count as absent.
package cell

import (
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// IsBlank reports whether v is absent: nil or a whitespace-only string.
func IsBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}

// Text returns v as a string when it is a non-blank string cell.
func Text(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// Number returns v as a decimal when it is a numeric cell. Numeric-looking
// strings are not numbers.
func Number(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, true
	case float64:
		return fromFloat(t)
	case float32:
		return fromFloat(float64(t))
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int8:
		return decimal.NewFromInt(int64(t)), true
	case int16:
		return decimal.NewFromInt(int64(t)), true
	case int32:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case uint:
		return fromUint(uint64(t)), true
	case uint8:
		return decimal.NewFromInt(int64(t)), true
	case uint16:
		return decimal.NewFromInt(int64(t)), true
	case uint32:
		return decimal.NewFromInt(int64(t)), true
	case uint64:
		return fromUint(t), true
	}
	return decimal.Decimal{}, false
}

func fromUint(u uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0)
}

func fromFloat(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, false
	}
	return decimal.NewFromFloat(f), true
}

// Describe names the kind of v for error messages.
func Describe(v any) string {
	if IsBlank(v) {
		return "empty"
	}
	if _, ok := Number(v); ok {
		return "number"
	}
	if _, ok := v.(string); ok {
		return "text"
	}
	return "unsupported value"
}
