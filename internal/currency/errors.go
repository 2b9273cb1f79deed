// =============================================================================
// Invoice Report Importer - Currency Errors
// =============================================================================
//
// Errors returned while building the rate table or converting totals.
//
// =============================================================================

package currency

import (
	"errors"
	"fmt"
)

// Kind classifies a currency failure.
type Kind string

const (
	KindSymbolUnparsable Kind = "CurrencySymbolUnparsable"
	KindDuplicateCode    Kind = "DuplicateCurrencyCode"
	KindInvalidRate      Kind = "InvalidCurrencyRate"
	KindRateNotFound     Kind = "CurrencyRateNotFound"
)

var (
	ErrSymbolUnparsable = errors.New("currency symbol is not parsable")
	ErrDuplicateCode    = errors.New("duplicate currency code")
	ErrInvalidRate      = errors.New("currency rate must be positive")
	ErrRateNotFound     = errors.New("currency rate not found")
)

// Error describes a currency failure for one input value.
type Error struct {
	Kind  Kind
	Input string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindDuplicateCode:
		return fmt.Sprintf("%s: currency %s appears more than once in the rate table", e.Kind, e.Input)
	case KindInvalidRate:
		return fmt.Sprintf("%s: rate for %s must be a positive number", e.Kind, e.Input)
	case KindRateNotFound:
		return fmt.Sprintf("%s: no rate for currency %s", e.Kind, e.Input)
	default:
		return fmt.Sprintf("%s: cannot read a currency code from %q", e.Kind, e.Input)
	}
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrSymbolUnparsable:
		return e.Kind == KindSymbolUnparsable
	case ErrDuplicateCode:
		return e.Kind == KindDuplicateCode
	case ErrInvalidRate:
		return e.Kind == KindInvalidRate
	case ErrRateNotFound:
		return e.Kind == KindRateNotFound
	}
	return false
}
