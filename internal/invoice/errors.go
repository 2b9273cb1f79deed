// =============================================================================
// Invoice Report Importer - Parse Errors
// =============================================================================
//
// Error kinds raised while parsing a report. Every failure names the stage
// and the 1-based row it happened on.
//
// =============================================================================

package invoice

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a hard parse error.
type ErrorKind string

const (
	KindPeriodUnparsable           ErrorKind = "PeriodUnparsable"
	KindPeriodMismatch             ErrorKind = "PeriodMismatch"
	KindUnexpectedRowInPeriodStage ErrorKind = "UnexpectedRowInPeriodStage"
	KindNoCurrencyRatesFound       ErrorKind = "NoCurrencyRatesFound"
	KindCurrencySymbolUnparsable   ErrorKind = "CurrencySymbolUnparsable"
	KindDuplicateCurrencyCode      ErrorKind = "DuplicateCurrencyCode"
	KindInvalidCurrencyRate        ErrorKind = "InvalidCurrencyRate"
	KindInvalidHeaderRow           ErrorKind = "InvalidHeaderRow"
	KindNoInvoiceDataFound         ErrorKind = "NoInvoiceDataFound"
	KindUnexpectedEndOfInput       ErrorKind = "UnexpectedEndOfInput"
)

// Sentinels matched by errors.Is against a *ParseError of the same kind.
var (
	ErrPeriodUnparsable           = errors.New("invoicing period row cannot be parsed")
	ErrPeriodMismatch             = errors.New("invoicing period does not match the declared month")
	ErrUnexpectedRowInPeriodStage = errors.New("unexpected row where the invoicing period was expected")
	ErrNoCurrencyRatesFound       = errors.New("no currency rates found")
	ErrCurrencySymbolUnparsable   = errors.New("currency symbol cannot be parsed")
	ErrDuplicateCurrencyCode      = errors.New("duplicate currency code")
	ErrInvalidCurrencyRate        = errors.New("invalid currency rate")
	ErrInvalidHeaderRow           = errors.New("invalid header row")
	ErrNoInvoiceDataFound         = errors.New("no invoice data found")
	ErrUnexpectedEndOfInput       = errors.New("unexpected end of input")
)

var sentinels = map[ErrorKind]error{
	KindPeriodUnparsable:           ErrPeriodUnparsable,
	KindPeriodMismatch:             ErrPeriodMismatch,
	KindUnexpectedRowInPeriodStage: ErrUnexpectedRowInPeriodStage,
	KindNoCurrencyRatesFound:       ErrNoCurrencyRatesFound,
	KindCurrencySymbolUnparsable:   ErrCurrencySymbolUnparsable,
	KindDuplicateCurrencyCode:      ErrDuplicateCurrencyCode,
	KindInvalidCurrencyRate:        ErrInvalidCurrencyRate,
	KindInvalidHeaderRow:           ErrInvalidHeaderRow,
	KindNoInvoiceDataFound:         ErrNoInvoiceDataFound,
	KindUnexpectedEndOfInput:       ErrUnexpectedEndOfInput,
}

// ParseError is a structural failure. It aborts the whole parse.
type ParseError struct {
	Kind  ErrorKind
	Stage Stage
	// Row is the 1-based grid row, or 0 when input ended early.
	Row     int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	where := fmt.Sprintf("%s stage", e.Stage)
	if e.Row > 0 {
		where = fmt.Sprintf("row %d, %s stage", e.Row, e.Stage)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, where, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// KindOf returns the kind of a *ParseError anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}
