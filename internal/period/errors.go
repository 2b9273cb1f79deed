// =============================================================================
// Invoice Report Importer - Period Errors
// =============================================================================
//
// Errors returned when a label or a declared month cannot be read.
//
// =============================================================================

package period

import (
	"errors"
	"fmt"
)

// Kind classifies a period parsing failure.
type Kind string

const (
	KindUnparsable    Kind = "PeriodUnparsable"
	KindInvalidFormat Kind = "InvalidPeriodFormat"
)

var (
	// ErrUnparsable is matched by errors.Is for labels no layout accepts.
	ErrUnparsable = errors.New("period label is not parsable")
	// ErrInvalidFormat is matched by errors.Is for malformed YYYY-MM input.
	ErrInvalidFormat = errors.New("invalid period format, expected YYYY-MM")
)

// Error is returned by Parse and ParseDeclared.
type Error struct {
	Kind  Kind
	Input string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidFormat:
		return fmt.Sprintf("%s: %q is not a valid YYYY-MM month", e.Kind, e.Input)
	default:
		return fmt.Sprintf("%s: cannot parse %q as a month and year", e.Kind, e.Input)
	}
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnparsable:
		return e.Kind == KindUnparsable
	case ErrInvalidFormat:
		return e.Kind == KindInvalidFormat
	}
	return false
}
