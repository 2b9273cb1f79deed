// =============================================================================
// Invoice Report Importer - Invoicing Period
// =============================================================================
//
// Year-month values parsed from report labels such as "March 2024" and
// from declared months such as "2024-03".
//
// =============================================================================

// Package period parses invoicing months.
//
// A Period is a calendar year-month. It deliberately carries no day, time of
// day or location, so two labels naming the same month always compare equal.
package period

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Period is a calendar year-month.
type Period struct {
	Year  int
	Month time.Month
}

// labelLayouts are tried in order by Parse. The first layout that yields a
// valid calendar date wins.
var labelLayouts = []string{
	"01/2006",
	"1/2006",
	"01-2006",
	"1-2006",
	"Jan 2006",
	"January 2006",
	"Jan-2006",
	"January-2006",
	"Jan. 2006",
	"January, 2006",
	"1 2006",
	"2006-01",
}

var declaredPattern = regexp.MustCompile(`^(\d{4})-(0[1-9]|1[0-2])$`)

// Parse reads a free-text month label such as "03/2024", "Mar 2024",
// "March 2024" or "3 2024".
func Parse(label string) (Period, error) {
	s := strings.Join(strings.Fields(label), " ")
	if s == "" {
		return Period{}, &Error{Kind: KindUnparsable, Input: label}
	}

	for _, layout := range labelLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return Period{Year: t.Year(), Month: t.Month()}, nil
	}

	return Period{}, &Error{Kind: KindUnparsable, Input: label}
}

// ParseDeclared reads the strict YYYY-MM form callers use to declare the
// month they expect a report to cover.
func ParseDeclared(s string) (Period, error) {
	m := declaredPattern.FindStringSubmatch(s)
	if m == nil {
		return Period{}, &Error{Kind: KindInvalidFormat, Input: s}
	}

	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, &Error{Kind: KindInvalidFormat, Input: s}
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

// MustParseDeclared is like ParseDeclared but panics on error.
func MustParseDeclared(s string) Period {
	p, err := ParseDeclared(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Equal reports whether p and o denote the same year and month.
func (p Period) Equal(o Period) bool {
	return p.Year == o.Year && p.Month == o.Month
}

// String returns the canonical YYYY-MM form.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// MarshalText implements encoding.TextMarshaler.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using the strict form.
func (p *Period) UnmarshalText(b []byte) error {
	v, err := ParseDeclared(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
