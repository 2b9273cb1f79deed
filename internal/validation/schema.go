// =============================================================================
// Invoice Report Importer - Row Schema
// =============================================================================
//
// The row schema is the declarative list of fields every invoice row is
// checked against. It is configuration, not code: the built-in default can be
// replaced from the YAML config (row_schema) or from an XLSX schema template.
//
// FIELD KINDS:
//   - text           : a non-empty string cell
//   - number         : a numeric cell
//   - text-or-number : either of the above
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"
)

// Kind is the expected kind of a field value.
type Kind string

const (
	KindText         Kind = "text"
	KindNumber       Kind = "number"
	KindTextOrNumber Kind = "text-or-number"
)

// Kinds lists every valid Kind.
var Kinds = []Kind{KindText, KindNumber, KindTextOrNumber}

// Valid reports whether k is one of Kinds. Aliases accepted by ParseKind are
// not valid until normalized.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Field is one entry of a row schema.
type Field struct {
	// Name is the column name as it appears in the header row.
	Name string

	// Required fields must be present in every row.
	Required bool

	// Kind is the expected kind of the value when present.
	Kind Kind
}

// Schema is an ordered set of fields. Messages are produced in schema order.
type Schema []Field

// Standard invoice column names.
const (
	FieldCustomer          = "Customer"
	FieldCustNo            = "Cust No"
	FieldProjectType       = "Project Type"
	FieldQuantity          = "Quantity"
	FieldPricePerItem      = "Price Per Item"
	FieldItemPriceCurrency = "Item Price Currency"
	FieldInvoiceTotalPrice = "Invoice Total Price"
	FieldInvoiceCurrency   = "Invoice Currency"
	FieldStatus            = "Status"
	FieldInvoiceNumber     = "Invoice #"
)

// DefaultInvoiceSchema returns the fields required on every invoice row.
func DefaultInvoiceSchema() Schema {
	return Schema{
		{Name: FieldCustomer, Required: true, Kind: KindText},
		{Name: FieldCustNo, Required: true, Kind: KindTextOrNumber},
		{Name: FieldProjectType, Required: true, Kind: KindText},
		{Name: FieldQuantity, Required: true, Kind: KindNumber},
		{Name: FieldPricePerItem, Required: true, Kind: KindNumber},
		{Name: FieldItemPriceCurrency, Required: true, Kind: KindText},
		{Name: FieldInvoiceTotalPrice, Required: true, Kind: KindNumber},
		{Name: FieldInvoiceCurrency, Required: true, Kind: KindText},
		{Name: FieldStatus, Required: true, Kind: KindText},
	}
}

// ParseKind normalizes a kind name. Common spellings used in schema
// templates ("string", "numeric", "decimal", "any") are accepted.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "string", "str":
		return KindText, nil
	case "number", "numeric", "num", "decimal", "float", "integer", "int", "money":
		return KindNumber, nil
	case "text-or-number", "text_or_number", "textornumber", "any", "alphanumeric":
		return KindTextOrNumber, nil
	}
	return "", fmt.Errorf("unknown field kind %q", s)
}

// Validate checks the schema itself: names must be non-empty and unique,
// kinds must be one of Kinds.
func (s Schema) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("row schema has no fields")
	}
	seen := make(map[string]bool, len(s))
	for i, f := range s {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("field %d has an empty name", i+1)
		}
		if seen[f.Name] {
			return fmt.Errorf("field %q is declared more than once", f.Name)
		}
		seen[f.Name] = true
		if !f.Kind.Valid() {
			return fmt.Errorf("field %q: kind %q must be text, number or text-or-number", f.Name, f.Kind)
		}
	}
	return nil
}
