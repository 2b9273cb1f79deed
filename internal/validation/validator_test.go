package validation

import (
	"strings"
	"testing"
)

func validRow() map[string]any {
	return map[string]any{
		FieldCustomer:          "Acme Ltd",
		FieldCustNo:            1042.0,
		FieldProjectType:       "Consulting",
		FieldQuantity:          3.0,
		FieldPricePerItem:      250.0,
		FieldItemPriceCurrency: "EUR",
		FieldInvoiceTotalPrice: 750.0,
		FieldInvoiceCurrency:   "EUR",
		FieldStatus:            "Ready",
	}
}

func TestValidRowHasNoMessages(t *testing.T) {
	msgs := DefaultInvoiceSchema().Messages(validRow())
	if msgs == nil || len(msgs) != 0 {
		t.Fatalf("Messages = %#v, want empty non-nil slice", msgs)
	}
}

func TestExtraFieldsIgnored(t *testing.T) {
	row := validRow()
	row["Notes"] = 12.0
	row["Invoice #"] = "INV-7"
	if msgs := DefaultInvoiceSchema().Messages(row); len(msgs) != 0 {
		t.Fatalf("unexpected messages: %v", msgs)
	}
}

func TestCustNoAcceptsTextOrNumber(t *testing.T) {
	row := validRow()
	row[FieldCustNo] = "C-1042"
	if msgs := DefaultInvoiceSchema().Messages(row); len(msgs) != 0 {
		t.Fatalf("unexpected messages: %v", msgs)
	}
}

func TestCollectsEveryViolationInSchemaOrder(t *testing.T) {
	row := validRow()
	delete(row, FieldCustomer)
	row[FieldQuantity] = "three"
	row[FieldInvoiceCurrency] = 978.0
	row[FieldStatus] = "   "

	errs := DefaultInvoiceSchema().Check(row)
	if len(errs) != 4 {
		t.Fatalf("got %d errors, want 4: %v", len(errs), errs)
	}

	want := []struct {
		field string
		rule  string
	}{
		{FieldCustomer, RuleRequired},
		{FieldQuantity, RuleKind},
		{FieldInvoiceCurrency, RuleKind},
		{FieldStatus, RuleRequired},
	}
	for i, w := range want {
		if errs[i].Field != w.field || errs[i].Rule != w.rule {
			t.Errorf("error %d = %s/%s, want %s/%s", i, errs[i].Field, errs[i].Rule, w.field, w.rule)
		}
	}

	if !strings.Contains(errs[0].Message, "Missing required field") {
		t.Errorf("missing message = %q", errs[0].Message)
	}
	if !strings.Contains(errs[1].Message, "must be a number") {
		t.Errorf("kind message = %q", errs[1].Message)
	}
	if errs[0].Message == errs[1].Message {
		t.Error("missing and wrong-kind messages must differ")
	}
}

func TestOptionalFieldOnlyCheckedWhenPresent(t *testing.T) {
	schema := Schema{{Name: "PO Number", Required: false, Kind: KindText}}
	if msgs := schema.Messages(map[string]any{}); len(msgs) != 0 {
		t.Fatalf("absent optional field flagged: %v", msgs)
	}
	if msgs := schema.Messages(map[string]any{"PO Number": 5.0}); len(msgs) != 1 {
		t.Fatalf("mistyped optional field not flagged: %v", msgs)
	}
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"text":           KindText,
		"String":         KindText,
		"numeric":        KindNumber,
		"decimal":        KindNumber,
		" number ":       KindNumber,
		"text-or-number": KindTextOrNumber,
		"any":            KindTextOrNumber,
	}
	for in, want := range tests {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseKind("date"); err == nil {
		t.Error("ParseKind(date) should fail")
	}
}

func TestSchemaValidate(t *testing.T) {
	if err := DefaultInvoiceSchema().Validate(); err != nil {
		t.Fatalf("default schema invalid: %v", err)
	}
	bad := []Schema{
		{},
		{{Name: "", Kind: KindText}},
		{{Name: "A", Kind: KindText}, {Name: "A", Kind: KindNumber}},
		{{Name: "A", Kind: "date"}},
		{{Name: "A", Kind: "integer"}},
		{{Name: "A", Kind: ""}},
	}
	for i, s := range bad {
		if err := s.Validate(); err == nil {
			t.Errorf("schema %d accepted", i)
		}
	}
}

// Kind aliases are only meaningful to ParseKind; a schema carrying one
// unnormalized fails every kind check instead of passing silently.
func TestUnnormalizedKindAlwaysFlagged(t *testing.T) {
	schema := Schema{{Name: FieldQuantity, Required: true, Kind: "integer"}}
	if err := schema.Validate(); err == nil {
		t.Fatal("schema with kind \"integer\" accepted")
	}

	for _, v := range []any{"two", 2.0} {
		if msgs := schema.Messages(map[string]any{FieldQuantity: v}); len(msgs) != 1 {
			t.Errorf("Messages(%#v) = %v, want one kind error", v, msgs)
		}
	}
}

func TestKindValid(t *testing.T) {
	for _, k := range Kinds {
		if !k.Valid() {
			t.Errorf("%q not valid", k)
		}
	}
	for _, k := range []Kind{"", "string", "any", "Text"} {
		if k.Valid() {
			t.Errorf("%q valid", k)
		}
	}
}
