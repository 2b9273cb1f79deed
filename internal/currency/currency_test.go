package currency

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseSymbol(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"USD", "USD"},
		{"  EUR ", "EUR"},
		{"EUR Rate", "EUR"},
		{"GBP  Rate ", "GBP"},
		{"CHF Rate (monthly)", "CHF"},
		{"usdRate", "usd"},
	}
	for _, tt := range tests {
		got, err := ParseSymbol(tt.label)
		if err != nil {
			t.Errorf("ParseSymbol(%q) error: %v", tt.label, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSymbol(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestParseSymbolRejects(t *testing.T) {
	for _, label := range []string{"", "usd", "Dollars", "Rate", "  Rate 1.2", "EURO"} {
		if _, err := ParseSymbol(label); !errors.Is(err, ErrSymbolUnparsable) {
			t.Errorf("ParseSymbol(%q) error = %v, want ErrSymbolUnparsable", label, err)
		}
	}
}

func TestRateTableAdd(t *testing.T) {
	rates := NewRateTable()
	if err := rates.Add("USD", decimal.NewFromInt(1)); err != nil {
		t.Fatalf("Add USD: %v", err)
	}
	if err := rates.Add("EUR", decimal.RequireFromString("0.92")); err != nil {
		t.Fatalf("Add EUR: %v", err)
	}

	err := rates.Add("USD", decimal.RequireFromString("1.1"))
	if !errors.Is(err, ErrDuplicateCode) {
		t.Fatalf("duplicate add error = %v, want ErrDuplicateCode", err)
	}
	if r, _ := rates.Rate("USD"); !r.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("duplicate add overwrote USD rate: %s", r)
	}

	if err := rates.Add("JPY", decimal.Zero); !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("zero rate error = %v, want ErrInvalidRate", err)
	}
	if err := rates.Add("JPY", decimal.NewFromInt(-3)); !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("negative rate error = %v, want ErrInvalidRate", err)
	}

	if got := strings.Join(rates.Codes(), ","); got != "EUR,USD" {
		t.Fatalf("Codes = %s", got)
	}

	b, err := json.Marshal(rates)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"EUR":0.92,"USD":1}` {
		t.Fatalf("json = %s", b)
	}
}

func TestComputeTotal(t *testing.T) {
	rates := NewRateTable()
	_ = rates.Add("USD", decimal.NewFromInt(1))
	_ = rates.Add("GBP", decimal.RequireFromString("0.8"))

	got := ComputeTotal(100.0, "GBP", rates)
	if got.State != Resolved || !got.Value.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("GBP total = %+v, want 80", got)
	}
	if got.Ptr() == nil || len(got.Errors) != 0 {
		t.Fatalf("resolved total should have a value and no errors: %+v", got)
	}

	got = ComputeTotal(100.0, " USD ", rates)
	if got.State != Resolved || !got.Value.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("padded USD total = %+v", got)
	}
}

func TestComputeTotalMissingRate(t *testing.T) {
	rates := NewRateTable()
	_ = rates.Add("USD", decimal.NewFromInt(1))

	got := ComputeTotal(100.0, "GBP", rates)
	if got.State != Unresolved || got.Ptr() != nil {
		t.Fatalf("got %+v, want unresolved", got)
	}
	if len(got.Errors) != 1 || !strings.Contains(got.Errors[0], "GBP") {
		t.Fatalf("errors = %v, want one mentioning GBP", got.Errors)
	}

	// The lookup happens before the price check.
	got = ComputeTotal("n/a", "GBP", rates)
	if got.State != Unresolved {
		t.Fatalf("non-numeric price with unknown currency = %+v, want unresolved", got)
	}

	got = ComputeTotal(100.0, 42.0, rates)
	if got.State != Unresolved {
		t.Fatalf("numeric currency = %+v, want unresolved", got)
	}
}

func TestComputeTotalInsufficient(t *testing.T) {
	rates := NewRateTable()
	_ = rates.Add("USD", decimal.NewFromInt(1))

	cases := []struct {
		name     string
		price    any
		currency any
	}{
		{"no currency", 100.0, nil},
		{"blank currency", 100.0, "  "},
		{"text price", "100", "USD"},
		{"missing price", nil, "USD"},
	}
	for _, c := range cases {
		got := ComputeTotal(c.price, c.currency, rates)
		if got.State != Insufficient || got.Ptr() != nil || len(got.Errors) != 0 {
			t.Errorf("%s: got %+v, want insufficient with no errors", c.name, got)
		}
	}
}
