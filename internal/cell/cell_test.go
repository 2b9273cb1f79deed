package cell

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestIsBlank(t *testing.T) {
	tests := []struct {
		v    any
		want bool
	}{
		{nil, true},
		{"", true},
		{"  \t", true},
		{"x", false},
		{0.0, false},
		{decimal.Zero, false},
	}
	for _, tt := range tests {
		if got := IsBlank(tt.v); got != tt.want {
			t.Errorf("IsBlank(%#v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestText(t *testing.T) {
	if s, ok := Text(" INV-1 "); !ok || s != " INV-1 " {
		t.Errorf("Text = %q, %v", s, ok)
	}
	if _, ok := Text("   "); ok {
		t.Error("blank string counted as text")
	}
	if _, ok := Text(42.0); ok {
		t.Error("number counted as text")
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		v    any
		want string
		ok   bool
	}{
		{12.5, "12.5", true},
		{0.1, "0.1", true},
		{int64(-3), "-3", true},
		{uint64(math.MaxUint64), "18446744073709551615", true},
		{decimal.RequireFromString("1.005"), "1.005", true},
		{"12.5", "", false},
		{nil, "", false},
		{math.NaN(), "", false},
		{math.Inf(1), "", false},
	}
	for _, tt := range tests {
		got, ok := Number(tt.v)
		if ok != tt.ok {
			t.Errorf("Number(%#v) ok = %v, want %v", tt.v, ok, tt.ok)
			continue
		}
		if ok && got.String() != tt.want {
			t.Errorf("Number(%#v) = %s, want %s", tt.v, got, tt.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	tests := map[string]any{
		"empty":             " ",
		"number":            3.0,
		"text":              "abc",
		"unsupported value": true,
	}
	for want, v := range tests {
		if got := Describe(v); got != want {
			t.Errorf("Describe(%#v) = %q, want %q", v, got, want)
		}
	}
}
