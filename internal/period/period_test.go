package period

import (
	"errors"
	"testing"
	"time"
)

func TestParseAcceptedLabels(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"03/2024", "2024-03"},
		{"3/2024", "2024-03"},
		{"03-2024", "2024-03"},
		{"Mar 2024", "2024-03"},
		{"mar 2024", "2024-03"},
		{"March 2024", "2024-03"},
		{"  March   2024 ", "2024-03"},
		{"MARCH 2024", "2024-03"},
		{"Mar-2024", "2024-03"},
		{"March, 2024", "2024-03"},
		{"3 2024", "2024-03"},
		{"12 2023", "2023-12"},
		{"2024-03", "2024-03"},
	}

	for _, tt := range tests {
		got, err := Parse(tt.label)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", tt.label, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.label, got, tt.want)
		}
	}
}

func TestParseRejectsLabels(t *testing.T) {
	for _, label := range []string{"", "   ", "13/2024", "00/2024", "Smarch 2024", "2024", "Invoices for March"} {
		_, err := Parse(label)
		if err == nil {
			t.Errorf("Parse(%q) succeeded, want error", label)
			continue
		}
		if !errors.Is(err, ErrUnparsable) {
			t.Errorf("Parse(%q) error = %v, want ErrUnparsable", label, err)
		}
	}
}

func TestParseDeclared(t *testing.T) {
	p, err := ParseDeclared("2024-03")
	if err != nil {
		t.Fatalf("ParseDeclared: %v", err)
	}
	if p.Year != 2024 || p.Month != time.March {
		t.Fatalf("got %+v", p)
	}

	for _, s := range []string{"2024-3", "2024-13", "2024-00", "24-03", "2024/03", "2024-03-01", " 2024-03", "March 2024"} {
		_, err := ParseDeclared(s)
		if !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("ParseDeclared(%q) error = %v, want ErrInvalidFormat", s, err)
		}
	}
}

func TestDifferentLabelsSamePeriod(t *testing.T) {
	declared := MustParseDeclared("2024-03")
	for _, label := range []string{"03/2024", "Mar 2024", "3 2024"} {
		p, err := Parse(label)
		if err != nil {
			t.Fatalf("Parse(%q): %v", label, err)
		}
		if !p.Equal(declared) {
			t.Errorf("Parse(%q) = %s, not equal to %s", label, p, declared)
		}
	}

	if MustParseDeclared("2024-04").Equal(declared) {
		t.Fatal("2024-04 must not equal 2024-03")
	}
}

func TestTextRoundTrip(t *testing.T) {
	var p Period
	if err := p.UnmarshalText([]byte("2023-11")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	b, _ := p.MarshalText()
	if string(b) != "2023-11" {
		t.Fatalf("MarshalText = %s", b)
	}
	if err := p.UnmarshalText([]byte("Nov 2023")); err == nil {
		t.Fatal("UnmarshalText accepted a free-text label")
	}
}
