package vnnum

import (
	"testing"
)

func TestSanitizeVietnameseThousands(t *testing.T) {
	got, ok := Sanitize("80.000.000")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.String() != "80000000" {
		t.Fatalf("unexpected value %s", got)
	}
}

func TestSanitizeVietnameseDecimal(t *testing.T) {
	got, ok := Sanitize("1.234,56")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.String() != "1234.56" {
		t.Fatalf("unexpected value %s", got)
	}
}

func TestSanitizeInternational(t *testing.T) {
	got, ok := Sanitize("2,029.81")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.String() != "2029.81" {
		t.Fatalf("unexpected value %s", got)
	}
}

func TestSanitizeInternationalThousands(t *testing.T) {
	got, ok := Sanitize("1,234,567")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.String() != "1234567" {
		t.Fatalf("unexpected value %s", got)
	}
}

func TestSanitizeAmbiguousSingleSeparator(t *testing.T) {
	// Three digits after the separator reads as thousands.
	got, ok := Sanitize("1.234")
	if !ok || got.String() != "1234" {
		t.Fatalf("expected 1234, got %s ok=%v", got, ok)
	}
	got, ok = Sanitize("1,234")
	if !ok || got.String() != "1234" {
		t.Fatalf("expected 1234, got %s ok=%v", got, ok)
	}
	// Any other fraction length reads as a decimal point.
	got, ok = Sanitize("1.23")
	if !ok || got.String() != "1.23" {
		t.Fatalf("expected 1.23, got %s ok=%v", got, ok)
	}
	got, ok = Sanitize("1,23")
	if !ok || got.String() != "1.23" {
		t.Fatalf("expected 1.23, got %s ok=%v", got, ok)
	}
}

func TestSanitizeNoSeparators(t *testing.T) {
	got, ok := Sanitize("25500")
	if !ok || got.String() != "25500" {
		t.Fatalf("expected 25500, got %s ok=%v", got, ok)
	}
}

func TestSanitizeStripsNoise(t *testing.T) {
	got, ok := Sanitize("  88,500,000 VND/tael ")
	if !ok || got.String() != "88500000" {
		t.Fatalf("expected 88500000, got %s ok=%v", got, ok)
	}
}

func TestSanitizeRepeatedSeparatorsHaveNoFraction(t *testing.T) {
	for _, s := range []string{"1.000.000", "12.345.678.901", "1,000,000", "9,999,999,999"} {
		got, ok := Sanitize(s)
		if !ok {
			t.Fatalf("expected ok for %q", s)
		}
		if got.Exponent() < 0 {
			t.Fatalf("expected integral value for %q, got %s", s, got)
		}
	}
}

func TestSanitizeInvalid(t *testing.T) {
	if _, ok := Sanitize(""); ok {
		t.Fatalf("expected not ok for empty input")
	}
	if _, ok := Sanitize("n/a"); ok {
		t.Fatalf("expected not ok for non-numeric input")
	}
	if _, ok := Sanitize("..,,"); ok {
		t.Fatalf("expected not ok for separator-only input")
	}
}
