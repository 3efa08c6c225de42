// Package vnnum parses numeric strings that may use Vietnamese or
// international thousands/decimal separators.
package vnnum

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Sanitize converts a free-form numeric string into a decimal value.
//
// It handles both conventions:
//   - Vietnamese: '.' for thousands, ',' for decimals (80.000.000, 1.234,56)
//   - International: ',' for thousands, '.' for decimals (2,029.81)
//
// A single separator followed by exactly three digits is treated as a
// thousands separator. That can misread a genuine 3-digit decimal such as
// "1.234" meaning 1.234; callers must range-check the result against the
// asset's plausible bounds before accepting it.
//
// The second return value is false when the input is empty or no decimal
// could be constructed.
func Sanitize(text string) (decimal.Decimal, bool) {
	if text == "" {
		return decimal.Decimal{}, false
	}

	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return decimal.Decimal{}, false
	}

	dots := strings.Count(cleaned, ".")
	commas := strings.Count(cleaned, ",")

	switch {
	case dots >= 2 && commas == 0:
		// Vietnamese thousands: 80.000.000
		return parse(strings.ReplaceAll(cleaned, ".", ""))

	case commas >= 2 && dots == 0:
		// International thousands: 1,234,567
		return parse(strings.ReplaceAll(cleaned, ",", ""))

	case dots >= 1 && commas >= 1:
		// Both present: the later separator is the decimal point.
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			// Vietnamese: 1.234,56
			s := strings.ReplaceAll(cleaned, ".", "")
			return parse(strings.Replace(s, ",", ".", 1))
		}
		// International: 1,234.56
		return parse(strings.ReplaceAll(cleaned, ",", ""))

	case dots == 1:
		// Ambiguous: 1.234 vs 1.23
		if fractionLen(cleaned, ".") == 3 {
			return parse(strings.ReplaceAll(cleaned, ".", ""))
		}
		return parse(cleaned)

	case commas == 1:
		// Ambiguous: 1,234 vs 1,23
		if fractionLen(cleaned, ",") == 3 {
			return parse(strings.ReplaceAll(cleaned, ",", ""))
		}
		return parse(strings.Replace(cleaned, ",", ".", 1))

	default:
		return parse(cleaned)
	}
}

func fractionLen(s, sep string) int {
	idx := strings.Index(s, sep)
	return len(s) - idx - 1
}

func parse(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
