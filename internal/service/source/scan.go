package source

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"VietPulse/pkg/vnnum"
)

// numberPattern matches separator-grouped numbers in free text; the last
// resort when keyword anchors fail to localize a value.
var numberPattern = regexp.MustCompile(`\d{1,3}(?:[.,]\d{3})+(?:[.,]\d{1,2})?`)

// firstPlausible sanitizes lines[from:to) and returns the first value that
// lands inside b. Indexes are clamped to the slice.
func firstPlausible(lines []string, from, to int, b bounds) (decimal.Decimal, bool) {
	if from < 0 {
		from = 0
	}
	if to > len(lines) {
		to = len(lines)
	}
	for i := from; i < to; i++ {
		if v, ok := vnnum.Sanitize(lines[i]); ok && b.contains(v) {
			return v, true
		}
	}
	return decimal.Decimal{}, false
}

// scanNumbers regex-extracts every grouped number from raw text and returns
// the first plausible one.
func scanNumbers(text string, b bounds) (decimal.Decimal, bool) {
	for _, m := range numberPattern.FindAllString(text, -1) {
		if v, ok := vnnum.Sanitize(m); ok && b.contains(v) {
			return v, true
		}
	}
	return decimal.Decimal{}, false
}

func containsAny(s string, keywords ...string) bool {
	low := strings.ToLower(s)
	for _, kw := range keywords {
		if strings.Contains(low, kw) {
			return true
		}
	}
	return false
}
