package utils

import (
	"math"
	"strconv"
	"strings"
)

// currency markers stripped before parsing; OCR output mixes these freely
var currencyMarkers = []string{"₹", "rs.", "rs", "inr", "$"}

// CleanNumericToken turns a raw text token into a float value. It strips
// thousands separators and currency markers and treats a (parenthesised)
// token as negative. The second return is false when the token has any
// non-numeric residue left after stripping; the function never panics and
// never returns NaN or Inf.
func CleanNumericToken(token string) (float64, bool) {
	s := strings.TrimSpace(token)
	if s == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	lower := strings.ToLower(s)
	for _, marker := range currencyMarkers {
		lower = strings.ReplaceAll(lower, marker, "")
	}

	lower = strings.ReplaceAll(lower, ",", "")
	lower = strings.TrimSpace(lower)
	if lower == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(lower, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	if negative {
		value = -value
	}
	return value, true
}

// CleanPositiveAmount accepts only tokens that resolve to a value in the
// open sanity range (0, 10,000,000). Statement cells outside the range are
// almost always account numbers or reference IDs.
func CleanPositiveAmount(token string) (float64, bool) {
	value, ok := CleanNumericToken(token)
	if !ok || value <= 0 || value >= 10_000_000 {
		return 0, false
	}
	return value, true
}
