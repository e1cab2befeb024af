// Package normalize holds the pure text and number conversions shared by the
// scrapers. Every function is total: malformed input yields an explicit
// "absent" result, never a panic or an error.
package normalize

import (
	"math"
	"strconv"
	"strings"
)

// TolaGramRatio relates the two weight units the metal market quotes in:
// 1 tola is about 11.66 grams, so price-per-tola ≈ price-per-10-grams * 1.166.
const TolaGramRatio = 1.166

var devanagariDigits = map[rune]rune{
	'०': '0', '१': '1', '२': '2', '३': '3', '४': '4',
	'५': '5', '६': '6', '७': '7', '८': '8', '९': '9',
}

// ToLatinDigits maps Devanagari numerals to Latin ones, leaving every other
// rune untouched.
func ToLatinDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if d, ok := devanagariDigits[r]; ok {
			return d
		}
		return r
	}, s)
}

// ParseInt parses an integer that may be written in either digit script.
func ParseInt(s string) (int, bool) {
	n, err := strconv.Atoi(ToLatinDigits(strings.TrimSpace(s)))
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParsePrice parses a price cell. Thousands separators are stripped and the
// "--" placeholder (or an empty cell) means the source published no value,
// which is reported as absent rather than zero.
func ParsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(ToLatinDigits(s))
	if s == "" || s == "--" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// PerUnit brings a rate quoted per bulk unit down to a 1-unit basis. The
// divisor applies only when the unit label parses as an integer greater than
// one; anything else ("1", "per kg", garbage) leaves the rate as is.
func PerUnit(rate float64, unit string) float64 {
	n, err := strconv.Atoi(strings.TrimSpace(unit))
	if err != nil || n <= 1 {
		return rate
	}
	return rate / float64(n)
}

// FillTolaGram completes a tola/10-gram price pair from whichever side was
// observed, using TolaGramRatio. It reports false when neither price is
// present, in which case the record must be rejected.
func FillTolaGram(perTola, per10Grams *float64) (tola, grams float64, ok bool) {
	switch {
	case perTola != nil && per10Grams != nil:
		return *perTola, *per10Grams, true
	case perTola != nil:
		return *perTola, Round2(*perTola / TolaGramRatio), true
	case per10Grams != nil:
		return Round2(*per10Grams * TolaGramRatio), *per10Grams, true
	default:
		return 0, 0, false
	}
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
