package extractor

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	// plainNumberRegexp accepts unsigned decimal numbers only, so ParseFloat never
	// sees hex, exponent or NaN/Inf spellings.
	plainNumberRegexp = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	markupReplacer    = strings.NewReplacer("**", "", "__", "", "*", "", "`", "", "\u00a0", " ")
)

// prepareText removes markdown emphasis so labels like "**Price:**" read as "Price:".
func prepareText(text string) string {
	return markupReplacer.Replace(text)
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// ParseCurrency strips "$", commas and whitespace and applies a trailing k/K
// (thousands) or m/M (millions) multiplier. It performs no range check.
func ParseCurrency(raw string) (float64, bool) {
	s := strings.NewReplacer("$", "", ",", "").Replace(raw)
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return 0, false
	}

	multiplier := 1.0
	switch s[len(s)-1] {
	case 'k', 'K':
		multiplier = 1_000
		s = s[:len(s)-1]
	case 'm', 'M':
		multiplier = 1_000_000
		s = s[:len(s)-1]
	}

	v, ok := parseNumber(s)
	if !ok {
		return 0, false
	}
	v *= multiplier
	if !finite(v) {
		return 0, false
	}
	return v, true
}

// parseNumber parses an unsigned plain decimal.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !plainNumberRegexp.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(v) {
		return 0, false
	}
	return v, true
}

// parseInteger parses an unsigned integer that may carry thousands separators.
func parseInteger(s string) (int, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r < '0' || r > '9' }) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
