package extractor

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// Plausibility bands. Values outside a band are rejected, never clamped.
const (
	CurrencyMin = 5_000
	CurrencyMax = 100_000_000

	TaxMin = 100
	TaxMax = 1_000_000

	MaxRoomCount  = 20
	MaxSquareFeet = 100_000
	MinYearBuilt  = 1700
	MaxYearBuilt  = 2100
	MaxDaysOnMkt  = 3650

	MinAddressLen = 3
	MaxAddressLen = 120
)

var (
	bareDollarRegexp   = regexp.MustCompile(`^\$\s*[\d,]+(?:\.\d+)?\s*[kKmM]?$`)
	bareIntegerRegexp  = regexp.MustCompile(`^[\d,\s]+$`)
	digitRegexp        = regexp.MustCompile(`\d`)
	letterRegexp       = regexp.MustCompile(`[A-Za-z]`)
	streetSuffixRegexp = regexp.MustCompile(`(?i)\b(?:street|st|avenue|ave|road|rd|drive|dr|lane|ln|boulevard|blvd|court|ct|circle|cir|way|place|pl|terrace|ter|parkway|pkwy|highway|hwy|trail|trl)\b`)
	// bannedAddressRegexp rejects tier-3 candidates that read like analysis prose.
	bannedAddressRegexp = regexp.MustCompile(`(?i)\b(?:price|bedrooms?|bathrooms?|beds?|baths?|sq\.?\s*ft|square\s+f(?:ee|oo)t|rent(?:al)?|income|cash\s*flow|cap\s*rate|score|analysis|investment|growth|potential|estimated|mortgage|roi|return)\b`)
)

// addressStoplist holds generic words that are never an address on their own.
var addressStoplist = map[string]struct{}{
	"the": {}, "property": {}, "address": {}, "bedroom": {}, "bedrooms": {},
	"bathroom": {}, "bathrooms": {}, "street": {}, "location": {}, "home": {},
	"house": {}, "unknown": {}, "none": {}, "n/a": {}, "na": {},
	"not available": {}, "not provided": {}, "not specified": {},
}

// growthLevels maps the normalised spelling to the canonical category.
var growthLevels = map[string]string{
	"high":     "High",
	"strong":   "Strong",
	"moderate": "Moderate",
	"low":      "Low",
	"limited":  "Limited",
}

// ValidateCurrency normalises a price-like string and checks the currency band.
func ValidateCurrency(raw string) (float64, bool) {
	v, ok := ParseCurrency(raw)
	if !ok || !validCurrency(v) {
		return 0, false
	}
	return v, true
}

func validCurrency(v float64) bool {
	return finite(v) && v >= CurrencyMin && v <= CurrencyMax
}

// ValidateTaxes normalises an annual property-tax amount.
func ValidateTaxes(raw string) (float64, bool) {
	v, ok := ParseCurrency(raw)
	if !ok || !validTaxes(v) {
		return 0, false
	}
	return v, true
}

func validTaxes(v float64) bool {
	return finite(v) && v >= TaxMin && v <= TaxMax
}

// ValidateCount parses a room count. Half rooms are accepted only when allowHalf is set.
func ValidateCount(raw string, allowHalf bool) (float64, bool) {
	v, ok := parseNumber(raw)
	if !ok || !validCount(v, allowHalf) {
		return 0, false
	}
	return v, true
}

func validCount(v float64, allowHalf bool) bool {
	if !finite(v) || v < 0 || v > MaxRoomCount {
		return false
	}
	if v == math.Trunc(v) {
		return true
	}
	return allowHalf && v*2 == math.Trunc(v*2)
}

// ValidateSquareFeet parses a positive integer floor area.
func ValidateSquareFeet(raw string) (int, bool) {
	n, ok := parseInteger(raw)
	if !ok || !validSquareFeet(n) {
		return 0, false
	}
	return n, true
}

func validSquareFeet(n int) bool {
	return n > 0 && n <= MaxSquareFeet
}

// ValidateYear parses a four-digit construction year.
func ValidateYear(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) != 4 {
		return 0, false
	}
	n, ok := parseInteger(raw)
	if !ok || !validYear(n) {
		return 0, false
	}
	return n, true
}

func validYear(n int) bool {
	return n >= MinYearBuilt && n <= MaxYearBuilt
}

// ValidateScore parses an integer location score between 1 and 10.
func ValidateScore(raw string) (int, bool) {
	n, ok := parseInteger(raw)
	if !ok || !validScore(n) {
		return 0, false
	}
	return n, true
}

func validScore(n int) bool {
	return n >= 1 && n <= 10
}

// ValidateDays parses a days-on-market count.
func ValidateDays(raw string) (int, bool) {
	n, ok := parseInteger(raw)
	if !ok || !validDays(n) {
		return 0, false
	}
	return n, true
}

func validDays(n int) bool {
	return n >= 0 && n <= MaxDaysOnMkt
}

// ValidateGrowth matches a rental growth category. Unknown text is rejected, not guessed.
func ValidateGrowth(raw string) (string, bool) {
	level, ok := growthLevels[strings.ToLower(strings.TrimSpace(raw))]
	return level, ok
}

// ValidatePropertyType accepts a short free-text category.
func ValidatePropertyType(raw string) (string, bool) {
	s := strings.Trim(normaliseText(raw), " .,;:-")
	if len(s) < 3 || len(s) > 60 || !letterRegexp.MatchString(s) {
		return "", false
	}
	if _, stop := addressStoplist[strings.ToLower(s)]; stop {
		return "", false
	}
	return s, true
}

// ValidateAddress applies the address acceptance policy. After rejecting obvious
// non-addresses it accepts a candidate that contains a digit, or a street suffix,
// or is at least 8 characters with a letter and no analysis keyword. The third
// tier is permissive and favours recall.
func ValidateAddress(raw string) (string, bool) {
	s := strings.Trim(normaliseText(raw), " .,;:-|")
	if len(s) < MinAddressLen || len(s) > MaxAddressLen {
		return "", false
	}
	if _, stop := addressStoplist[strings.ToLower(s)]; stop {
		return "", false
	}
	if bareDollarRegexp.MatchString(s) || bareIntegerRegexp.MatchString(s) {
		return "", false
	}

	switch {
	case digitRegexp.MatchString(s):
		return s, true
	case streetSuffixRegexp.MatchString(s):
		return s, true
	case len(s) >= 8 && strings.ContainsFunc(s, unicode.IsLetter) && !bannedAddressRegexp.MatchString(s):
		return s, true
	}
	return "", false
}
