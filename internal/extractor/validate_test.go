package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
		ok       bool
	}{
		{name: "Plain digits", raw: "450000", expected: 450000, ok: true},
		{name: "Thousands separators", raw: "450,000", expected: 450000, ok: true},
		{name: "K suffix", raw: "450K", expected: 450000, ok: true},
		{name: "Dollar sign", raw: "$450,000", expected: 450000, ok: true},
		{name: "Dollar sign with space", raw: "$ 450,000", expected: 450000, ok: true},
		{name: "Lower m suffix", raw: "1.5m", expected: 1500000, ok: true},
		{name: "Decimal cents", raw: "$1,234.50", expected: 1234.5, ok: true},
		{name: "Empty", raw: "", ok: false},
		{name: "Only a dollar sign", raw: "$", ok: false},
		{name: "Words", raw: "call for price", ok: false},
		{name: "Exponent notation", raw: "1e6", ok: false},
		{name: "NaN spelling", raw: "NaN", ok: false},
		{name: "Negative", raw: "-450000", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := ParseCurrency(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, v)
			}
		})
	}
}

func TestValidateCurrency_RoundTrip(t *testing.T) {
	for _, raw := range []string{"450000", "450,000", "450K", "$450,000"} {
		v, ok := ValidateCurrency(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, 450000.0, v, raw)
	}
}

func TestValidateCurrency_Band(t *testing.T) {
	tests := []struct {
		raw string
		ok  bool
	}{
		{"4999", false},
		{"5000", true},
		{"100000000", true},
		{"100000001", false},
		{"$5k", true},
		{"$100M", true},
		{"$101M", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, ok := ValidateCurrency(tt.raw)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestValidateTaxes(t *testing.T) {
	v, ok := ValidateTaxes("$5,400")
	assert.True(t, ok)
	assert.Equal(t, 5400.0, v)

	_, ok = ValidateTaxes("99")
	assert.False(t, ok)
	_, ok = ValidateTaxes("1,000,001")
	assert.False(t, ok)
}

func TestValidateCount(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		allowHalf bool
		expected  float64
		ok        bool
	}{
		{name: "Whole bedrooms", raw: "3", expected: 3, ok: true},
		{name: "Zero is a count", raw: "0", expected: 0, ok: true},
		{name: "Half bathroom", raw: "2.5", allowHalf: true, expected: 2.5, ok: true},
		{name: "Half bedroom rejected", raw: "2.5", ok: false},
		{name: "Quarter bathroom rejected", raw: "2.25", allowHalf: true, ok: false},
		{name: "Upper bound", raw: "20", expected: 20, ok: true},
		{name: "Too many", raw: "21", ok: false},
		{name: "Negative", raw: "-1", ok: false},
		{name: "Not a number", raw: "three", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := ValidateCount(tt.raw, tt.allowHalf)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, v)
			}
		})
	}
}

func TestValidateIntegers(t *testing.T) {
	sqft, ok := ValidateSquareFeet("2,100")
	assert.True(t, ok)
	assert.Equal(t, 2100, sqft)
	_, ok = ValidateSquareFeet("0")
	assert.False(t, ok)
	_, ok = ValidateSquareFeet("100,001")
	assert.False(t, ok)

	year, ok := ValidateYear("1995")
	assert.True(t, ok)
	assert.Equal(t, 1995, year)
	for _, raw := range []string{"95", "1699", "2101", "19950"} {
		_, ok = ValidateYear(raw)
		assert.False(t, ok, raw)
	}

	score, ok := ValidateScore("8")
	assert.True(t, ok)
	assert.Equal(t, 8, score)
	for _, raw := range []string{"0", "11", "7.5"} {
		_, ok = ValidateScore(raw)
		assert.False(t, ok, raw)
	}

	days, ok := ValidateDays("0")
	assert.True(t, ok)
	assert.Equal(t, 0, days)
	_, ok = ValidateDays("3651")
	assert.False(t, ok)
}

func TestValidateGrowth(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
		ok       bool
	}{
		{" strong ", "Strong", true},
		{"HIGH", "High", true},
		{"moderate", "Moderate", true},
		{"Low", "Low", true},
		{"limited", "Limited", true},
		{"excellent", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, ok := ValidateGrowth(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestValidatePropertyType(t *testing.T) {
	v, ok := ValidatePropertyType("  Single   Family ")
	assert.True(t, ok)
	assert.Equal(t, "Single Family", v)

	for _, raw := range []string{"home", "ab", "123", strings.Repeat("x", 61)} {
		_, ok = ValidatePropertyType(raw)
		assert.False(t, ok, raw)
	}
}

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		ok       bool
	}{
		{name: "Has a digit", raw: "123 Main Street", expected: "123 Main Street", ok: true},
		{name: "Has a street suffix", raw: "Oak Avenue", expected: "Oak Avenue", ok: true},
		{name: "Trailing punctuation trimmed", raw: " 12 Oak St. ", expected: "12 Oak St", ok: true},
		{name: "Long enough plain text", raw: "Sunset Heights", expected: "Sunset Heights", ok: true},
		{name: "Exactly eight characters", raw: "Downtown", expected: "Downtown", ok: true},
		{name: "Too short", raw: "ab", ok: false},
		{name: "Too long", raw: "1 " + strings.Repeat("a", 120), ok: false},
		{name: "Stopword", raw: "the", ok: false},
		{name: "Stopword any case", raw: "Property", ok: false},
		{name: "Bare dollar amount", raw: "$450,000", ok: false},
		{name: "Bare integer", raw: "450000", ok: false},
		{name: "Short plain text", raw: "Uptown", ok: false},
		{name: "Analysis prose", raw: "Great investment", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := ValidateAddress(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, v)
		})
	}
}
