package analyzer

import (
	"fmt"
	"strings"

	"propertylens/internal/models"
)

// Red-flag thresholds.
const (
	luxuryPriceThreshold = 1_000_000
	lowPriceThreshold    = 50_000
	highPricePerSqft     = 500
	lowPricePerSqft      = 50
	oldPropertyAge       = 50
	highTaxRatio         = 0.025
	staleDaysOnMarket    = 90
	minDebtCoverage      = 1.2
	minHealthyCapRate    = 4.0
	weakLocationScore    = 4
)

// descriptionKeywords are scanned in order; each match adds one flag.
var descriptionKeywords = []struct {
	terms []string
	flag  string
}{
	{[]string{"fixer", "fixer-upper", "handyman special"}, "Listing describes a fixer-upper"},
	{[]string{"as-is", "as is"}, "Sold as-is"},
	{[]string{"flood"}, "Mentions flooding or flood zone"},
	{[]string{"structural"}, "Mentions structural issues"},
	{[]string{"foundation"}, "Mentions foundation problems"},
	{[]string{"mold", "mould"}, "Mentions mold"},
	{[]string{"fire damage"}, "Mentions fire damage"},
	{[]string{"foreclosure", "bank owned", "reo"}, "Foreclosure or bank-owned sale"},
}

// redFlags runs the property checks in a fixed order. The order of the
// returned slice is the order the checks ran.
func redFlags(attrs models.PropertyAttributes, currentYear int) []string {
	flags := []string{}
	price := value(attrs.Price)

	if attrs.Price != nil {
		if price > luxuryPriceThreshold {
			flags = append(flags, "Price above $1M limits the rental buyer pool")
		}
		if price < lowPriceThreshold {
			flags = append(flags, "Unusually low price for the market")
		}
	}

	if pps, ok := pricePerSqft(attrs); ok {
		if pps > highPricePerSqft {
			flags = append(flags, fmt.Sprintf("High price per square foot ($%.0f)", pps))
		}
		if pps < lowPricePerSqft {
			flags = append(flags, fmt.Sprintf("Very low price per square foot ($%.0f)", pps))
		}
	}

	if age, ok := propertyAge(attrs, currentYear); ok && age > oldPropertyAge {
		flags = append(flags, fmt.Sprintf("Property is %d years old", age))
	}

	if attrs.PropertyTaxes != nil && price > 0 && *attrs.PropertyTaxes/price > highTaxRatio {
		flags = append(flags, fmt.Sprintf("High property taxes (%.1f%% of price)", *attrs.PropertyTaxes/price*100))
	}

	if attrs.DaysOnMarket != nil && *attrs.DaysOnMarket > staleDaysOnMarket {
		flags = append(flags, fmt.Sprintf("On the market for %d days", *attrs.DaysOnMarket))
	}

	if attrs.Description != nil {
		text := strings.ToLower(*attrs.Description)
		for _, kw := range descriptionKeywords {
			if containsAny(text, kw.terms) {
				flags = append(flags, kw.flag)
			}
		}
	}

	return flags
}

// risks lists softer concerns derived from the computed financials.
func risks(attrs models.PropertyAttributes, f models.Financials, currentYear int) []string {
	list := []string{}

	if f.CashFlow.Monthly < 0 {
		list = append(list, "Negative monthly cash flow")
	}
	if f.MonthlyMortgage > 0 && f.DebtCoverageRatio < minDebtCoverage {
		list = append(list, fmt.Sprintf("Debt coverage ratio %.2f is below %.1f", f.DebtCoverageRatio, minDebtCoverage))
	}
	if f.CapRate < minHealthyCapRate {
		list = append(list, "Cap rate below 4%")
	}
	if f.RentEstimated {
		list = append(list, "Rent is estimated, not sourced from the listing")
	}
	if attrs.LocationScore != nil && *attrs.LocationScore <= weakLocationScore {
		list = append(list, fmt.Sprintf("Weak location score (%d/10)", *attrs.LocationScore))
	}
	if attrs.RentalGrowthPotential != nil {
		switch *attrs.RentalGrowthPotential {
		case "Low", "Limited":
			list = append(list, fmt.Sprintf("%s rental growth potential", *attrs.RentalGrowthPotential))
		}
	}
	if age, ok := propertyAge(attrs, currentYear); ok && age > oldPropertyAge {
		list = append(list, "Older property may need capital expenditures")
	}

	return list
}

func pricePerSqft(attrs models.PropertyAttributes) (float64, bool) {
	if attrs.Price == nil || attrs.SquareFeet == nil || *attrs.SquareFeet <= 0 {
		return 0, false
	}
	return value(attrs.Price) / float64(*attrs.SquareFeet), true
}

func propertyAge(attrs models.PropertyAttributes, currentYear int) (int, bool) {
	if attrs.YearBuilt == nil || *attrs.YearBuilt > currentYear {
		return 0, false
	}
	return currentYear - *attrs.YearBuilt, true
}

// containsAny matches whole words so "reo" does not hit "stereo".
func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		idx := 0
		for {
			i := strings.Index(text[idx:], term)
			if i < 0 {
				break
			}
			start, end := idx+i, idx+i+len(term)
			if boundary(text, start-1) && boundary(text, end) {
				return true
			}
			idx = start + 1
		}
	}
	return false
}

func boundary(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return true
	}
	c := text[i]
	return !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9')
}
