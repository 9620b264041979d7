package analyzer

import (
	"fmt"
	"strings"

	"propertylens/internal/models"
)

// The 1% rule: monthly rent of at least 1% of the purchase price.
const onePercentRule = 0.01

func marketInsights(attrs models.PropertyAttributes, f models.Financials, currentYear int) models.MarketInsights {
	insights := models.MarketInsights{
		RentToPriceRatio: round2(percentOf(f.EstimatedRent, f.PurchasePrice)),
		Notes:            []string{},
	}
	if f.PurchasePrice > 0 {
		insights.MeetsOnePercentRule = f.EstimatedRent >= f.PurchasePrice*onePercentRule
	}
	if pps, ok := pricePerSqft(attrs); ok {
		insights.PricePerSquareFoot = round2(pps)
	}
	if attrs.LocationScore != nil {
		insights.LocationScore = models.Int(*attrs.LocationScore)
	}
	if attrs.RentalGrowthPotential != nil {
		insights.RentalGrowthPotential = *attrs.RentalGrowthPotential
	}
	if age, ok := propertyAge(attrs, currentYear); ok {
		insights.PropertyAge = models.Int(age)
	}

	if insights.MeetsOnePercentRule {
		insights.Notes = append(insights.Notes, "Meets the 1% rule")
	} else if f.PurchasePrice > 0 {
		insights.Notes = append(insights.Notes, "Falls short of the 1% rule")
	}
	if attrs.LocationScore != nil && *attrs.LocationScore >= 8 {
		insights.Notes = append(insights.Notes, "Strong location")
	}
	switch insights.RentalGrowthPotential {
	case "High", "Strong":
		insights.Notes = append(insights.Notes, "Rents are expected to grow")
	}
	return insights
}

// recommendation builds the human summary for a verdict.
func recommendation(v models.Verdict, f models.Financials, redFlags []string) string {
	var b strings.Builder
	switch v {
	case models.VerdictStrongBuy:
		b.WriteString("Strong Buy: this property meets or exceeds your investment targets.")
	case models.VerdictWorthConsidering:
		b.WriteString("Worth Considering: some metrics are close to your targets; negotiate on price or verify rents.")
	default:
		b.WriteString("Pass: the numbers do not meet your investment criteria.")
	}
	fmt.Fprintf(&b, " Monthly cash flow $%.2f, cap rate %.2f%%, cash-on-cash %.2f%%.", f.CashFlow.Monthly, f.CapRate, f.CoCReturn)
	if len(redFlags) > 0 {
		fmt.Fprintf(&b, " %d red flag(s) to review.", len(redFlags))
	}
	return b.String()
}
