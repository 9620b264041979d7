package extractor

import "propertylens/internal/models"

// Clean re-validates attributes that did not come from Extract (for example a
// scraped listing) with the same validators extraction uses. Failing fields are
// dropped and string fields are normalised. The input is not modified.
func Clean(in models.PropertyAttributes) models.PropertyAttributes {
	var out models.PropertyAttributes

	if in.Price != nil && validCurrency(*in.Price) {
		out.Price = models.Float(*in.Price)
	}
	if in.Bedrooms != nil && validCount(*in.Bedrooms, false) {
		out.Bedrooms = models.Float(*in.Bedrooms)
	}
	if in.Bathrooms != nil && validCount(*in.Bathrooms, true) {
		out.Bathrooms = models.Float(*in.Bathrooms)
	}
	if in.SquareFeet != nil && validSquareFeet(*in.SquareFeet) {
		out.SquareFeet = models.Int(*in.SquareFeet)
	}
	if in.YearBuilt != nil && validYear(*in.YearBuilt) {
		out.YearBuilt = models.Int(*in.YearBuilt)
	}
	if in.PropertyType != nil {
		if v, ok := ValidatePropertyType(*in.PropertyType); ok {
			out.PropertyType = models.String(v)
		}
	}
	if in.StreetName != nil {
		if v, ok := ValidateAddress(*in.StreetName); ok {
			out.StreetName = models.String(v)
		}
	}
	if in.Address != nil {
		if v, ok := ValidateAddress(*in.Address); ok {
			out.Address = models.String(v)
		}
	}
	if in.EstimatedRentalIncome != nil && validCurrency(*in.EstimatedRentalIncome) {
		out.EstimatedRentalIncome = models.Float(*in.EstimatedRentalIncome)
	}
	if in.LocationScore != nil && validScore(*in.LocationScore) {
		out.LocationScore = models.Int(*in.LocationScore)
	}
	if in.RentalGrowthPotential != nil {
		if v, ok := ValidateGrowth(*in.RentalGrowthPotential); ok {
			out.RentalGrowthPotential = models.String(v)
		}
	}
	if in.PropertyTaxes != nil && validTaxes(*in.PropertyTaxes) {
		out.PropertyTaxes = models.Float(*in.PropertyTaxes)
	}
	if in.DaysOnMarket != nil && validDays(*in.DaysOnMarket) {
		out.DaysOnMarket = models.Int(*in.DaysOnMarket)
	}
	if in.Description != nil {
		out.Description = models.String(*in.Description)
	}
	return out
}

// FoundFields lists the present fields of attrs in extraction order.
func FoundFields(attrs models.PropertyAttributes) []models.Field {
	found := []models.Field{}
	for _, fr := range fieldTable {
		if attrs.Has(fr.field) {
			found = append(found, fr.field)
		}
	}
	return found
}
