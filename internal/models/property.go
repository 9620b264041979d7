package models

// Field names a PropertyAttributes entry. The string value is the JSON key.
type Field string

const (
	FieldPrice                 Field = "price"
	FieldBedrooms              Field = "bedrooms"
	FieldBathrooms             Field = "bathrooms"
	FieldSquareFeet            Field = "squareFeet"
	FieldYearBuilt             Field = "yearBuilt"
	FieldPropertyType          Field = "propertyType"
	FieldStreetName            Field = "streetName"
	FieldAddress               Field = "address"
	FieldEstimatedRentalIncome Field = "estimatedRentalIncome"
	FieldLocationScore         Field = "locationScore"
	FieldRentalGrowthPotential Field = "rentalGrowthPotential"
	FieldPropertyTaxes         Field = "propertyTaxes"
	FieldDaysOnMarket          Field = "daysOnMarket"
)

// PropertyAttributes holds the typed fields known about a property.
// A nil pointer means the field was not found; it is never the same as zero.
type PropertyAttributes struct {
	Price                 *float64 `json:"price,omitempty"`
	Bedrooms              *float64 `json:"bedrooms,omitempty"`
	Bathrooms             *float64 `json:"bathrooms,omitempty"`
	SquareFeet            *int     `json:"squareFeet,omitempty"`
	YearBuilt             *int     `json:"yearBuilt,omitempty"`
	PropertyType          *string  `json:"propertyType,omitempty"`
	StreetName            *string  `json:"streetName,omitempty"`
	Address               *string  `json:"address,omitempty"`
	EstimatedRentalIncome *float64 `json:"estimatedRentalIncome,omitempty"`
	LocationScore         *int     `json:"locationScore,omitempty"`
	RentalGrowthPotential *string  `json:"rentalGrowthPotential,omitempty"`
	PropertyTaxes         *float64 `json:"propertyTaxes,omitempty"`
	DaysOnMarket          *int     `json:"daysOnMarket,omitempty"`

	// Description is free text scanned for red-flag keywords. It is supplied
	// by the caller and never produced by extraction.
	Description *string `json:"description,omitempty"`
}

// Has reports whether the given field is present.
func (p PropertyAttributes) Has(f Field) bool {
	switch f {
	case FieldPrice:
		return p.Price != nil
	case FieldBedrooms:
		return p.Bedrooms != nil
	case FieldBathrooms:
		return p.Bathrooms != nil
	case FieldSquareFeet:
		return p.SquareFeet != nil
	case FieldYearBuilt:
		return p.YearBuilt != nil
	case FieldPropertyType:
		return p.PropertyType != nil
	case FieldStreetName:
		return p.StreetName != nil
	case FieldAddress:
		return p.Address != nil
	case FieldEstimatedRentalIncome:
		return p.EstimatedRentalIncome != nil
	case FieldLocationScore:
		return p.LocationScore != nil
	case FieldRentalGrowthPotential:
		return p.RentalGrowthPotential != nil
	case FieldPropertyTaxes:
		return p.PropertyTaxes != nil
	case FieldDaysOnMarket:
		return p.DaysOnMarket != nil
	}
	return false
}

// DisplayAddress returns the best human label for the property.
func (p PropertyAttributes) DisplayAddress() string {
	if p.Address != nil {
		return *p.Address
	}
	if p.StreetName != nil {
		return *p.StreetName
	}
	return ""
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
