package extractor

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propertylens/internal/models"
)

const sampleAnalysis = `Here is my assessment of the listing.

Price: $450,000
Bedrooms: 3
Location Score: 8/10
Rental Growth Potential: Growth: Strong`

const fullListing = `**Property Analysis**
Address: 742 Evergreen Terrace, Springfield, IL 62704
Property Type: Single Family Home
Price: $450K
Bedrooms: 4
Bathrooms: 2.5
Square Feet: 2,100
Year Built: 1995
Property Taxes: $5,400
Days on Market: 45
Location Score: 7/10
Rental Growth Potential: Moderate`

func newTestExtractor() *Extractor {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return New(logger)
}

func TestNew_NilLogger(t *testing.T) {
	e := New(nil)
	require.NotNil(t, e)
	assert.NotNil(t, e.logger)
}

func TestExtract_SampleAnalysis(t *testing.T) {
	result := newTestExtractor().Extract(sampleAnalysis)
	attrs := result.Attributes

	require.NotNil(t, attrs.Price)
	assert.Equal(t, 450000.0, *attrs.Price)
	require.NotNil(t, attrs.Bedrooms)
	assert.Equal(t, 3.0, *attrs.Bedrooms)
	require.NotNil(t, attrs.LocationScore)
	assert.Equal(t, 8, *attrs.LocationScore)
	require.NotNil(t, attrs.RentalGrowthPotential)
	assert.Equal(t, "Strong", *attrs.RentalGrowthPotential)

	assert.Equal(t, []models.Field{
		models.FieldPrice,
		models.FieldBedrooms,
		models.FieldLocationScore,
		models.FieldRentalGrowthPotential,
	}, result.Found)
	assert.Equal(t, "labeled_price", result.Sources[models.FieldPrice])
	assert.Equal(t, "score_out_of_ten", result.Sources[models.FieldLocationScore])
	assert.Equal(t, "labeled_rental_growth", result.Sources[models.FieldRentalGrowthPotential])
}

func TestExtract_FullListing(t *testing.T) {
	attrs := newTestExtractor().Extract(fullListing).Attributes

	expected := models.PropertyAttributes{
		Price:                 models.Float(450000),
		Bedrooms:              models.Float(4),
		Bathrooms:             models.Float(2.5),
		SquareFeet:            models.Int(2100),
		YearBuilt:             models.Int(1995),
		PropertyType:          models.String("Single Family Home"),
		Address:               models.String("742 Evergreen Terrace, Springfield, IL 62704"),
		StreetName:            models.String("Evergreen Terrace"),
		LocationScore:         models.Int(7),
		RentalGrowthPotential: models.String("Moderate"),
		PropertyTaxes:         models.Float(5400),
		DaysOnMarket:          models.Int(45),
	}
	assert.Equal(t, expected, attrs)
}

func TestExtract_AbsentPrice(t *testing.T) {
	result := newTestExtractor().Extract("Bedrooms: 3\nBathrooms: 2")

	assert.Nil(t, result.Attributes.Price)
	assert.NotContains(t, result.Found, models.FieldPrice)

	encoded, err := json.Marshal(result.Attributes)
	require.NoError(t, err)
	assert.NotContains(t, string(encoded), `"price"`)
	assert.JSONEq(t, `{"bedrooms":3,"bathrooms":2}`, string(encoded))
}

func TestExtract_RulePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected float64
		source   string
	}{
		{
			name:     "Labeled price beats an earlier bare amount",
			text:     "Great deal at $300,000 compared to nearby homes.\nPrice: $450,000",
			expected: 450000,
			source:   "labeled_price",
		},
		{
			name:     "First occurrence wins within a rule",
			text:     "Listed at $350,000. The seller previously offered at $360,000.",
			expected: 350000,
			source:   "price_phrase",
		},
		{
			name:     "Failing candidate falls through to the next match",
			text:     "Price: $1,000 deposit\nAsking price: $475,000",
			expected: 475000,
			source:   "labeled_price",
		},
		{
			name:     "Bare dollar amount as last resort",
			text:     "Comparable homes sell around $410,000 in this area.",
			expected: 410000,
			source:   "bare_dollar",
		},
		{
			name:     "Markdown emphasis is ignored",
			text:     "**Price:** $425,000",
			expected: 425000,
			source:   "labeled_price",
		},
		{
			name:     "Million suffix",
			text:     "Price: 1.5M",
			expected: 1500000,
			source:   "labeled_price",
		},
	}

	e := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Extract(tt.text)
			require.NotNil(t, result.Attributes.Price)
			assert.Equal(t, tt.expected, *result.Attributes.Price)
			assert.Equal(t, tt.source, result.Sources[models.FieldPrice])
		})
	}
}

func TestExtract_OutOfBandValuesLeftAbsent(t *testing.T) {
	text := "Price: $4,999\nBedrooms: 25\nLocation Score: 12/10\nRental Growth Potential: Excellent\nEstimated Rental Income: $2,400"
	result := newTestExtractor().Extract(text)

	assert.Nil(t, result.Attributes.Price)
	assert.Nil(t, result.Attributes.Bedrooms)
	assert.Nil(t, result.Attributes.LocationScore)
	assert.Nil(t, result.Attributes.RentalGrowthPotential)
	// Monthly rents below the shared currency band are rejected like any other amount.
	assert.Nil(t, result.Attributes.EstimatedRentalIncome)
	assert.Empty(t, result.Found)
}

func TestExtract_RoomCounts(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		bedrooms  *float64
		bathrooms *float64
		bedSrc    string
		bathSrc   string
	}{
		{
			name:      "Labeled counts",
			text:      "Bedrooms: 3\nBathrooms: 2",
			bedrooms:  models.Float(3),
			bathrooms: models.Float(2),
			bedSrc:    "labeled_bedrooms",
			bathSrc:   "labeled_bathrooms",
		},
		{
			name:      "Counts before the unit",
			text:      "A charming 4 bedroom, 3 bath bungalow",
			bedrooms:  models.Float(4),
			bathrooms: models.Float(3),
			bedSrc:    "bedroom_count",
			bathSrc:   "bathroom_count",
		},
		{
			name:      "Half bathroom is kept",
			text:      "Bathrooms: 2.5",
			bathrooms: models.Float(2.5),
			bathSrc:   "labeled_bathrooms",
		},
		{
			name:      "Half bathroom before the unit",
			text:      "Offers 1.5 baths",
			bathrooms: models.Float(1.5),
			bathSrc:   "bathroom_count",
		},
		{
			name: "Half bedroom is rejected",
			text: "Bedrooms: 2.5",
		},
		{
			name: "Half bedroom before the unit is rejected",
			text: "Roughly 2.5 bedrooms",
		},
		{
			name: "Labeled counts over the bound are not truncated",
			text: "Bedrooms: 123\nBathrooms: 150",
		},
		{
			name: "Counts over the bound before the unit are not truncated",
			text: "123 bedrooms and 150 baths",
		},
		{
			name: "Labeled count above the maximum",
			text: "Bedrooms: 21\nBathrooms: 20.5",
		},
		{
			name:      "Count ending a sentence",
			text:      "Bedrooms: 3. Bathrooms: 2.",
			bedrooms:  models.Float(3),
			bathrooms: models.Float(2),
			bedSrc:    "labeled_bedrooms",
			bathSrc:   "labeled_bathrooms",
		},
	}

	e := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Extract(tt.text)
			assert.Equal(t, tt.bedrooms, result.Attributes.Bedrooms)
			assert.Equal(t, tt.bathrooms, result.Attributes.Bathrooms)
			assert.Equal(t, tt.bedSrc, result.Sources[models.FieldBedrooms])
			assert.Equal(t, tt.bathSrc, result.Sources[models.FieldBathrooms])
		})
	}
}

func TestExtract_StreetNameNeedsLabelSeparator(t *testing.T) {
	e := newTestExtractor()

	result := e.Extract("The street is quiet and well maintained.")
	assert.Nil(t, result.Attributes.StreetName)

	result = e.Extract("Street Name: Maple Avenue")
	require.NotNil(t, result.Attributes.StreetName)
	assert.Equal(t, "Maple Avenue", *result.Attributes.StreetName)
	assert.Equal(t, "labeled_street", result.Sources[models.FieldStreetName])
}

func TestExtract_RentalIncome(t *testing.T) {
	result := newTestExtractor().Extract("Estimated Rental Income: $6,500 per month")
	require.NotNil(t, result.Attributes.EstimatedRentalIncome)
	assert.Equal(t, 6500.0, *result.Attributes.EstimatedRentalIncome)
}

func TestExtract_Idempotent(t *testing.T) {
	e := newTestExtractor()
	for _, text := range []string{"", sampleAnalysis, fullListing, "no numbers here at all"} {
		assert.Equal(t, e.Extract(text), e.Extract(text))
	}
}

func TestExtract_Concurrent(t *testing.T) {
	e := newTestExtractor()
	expected := e.Extract(fullListing)

	var wg sync.WaitGroup
	results := make([]Extraction, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = e.Extract(fullListing)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, expected, r)
	}
}

func TestClean(t *testing.T) {
	in := models.PropertyAttributes{
		Price:                 models.Float(1000),
		Bedrooms:              models.Float(2.5),
		Bathrooms:             models.Float(2.5),
		Address:               models.String("  12 Oak St. "),
		LocationScore:         models.Int(11),
		RentalGrowthPotential: models.String("strong"),
		PropertyTaxes:         models.Float(3000),
		Description:           models.String("needs a new roof"),
	}

	out := Clean(in)

	assert.Nil(t, out.Price)
	assert.Nil(t, out.Bedrooms)
	assert.Nil(t, out.LocationScore)
	require.NotNil(t, out.Bathrooms)
	assert.Equal(t, 2.5, *out.Bathrooms)
	require.NotNil(t, out.Address)
	assert.Equal(t, "12 Oak St", *out.Address)
	require.NotNil(t, out.RentalGrowthPotential)
	assert.Equal(t, "Strong", *out.RentalGrowthPotential)
	require.NotNil(t, out.Description)
	assert.Equal(t, "needs a new roof", *out.Description)

	// input untouched
	assert.Equal(t, 1000.0, *in.Price)
	assert.Equal(t, "  12 Oak St. ", *in.Address)

	assert.Equal(t, []models.Field{
		models.FieldBathrooms,
		models.FieldAddress,
		models.FieldRentalGrowthPotential,
		models.FieldPropertyTaxes,
	}, FoundFields(out))
}

func TestClean_AgreesWithExtract(t *testing.T) {
	e := newTestExtractor()
	for _, text := range []string{sampleAnalysis, fullListing} {
		attrs := e.Extract(text).Attributes
		cleaned := Clean(attrs)
		assert.Equal(t, attrs, cleaned)
		assert.Equal(t, cleaned, Clean(cleaned))
	}
}
