package extractor

import (
	"regexp"
	"sort"

	"propertylens/internal/models"
)

// Shared value fragments. Every rule pattern has exactly one capture group: the raw candidate.
const (
	sep       = `\s*(?:[:=\-–]|\bis\b)\s*`
	strictSep = `\s*[:=\-–]\s*`
	moneyExpr = `(\$?\s?(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d+)?(?:\s?[kKmM]\b)?)`
	countExpr = `(\d{1,2}(?:\.\d+)?)`
	areaExpr  = `((?:\d{1,3}(?:,\d{3})+|\d+))`
	suffixes  = `(?:Street|St|Avenue|Ave|Road|Rd|Drive|Dr|Lane|Ln|Boulevard|Blvd|Court|Ct|Circle|Cir|Way|Place|Pl|Terrace|Ter|Parkway|Pkwy|Highway|Hwy|Trail|Trl)`
)

// countEnd stops a labeled count from matching the leading digits of a longer number.
const countEnd = `(?:\D|$)`

// rule is one candidate search for a field. Higher priority rules are more
// specific and are tried first.
type rule struct {
	name     string
	pattern  *regexp.Regexp
	priority int
}

// fieldRules binds a field to its ordered rules and to the shared validator
// that checks a raw candidate and stores the normalised value.
type fieldRules struct {
	field  models.Field
	rules  []rule
	assign func(raw string, attrs *models.PropertyAttributes) bool
}

// fieldTable lists every extractable field in output order.
var fieldTable = []fieldRules{
	{
		field: models.FieldPrice,
		rules: []rule{
			{"labeled_price", regexp.MustCompile(`(?i)\b(?:(?:list(?:ing)?|asking|purchase|sales?|offer)\s+)?price` + sep + moneyExpr), 100},
			{"price_phrase", regexp.MustCompile(`(?i)\b(?:listed|priced|offered|selling|sells|asking|available)\s+(?:at|for)\s+` + moneyExpr), 80},
			{"bare_dollar", regexp.MustCompile(`\$\s?((?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d+)?(?:\s?[kKmM]\b)?)`), 10},
		},
		assign: func(raw string, attrs *models.PropertyAttributes) bool {
			v, ok := ValidateCurrency(raw)
			if ok {
				attrs.Price = models.Float(v)
			}
			return ok
		},
	},
	{
		field: models.FieldBedrooms,
		rules: []rule{
			{"labeled_bedrooms", regexp.MustCompile(`(?i)\b(?:bedrooms?|beds?)` + sep + countExpr + countEnd), 100},
			{"bedroom_count", regexp.MustCompile(`(?i)\b` + countExpr + `\s*-?\s*(?:bedrooms?|beds?|bd|br)\b`), 50},
		},
		assign: func(raw string, attrs *models.PropertyAttributes) bool {
			v, ok := ValidateCount(raw, false)
			if ok {
				attrs.Bedrooms = models.Float(v)
			}
			return ok
		},
	},
	{
		field: models.FieldBathrooms,
		rules: []rule{
			{"labeled_bathrooms", regexp.MustCompile(`(?i)\b(?:bathrooms?|baths?)` + sep + countExpr + countEnd), 100},
			{"bathroom_count", regexp.MustCompile(`(?i)\b` + countExpr + `\s*-?\s*(?:bathrooms?|baths?|ba)\b`), 50},
		},
		assign: func(raw string, attrs *models.PropertyAttributes) bool {
			v, ok := ValidateCount(raw, true)
			if ok {
				attrs.Bathrooms = models.Float(v)
			}
			return ok
		},
	},
	{
		field: models.FieldSquareFeet,
		rules: []rule{
			{"labeled_area", regexp.MustCompile(`(?i)\b(?:square\s+f(?:ee|oo)t(?:age)?|sq\.?\s*ft\.?|sqft|living\s+area|size)` + sep + areaExpr), 100},
			{"area_unit", regexp.MustCompile(`(?i)\b` + areaExpr + `\s*(?:square\s+f(?:ee|oo)t|sq\.?\s*ft|sqft|sf)\b`), 50},
		},
		assign: func(raw string, attrs *models.PropertyAttributes) bool {
			v, ok := ValidateSquareFeet(raw)
			if ok {
				attrs.SquareFeet = models.Int(v)
			}
			return ok
		},
	},
	{
		field: models.FieldYearBuilt,
		rules: []rule{
			{"labeled_year", regexp.MustCompile(`(?i)\b(?:year\s+built|built(?:\s+in)?)(?:\s*[:=\-–]\s*|\s+)(\d{4})\b`), 100},
			{"constructed_year", regexp.MustCompile(`(?i)\b(?:constructed|completed)\s+(?:in\s+)?(\d{4})\b`), 50},
		},
		assign: func(raw string, attrs *models.PropertyAttributes) bool {
			v, ok := ValidateYear(raw)
			if ok {
				attrs.YearBuilt = models.Int(v)
			}
			return ok
		},
	},
	{
		field: models.FieldPropertyType,
		rules: []rule{
			{"labeled_type", regexp.MustCompile(`(?i)\b(?:property|home|house|building)\s+type` + sep + `([A-Za-z][A-Za-z\- /]{1,58}[A-Za-z])`), 100},
			{"type_keyword", regexp.MustCompile(`(?i)\b(single[\s-]family(?:\s+(?:home|residence|house))?|multi[\s-]family(?:\s+home)?|duplex|triplex|fourplex|quadplex|townhouse|townhome|condominium|condo|apartment|mobile\s+home|bungalow)\b`), 30},
		},
		assign: func(raw string, attrs *models.PropertyAttributes) bool {
			v, ok := ValidatePropertyType(raw)
			if ok {
				attrs.PropertyType = models.String(v)
			}
			return ok
		},
	},
	{
		field: models.FieldAddress,
		rules: []rule{
			{"labeled_address", regexp.MustCompile(`(?i)\b(?:street\s+|property\s+|full\s+)?address` + sep + `([^\n|]{3,200})`), 100},
			{"located_at", regexp.MustCompile(`(?i)\blocated\s+at\s+([^\n;]{3,120}?)(?:[.;]\s|\n|$)`), 60},
			{"numbered_street", regexp.MustCompile(`(?im)(?:^|[^\d,.$])(\d{1,6}\s+(?:[A-Za-z0-9.'-]+\s+){0,4}?` + suffixes + `\b\.?(?:,\s*[A-Za-z]+(?:\s[A-Za-z]+)?,\s*(?-i:[A-Z]{2})(?:\s+\d{5})?)?)`), 20},
		},
		assign: func(raw string, attrs *models.PropertyAttributes) bool {
			v, ok := ValidateAddress(raw)
			if ok {
				attrs.Address = models.String(v)
			}
			return ok
		},
	},
	{
		field: models.FieldStreetName,
		rules: []rule{
			{"labeled_street", regexp.MustCompile(`(?i)\bstreet(?:\s+name)?` + strictSep + `([^\n,;|]{3,120})`), 100},
			{"street_after_number", regexp.MustCompile(`(?im)(?:^|[^\d,.$])\d{1,6}\s+((?:[A-Za-z0-9.'-]+\s+){0,4}?` + suffixes + `\b\.?)`), 40},
		},
		assign: func(raw string, attrs *models.PropertyAttributes) bool {
			v, ok := ValidateAddress(raw)
			if ok {
				attrs.StreetName = models.String(v)
			}
			return ok
		},
	},
	{
		field: models.FieldEstimatedRentalIncome,
		rules: []rule{
			{"labeled_rent", regexp.MustCompile(`(?i)\b(?:estimated\s+)?(?:monthly\s+)?(?:rental\s+income|rent(?:al)?\s+estimate|market\s+rent|rent)` + sep + `(?:~\s*|approx(?:imately|\.)?\s+)?` + moneyExpr), 100},
			{"rent_phrase", regexp.MustCompile(`(?i)\b(?:rents?\s+(?:for|of|at|around)|could\s+rent\s+for|rental\s+income\s+of)\s+(?:~\s*|approximately\s+)?` + moneyExpr), 50},
		},
		assign: func(raw string, attrs *models.PropertyAttributes) bool {
			v, ok := ValidateCurrency(raw)
			if ok {
				attrs.EstimatedRentalIncome = models.Float(v)
			}
			return ok
		},
	},
	{
		field: models.FieldLocationScore,
		rules: []rule{
			{"score_out_of_ten", regexp.MustCompile(`(?i)\blocation\s+(?:score|rating)(?:\s*[:=\-–]\s*|\s+is\s+|\s+)(\d{1,2})\s*/\s*10\b`), 100},
			{"labeled_score", regexp.MustCompile(`(?i)\blocation\s+(?:score|rating)` + sep + `(\d{1,2})\b`), 70},
			{"location_rated", regexp.MustCompile(`(?i)\blocation\b[^\n]{0,40}?\b(\d{1,2})\s*/\s*10\b`), 40},
		},
		assign: func(raw string, attrs *models.PropertyAttributes) bool {
			v, ok := ValidateScore(raw)
			if ok {
				attrs.LocationScore = models.Int(v)
			}
			return ok
		},
	},
	{
		field: models.FieldRentalGrowthPotential,
		rules: []rule{
			{"labeled_rental_growth", regexp.MustCompile(`(?i)\brental\s+growth(?:\s+potential)?` + sep + `(?:growth` + sep + `)?([A-Za-z]+)`), 100},
			{"labeled_growth", regexp.MustCompile(`(?i)\bgrowth(?:\s+potential)?` + sep + `([A-Za-z]+)`), 50},
			{"growth_adjective", regexp.MustCompile(`(?i)\b(high|strong|moderate|low|limited)\s+(?:rental\s+|rent\s+)?growth\b`), 20},
		},
		assign: func(raw string, attrs *models.PropertyAttributes) bool {
			v, ok := ValidateGrowth(raw)
			if ok {
				attrs.RentalGrowthPotential = models.String(v)
			}
			return ok
		},
	},
	{
		field: models.FieldPropertyTaxes,
		rules: []rule{
			{"labeled_taxes", regexp.MustCompile(`(?i)\b(?:annual\s+)?(?:property\s+)?tax(?:es)?(?:\s*\(annual\))?` + sep + moneyExpr), 100},
			{"taxes_phrase", regexp.MustCompile(`(?i)\btaxes\s+(?:of|are|around|run)\s+(?:about\s+)?` + moneyExpr), 50},
		},
		assign: func(raw string, attrs *models.PropertyAttributes) bool {
			v, ok := ValidateTaxes(raw)
			if ok {
				attrs.PropertyTaxes = models.Float(v)
			}
			return ok
		},
	},
	{
		field: models.FieldDaysOnMarket,
		rules: []rule{
			{"labeled_dom", regexp.MustCompile(`(?i)\bdays\s+on\s+(?:the\s+)?market(?:\s*\(dom\))?(?:\s*[:=\-–]\s*|\s+is\s+|\s+)(\d{1,4})\b`), 100},
			{"dom_phrase", regexp.MustCompile(`(?i)\b(\d{1,4})\s+days\s+on\s+(?:the\s+)?market\b`), 50},
		},
		assign: func(raw string, attrs *models.PropertyAttributes) bool {
			v, ok := ValidateDays(raw)
			if ok {
				attrs.DaysOnMarket = models.Int(v)
			}
			return ok
		},
	},
}

func init() {
	for i := range fieldTable {
		sort.SliceStable(fieldTable[i].rules, func(a, b int) bool {
			return fieldTable[i].rules[a].priority > fieldTable[i].rules[b].priority
		})
	}
}

// match returns the name of the first rule that yields a validator-passing
// candidate. Within a rule, matches are tried in text order.
func (fr fieldRules) match(text string, attrs *models.PropertyAttributes) (string, bool) {
	for _, r := range fr.rules {
		for _, m := range r.pattern.FindAllStringSubmatch(text, -1) {
			if len(m) < 2 {
				continue
			}
			if fr.assign(m[1], attrs) {
				return r.name, true
			}
		}
	}
	return "", false
}
