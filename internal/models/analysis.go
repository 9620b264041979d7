package models

// Verdict is the three-tier investment recommendation.
type Verdict string

const (
	VerdictStrongBuy        Verdict = "Strong Buy"
	VerdictWorthConsidering Verdict = "Worth Considering"
	VerdictPass             Verdict = "Pass"
)

// Valid reports whether v is one of the known verdicts.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictStrongBuy, VerdictWorthConsidering, VerdictPass:
		return true
	}
	return false
}

// ExpenseBreakdown is the monthly operating expense split, excluding debt service.
type ExpenseBreakdown struct {
	PropertyTaxes float64 `json:"propertyTaxes"`
	Insurance     float64 `json:"insurance"`
	Maintenance   float64 `json:"maintenance"`
	Vacancy       float64 `json:"vacancy"`
	Management    float64 `json:"management"`
	Other         float64 `json:"other"`
	Total         float64 `json:"total"`
}

// CashFlow holds monthly and annual pre-tax cash flow.
type CashFlow struct {
	Monthly float64 `json:"monthly"`
	Annual  float64 `json:"annual"`
}

// Financials is one complete run of the financial formulas.
type Financials struct {
	PurchasePrice       float64          `json:"purchasePrice"`
	EstimatedRent       float64          `json:"estimatedRent"`
	RentEstimated       bool             `json:"rentEstimated"`
	InterestRate        float64          `json:"interestRate"`
	DownPayment         float64          `json:"downPayment"`
	LoanAmount          float64          `json:"loanAmount"`
	MonthlyMortgage     float64          `json:"monthlyMortgage"`
	MonthlyExpenses     ExpenseBreakdown `json:"monthlyExpenses"`
	CashFlow            CashFlow         `json:"cashFlow"`
	NetOperatingIncome  float64          `json:"netOperatingIncome"`
	CapRate             float64          `json:"capRate"`
	CoCReturn           float64          `json:"cocReturn"`
	TotalCashInvested   float64          `json:"totalCashInvested"`
	GrossRentMultiplier float64          `json:"grossRentMultiplier"`
	DebtCoverageRatio   float64          `json:"debtCoverageRatio"`
}

// Scenario is a named re-run of the formulas with one input perturbed.
type Scenario struct {
	Name       string     `json:"name"`
	Financials Financials `json:"financials"`
	Score      int        `json:"score"`
	Verdict    Verdict    `json:"verdict"`
}

// Scenarios groups the base case and its sensitivity variants.
type Scenarios struct {
	Base       Scenario `json:"base"`
	HigherRate Scenario `json:"higherRate"`
	HigherRent Scenario `json:"higherRent"`
}

// MarketInsights summarises non-financial signals about the property.
type MarketInsights struct {
	PricePerSquareFoot    float64  `json:"pricePerSquareFoot"`
	RentToPriceRatio      float64  `json:"rentToPriceRatio"`
	MeetsOnePercentRule   bool     `json:"meetsOnePercentRule"`
	LocationScore         *int     `json:"locationScore,omitempty"`
	RentalGrowthPotential string   `json:"rentalGrowthPotential,omitempty"`
	PropertyAge           *int     `json:"propertyAge,omitempty"`
	Notes                 []string `json:"notes"`
}

// FinancialAnalysis is the Analyzer output. It is rebuilt from scratch on every call.
type FinancialAnalysis struct {
	Financials     Financials     `json:"financials"`
	RedFlags       []string       `json:"redFlags"`
	Risks          []string       `json:"risks"`
	Recommendation string         `json:"recommendation"`
	Score          int            `json:"score"`
	Verdict        Verdict        `json:"verdict"`
	MarketInsights MarketInsights `json:"marketInsights"`
	Scenarios      Scenarios      `json:"scenarios"`
}

// EmptyAnalysis is the sentinel returned when analysis cannot be completed.
// Callers treat it as "not enough data".
func EmptyAnalysis() FinancialAnalysis {
	return FinancialAnalysis{
		RedFlags:       []string{},
		Risks:          []string{},
		Recommendation: "Not enough data to analyze this property.",
		Verdict:        VerdictPass,
		MarketInsights: MarketInsights{Notes: []string{}},
	}
}

// IsEmpty reports whether a is the empty-analysis sentinel.
func (a FinancialAnalysis) IsEmpty() bool {
	return a.Financials == (Financials{}) && a.Score == 0 && len(a.RedFlags) == 0 && a.Scenarios == (Scenarios{})
}
