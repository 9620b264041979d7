package models

// MonthlyExpenses is the fixed monthly expense breakdown used for every property.
type MonthlyExpenses struct {
	Maintenance float64 `json:"maintenance" toml:"maintenance" validate:"gte=0"`
	Vacancy     float64 `json:"vacancy" toml:"vacancy" validate:"gte=0"`
	Management  float64 `json:"management" toml:"management" validate:"gte=0"`
	Insurance   float64 `json:"insurance" toml:"insurance" validate:"gte=0"`
	Other       float64 `json:"other" toml:"other" validate:"gte=0"`
}

// InvestmentPreferences holds the user's targets and loan parameters.
// Percentages are expressed as whole numbers (7.5 means 7.5%).
type InvestmentPreferences struct {
	TargetCashFlow     float64         `json:"targetCashFlow" toml:"target_cash_flow"`
	TargetCapRate      float64         `json:"targetCapRate" toml:"target_cap_rate" validate:"gte=0,lte=100"`
	TargetCoCReturn    float64         `json:"targetCoCReturn" toml:"target_coc_return" validate:"gte=0,lte=100"`
	DownPaymentPercent float64         `json:"downPaymentPercent" toml:"down_payment_percent" validate:"gte=0,lte=100"`
	InterestRate       float64         `json:"interestRate" toml:"interest_rate" validate:"gte=0,lte=100"`
	LoanTermYears      int             `json:"loanTermYears" toml:"loan_term_years" validate:"gte=1,lte=50"`
	MonthlyExpenses    MonthlyExpenses `json:"monthlyExpenses" toml:"monthly_expenses"`
}

// DefaultPreferences returns the documented default profile.
// Decoders unmarshal on top of this value so absent keys keep their defaults.
func DefaultPreferences() InvestmentPreferences {
	return InvestmentPreferences{
		TargetCashFlow:     200,
		TargetCapRate:      8,
		TargetCoCReturn:    12,
		DownPaymentPercent: 20,
		InterestRate:       7.5,
		LoanTermYears:      30,
		MonthlyExpenses: MonthlyExpenses{
			Maintenance: 200,
			Vacancy:     150,
			Management:  100,
			Insurance:   100,
			Other:       50,
		},
	}
}

// Total sums the fixed monthly categories.
func (e MonthlyExpenses) Total() float64 {
	return e.Maintenance + e.Vacancy + e.Management + e.Insurance + e.Other
}
