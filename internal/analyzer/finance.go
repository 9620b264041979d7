package analyzer

import (
	"math"

	"propertylens/internal/models"
)

// Closing costs are assumed to be 3% of the purchase price.
const closingCostRate = 0.03

// Rent fallback model used when no rental figure was extracted.
const (
	rentPriceRate     = 0.001
	rentPerBedroom    = 150
	rentPerBathroom   = 75
	rentPerSquareFoot = 0.25
)

// inputs are the sanitised numbers one run of the formulas works from.
// Scenarios copy and perturb this value; nothing is shared between runs.
type inputs struct {
	price         float64
	rent          float64
	rentEstimated bool
	annualTaxes   float64
	downPct       float64
	interestRate  float64
	termYears     int
	expenses      models.MonthlyExpenses
}

// MonthlyMortgage is the standard amortised payment P·r·(1+r)^n / ((1+r)^n − 1)
// with r the monthly rate and n the number of payments. It returns 0 when any
// input is non-positive.
func MonthlyMortgage(principal, annualRatePercent float64, termYears int) float64 {
	if principal <= 0 || annualRatePercent <= 0 || termYears <= 0 {
		return 0
	}
	r := annualRatePercent / 100 / 12
	n := float64(termYears * 12)
	growth := math.Pow(1+r, n)
	return principal * r * growth / (growth - 1)
}

// EstimateRent is the linear fallback: 0.1% of price plus per-room and
// per-square-foot bonuses. Missing attributes contribute nothing.
func EstimateRent(attrs models.PropertyAttributes) float64 {
	rent := value(attrs.Price) * rentPriceRate
	rent += value(attrs.Bedrooms) * rentPerBedroom
	rent += value(attrs.Bathrooms) * rentPerBathroom
	if attrs.SquareFeet != nil {
		rent += float64(*attrs.SquareFeet) * rentPerSquareFoot
	}
	return rent
}

// calculate runs every financial formula once.
func calculate(in inputs) models.Financials {
	downPayment := in.price * in.downPct / 100
	loanAmount := in.price - downPayment
	mortgage := MonthlyMortgage(loanAmount, in.interestRate, in.termYears)

	expenses := models.ExpenseBreakdown{
		PropertyTaxes: in.annualTaxes / 12,
		Insurance:     in.expenses.Insurance,
		Maintenance:   in.expenses.Maintenance,
		Vacancy:       in.expenses.Vacancy,
		Management:    in.expenses.Management,
		Other:         in.expenses.Other,
	}
	expenses.Total = expenses.PropertyTaxes + in.expenses.Total()

	monthly := in.rent - mortgage - expenses.Total
	grossAnnualRent := in.rent * 12
	noi := grossAnnualRent - expenses.Total*12
	cashInvested := downPayment + in.price*closingCostRate

	return models.Financials{
		PurchasePrice:   in.price,
		EstimatedRent:   in.rent,
		RentEstimated:   in.rentEstimated,
		InterestRate:    in.interestRate,
		DownPayment:     downPayment,
		LoanAmount:      loanAmount,
		MonthlyMortgage: mortgage,
		MonthlyExpenses: expenses,
		CashFlow: models.CashFlow{
			Monthly: monthly,
			Annual:  monthly * 12,
		},
		NetOperatingIncome:  noi,
		CapRate:             percentOf(noi, in.price),
		CoCReturn:           percentOf(monthly*12, cashInvested),
		TotalCashInvested:   cashInvested,
		GrossRentMultiplier: ratio(in.price, grossAnnualRent),
		DebtCoverageRatio:   ratio(in.rent, mortgage),
	}
}

func percentOf(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

func ratio(a, b float64) float64 {
	if b <= 0 {
		return 0
	}
	return a / b
}

func value(p *float64) float64 {
	if p == nil || !finite(*p) {
		return 0
	}
	return *p
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// rounded returns a copy of f with every money and ratio field rounded to cents.
func rounded(f models.Financials) models.Financials {
	f.PurchasePrice = round2(f.PurchasePrice)
	f.EstimatedRent = round2(f.EstimatedRent)
	f.DownPayment = round2(f.DownPayment)
	f.LoanAmount = round2(f.LoanAmount)
	f.MonthlyMortgage = round2(f.MonthlyMortgage)
	f.MonthlyExpenses.PropertyTaxes = round2(f.MonthlyExpenses.PropertyTaxes)
	f.MonthlyExpenses.Insurance = round2(f.MonthlyExpenses.Insurance)
	f.MonthlyExpenses.Maintenance = round2(f.MonthlyExpenses.Maintenance)
	f.MonthlyExpenses.Vacancy = round2(f.MonthlyExpenses.Vacancy)
	f.MonthlyExpenses.Management = round2(f.MonthlyExpenses.Management)
	f.MonthlyExpenses.Other = round2(f.MonthlyExpenses.Other)
	f.MonthlyExpenses.Total = round2(f.MonthlyExpenses.Total)
	f.CashFlow.Monthly = round2(f.CashFlow.Monthly)
	f.CashFlow.Annual = round2(f.CashFlow.Annual)
	f.NetOperatingIncome = round2(f.NetOperatingIncome)
	f.CapRate = round2(f.CapRate)
	f.CoCReturn = round2(f.CoCReturn)
	f.TotalCashInvested = round2(f.TotalCashInvested)
	f.GrossRentMultiplier = round2(f.GrossRentMultiplier)
	f.DebtCoverageRatio = round2(f.DebtCoverageRatio)
	return f
}

// allFinite reports whether every computed number in f is finite.
func allFinite(f models.Financials) bool {
	for _, v := range []float64{
		f.PurchasePrice, f.EstimatedRent, f.DownPayment, f.LoanAmount, f.MonthlyMortgage,
		f.MonthlyExpenses.Total, f.CashFlow.Monthly, f.CashFlow.Annual, f.NetOperatingIncome,
		f.CapRate, f.CoCReturn, f.TotalCashInvested, f.GrossRentMultiplier, f.DebtCoverageRatio,
	} {
		if !finite(v) {
			return false
		}
	}
	return true
}
