// Package analyzer turns PropertyAttributes and InvestmentPreferences into
// investment metrics, red flags and a scored verdict.
//
// Analyze never fails: missing numbers are treated as zero or as the
// documented preference defaults, and any internal failure yields
// models.EmptyAnalysis.
package analyzer

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"propertylens/internal/models"
)

// Analyzer computes FinancialAnalysis values. It holds no per-call state.
type Analyzer struct {
	logger *logrus.Logger
	now    func() time.Time
}

// New creates an Analyzer. A nil logger falls back to the logrus standard logger.
func New(logger *logrus.Logger) *Analyzer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Analyzer{logger: logger, now: time.Now}
}

// Analyze computes the full analysis for one property.
func (a *Analyzer) Analyze(attrs models.PropertyAttributes, prefs models.InvestmentPreferences) (result models.FinancialAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.WithField("panic", fmt.Sprint(r)).Warn("Analysis failed, returning empty analysis")
			result = models.EmptyAnalysis()
		}
	}()

	if attrs.Price == nil || value(attrs.Price) <= 0 {
		a.logger.Debug("No purchase price, returning empty analysis")
		return models.EmptyAnalysis()
	}

	year := a.now().Year()
	prefs = withDefaults(prefs)
	in := buildInputs(attrs, prefs)

	f := calculate(in)
	if !allFinite(f) {
		a.logger.WithField("price", in.price).Warn("Non-finite analysis result, returning empty analysis")
		return models.EmptyAnalysis()
	}

	flags := redFlags(attrs, year)
	s := score(f, prefs, len(flags))
	verdict := determineVerdict(s)
	out := rounded(f)

	result = models.FinancialAnalysis{
		Financials:     out,
		RedFlags:       flags,
		Risks:          risks(attrs, f, year),
		Recommendation: recommendation(verdict, out, flags),
		Score:          s,
		Verdict:        verdict,
		MarketInsights: marketInsights(attrs, f, year),
		Scenarios:      runScenarios(in, prefs, len(flags)),
	}

	a.logger.WithFields(logrus.Fields{
		"price":     out.PurchasePrice,
		"cap_rate":  out.CapRate,
		"cash_flow": out.CashFlow.Monthly,
		"score":     s,
		"verdict":   verdict,
	}).Debug("Analyzed property")

	return result
}

// buildInputs sanitises attributes into formula inputs. Missing taxes count
// as zero and a missing rent falls back to EstimateRent.
func buildInputs(attrs models.PropertyAttributes, prefs models.InvestmentPreferences) inputs {
	in := inputs{
		price:        value(attrs.Price),
		annualTaxes:  value(attrs.PropertyTaxes),
		downPct:      prefs.DownPaymentPercent,
		interestRate: prefs.InterestRate,
		termYears:    prefs.LoanTermYears,
		expenses:     prefs.MonthlyExpenses,
	}
	if rent := value(attrs.EstimatedRentalIncome); rent > 0 {
		in.rent = rent
	} else {
		in.rent = EstimateRent(attrs)
		in.rentEstimated = true
	}
	return in
}

// withDefaults fills loan parameters that cannot be zero. An empty profile
// is replaced by the documented defaults entirely. Zero targets and expenses
// in a partial profile are taken as given; callers decoding user input
// unmarshal onto DefaultPreferences so absent keys keep their defaults.
func withDefaults(prefs models.InvestmentPreferences) models.InvestmentPreferences {
	if prefs == (models.InvestmentPreferences{}) {
		return models.DefaultPreferences()
	}
	defaults := models.DefaultPreferences()
	if prefs.LoanTermYears <= 0 {
		prefs.LoanTermYears = defaults.LoanTermYears
	}
	if !finite(prefs.InterestRate) || prefs.InterestRate < 0 {
		prefs.InterestRate = defaults.InterestRate
	}
	if !finite(prefs.DownPaymentPercent) || prefs.DownPaymentPercent < 0 || prefs.DownPaymentPercent > 100 {
		prefs.DownPaymentPercent = defaults.DownPaymentPercent
	}
	return prefs
}
