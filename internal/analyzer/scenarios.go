package analyzer

import "propertylens/internal/models"

const (
	rateShockPoints = 1.0
	rentUplift      = 1.10
)

// scenario recomputes the formulas for a perturbed copy of in. in is passed by
// value, so a perturbation never reaches another scenario.
func scenario(name string, in inputs, prefs models.InvestmentPreferences, redFlagCount int) models.Scenario {
	f := calculate(in)
	s := score(f, prefs, redFlagCount)
	return models.Scenario{
		Name:       name,
		Financials: rounded(f),
		Score:      s,
		Verdict:    determineVerdict(s),
	}
}

// runScenarios computes the base case, interest rate +1 point and rent +10%.
func runScenarios(base inputs, prefs models.InvestmentPreferences, redFlagCount int) models.Scenarios {
	higherRate := base
	higherRate.interestRate += rateShockPoints

	higherRent := base
	higherRent.rent *= rentUplift

	return models.Scenarios{
		Base:       scenario("Base case", base, prefs, redFlagCount),
		HigherRate: scenario("Interest rate +1%", higherRate, prefs, redFlagCount),
		HigherRent: scenario("Rent +10%", higherRent, prefs, redFlagCount),
	}
}
