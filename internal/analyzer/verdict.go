package analyzer

import "propertylens/internal/models"

// Points awarded per metric.
const (
	pointsTarget  = 3
	pointsNear    = 2
	pointsFloor   = 1
	nearTargetPct = 0.8
)

// Minimal floors a metric must clear to earn a single point.
const (
	cashFlowFloor  = 0.0
	capRateFloor   = 4.0
	cocReturnFloor = 8.0
)

// Verdict thresholds. Stored verdicts depend on these staying fixed.
const (
	strongBuyScore        = 7
	worthConsideringScore = 4
)

// metricPoints scores one metric against its target and floor.
func metricPoints(v, target, floor float64) int {
	switch {
	case v >= target:
		return pointsTarget
	case v >= target*nearTargetPct:
		return pointsNear
	case v >= floor:
		return pointsFloor
	}
	return 0
}

// score sums the points for cash flow, cap rate and CoC return and subtracts
// one per red flag. The result may be negative.
func score(f models.Financials, prefs models.InvestmentPreferences, redFlagCount int) int {
	total := metricPoints(f.CashFlow.Monthly, prefs.TargetCashFlow, cashFlowFloor)
	total += metricPoints(f.CapRate, prefs.TargetCapRate, capRateFloor)
	total += metricPoints(f.CoCReturn, prefs.TargetCoCReturn, cocReturnFloor)
	return total - redFlagCount
}

// determineVerdict maps a score onto the verdict ladder.
func determineVerdict(score int) models.Verdict {
	switch {
	case score >= strongBuyScore:
		return models.VerdictStrongBuy
	case score >= worthConsideringScore:
		return models.VerdictWorthConsidering
	default:
		return models.VerdictPass
	}
}
