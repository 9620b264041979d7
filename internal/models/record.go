package models

import "time"

// AnalysisRecord is a stored analysis together with the attributes it was computed from.
type AnalysisRecord struct {
	ID         string             `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt  time.Time          `json:"created_at" gorm:"index"`
	Source     string             `json:"source"`
	SourceText string             `json:"source_text"`
	Truncated  bool               `json:"truncated"`
	Property   PropertyAttributes `json:"property" gorm:"serializer:json;type:text"`
	Analysis   FinancialAnalysis  `json:"analysis" gorm:"serializer:json;type:text"`

	Verdict         Verdict `json:"verdict" gorm:"column:verdict;index;size:32"`
	Score           int     `json:"score" gorm:"column:score"`
	Address         string  `json:"address" gorm:"column:address"`
	Price           float64 `json:"price" gorm:"column:price"`
	CapRate         float64 `json:"cap_rate" gorm:"column:cap_rate"`
	CoCReturn       float64 `json:"coc_return" gorm:"column:coc_return"`
	MonthlyCashFlow float64 `json:"monthly_cash_flow" gorm:"column:monthly_cash_flow"`
}

// NewAnalysisRecord denormalises the columns used for listing and filtering.
func NewAnalysisRecord(id, source string, property PropertyAttributes, analysis FinancialAnalysis) *AnalysisRecord {
	return &AnalysisRecord{
		ID:              id,
		Source:          source,
		Property:        property,
		Analysis:        analysis,
		Verdict:         analysis.Verdict,
		Score:           analysis.Score,
		Address:         property.DisplayAddress(),
		Price:           analysis.Financials.PurchasePrice,
		CapRate:         analysis.Financials.CapRate,
		CoCReturn:       analysis.Financials.CoCReturn,
		MonthlyCashFlow: analysis.Financials.CashFlow.Monthly,
	}
}

// AnalysisStats summarises the stored analyses.
type AnalysisStats struct {
	TotalAnalyses    int             `json:"total_analyses"`
	ByVerdict        map[Verdict]int `json:"by_verdict"`
	AverageCapRate   float64         `json:"average_cap_rate"`
	AverageCoCReturn float64         `json:"average_coc_return"`
	AverageCashFlow  float64         `json:"average_cash_flow"`
	AveragePrice     float64         `json:"average_price"`
}

// PreferencesRecord persists the single user preference profile.
type PreferencesRecord struct {
	ID          int64                 `gorm:"primaryKey"`
	Preferences InvestmentPreferences `gorm:"serializer:json;type:text"`
	UpdatedAt   time.Time
}
