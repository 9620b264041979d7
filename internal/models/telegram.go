package models

import "time"

// TelegramConfig stores the bot credentials and notification filters
type TelegramConfig struct {
	ID        int64               `json:"id" gorm:"primaryKey"`
	IsEnabled bool                `json:"is_enabled"`
	BotToken  string              `json:"bot_token"`
	ChatID    string              `json:"chat_id"`
	Filters   NotificationFilters `json:"filters" gorm:"serializer:json;type:text"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// TelegramConfigRequest is used when updating the configuration
type TelegramConfigRequest struct {
	IsEnabled bool                 `json:"is_enabled"`
	BotToken  string               `json:"bot_token"`
	ChatID    string               `json:"chat_id"`
	Filters   *NotificationFilters `json:"filters"`
}

// NotificationFilters decides which analyses are worth a message.
// An empty Verdicts list means Strong Buy only.
type NotificationFilters struct {
	MinPrice    *float64  `json:"min_price,omitempty"`
	MaxPrice    *float64  `json:"max_price,omitempty"`
	MinCapRate  *float64  `json:"min_cap_rate,omitempty"`
	MinCashFlow *float64  `json:"min_cash_flow,omitempty"`
	Verdicts    []Verdict `json:"verdicts,omitempty"`
}

// IsAnalysisAllowed checks if an analysis matches the filter criteria
func (f *NotificationFilters) IsAnalysisAllowed(analysis FinancialAnalysis) bool {
	if analysis.IsEmpty() {
		return false
	}

	verdicts := []Verdict{VerdictStrongBuy}
	if f != nil && len(f.Verdicts) > 0 {
		verdicts = f.Verdicts
	}
	allowed := false
	for _, v := range verdicts {
		if v == analysis.Verdict {
			allowed = true
			break
		}
	}
	if !allowed || f == nil {
		return allowed
	}

	fin := analysis.Financials
	if f.MinPrice != nil && fin.PurchasePrice < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && fin.PurchasePrice > *f.MaxPrice {
		return false
	}
	if f.MinCapRate != nil && fin.CapRate < *f.MinCapRate {
		return false
	}
	if f.MinCashFlow != nil && fin.CashFlow.Monthly < *f.MinCashFlow {
		return false
	}

	return true
}
