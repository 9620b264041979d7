package database

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"propertylens/internal/models"
)

// DefaultListLimit caps ListAnalyses when the caller passes no limit.
const DefaultListLimit = 50

// AnalysisFilter narrows ListAnalyses.
type AnalysisFilter struct {
	Verdict models.Verdict
	Limit   int
}

// UpsertAnalyses inserts the batch, replacing rows whose id already exists.
// It runs on whatever handle it is given so callers can wrap it in a transaction.
func UpsertAnalyses(tx *gorm.DB, records []*models.AnalysisRecord) error {
	if len(records) == 0 {
		return nil
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&records).Error
	if err != nil {
		return fmt.Errorf("failed to upsert analyses: %w", err)
	}
	return nil
}

// SaveAnalyses upserts records in a single transaction.
func (d *Database) SaveAnalyses(records []*models.AnalysisRecord) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		return UpsertAnalyses(tx, records)
	})
}

func (d *Database) GetAnalysis(id string) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	err := d.db.Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis %s: %w", id, err)
	}
	return &record, nil
}

// ListAnalyses returns stored analyses, newest first.
func (d *Database) ListAnalyses(filter AnalysisFilter) ([]models.AnalysisRecord, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := d.db.Order("created_at DESC").Limit(limit)
	if filter.Verdict != "" {
		query = query.Where("verdict = ?", filter.Verdict)
	}

	records := []models.AnalysisRecord{}
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return records, nil
}

// AllAnalyses returns every stored analysis, oldest first, for export.
func (d *Database) AllAnalyses() ([]models.AnalysisRecord, error) {
	records := []models.AnalysisRecord{}
	if err := d.db.Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load analyses: %w", err)
	}
	return records, nil
}

func (d *Database) DeleteAnalysis(id string) error {
	result := d.db.Where("id = ?", id).Delete(&models.AnalysisRecord{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete analysis %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAnalysesBefore removes analyses created before cutoff.
func (d *Database) DeleteAnalysesBefore(cutoff time.Time) (int64, error) {
	result := d.db.Where("created_at < ?", cutoff.UTC()).Delete(&models.AnalysisRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete analyses before %s: %w", cutoff.Format(time.RFC3339), result.Error)
	}
	return result.RowsAffected, nil
}

// GetStats aggregates the denormalised listing columns.
func (d *Database) GetStats() (models.AnalysisStats, error) {
	stats := models.AnalysisStats{ByVerdict: make(map[models.Verdict]int)}

	var totals struct {
		Total     int             `gorm:"column:total"`
		CapRate   sql.NullFloat64 `gorm:"column:avg_cap_rate"`
		CoCReturn sql.NullFloat64 `gorm:"column:avg_coc_return"`
		CashFlow  sql.NullFloat64 `gorm:"column:avg_cash_flow"`
		Price     sql.NullFloat64 `gorm:"column:avg_price"`
	}
	err := d.db.Model(&models.AnalysisRecord{}).
		Select(`COUNT(*) AS total,
			AVG(cap_rate) AS avg_cap_rate,
			AVG(coc_return) AS avg_coc_return,
			AVG(monthly_cash_flow) AS avg_cash_flow,
			AVG(price) AS avg_price`).
		Scan(&totals).Error
	if err != nil {
		return stats, fmt.Errorf("failed to aggregate analyses: %w", err)
	}

	var byVerdict []struct {
		Verdict models.Verdict `gorm:"column:verdict"`
		Count   int            `gorm:"column:count"`
	}
	err = d.db.Model(&models.AnalysisRecord{}).
		Select("verdict, COUNT(*) AS count").
		Group("verdict").
		Scan(&byVerdict).Error
	if err != nil {
		return stats, fmt.Errorf("failed to count verdicts: %w", err)
	}

	stats.TotalAnalyses = totals.Total
	stats.AverageCapRate = round2(totals.CapRate.Float64)
	stats.AverageCoCReturn = round2(totals.CoCReturn.Float64)
	stats.AverageCashFlow = round2(totals.CashFlow.Float64)
	stats.AveragePrice = round2(totals.Price.Float64)
	for _, row := range byVerdict {
		stats.ByVerdict[row.Verdict] = row.Count
	}
	return stats, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
