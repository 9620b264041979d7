package database

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propertylens/internal/models"
)

func setupTestDatabase(t *testing.T) *Database {
	gdb, err := NewTestDB()
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	d, err := NewFromGorm(gdb, logger)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func testRecord(id string, verdict models.Verdict, capRate float64, created time.Time) *models.AnalysisRecord {
	analysis := models.EmptyAnalysis()
	analysis.Verdict = verdict
	analysis.Score = 5
	analysis.Financials.PurchasePrice = 200000
	analysis.Financials.CapRate = capRate
	analysis.Financials.CoCReturn = capRate * 2
	analysis.Financials.CashFlow = models.CashFlow{Monthly: 100, Annual: 1200}
	analysis.RedFlags = []string{"On the market for 120 days"}

	property := models.PropertyAttributes{
		Price:    models.Float(200000),
		Bedrooms: models.Float(3),
		Address:  models.String(id + " Main Street"),
	}

	record := models.NewAnalysisRecord(id, "test", property, analysis)
	record.CreatedAt = created
	return record
}

func TestNewDatabase_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "analyses.db")
	d, err := NewDatabase(path, nil)
	require.NoError(t, err)
	defer d.Close()

	assert.FileExists(t, path)
	assert.NotNil(t, d.GetDB())
}

func TestSaveAndGetAnalysis(t *testing.T) {
	d := setupTestDatabase(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	record := testRecord("a1", models.VerdictWorthConsidering, 6.5, created)

	require.NoError(t, d.SaveAnalyses([]*models.AnalysisRecord{record}))

	got, err := d.GetAnalysis("a1")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)
	assert.Equal(t, models.VerdictWorthConsidering, got.Verdict)
	assert.Equal(t, "a1 Main Street", got.Address)
	assert.Equal(t, 6.5, got.CapRate)
	assert.Equal(t, record.Property, got.Property)
	assert.Equal(t, record.Analysis, got.Analysis)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestGetAnalysis_NotFound(t *testing.T) {
	d := setupTestDatabase(t)
	_, err := d.GetAnalysis("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveAnalyses_Upsert(t *testing.T) {
	d := setupTestDatabase(t)
	created := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, d.SaveAnalyses([]*models.AnalysisRecord{testRecord("a1", models.VerdictPass, 2, created)}))
	require.NoError(t, d.SaveAnalyses([]*models.AnalysisRecord{testRecord("a1", models.VerdictStrongBuy, 9, created)}))

	records, err := d.ListAnalyses(AnalysisFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.VerdictStrongBuy, records[0].Verdict)
	assert.Equal(t, 9.0, records[0].CapRate)
}

func TestSaveAnalyses_Empty(t *testing.T) {
	d := setupTestDatabase(t)
	assert.NoError(t, d.SaveAnalyses(nil))
}

func TestListAnalyses(t *testing.T) {
	d := setupTestDatabase(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, d.SaveAnalyses([]*models.AnalysisRecord{
		testRecord("oldest", models.VerdictPass, 1, base),
		testRecord("middle", models.VerdictStrongBuy, 10, base.Add(time.Hour)),
		testRecord("newest", models.VerdictPass, 3, base.Add(2*time.Hour)),
	}))

	tests := []struct {
		name     string
		filter   AnalysisFilter
		expected []string
	}{
		{name: "All newest first", filter: AnalysisFilter{}, expected: []string{"newest", "middle", "oldest"}},
		{name: "Verdict filter", filter: AnalysisFilter{Verdict: models.VerdictPass}, expected: []string{"newest", "oldest"}},
		{name: "Limit", filter: AnalysisFilter{Limit: 1}, expected: []string{"newest"}},
		{name: "No matches", filter: AnalysisFilter{Verdict: models.VerdictWorthConsidering}, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := d.ListAnalyses(tt.filter)
			require.NoError(t, err)
			ids := []string{}
			for _, r := range records {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}

	all, err := d.AllAnalyses()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "oldest", all[0].ID)
}

func TestDeleteAnalysis(t *testing.T) {
	d := setupTestDatabase(t)
	require.NoError(t, d.SaveAnalyses([]*models.AnalysisRecord{testRecord("a1", models.VerdictPass, 1, time.Now().UTC())}))

	require.NoError(t, d.DeleteAnalysis("a1"))
	_, err := d.GetAnalysis("a1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, d.DeleteAnalysis("a1"), ErrNotFound)
}

func TestDeleteAnalysesBefore(t *testing.T) {
	d := setupTestDatabase(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, d.SaveAnalyses([]*models.AnalysisRecord{
		testRecord("old", models.VerdictPass, 3, base),
		testRecord("older", models.VerdictPass, 3, base.Add(-time.Hour)),
		testRecord("new", models.VerdictPass, 3, base.Add(48*time.Hour)),
	}))

	deleted, err := d.DeleteAnalysesBefore(base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := d.AllAnalyses()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "new", remaining[0].ID)

	deleted, err = d.DeleteAnalysesBefore(base)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestGetStats(t *testing.T) {
	d := setupTestDatabase(t)

	stats, err := d.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalAnalyses)
	assert.Empty(t, stats.ByVerdict)

	now := time.Now().UTC()
	require.NoError(t, d.SaveAnalyses([]*models.AnalysisRecord{
		testRecord("a1", models.VerdictPass, 2, now),
		testRecord("a2", models.VerdictPass, 4, now),
		testRecord("a3", models.VerdictStrongBuy, 9, now),
	}))

	stats, err = d.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalAnalyses)
	assert.Equal(t, 2, stats.ByVerdict[models.VerdictPass])
	assert.Equal(t, 1, stats.ByVerdict[models.VerdictStrongBuy])
	assert.Equal(t, 5.0, stats.AverageCapRate)
	assert.Equal(t, 10.0, stats.AverageCoCReturn)
	assert.Equal(t, 100.0, stats.AverageCashFlow)
	assert.Equal(t, 200000.0, stats.AveragePrice)
}

func TestPreferences(t *testing.T) {
	d := setupTestDatabase(t)

	prefs, err := d.GetPreferences()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPreferences(), prefs)

	stored, err := d.HasPreferences()
	require.NoError(t, err)
	assert.False(t, stored)

	prefs.TargetCapRate = 10
	prefs.MonthlyExpenses.Other = 0
	require.NoError(t, d.SavePreferences(prefs))

	stored, err = d.HasPreferences()
	require.NoError(t, err)
	assert.True(t, stored)

	prefs.InterestRate = 6
	require.NoError(t, d.SavePreferences(prefs))

	got, err := d.GetPreferences()
	require.NoError(t, err)
	assert.Equal(t, prefs, got)
}

func TestTelegramConfig(t *testing.T) {
	d := setupTestDatabase(t)

	config, err := d.GetTelegramConfig()
	require.NoError(t, err)
	assert.Nil(t, config)

	minCapRate := 6.0
	require.NoError(t, d.UpdateTelegramConfig(&models.TelegramConfigRequest{
		IsEnabled: true,
		BotToken:  "123456:ABCDEFGHIJKLMNOPQRST",
		ChatID:    "42",
		Filters:   &models.NotificationFilters{MinCapRate: &minCapRate},
	}))
	require.NoError(t, d.UpdateTelegramConfig(&models.TelegramConfigRequest{
		IsEnabled: false,
		BotToken:  "123456:ABCDEFGHIJKLMNOPQRST",
		ChatID:    "43",
	}))

	config, err = d.GetTelegramConfig()
	require.NoError(t, err)
	require.NotNil(t, config)
	assert.False(t, config.IsEnabled)
	assert.Equal(t, "43", config.ChatID)
	require.NotNil(t, config.Filters.MinCapRate)
	assert.Equal(t, 6.0, *config.Filters.MinCapRate)
}

func TestTruncateText(t *testing.T) {
	short, truncated := TruncateText("short text", 100)
	assert.Equal(t, "short text", short)
	assert.False(t, truncated)

	unlimited, truncated := TruncateText(strings.Repeat("x", 1000), 0)
	assert.Len(t, unlimited, 1000)
	assert.False(t, truncated)

	text := strings.Repeat("a", 500) + strings.Repeat("b", 500)
	out, truncated := TruncateText(text, 200)
	assert.True(t, truncated)
	assert.LessOrEqual(t, len(out), 200)
	assert.True(t, strings.HasPrefix(out, "aaaa"))
	assert.True(t, strings.HasSuffix(out, "bbbb"))
	assert.Contains(t, out, TruncationMarker)

	tiny, truncated := TruncateText(text, 10)
	assert.True(t, truncated)
	assert.Equal(t, "aaaaaaaaaa", tiny)
}

func TestTruncateText_RuneBoundaries(t *testing.T) {
	text := strings.Repeat("é", 300)
	out, truncated := TruncateText(text, 101)
	assert.True(t, truncated)
	assert.True(t, utf8.ValidString(out))
	assert.LessOrEqual(t, len(out), 101)
}
