// Package export writes stored analyses as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"propertylens/internal/models"
)

// Format selects the export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat maps a query value to a Format. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv"
}

var csvHeader = []string{
	"id", "created", "address", "price", "rent", "monthly_cash_flow",
	"cap_rate", "coc_return", "verdict", "score",
}

// Write encodes records to w in the requested format.
func Write(w io.Writer, format Format, records []models.AnalysisRecord) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatJSON:
		return WriteJSON(w, records)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

// WriteCSV writes a header row followed by one row per record.
func WriteCSV(w io.Writer, records []models.AnalysisRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, r := range records {
		fin := r.Analysis.Financials
		row := []string{
			r.ID,
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.Address,
			formatFloat(r.Price),
			formatFloat(fin.EstimatedRent),
			formatFloat(r.MonthlyCashFlow),
			formatFloat(r.CapRate),
			formatFloat(r.CoCReturn),
			string(r.Verdict),
			strconv.Itoa(r.Score),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv: write row %s: %w", r.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

type jsonRecord struct {
	ID        string                    `json:"id"`
	CreatedAt time.Time                 `json:"createdAt"`
	Property  models.PropertyAttributes `json:"property"`
	Analysis  models.FinancialAnalysis  `json:"analysis"`
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []models.AnalysisRecord) error {
	out := make([]jsonRecord, 0, len(records))
	for _, r := range records {
		out = append(out, jsonRecord{
			ID:        r.ID,
			CreatedAt: r.CreatedAt.UTC(),
			Property:  r.Property,
			Analysis:  r.Analysis,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode analyses: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
