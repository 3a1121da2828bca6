package extract

import (
	"encoding/csv"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/maru-digital/assess-cli/internal/model"
)

// ErrNoUsableRows reports a CSV with no rows carrying a deal name and stage.
// Like fetcher.ErrInvalidURL this is caller input the pipeline cannot
// degrade around.
var ErrNoUsableRows = errors.New("extract: csv contains no usable rows")

// headerSynonyms maps lowercased CRM export column names to canonical fields.
var headerSynonyms = map[string]string{
	"deal name":        "dealName",
	"opportunity name": "dealName",
	"stage":            "stage",
	"deal stage":       "stage",
	"pipeline stage":   "stage",
	"date created":     "dateCreated",
	"created date":     "dateCreated",
	"date modified":    "dateModified",
	"last modified":    "dateModified",
	"last_modified":    "dateModified",
	"deal value":       "dealValue",
	"amount":           "dealValue",
	"lead source":      "leadSource",
	"source":           "leadSource",
}

// dateLayouts are tried in order when parsing CRM export dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006",
	"01/02/2006",
	"2006/01/02",
}

// ParsePipelineCSV parses a CRM pipeline export into rows. Header names are
// matched case-insensitively through the synonym table; rows missing a deal
// name or stage are dropped, not fatal.
func ParsePipelineCSV(csvText string) ([]model.PipelineRow, error) {
	reader := csv.NewReader(strings.NewReader(csvText))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "extract: read csv")
	}
	if len(records) < 2 {
		return nil, eris.Wrap(ErrNoUsableRows, "missing header or data rows")
	}

	colIdx := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		key := strings.ToLower(strings.TrimSpace(col))
		if canonical, ok := headerSynonyms[key]; ok {
			if _, dup := colIdx[canonical]; !dup {
				colIdx[canonical] = i
			}
		}
	}

	var rows []model.PipelineRow
	dropped := 0
	for _, record := range records[1:] {
		name := getCol(record, colIdx, "dealName")
		stage := getCol(record, colIdx, "stage")
		if name == "" || stage == "" {
			dropped++
			continue
		}
		rows = append(rows, model.PipelineRow{
			DealName: name,
			Stage:    stage,
			Created:  parseDate(getCol(record, colIdx, "dateCreated")),
			Modified: parseDate(getCol(record, colIdx, "dateModified")),
			Value:    parseMoney(getCol(record, colIdx, "dealValue")),
			Source:   getCol(record, colIdx, "leadSource"),
		})
	}

	if dropped > 0 {
		zap.L().Debug("extract: dropped incomplete csv rows",
			zap.Int("dropped", dropped),
			zap.Int("kept", len(rows)),
		)
	}
	if len(rows) == 0 {
		return nil, eris.Wrap(ErrNoUsableRows, "every row missing deal name or stage")
	}

	return rows, nil
}

// getCol safely retrieves a canonical column value from a CSV record.
func getCol(record []string, colIdx map[string]int, canonical string) string {
	idx, ok := colIdx[canonical]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parseDate tries the known layouts; unparseable dates degrade to zero time.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseMoney parses a deal value, tolerating currency symbols and grouping
// commas. Unparseable values degrade to zero.
func parseMoney(s string) float64 {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
