package engine

import (
	"math"
	"strconv"
	"strings"

	"dietchart/internal/models"
)

// AgeColumn is the key column every record is placed on.
const AgeColumn = "age"

// --- 1. COLUMN SELECTION ---

// SelectColumns returns the headers to chart, in header order: everything except
// the age column, the exclusions and any header containing marker.
// An empty marker matches nothing.
func SelectColumns(headers, exclusions []string, marker string) []string {
	excluded := make(map[string]struct{}, len(exclusions)+1)
	excluded[AgeColumn] = struct{}{}
	for _, e := range exclusions {
		excluded[e] = struct{}{}
	}

	columns := make([]string, 0, len(headers))
	for _, h := range headers {
		if _, skip := excluded[h]; skip {
			continue
		}
		if marker != "" && strings.Contains(h, marker) {
			continue
		}
		// Duplicate headers collapse into one column (rows are keyed by name)
		excluded[h] = struct{}{}
		columns = append(columns, h)
	}
	return columns
}

// --- 2. RECORD PREPARATION ---

// parseDecimal parses a field; anything that is not a finite decimal is Missing.
func parseDecimal(raw string, ok bool) models.Value {
	if !ok {
		return models.Missing()
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return models.Missing()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return models.Missing()
	}
	return models.Num(f)
}

// PrepareRecords drops the last trimCount rows and parses age plus every selected
// column of the rest. Unparseable fields become Missing values; they never abort.
func PrepareRecords(rows []map[string]string, columns []string, trimCount int) []models.Record {
	if trimCount < 0 {
		trimCount = 0
	}
	keep := len(rows) - trimCount
	if keep <= 0 {
		return []models.Record{}
	}

	records := make([]models.Record, keep)
	for i, row := range rows[:keep] {
		raw, ok := row[AgeColumn]
		rec := models.Record{
			Age:    parseDecimal(raw, ok),
			Values: make(map[string]models.Value, len(columns)),
		}
		for _, col := range columns {
			raw, ok := row[col]
			rec.Values[col] = parseDecimal(raw, ok)
		}
		records[i] = rec
	}
	return records
}
