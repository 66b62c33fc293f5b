package engine

import (
	"log"
	"time"

	"dietchart/internal/models"
)

// Options are the dataset-specific knobs of the preparation step.
type Options struct {
	Exclusions []string
	Marker     string
	TrimCount  int
}

// Result is everything the layout step consumes.
type Result struct {
	Columns   []string
	Records   []models.Record
	Summaries []models.ColumnSummary
	Ordering  []models.ColumnSummary
}

// Run selects, parses, summarizes and orders. It is a pure function of its input.
func Run(headers []string, rows []map[string]string, opts Options) *Result {
	start := time.Now()

	columns := SelectColumns(headers, opts.Exclusions, opts.Marker)
	records := PrepareRecords(rows, columns, opts.TrimCount)
	summaries := Summarize(records, columns)

	log.Printf("[engine] %d columns, %d records prepared in %v", len(columns), len(records), time.Since(start))

	return &Result{
		Columns:   columns,
		Records:   records,
		Summaries: summaries,
		Ordering:  OrderByPeakAge(summaries),
	}
}
