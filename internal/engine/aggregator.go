package engine

import (
	"runtime"
	"sort"
	"sync"

	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/montanaflynn/stats"

	"dietchart/internal/models"
)

// Summarize computes the peak of every selected column over records.
// The peak is the maximum of all present values; when the first record attaining it
// has no age, the summary keeps the value with PeakAgeValid unset.
func Summarize(records []models.Record, columns []string) []models.ColumnSummary {
	store := NewColumnStore(memory.DefaultAllocator, columns, records)
	defer store.Release()
	return store.Summarize()
}

// Summarize returns one summary per column, in column order.
func (cs *ColumnStore) Summarize() []models.ColumnSummary {
	out := make([]models.ColumnSummary, len(cs.columns))
	ages := cs.Ages()

	// 1. Fan out per column; each worker writes only its own slot
	numWorkers := runtime.NumCPU()
	if numWorkers > len(cs.columns) {
		numWorkers = len(cs.columns)
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				vals, _ := cs.Column(cs.columns[i])
				out[i] = summarizeColumn(cs.columns[i], ages, vals)
			}
		}()
	}
	for i := range cs.columns {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return out
}

func summarizeColumn(name string, ages, vals *array.Float64) models.ColumnSummary {
	summary := models.ColumnSummary{Column: name, DisplayName: models.DisplayName(name)}

	// 2. Max over every present value, whether or not its row has an age
	data := make(stats.Float64Data, 0, vals.Len())
	for j := 0; j < vals.Len(); j++ {
		if vals.IsValid(j) {
			data = append(data, vals.Value(j))
		}
	}
	peak, err := stats.Max(data)
	if err != nil {
		// stats.EmptyInputErr: nothing to peak on
		return summary
	}

	// 3. First row attaining the max wins the tie; its age may be missing
	for j := 0; j < vals.Len(); j++ {
		if vals.IsValid(j) && vals.Value(j) == peak {
			summary.PeakValue = peak
			summary.HasPeak = true
			if ages.IsValid(j) {
				summary.PeakAge = ages.Value(j)
				summary.PeakAgeValid = true
			}
			break
		}
	}
	return summary
}

// OrderByPeakAge sorts summaries by ascending peak age. The sort is stable, and
// columns without a peak age to place go last in their original order.
// The input is not modified.
func OrderByPeakAge(summaries []models.ColumnSummary) []models.ColumnSummary {
	ordered := append([]models.ColumnSummary(nil), summaries...)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Placed() != b.Placed() {
			return a.Placed()
		}
		return a.Placed() && a.PeakAge < b.PeakAge
	})
	return ordered
}
