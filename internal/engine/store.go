package engine

import (
	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"

	"dietchart/internal/models"
)

// ColumnStore holds the prepared records column by column.
// Column 0 is age; the rest follow the selected column order.
// Missing values are Arrow nulls.
type ColumnStore struct {
	rec     arrow.Record
	columns []string
	index   map[string]int
}

// NewColumnStore copies records into Arrow arrays allocated from mem.
// The caller owns the store and must Release it.
func NewColumnStore(mem memory.Allocator, columns []string, records []models.Record) *ColumnStore {
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	fields := make([]arrow.Field, 0, len(columns)+1)
	fields = append(fields, arrow.Field{Name: AgeColumn, Type: arrow.PrimitiveTypes.Float64, Nullable: true})
	for _, col := range columns {
		fields = append(fields, arrow.Field{Name: col, Type: arrow.PrimitiveTypes.Float64, Nullable: true})
	}
	schema := arrow.NewSchema(fields, nil)

	arrays := make([]arrow.Array, 0, len(fields))
	arrays = append(arrays, buildFloat64(mem, records, func(r models.Record) models.Value { return r.Age }))
	for _, col := range columns {
		col := col
		arrays = append(arrays, buildFloat64(mem, records, func(r models.Record) models.Value { return r.Values[col] }))
	}

	rec := array.NewRecord(schema, arrays, int64(len(records)))
	// NewRecord retains every column
	for _, a := range arrays {
		a.Release()
	}

	index := make(map[string]int, len(columns))
	for i, col := range columns {
		index[col] = i + 1
	}

	return &ColumnStore{
		rec:     rec,
		columns: append([]string(nil), columns...),
		index:   index,
	}
}

func buildFloat64(mem memory.Allocator, records []models.Record, get func(models.Record) models.Value) arrow.Array {
	b := array.NewFloat64Builder(mem)
	defer b.Release()

	b.Reserve(len(records))
	for _, r := range records {
		v := get(r)
		if v.Valid {
			b.Append(v.V)
		} else {
			b.AppendNull()
		}
	}
	return b.NewFloat64Array()
}

// Release frees the Arrow buffers.
func (cs *ColumnStore) Release() {
	if cs.rec != nil {
		cs.rec.Release()
		cs.rec = nil
	}
}

func (cs *ColumnStore) NumRows() int {
	return int(cs.rec.NumRows())
}

// Columns returns the nutrient columns in selection order.
func (cs *ColumnStore) Columns() []string {
	return cs.columns
}

func (cs *ColumnStore) Schema() *arrow.Schema {
	return cs.rec.Schema()
}

func (cs *ColumnStore) Ages() *array.Float64 {
	return cs.rec.Column(0).(*array.Float64)
}

// Column returns the values of one nutrient column.
func (cs *ColumnStore) Column(name string) (*array.Float64, bool) {
	i, ok := cs.index[name]
	if !ok {
		return nil, false
	}
	return cs.rec.Column(i).(*array.Float64), true
}

// Value returns the cell at row i of column name.
func (cs *ColumnStore) Value(name string, i int) models.Value {
	arr, ok := cs.Column(name)
	if !ok || i < 0 || i >= arr.Len() || arr.IsNull(i) {
		return models.Missing()
	}
	return models.Num(arr.Value(i))
}
