package timeseries

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// IndexName is the name given to the timestamp column of every persisted table.
const IndexName = "Datetime"

// Table is a set of named columns sharing one timestamp index.
type Table struct {
	Index   []time.Time
	Columns []string
	Data    map[string][]float64
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{Data: make(map[string][]float64)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Index)
}

// AddSeries adds s as a column, outer-joining its timestamps with the index.
// Rows introduced by the join hold NaN in the other columns.
func (t *Table) AddSeries(s *Series) error {
	if s.Name == "" {
		return fmt.Errorf("series has no name")
	}
	if _, ok := t.Data[s.Name]; ok {
		return fmt.Errorf("duplicate column %q", s.Name)
	}

	pos := make(map[int64]int, len(t.Index))
	for i, ts := range t.Index {
		pos[ts.UnixNano()] = i
	}
	merged := append([]time.Time(nil), t.Index...)
	for _, ts := range s.Timestamps {
		if _, ok := pos[ts.UnixNano()]; !ok {
			pos[ts.UnixNano()] = -1
			merged = append(merged, ts)
		}
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Before(merged[j]) })

	if len(merged) != len(t.Index) {
		for _, name := range t.Columns {
			col := nanSlice(len(merged))
			old := t.Data[name]
			for i, ts := range t.Index {
				col[indexOf(merged, ts)] = old[i]
			}
			t.Data[name] = col
		}
		t.Index = merged
	}

	col := nanSlice(len(t.Index))
	for i, ts := range s.Timestamps {
		col[indexOf(t.Index, ts)] = s.Values[i]
	}
	t.Columns = append(t.Columns, s.Name)
	t.Data[s.Name] = col
	return nil
}

// Column returns a copy of the named column as a series.
func (t *Table) Column(name string) (*Series, bool) {
	data, ok := t.Data[name]
	if !ok {
		return nil, false
	}
	return &Series{
		Name:       name,
		Timestamps: append([]time.Time(nil), t.Index...),
		Values:     append([]float64(nil), data...),
	}, true
}

// DropEmptyColumns removes columns that hold no real value.
func (t *Table) DropEmptyColumns() {
	kept := t.Columns[:0]
	for _, name := range t.Columns {
		empty := true
		for _, v := range t.Data[name] {
			if !math.IsNaN(v) {
				empty = false
				break
			}
		}
		if empty {
			delete(t.Data, name)
			continue
		}
		kept = append(kept, name)
	}
	t.Columns = kept
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// indexOf finds ts in a sorted index.
func indexOf(index []time.Time, ts time.Time) int {
	return sort.Search(len(index), func(i int) bool { return !index[i].Before(ts) })
}
