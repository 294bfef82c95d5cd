package report

import (
	"sort"
	"sync"
)

// Metric names written by the cleaning steps.
const (
	ExpandedLength       = "expanded length"
	OriginalCoverage     = "original coverage"
	InterpolatedCoverage = "interpolated coverage"
	MissingValues        = "missing values"
	RMSEOfFilter         = "RMSE of filter"
	ExcisedPoints        = "excised points"
	PeakThreshold        = "peak threshold"
)

// order in which known metrics are listed before any others.
var knownMetrics = []string{
	ExpandedLength,
	OriginalCoverage,
	InterpolatedCoverage,
	MissingValues,
	RMSEOfFilter,
	ExcisedPoints,
	PeakThreshold,
}

// Metrics holds the named statistics of one series. A nil Metrics discards
// everything written to it.
type Metrics map[string]float64

// Set records v under name.
func (m Metrics) Set(name string, v float64) {
	if m == nil {
		return
	}
	m[name] = v
}

// Record maps series identifiers to their metrics. It is safe for concurrent use.
type Record struct {
	mu   sync.RWMutex
	rows map[string]Metrics
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{rows: make(map[string]Metrics)}
}

// Set records a single metric for a series.
func (r *Record) Set(id, name string, v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok {
		row = make(Metrics)
		r.rows[id] = row
	}
	row[name] = v
}

// Merge copies every metric in m into the row of id, overwriting earlier values.
func (r *Record) Merge(id string, m Metrics) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok {
		row = make(Metrics, len(m))
		r.rows[id] = row
	}
	for k, v := range m {
		row[k] = v
	}
}

// Get returns a copy of the metrics of id.
func (r *Record) Get(id string) (Metrics, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[id]
	if !ok {
		return nil, false
	}
	out := make(Metrics, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out, true
}

// IDs returns the series identifiers in sorted order.
func (r *Record) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Metrics returns every metric name present in the record, known metrics
// first in pipeline order, the rest sorted.
func (r *Record) Metrics() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	for _, row := range r.rows {
		for k := range row {
			seen[k] = true
		}
	}

	var names []string
	for _, k := range knownMetrics {
		if seen[k] {
			names = append(names, k)
			delete(seen, k)
		}
	}
	var rest []string
	for k := range seen {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(names, rest...)
}
