// Package timeseries provides core time series data structures and operations.
package timeseries

import (
	"errors"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Series is a named sequence of timestamped readings. Missing readings are NaN.
type Series struct {
	Name       string
	Timestamps []time.Time
	Values     []float64
	// Freq is the sampling step of the series, zero when not known.
	Freq time.Duration
}

// New creates a series from values, spaced by freq starting at start.
func New(name string, start time.Time, freq time.Duration, values []float64) *Series {
	timestamps := make([]time.Time, len(values))
	for i := range timestamps {
		timestamps[i] = start.Add(time.Duration(i) * freq)
	}
	return &Series{
		Name:       name,
		Timestamps: timestamps,
		Values:     values,
		Freq:       freq,
	}
}

// NewWithTimestamps creates a series with explicit timestamps.
func NewWithTimestamps(name string, timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, errors.New("timestamps and values must have the same length")
	}
	for i := 1; i < len(timestamps); i++ {
		if !timestamps[i].After(timestamps[i-1]) {
			return nil, errors.New("timestamps must be strictly increasing")
		}
	}
	return &Series{
		Name:       name,
		Timestamps: timestamps,
		Values:     values,
	}, nil
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)

	return &Series{
		Name:       s.Name,
		Timestamps: timestamps,
		Values:     values,
		Freq:       s.Freq,
	}
}

// DropNA returns a new series without missing values.
func (s *Series) DropNA() *Series {
	out := &Series{
		Name:       s.Name,
		Timestamps: make([]time.Time, 0, len(s.Values)),
		Values:     make([]float64, 0, len(s.Values)),
		Freq:       s.Freq,
	}
	for i, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		out.Timestamps = append(out.Timestamps, s.Timestamps[i])
		out.Values = append(out.Values, v)
	}
	return out
}

// CountNaN returns the number of missing values.
func (s *Series) CountNaN() int {
	n := 0
	for _, v := range s.Values {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}

// Coverage returns the fraction of non-missing values, 0 for an empty series.
func (s *Series) Coverage() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return 1 - float64(s.CountNaN())/float64(len(s.Values))
}

// Diff calculates the first difference, aligned with the input:
// element 0 is NaN and element i holds Values[i]-Values[i-1].
func (s *Series) Diff() *Series {
	out := s.Copy()
	for i := range out.Values {
		if i == 0 {
			out.Values[i] = math.NaN()
			continue
		}
		out.Values[i] = s.Values[i] - s.Values[i-1]
	}
	return out
}

// Negate returns the series with every value sign-flipped.
func (s *Series) Negate() *Series {
	out := s.Copy()
	for i, v := range out.Values {
		out.Values[i] = -v
	}
	return out
}

// In returns a copy with timestamps rendered in loc.
func (s *Series) In(loc *time.Location) *Series {
	out := s.Copy()
	for i, t := range out.Timestamps {
		out.Timestamps[i] = t.In(loc)
	}
	return out
}

// Resample aggregates values into buckets of width d aligned to the Unix epoch,
// taking the mean of the non-missing values in each bucket. Empty buckets
// between the first and last bucket are NaN.
func (s *Series) Resample(d time.Duration) *Series {
	out := &Series{Name: s.Name, Freq: d}
	if d <= 0 || len(s.Values) == 0 {
		return out
	}

	type acc struct {
		sum float64
		n   int
	}
	buckets := make(map[int64]*acc)
	var first, last int64
	for i, t := range s.Timestamps {
		b := t.UnixNano() - mod(t.UnixNano(), int64(d))
		if i == 0 || b < first {
			first = b
		}
		if i == 0 || b > last {
			last = b
		}
		a, ok := buckets[b]
		if !ok {
			a = &acc{}
			buckets[b] = a
		}
		if v := s.Values[i]; !math.IsNaN(v) {
			a.sum += v
			a.n++
		}
	}

	loc := s.Timestamps[0].Location()
	for b := first; b <= last; b += int64(d) {
		out.Timestamps = append(out.Timestamps, time.Unix(0, b).In(loc))
		a, ok := buckets[b]
		if !ok || a.n == 0 {
			out.Values = append(out.Values, math.NaN())
			continue
		}
		out.Values = append(out.Values, a.sum/float64(a.n))
	}
	return out
}

func mod(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// valid returns the non-missing values.
func (s *Series) valid() []float64 {
	out := make([]float64, 0, len(s.Values))
	for _, v := range s.Values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Mean calculates the arithmetic mean of the non-missing values.
func (s *Series) Mean() float64 {
	v := s.valid()
	if len(v) == 0 {
		return math.NaN()
	}
	return stat.Mean(v, nil)
}

// Std calculates the sample standard deviation of the non-missing values.
func (s *Series) Std() float64 {
	v := s.valid()
	if len(v) < 2 {
		return math.NaN()
	}
	return stat.StdDev(v, nil)
}

// Min returns the minimum non-missing value.
func (s *Series) Min() float64 {
	v := s.valid()
	if len(v) == 0 {
		return math.NaN()
	}
	min := v[0]
	for _, x := range v[1:] {
		if x < min {
			min = x
		}
	}
	return min
}

// Max returns the maximum non-missing value.
func (s *Series) Max() float64 {
	v := s.valid()
	if len(v) == 0 {
		return math.NaN()
	}
	max := v[0]
	for _, x := range v[1:] {
		if x > max {
			max = x
		}
	}
	return max
}

// Median returns the median of the non-missing values.
func (s *Series) Median() float64 {
	sorted := s.valid()
	if len(sorted) == 0 {
		return math.NaN()
	}
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
