package clean

import (
	"fmt"
	"math"

	"github.com/sartorproj/gridclean/report"
	"github.com/sartorproj/gridclean/stats"
	"github.com/sartorproj/gridclean/timeseries"
)

// ReboundOptions configure FilterRebounds.
type ReboundOptions struct {
	Quantile  float64 // Tail fraction of changes that count as jumps (default: 0.01)
	Tolerance float64 // Relative mismatch allowed between a jump and its rebound (default: 0.5)
}

// DefaultReboundOptions returns the default configuration.
func DefaultReboundOptions() ReboundOptions {
	return ReboundOptions{Quantile: 0.01, Tolerance: 0.5}
}

func (o ReboundOptions) withDefaults() (ReboundOptions, error) {
	if o.Quantile == 0 {
		o.Quantile = 0.01
	}
	if o.Tolerance == 0 {
		o.Tolerance = 0.5
	}
	if o.Quantile < 0 || o.Quantile >= 0.5 {
		return o, fmt.Errorf("%w: quantile must be in (0, 0.5), got %v", ErrInvalidParameter, o.Quantile)
	}
	if o.Tolerance < 0 || o.Tolerance > 1 {
		return o, fmt.Errorf("%w: tolerance must be in (0, 1], got %v", ErrInvalidParameter, o.Tolerance)
	}
	return o, nil
}

// FilterRebounds removes spikes bounded by a jump and a later change of about
// the same size in the opposite direction. Jumps are the changes in the
// lowest or highest Quantile of all changes between consecutive readings,
// taken by position regardless of time gaps. Everything from a jump to its
// rebound, inclusive, is removed and refilled by time interpolation; a jump
// without a rebound is left alone.
//
// A removal that reaches the last reading is closed with the last value kept.
// The number of removed readings is recorded in m.
func FilterRebounds(s *timeseries.Series, opts ReboundOptions, m report.Metrics) (*timeseries.Series, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	data := s.DropNA()
	out := data.Copy()
	diff := data.Diff().Values

	excised := 0
	covered := -1
	for _, i := range stats.Tails(diff, opts.Quantile) {
		if i <= covered {
			continue
		}
		j := findRebound(diff, i, opts.Tolerance)
		if j < 0 {
			covered = i
			continue
		}
		for k := i; k <= j; k++ {
			out.Values[k] = math.NaN()
		}
		excised += j - i + 1
		covered = j
	}

	if excised > 0 {
		out.Values = stats.Interpolate(out.Timestamps, out.Values, stats.InterpolateOptions{FillTrailing: true})
	}
	m.Set(report.ExcisedPoints, float64(excised))
	return out, nil
}

// findRebound returns the first position after i whose change cancels
// diff[i] within tol, or -1.
func findRebound(diff []float64, i int, tol float64) int {
	if diff[i] == 0 || math.IsNaN(diff[i]) {
		return -1
	}
	for j := i + 1; j < len(diff); j++ {
		if math.Abs(diff[i]+diff[j])/math.Abs(diff[i]) < tol {
			return j
		}
	}
	return -1
}
