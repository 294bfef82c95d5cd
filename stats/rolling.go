package stats

import (
	"math"
	"sort"
	"time"
)

// RollingMedian calculates a centered rolling median with the given window.
// For an even window the extra sample is taken from the left, so position i
// covers [i+(w-1)/2-w+1, i+(w-1)/2]. Positions without a full window, or whose
// window contains NaN, are NaN.
func RollingMedian(x []float64, window int) []float64 {
	n := len(x)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	if window <= 0 {
		return out
	}

	buf := make([]float64, window)
	for i := 0; i < n; i++ {
		hi := i + (window-1)/2
		lo := hi - window + 1
		if lo < 0 || hi >= n {
			continue
		}
		copy(buf, x[lo:hi+1])
		if hasNaN(buf) {
			continue
		}
		sort.Float64s(buf)
		if window%2 == 1 {
			out[i] = buf[window/2]
		} else {
			out[i] = (buf[window/2-1] + buf[window/2]) / 2
		}
	}
	return out
}

func hasNaN(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// InterpolateOptions control Interpolate.
type InterpolateOptions struct {
	// Limit is the maximum number of consecutive NaN filled in one gap,
	// counted from the left edge of the gap. Zero means no limit.
	Limit int
	// FillTrailing carries the last real value over a trailing gap.
	// Leading gaps are never filled.
	FillTrailing bool
}

// Interpolate fills NaN values of x by linear interpolation in time between
// the nearest real neighbours. Gaps at the start of the series are left
// alone, gaps at the end only when opts.FillTrailing is set.
func Interpolate(ts []time.Time, x []float64, opts InterpolateOptions) []float64 {
	out := make([]float64, len(x))
	copy(out, x)

	prev := -1
	i := 0
	for i < len(x) {
		if !math.IsNaN(x[i]) {
			prev = i
			i++
			continue
		}

		start := i
		for i < len(x) && math.IsNaN(x[i]) {
			i++
		}
		next := i

		if prev < 0 {
			continue
		}
		end := next
		if opts.Limit > 0 && end-start > opts.Limit {
			end = start + opts.Limit
		}

		if next >= len(x) {
			if !opts.FillTrailing {
				continue
			}
			for k := start; k < end; k++ {
				out[k] = x[prev]
			}
			continue
		}

		span := float64(ts[next].Sub(ts[prev]))
		for k := start; k < end; k++ {
			frac := float64(ts[k].Sub(ts[prev])) / span
			out[k] = x[prev] + (x[next]-x[prev])*frac
		}
	}
	return out
}
