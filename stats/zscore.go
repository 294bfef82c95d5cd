package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// valid returns the non-NaN elements of x.
func valid(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// ZScores standardizes x with the population mean and standard deviation of
// its non-NaN elements. NaN inputs stay NaN. If fewer than one real value
// exists, or all real values are equal, every score is NaN.
func ZScores(x []float64) []float64 {
	out := make([]float64, len(x))
	v := valid(x)
	if len(v) == 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	mean, std := stat.PopMeanStdDev(v, nil)
	for i, xi := range x {
		if math.IsNaN(xi) || std == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = stat.StdScore(xi, mean, std)
	}
	return out
}

// Quantile returns the p-quantile of the non-NaN elements of x using linear
// interpolation between closest ranks (h = (n-1)p). Returns NaN when x has no
// real values or p is outside [0, 1].
func Quantile(x []float64, p float64) float64 {
	if p < 0 || p > 1 {
		return math.NaN()
	}
	sorted := valid(x)
	if len(sorted) == 0 {
		return math.NaN()
	}
	sort.Float64s(sorted)
	return quantileSorted(sorted, p)
}

func quantileSorted(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// Tails returns the indices of x whose values fall strictly below the
// q-quantile or strictly above the (1-q)-quantile. NaN elements never qualify.
func Tails(x []float64, q float64) []int {
	lo := Quantile(x, q)
	hi := Quantile(x, 1-q)
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return nil
	}

	var idx []int
	for i, v := range x {
		if v < lo || v > hi {
			idx = append(idx, i)
		}
	}
	return idx
}

// RMSE returns the root-mean-square difference between a and b over positions
// where both are real. Returns NaN when no such position exists.
func RMSE(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sq := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		d := a[i] - b[i]
		sq = append(sq, d*d)
	}
	if len(sq) == 0 {
		return math.NaN()
	}
	return math.Sqrt(stat.Mean(sq, nil))
}
