package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics of a sample.
type Summary struct {
	Count int
	Mean  float64
	Std   float64 // sample standard deviation
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// Describe summarizes the non-NaN values of x. With no real values, every
// field except Count is NaN; with one, Std is NaN.
func Describe(x []float64) Summary {
	v := valid(x)
	s := Summary{Count: len(v)}
	if len(v) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	sort.Float64s(v)
	s.Mean = stat.Mean(v, nil)
	s.Std = math.NaN()
	if len(v) > 1 {
		s.Std = stat.StdDev(v, nil)
	}
	s.Min = floats.Min(v)
	s.Max = floats.Max(v)
	s.Q25 = quantileSorted(v, 0.25)
	s.Q50 = quantileSorted(v, 0.5)
	s.Q75 = quantileSorted(v, 0.75)
	return s
}
