package clean

import (
	"fmt"
	"math"
	"sort"

	"github.com/sartorproj/gridclean/report"
	"github.com/sartorproj/gridclean/stats"
	"github.com/sartorproj/gridclean/timeseries"
)

// ZScoreThreshold is the default z-score below which a change counts as a drop.
const ZScoreThreshold = 1

// Shape of the flat-bottomed dips removed alongside single-sample spikes.
const (
	plateauMinSize  = 2
	plateauMaxWidth = 4
)

// DropOptions configure RemoveDrops and RemovePeaks.
type DropOptions struct {
	ZThreshold float64 // z-score magnitude of a significant change (default: 1)
	TwoPass    bool    // Look for spikes once more after the first removal
	// PeakThreshold is the depth a spike must reach. Zero derives it from
	// ZThreshold; pass the recorded "peak threshold" metric back in to
	// re-run with the same threshold.
	PeakThreshold float64
}

// DefaultDropOptions returns the default single-pass configuration.
func DefaultDropOptions() DropOptions {
	return DropOptions{ZThreshold: ZScoreThreshold}
}

func (o DropOptions) withDefaults() (DropOptions, error) {
	if o.ZThreshold == 0 {
		o.ZThreshold = ZScoreThreshold
	}
	if o.ZThreshold < 0 || math.IsNaN(o.ZThreshold) {
		return o, fmt.Errorf("%w: z-score threshold must be positive, got %v", ErrInvalidParameter, o.ZThreshold)
	}
	if o.PeakThreshold < 0 || math.IsNaN(o.PeakThreshold) {
		return o, fmt.Errorf("%w: peak threshold must not be negative, got %v", ErrInvalidParameter, o.PeakThreshold)
	}
	return o, nil
}

// RemoveDrops removes sudden downward spikes from s after dropping missing
// readings. The largest change whose z-score lies below -ZThreshold sets the
// depth a spike must reach, unless PeakThreshold is given. Single-sample dips
// at least that deep, and the edges of flat-bottomed dips at most four
// samples wide, are removed and refilled by time interpolation between their
// neighbours.
//
// When no change is significant the readings are returned as they are.
// The RMSE between input and output, the number of removed readings and the
// peak threshold used are recorded in m.
func RemoveDrops(s *timeseries.Series, opts DropOptions, m report.Metrics) (*timeseries.Series, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	data := s.DropNA()
	out, threshold, excised := removeDrops(data, opts)
	if data.Len() > 0 {
		m.Set(report.RMSEOfFilter, stats.RMSE(data.Values, out.Values))
	}
	if threshold > 0 {
		m.Set(report.PeakThreshold, threshold)
	}
	m.Set(report.ExcisedPoints, float64(excised))
	return out, nil
}

// RemovePeaks removes sudden upward spikes. It is RemoveDrops applied to the
// negated series, negated back.
func RemovePeaks(s *timeseries.Series, opts DropOptions, m report.Metrics) (*timeseries.Series, error) {
	out, err := RemoveDrops(s.Negate(), opts, m)
	if err != nil {
		return nil, err
	}
	return out.Negate(), nil
}

// dropThreshold returns the depth of the smallest significant drop, that is
// the negated largest change scoring below -zThreshold.
func dropThreshold(diff []float64, zThreshold float64) (float64, bool) {
	z := stats.ZScores(diff)
	threshold, found := math.Inf(1), false
	for i, d := range diff {
		if math.IsNaN(z[i]) || z[i] >= -zThreshold {
			continue
		}
		if !found || -d < threshold {
			threshold = -d
			found = true
		}
	}
	return threshold, found
}

func removeDrops(data *timeseries.Series, opts DropOptions) (*timeseries.Series, float64, int) {
	out := data.Copy()
	threshold := opts.PeakThreshold
	if threshold == 0 {
		var ok bool
		if threshold, ok = dropThreshold(data.Diff().Values, opts.ZThreshold); !ok {
			return out, 0, 0
		}
	}

	inverted := data.Negate().Values
	spikes := stats.FindPeaks(inverted, stats.PeakOptions{Threshold: threshold})
	plateaus := stats.FindPeaks(inverted, stats.PeakOptions{
		Prominence:  threshold,
		PlateauSize: plateauMinSize,
		MaxWidth:    plateauMaxWidth,
		RelHeight:   1,
	})

	idx := append([]int(nil), spikes.Indices...)
	idx = append(idx, plateaus.LeftEdges...)
	idx = append(idx, plateaus.RightEdges...)
	excised := excise(out, idx)

	if opts.TwoPass {
		again := stats.FindPeaks(out.Negate().Values, stats.PeakOptions{Threshold: threshold})
		excised += excise(out, again.Indices)
	}
	return out, threshold, excised
}

// excise blanks the readings at idx and refills them by interpolation.
// It returns the number of distinct readings removed.
func excise(s *timeseries.Series, idx []int) int {
	if len(idx) == 0 {
		return 0
	}
	sort.Ints(idx)

	n := 0
	for k, i := range idx {
		if k > 0 && idx[k-1] == i {
			continue
		}
		s.Values[i] = math.NaN()
		n++
	}
	s.Values = stats.Interpolate(s.Timestamps, s.Values, stats.InterpolateOptions{})
	return n
}
