package clean

import (
	"fmt"
	"math"

	"github.com/sartorproj/gridclean/report"
	"github.com/sartorproj/gridclean/stats"
	"github.com/sartorproj/gridclean/timeseries"
)

// FilterWidth is the default median filter window.
const FilterWidth = 3

// SmoothOptions configure Smooth.
type SmoothOptions struct {
	Window       int     // Odd median window (default: 3)
	SecondPass   bool    // Re-filter the largest changes with a wider window
	SecondWindow int     // Window of the second pass (default: 2*Window)
	Quantile     float64 // Tail fraction that counts as a large change (default: 0.01)
}

// DefaultSmoothOptions returns the default single-pass configuration.
func DefaultSmoothOptions() SmoothOptions {
	return SmoothOptions{
		Window:       FilterWidth,
		SecondWindow: 2 * FilterWidth,
		Quantile:     0.01,
	}
}

func (o SmoothOptions) withDefaults() (SmoothOptions, error) {
	if o.Window == 0 {
		o.Window = FilterWidth
	}
	if o.Window < 1 || o.Window%2 == 0 {
		return o, fmt.Errorf("%w: median window must be odd and positive, got %d", ErrInvalidWindow, o.Window)
	}
	if o.SecondWindow == 0 {
		o.SecondWindow = 2 * o.Window
	}
	if o.SecondWindow < 1 {
		return o, fmt.Errorf("%w: second pass window must be positive, got %d", ErrInvalidWindow, o.SecondWindow)
	}
	if o.Quantile == 0 {
		o.Quantile = 0.01
	}
	if o.Quantile < 0 || o.Quantile >= 0.5 {
		return o, fmt.Errorf("%w: quantile must be in (0, 0.5), got %v", ErrInvalidParameter, o.Quantile)
	}
	return o, nil
}

// Smooth applies a centered rolling median to s after dropping missing
// readings. The first and last readings, and any reading without a full
// window, keep their value. With SecondPass, readings where the filtered
// series changes the most are filtered again with the wider SecondWindow.
//
// The RMSE between the input and the filtered series is recorded in m.
func Smooth(s *timeseries.Series, opts SmoothOptions, m report.Metrics) (*timeseries.Series, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	data := s.DropNA()
	out := data.Copy()
	if data.Len() == 0 {
		return out, nil
	}

	med := stats.RollingMedian(data.Values, opts.Window)
	for i := 1; i < out.Len()-1; i++ {
		if !math.IsNaN(med[i]) {
			out.Values[i] = med[i]
		}
	}

	if opts.SecondPass {
		wide := stats.RollingMedian(out.Values, opts.SecondWindow)
		for _, i := range stats.Tails(out.Diff().Values, opts.Quantile) {
			if i > 0 && i < out.Len()-1 && !math.IsNaN(wide[i]) {
				out.Values[i] = wide[i]
			}
		}
	}

	m.Set(report.RMSEOfFilter, stats.RMSE(data.Values, out.Values))
	return out, nil
}
