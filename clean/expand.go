// Package clean implements the cleaning steps applied to raw energy time series.
package clean

import (
	"fmt"
	"math"
	"time"

	"github.com/sartorproj/gridclean/report"
	"github.com/sartorproj/gridclean/stats"
	"github.com/sartorproj/gridclean/timeseries"
)

// MaxGapToFill is the default longest run of missing readings filled by Expand.
const MaxGapToFill = 4

// ExpandOptions configure Expand.
type ExpandOptions struct {
	Start       time.Time      // First grid timestamp (inclusive)
	End         time.Time      // End of the grid (exclusive)
	Location    *time.Location // Time zone of the output (default: UTC)
	MaxGap      int            // Consecutive missing readings filled per gap, 0 for no limit
	MinTimestep time.Duration  // Coarsest acceptable step, 0 to skip the check
}

// DefaultExpandOptions returns options covering [start, end) in UTC.
func DefaultExpandOptions(start, end time.Time) ExpandOptions {
	return ExpandOptions{
		Start:    start,
		End:      end,
		Location: time.UTC,
		MaxGap:   MaxGapToFill,
	}
}

// Expand reindexes s onto the full grid [Start, End) at the series' frequency
// and fills short interior gaps by time interpolation. Leading and trailing
// gaps are left missing.
//
// The frequency is s.Freq when set, otherwise the distance between the first
// two real readings. A series with no real readings, or a single reading and
// no explicit frequency, is returned unchanged.
func Expand(s *timeseries.Series, opts ExpandOptions, m report.Metrics) (*timeseries.Series, error) {
	if !opts.End.After(opts.Start) {
		return nil, fmt.Errorf("%w: end %v is not after start %v", ErrInvalidWindow, opts.End, opts.Start)
	}
	if opts.MaxGap < 0 {
		return nil, fmt.Errorf("%w: negative max gap %d", ErrInvalidParameter, opts.MaxGap)
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	data := s.DropNA()
	if data.Len() == 0 {
		return s, nil
	}

	freq := s.Freq
	if freq == 0 {
		if data.Len() < 2 {
			return s, nil
		}
		freq = data.Timestamps[1].Sub(data.Timestamps[0])
	}
	if freq <= 0 {
		return nil, fmt.Errorf("%w: non-positive frequency %v in series %q", ErrInvalidParameter, freq, s.Name)
	}
	if opts.MinTimestep > 0 && freq > opts.MinTimestep {
		return nil, &FrequencyError{Name: s.Name, Freq: freq, Min: opts.MinTimestep}
	}

	byInstant := make(map[int64]float64, data.Len())
	for i, ts := range data.Timestamps {
		byInstant[ts.UnixNano()] = data.Values[i]
	}

	out := &timeseries.Series{Name: s.Name, Freq: freq}
	for ts := opts.Start; ts.Before(opts.End); ts = ts.Add(freq) {
		v, ok := byInstant[ts.UnixNano()]
		if !ok {
			v = math.NaN()
		}
		out.Timestamps = append(out.Timestamps, ts.In(loc))
		out.Values = append(out.Values, v)
	}
	m.Set(report.ExpandedLength, float64(out.Len()))

	if out.CountNaN() == 0 {
		m.Set(report.OriginalCoverage, 1)
		m.Set(report.MissingValues, 0)
		return out, nil
	}

	m.Set(report.OriginalCoverage, out.Coverage())
	out.Values = stats.Interpolate(out.Timestamps, out.Values, stats.InterpolateOptions{Limit: opts.MaxGap})
	m.Set(report.InterpolatedCoverage, out.Coverage())
	m.Set(report.MissingValues, float64(out.CountNaN()))
	return out, nil
}
