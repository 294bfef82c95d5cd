package capacity

import (
	"math"
	"sort"
	"time"

	"github.com/sartorproj/gridclean/stats"
	"github.com/sartorproj/gridclean/timeseries"
)

const day = 24 * time.Hour

// Daily interpolates installed capacity points linearly onto every day from
// the first point to the last, at midnight UTC. Points with NaN values are
// ignored. The series is empty when there are no points.
func Daily(name string, points map[time.Time]float64) *timeseries.Series {
	known := make(map[time.Time]float64, len(points))
	for t, v := range points {
		if !math.IsNaN(v) {
			known[midnight(t)] = v
		}
	}
	out := &timeseries.Series{Name: name, Freq: day}
	if len(known) == 0 {
		return out
	}

	dates := make([]time.Time, 0, len(known))
	for t := range known {
		dates = append(dates, t)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	for t := dates[0]; !t.After(dates[len(dates)-1]); t = t.AddDate(0, 0, 1) {
		out.Timestamps = append(out.Timestamps, t)
		if v, ok := known[t]; ok {
			out.Values = append(out.Values, v)
		} else {
			out.Values = append(out.Values, math.NaN())
		}
	}
	out.Values = stats.Interpolate(out.Timestamps, out.Values, stats.InterpolateOptions{})
	return out
}

// Factor divides every generation reading by the capacity of its calendar day.
// Missing generation readings are dropped. The factor is NaN where the
// capacity is unknown or zero.
func Factor(gen, daily *timeseries.Series) *timeseries.Series {
	capByDay := make(map[time.Time]float64, daily.Len())
	for i, t := range daily.Timestamps {
		capByDay[midnight(t)] = daily.Values[i]
	}

	g := gen.DropNA()
	out := &timeseries.Series{
		Name:       gen.Name,
		Timestamps: g.Timestamps,
		Values:     make([]float64, g.Len()),
		Freq:       gen.Freq,
	}
	for i, t := range g.Timestamps {
		c, ok := capByDay[midnight(t)]
		if !ok || c == 0 || math.IsNaN(c) {
			out.Values[i] = math.NaN()
			continue
		}
		out.Values[i] = g.Values[i] / c
	}
	return out
}

// midnight returns the start of the calendar day of t, in t's own zone, as a
// UTC date.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
