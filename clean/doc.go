// Package clean implements the cleaning steps applied to raw energy time series.
//
// Each step takes a series, returns a new one and writes its diagnostics into a
// report.Metrics owned by the caller. Inputs are never modified.
//
// # Reindexing
//
// Expand puts a sparse series on a full grid and fills short interior gaps:
//
//	m := report.Metrics{}
//	full, err := clean.Expand(raw, clean.ExpandOptions{
//	    Start:       start,
//	    End:         end,
//	    Location:    time.UTC,
//	    MaxGap:      4,
//	    MinTimestep: 15 * time.Minute,
//	}, m)
//	if errors.Is(err, clean.ErrFrequencyTooCoarse) {
//	    // the provider delivered hourly data where 15 minute data was required
//	}
//
// # Smoothing
//
//	opts := clean.DefaultSmoothOptions()
//	opts.SecondPass = true
//	smoothed, err := clean.Smooth(full, opts, m)
//	// m[report.RMSEOfFilter] measures how much the filter changed
//
// # Spike Removal
//
// Two algorithms remove spikes. RemoveDrops and RemovePeaks look for changes
// that are unusually large by z-score and cut out the narrow dips or bumps
// they belong to. FilterRebounds instead pairs each large jump with the first
// later change that cancels it and cuts out everything in between.
//
//	cleaned, err := clean.RemovePeaks(smoothed, clean.DefaultDropOptions(), m)
//	cleaned, err := clean.FilterRebounds(smoothed, clean.DefaultReboundOptions(), m)
//
// Both are available behind the Strategy interface for callers that choose
// per series:
//
//	strategy, err := clean.ParseStrategy("rebound", clean.DefaultDropOptions(), clean.DefaultReboundOptions())
//	cleaned, err := strategy.Apply(smoothed, m)
package clean
