// Package stats provides the numeric building blocks used to clean time series.
//
// The functions work on plain float64 slices in which NaN marks a missing
// reading. None of them modify their input.
//
// # Outlier Scoring
//
//	z := stats.ZScores(diff)          // population z-scores, NaN omitted
//	q := stats.Quantile(diff, 0.01)   // linear quantile, NaN omitted
//	big := stats.Tails(diff, 0.01)    // indices in the lowest or highest 1%
//
// # Smoothing and Gap Filling
//
//	med := stats.RollingMedian(values, 3)
//	filled := stats.Interpolate(timestamps, values, stats.InterpolateOptions{
//	    Limit: 4, // fill at most 4 consecutive missing readings per gap
//	})
//
// Interpolation is linear in time, so unevenly spaced readings are weighted by
// their distance from each neighbour.
//
// # Peak Detection
//
// FindPeaks locates local maxima, including flat-topped ones, and filters them
// by neighbour threshold, plateau size, prominence and width:
//
//	peaks := stats.FindPeaks(x, stats.PeakOptions{
//	    Prominence:  2,
//	    PlateauSize: 2,
//	    MaxWidth:    4,
//	    RelHeight:   1,
//	})
//	// peaks.Indices, peaks.LeftEdges, peaks.RightEdges
//
// Search for minima by negating the input.
//
// # Diagnostics
//
//	rmse := stats.RMSE(before, after)
//	summary := stats.Describe(values) // count, mean, std, min, quartiles, max
package stats
