// Package gridclean cleans power system time series downloaded from the
// ENTSO-E Transparency Platform.
//
// Hourly and quarter-hourly generation data contains gaps, isolated spikes
// and short drops to zero. gridclean fills short gaps onto a regular grid,
// smooths with a rolling median, removes spikes and records statistics about
// every change it makes.
//
// # Features
//
//   - Gap expansion onto a regular grid with limited time-aware interpolation
//   - Rolling median smoothing with an optional second pass at large changes
//   - Drop and peak removal from z-scored changes and peak detection
//   - Rebound filtering of matched jump and return pairs
//   - Per-series cleaning statistics
//   - Concurrent download and cleaning of many series
//   - Capacity factors from installed capacity statistics
//
// # Quick Start
//
// Clean one series:
//
//	m := report.Metrics{}
//	s, err := clean.Expand(raw, clean.DefaultExpandOptions(start, end), m)
//	s, err = clean.Smooth(s, clean.DefaultSmoothOptions(), m)
//	s, err = clean.RemovePeaks(s, clean.DefaultDropOptions(), m)
//
// Download and clean a configured set of series:
//
//	cfg, _ := config.Load("gridclean.yaml")
//	pcfg, _ := pipeline.FromConfig(cfg)
//	res, err := pipeline.New(pcfg, pipeline.WithFetcher(client)).Run(ctx, queries)
//
// # Packages
//
// The library is organized into the following packages:
//
//   - timeseries: Series and table data structures with CSV I/O
//   - stats: Quantiles, z-scores, rolling medians, interpolation and peak detection
//   - clean: The cleaning steps
//   - report: Cleaning statistics and descriptive summaries
//   - entsoe: Transparency Platform client
//   - countries: Country name normalization
//   - storage: Intermediate table persistence
//   - capacity: Installed capacity and capacity factors
//   - config: Run configuration
//   - pipeline: Concurrent cleaning of many series
//
// # References
//
//   - ENTSO-E Transparency Platform RESTful API, Implementation Guide
//   - Virtanen et al. (2020). SciPy 1.0: signal.find_peaks
package gridclean
