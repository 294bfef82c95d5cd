// Package timeseries provides time series data structures and utilities.
//
// This package includes the Series type for representing a single named
// series of readings, the Table type for several series sharing one
// timestamp index, and a CSV codec for both.
//
// # Creating a Series
//
// Create an evenly spaced series:
//
//	start := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
//	series := timeseries.New("FI/Wind Onshore", start, 15*time.Minute, values)
//
// Missing readings are represented by math.NaN():
//
//	series.CountNaN()   // number of missing readings
//	series.Coverage()   // fraction of real readings
//	clean := series.DropNA()
//
// # Transformations
//
// Every transformation returns a new series and leaves its receiver alone:
//
//	diff := series.Diff()              // aligned first difference, diff.Values[0] is NaN
//	neg := series.Negate()             // sign flip
//	local := series.In(loc)            // render timestamps in another zone
//	hourly := series.Resample(time.Hour) // bucket means
//
// # Tables and CSV
//
// Tables outer-join their columns on timestamps:
//
//	t := timeseries.NewTable()
//	t.AddSeries(fi)
//	t.AddSeries(se)
//	err := timeseries.SaveTable(t, "generation.csv")
//
// The index column is always written as "Datetime" with RFC3339 timestamps and
// missing values as empty cells, so a reloaded table compares equal to the one
// written. Columns that hold no real value are dropped when reading.
package timeseries
