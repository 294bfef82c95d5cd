// Package capacity turns installed capacity statistics into daily series and
// computes capacity factors of generation series.
//
//	entries, err := capacity.ReadTable(f)
//	points := capacity.Points(entries, capacity.Onshore)
//	daily := capacity.Daily("FI", points["FI"])
//	cf := capacity.Factor(generation, daily)
package capacity
