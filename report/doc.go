/*
Package report collects cleaning statistics across many series and renders
descriptive statistics of cleaned tables.

A Record maps series identifiers to Metrics. Cleaning steps write into a
per-series Metrics value; callers merge those into a shared Record once a
series is done:

	m := report.Metrics{}
	s, err := clean.Expand(raw, opts, m)
	...
	record.Merge(s.Name, m)
	record.WriteText(os.Stdout)

Describe prints count, mean, std, min, quartiles and max for the values of
every column, their first differences and their one hour changes.
*/
package report
