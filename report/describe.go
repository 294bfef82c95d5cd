package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/sartorproj/gridclean/stats"
	"github.com/sartorproj/gridclean/timeseries"
)

// Description holds descriptive statistics for every column of a table.
type Description struct {
	Title     string
	Columns   []string
	Summaries []stats.Summary
}

// DescribeValues summarizes the values of each column.
func DescribeValues(t *timeseries.Table) Description {
	d := Description{Title: "Time series statistics"}
	for _, name := range t.Columns {
		d.Columns = append(d.Columns, name)
		d.Summaries = append(d.Summaries, stats.Describe(t.Data[name]))
	}
	return d
}

// DescribeChanges summarizes the changes between consecutive readings of each
// column. With a positive resample step, columns are first averaged into
// buckets of that width, so one hour changes of 15 minute data can be compared
// across series of different resolution.
func DescribeChanges(t *timeseries.Table, resample time.Duration) Description {
	d := Description{Title: "Diff(1) statistics"}
	if resample > 0 {
		d.Title = fmt.Sprintf("%v changes", resample)
	}

	for _, name := range t.Columns {
		s, _ := t.Column(name)
		if resample > 0 {
			s = s.Resample(resample)
		} else {
			s = s.DropNA()
		}
		d.Columns = append(d.Columns, name)
		d.Summaries = append(d.Summaries, stats.Describe(s.Diff().Values))
	}
	return d
}

// WriteText renders the description with statistics as rows and columns as
// table columns.
func (d Description) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, d.Title)

	fmt.Fprint(tw, "\t")
	for _, name := range d.Columns {
		fmt.Fprintf(tw, "%s\t", name)
	}
	fmt.Fprintln(tw)

	rows := []struct {
		label string
		get   func(stats.Summary) float64
	}{
		{"count", func(s stats.Summary) float64 { return float64(s.Count) }},
		{"mean", func(s stats.Summary) float64 { return s.Mean }},
		{"std", func(s stats.Summary) float64 { return s.Std }},
		{"min", func(s stats.Summary) float64 { return s.Min }},
		{"25%", func(s stats.Summary) float64 { return s.Q25 }},
		{"50%", func(s stats.Summary) float64 { return s.Q50 }},
		{"75%", func(s stats.Summary) float64 { return s.Q75 }},
		{"max", func(s stats.Summary) float64 { return s.Max }},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t", row.label)
		for _, s := range d.Summaries {
			fmt.Fprintf(tw, "%.2f\t", row.get(s))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// Describe writes value statistics, first difference statistics and one hour
// change statistics of every column of t.
func Describe(w io.Writer, t *timeseries.Table) error {
	for i, d := range []Description{
		DescribeValues(t),
		DescribeChanges(t, 0),
		DescribeChanges(t, time.Hour),
	} {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := d.WriteText(w); err != nil {
			return err
		}
	}
	return nil
}
