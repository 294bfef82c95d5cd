package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"
)

// WriteText renders the record as an aligned table, one row per series.
func (r *Record) WriteText(w io.Writer) error {
	metrics := r.Metrics()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprint(tw, "series\t")
	for _, name := range metrics {
		fmt.Fprintf(tw, "%s\t", name)
	}
	fmt.Fprintln(tw)

	for _, id := range r.IDs() {
		row, _ := r.Get(id)
		fmt.Fprintf(tw, "%s\t", id)
		for _, name := range metrics {
			v, ok := row[name]
			if !ok {
				fmt.Fprint(tw, "\t")
				continue
			}
			fmt.Fprintf(tw, "%s\t", formatFloat(v))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// WriteCSV writes the record with a "series" column followed by one column per metric.
// Missing metrics are written as empty cells.
func (r *Record) WriteCSV(w io.Writer) error {
	metrics := r.Metrics()
	cw := csv.NewWriter(w)

	if err := cw.Write(append([]string{"series"}, metrics...)); err != nil {
		return err
	}
	for _, id := range r.IDs() {
		row, _ := r.Get(id)
		record := []string{id}
		for _, name := range metrics {
			v, ok := row[name]
			if !ok || math.IsNaN(v) {
				record = append(record, "")
				continue
			}
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case v == math.Trunc(v) && math.Abs(v) < 1e15:
		return strconv.FormatFloat(v, 'f', 0, 64)
	default:
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
}
