package report

import (
	"bytes"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sartorproj/gridclean/timeseries"
)

func TestRecordMergeAndGet(t *testing.T) {
	r := NewRecord()
	r.Merge("FI/Solar", Metrics{ExpandedLength: 96, MissingValues: 2})
	r.Merge("FI/Solar", Metrics{RMSEOfFilter: 0.5})
	r.Set("DE/Wind Onshore", ExcisedPoints, 3)

	row, ok := r.Get("FI/Solar")
	if !ok {
		t.Fatal("Expected FI/Solar to be recorded")
	}
	if row[ExpandedLength] != 96 || row[MissingValues] != 2 || row[RMSEOfFilter] != 0.5 {
		t.Errorf("Unexpected metrics %v", row)
	}

	row[ExpandedLength] = 0
	if again, _ := r.Get("FI/Solar"); again[ExpandedLength] != 96 {
		t.Error("Get must return a copy")
	}

	if _, ok := r.Get("SE"); ok {
		t.Error("Expected unknown series to be absent")
	}

	ids := r.IDs()
	if len(ids) != 2 || ids[0] != "DE/Wind Onshore" || ids[1] != "FI/Solar" {
		t.Errorf("Expected sorted ids, got %v", ids)
	}
}

func TestRecordMetricsOrder(t *testing.T) {
	r := NewRecord()
	r.Merge("a", Metrics{"zeta": 1, RMSEOfFilter: 2, "alpha": 3, ExpandedLength: 4})

	expected := []string{ExpandedLength, RMSEOfFilter, "alpha", "zeta"}
	got := r.Metrics()
	if len(got) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Position %d: expected %q, got %q", i, expected[i], got[i])
		}
	}
}

func TestNilMetricsDiscards(t *testing.T) {
	var m Metrics
	m.Set(ExcisedPoints, 1)
	if len(m) != 0 {
		t.Error("Expected nil metrics to stay empty")
	}
}

func TestRecordConcurrentMerge(t *testing.T) {
	r := NewRecord()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Merge(string(rune('A'+i%26))+"x", Metrics{ExpandedLength: float64(i)})
		}(i)
	}
	wg.Wait()
	if len(r.IDs()) != 26 {
		t.Errorf("Expected 26 series, got %d", len(r.IDs()))
	}
}

func TestRecordWriteCSV(t *testing.T) {
	r := NewRecord()
	r.Merge("FI", Metrics{ExpandedLength: 4, RMSEOfFilter: 0.25})
	r.Merge("SE", Metrics{ExpandedLength: 8, RMSEOfFilter: math.NaN()})
	r.Set("DE", ExpandedLength, 2)

	var buf bytes.Buffer
	if err := r.WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}

	expected := "series,expanded length,RMSE of filter\n" +
		"DE,2,\n" +
		"FI,4,0.25\n" +
		"SE,8,\n"
	if buf.String() != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, buf.String())
	}
}

func TestRecordWriteText(t *testing.T) {
	r := NewRecord()
	r.Merge("FI/Solar", Metrics{ExpandedLength: 35040, OriginalCoverage: 0.98766})

	var buf bytes.Buffer
	if err := r.WriteText(&buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected a header and one row, got %q", buf.String())
	}
	for _, want := range []string{"series", ExpandedLength, OriginalCoverage} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("Header %q lacks %q", lines[0], want)
		}
	}
	for _, want := range []string{"FI/Solar", "35040", "0.9877"} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("Row %q lacks %q", lines[1], want)
		}
	}
}

func ramp() *timeseries.Table {
	start := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	table := timeseries.NewTable()
	_ = table.AddSeries(timeseries.New("FI", start, 15*time.Minute, values))
	return table
}

func TestDescribeValues(t *testing.T) {
	d := DescribeValues(ramp())
	if len(d.Summaries) != 1 || d.Columns[0] != "FI" {
		t.Fatalf("Expected one column, got %v", d.Columns)
	}
	s := d.Summaries[0]
	if s.Count != 8 || s.Mean != 3.5 || s.Min != 0 || s.Max != 7 || s.Q50 != 3.5 {
		t.Errorf("Unexpected summary %+v", s)
	}
}

func TestDescribeChanges(t *testing.T) {
	raw := DescribeChanges(ramp(), 0).Summaries[0]
	if raw.Count != 7 || raw.Mean != 1 || raw.Std != 0 {
		t.Errorf("Expected seven unit steps, got %+v", raw)
	}

	// hourly means are 1.5 and 5.5
	hourly := DescribeChanges(ramp(), time.Hour)
	if hourly.Summaries[0].Count != 1 || hourly.Summaries[0].Mean != 4 {
		t.Errorf("Expected a single hourly change of 4, got %+v", hourly.Summaries[0])
	}
	if hourly.Title != "1h0m0s changes" {
		t.Errorf("Unexpected title %q", hourly.Title)
	}
}

func TestDescribe(t *testing.T) {
	var buf bytes.Buffer
	if err := Describe(&buf, ramp()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Time series statistics", "Diff(1) statistics", "1h0m0s changes", "count", "75%"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output lacks %q:\n%s", want, out)
		}
	}
}
