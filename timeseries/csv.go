package timeseries

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVOptions holds options for CSV reading and writing.
type CSVOptions struct {
	TimeFormat string // Layout used when writing timestamps (default: RFC3339Nano)
	Delimiter  rune   // Field delimiter (default: ',')
	SkipRows   int    // Number of rows to skip before the header
}

// DefaultCSVOptions returns default options for CSV handling.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		TimeFormat: time.RFC3339Nano,
		Delimiter:  ',',
	}
}

// Layouts tried, in order, when parsing the index column.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	var err error
	for _, layout := range timeLayouts {
		var ts time.Time
		ts, err = time.Parse(layout, s)
		if err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q: %w", s, err)
}

func parseValue(s string) (float64, error) {
	switch s {
	case "", "NA", "NaN", "nan", "null":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// WriteTable writes a table as CSV. The first column is the index, named Datetime.
func WriteTable(w io.Writer, t *Table, opts *CSVOptions) error {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	bw := bufio.NewWriter(w)
	writer := csv.NewWriter(bw)
	writer.Comma = opts.Delimiter

	header := append([]string{IndexName}, t.Columns...)
	if err := writer.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for i, ts := range t.Index {
		record[0] = ts.Format(opts.TimeFormat)
		for j, name := range t.Columns {
			v := t.Data[name][i]
			if math.IsNaN(v) {
				record[j+1] = ""
			} else {
				record[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadTable reads a table written by WriteTable or by any tool that puts
// timestamps in the first column. Columns holding no real value are dropped.
func ReadTable(r io.Reader, opts *CSVOptions) (*Table, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	if len(header) < 2 {
		return nil, errors.New("csv needs an index column and at least one value column")
	}

	t := NewTable()
	for _, h := range header[1:] {
		name := strings.TrimSpace(strings.Trim(h, "\""))
		if _, dup := t.Data[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		t.Columns = append(t.Columns, name)
		t.Data[name] = nil
	}

	line := 1 + opts.SkipRows
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		ts, err := parseTime(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if n := len(t.Index); n > 0 && !ts.After(t.Index[n-1]) {
			return nil, fmt.Errorf("line %d: timestamps must be strictly increasing", line)
		}
		t.Index = append(t.Index, ts)

		for j, name := range t.Columns {
			v, err := parseValue(strings.TrimSpace(record[j+1]))
			if err != nil {
				return nil, fmt.Errorf("line %d column %q: %w", line, name, err)
			}
			t.Data[name] = append(t.Data[name], v)
		}
	}

	t.DropEmptyColumns()
	return t, nil
}

// SaveTable writes a table to a CSV file.
func SaveTable(t *Table, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WriteTable(file, t, nil); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// LoadTable loads a table from a CSV file.
func LoadTable(filename string) (*Table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadTable(file, nil)
}

// SaveCSV saves a single series to a CSV file.
func SaveCSV(series *Series, filename string) error {
	t := NewTable()
	if err := t.AddSeries(series); err != nil {
		return err
	}
	return SaveTable(t, filename)
}

// LoadCSV loads the first value column of a CSV file as a series.
func LoadCSV(filename string) (*Series, error) {
	t, err := LoadTable(filename)
	if err != nil {
		return nil, err
	}
	if len(t.Columns) == 0 {
		return nil, errors.New("no valid data found in CSV")
	}
	s, _ := t.Column(t.Columns[0])
	return s, nil
}
