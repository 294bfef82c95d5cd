package capacity

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sartorproj/gridclean/countries"
)

// Technology selects a capacity column.
type Technology string

const (
	Onshore  Technology = "Onshore"
	Offshore Technology = "Offshore"
)

// Entry is one row of a cumulative capacity statistics table.
type Entry struct {
	Country  string // two-letter code
	Year     int
	Onshore  float64
	Offshore float64
}

// Column names of the cumulative capacity table.
const (
	countryColumn  = "Country"
	yearColumn     = "Year"
	onshoreColumn  = "Cumulative onshore capacity"
	offshoreColumn = "Cumulative offshore capacity"
)

// ReadTable reads a cumulative capacity table. Country names are converted to
// codes; empty capacity cells become NaN.
func ReadTable(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	for _, name := range []string{countryColumn, yearColumn, onshoreColumn, offshoreColumn} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var entries []Entry
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		year, err := strconv.Atoi(strings.TrimSpace(record[cols[yearColumn]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid year: %w", line, err)
		}
		on, err := parseCapacity(record[cols[onshoreColumn]])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		off, err := parseCapacity(record[cols[offshoreColumn]])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, Entry{
			Country:  countries.Code(record[cols[countryColumn]]),
			Year:     year,
			Onshore:  on,
			Offshore: off,
		})
	}
	return entries, nil
}

func parseCapacity(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid capacity %q", s)
	}
	return v, nil
}

// Points groups the capacity of one technology by country. Cumulative
// capacity at the end of a year is dated to January 1st of the next year.
func Points(entries []Entry, tech Technology) map[string]map[time.Time]float64 {
	out := make(map[string]map[time.Time]float64)
	for _, e := range entries {
		v := e.Onshore
		if tech == Offshore {
			v = e.Offshore
		}
		byDate, ok := out[e.Country]
		if !ok {
			byDate = make(map[time.Time]float64)
			out[e.Country] = byDate
		}
		byDate[time.Date(e.Year+1, 1, 1, 0, 0, 0, 0, time.UTC)] = v
	}
	return out
}
