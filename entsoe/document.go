package entsoe

import (
	"encoding/xml"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sartorproj/gridclean/timeseries"
)

// noMatchingData is the acknowledgement reason text for an empty result.
const noMatchingData = "no matching data"

type document struct {
	XMLName    xml.Name
	TimeSeries []xmlTimeSeries `xml:"TimeSeries"`
	Reasons    []xmlReason     `xml:"Reason"`
}

type xmlReason struct {
	Code string `xml:"code"`
	Text string `xml:"text"`
}

type xmlTimeSeries struct {
	InDomain  string      `xml:"inBiddingZone_Domain.mRID"`
	OutDomain string      `xml:"outBiddingZone_Domain.mRID"`
	Periods   []xmlPeriod `xml:"Period"`
}

type xmlPeriod struct {
	Start      string     `xml:"timeInterval>start"`
	End        string     `xml:"timeInterval>end"`
	Resolution string     `xml:"resolution"`
	Points     []xmlPoint `xml:"Point"`
}

type xmlPoint struct {
	Position int     `xml:"position"`
	Quantity float64 `xml:"quantity"`
}

func (d *document) acknowledgement() bool {
	return d.XMLName.Local == "Acknowledgement_MarketDocument"
}

func (d *document) reason() (code, text string) {
	var texts []string
	for _, r := range d.Reasons {
		if code == "" {
			code = r.Code
		}
		if r.Text != "" {
			texts = append(texts, r.Text)
		}
	}
	return code, strings.Join(texts, "; ")
}

var intervalLayouts = []string{
	"2006-01-02T15:04Z07:00",
	time.RFC3339,
}

func parseInterval(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range intervalLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", s)
}

// step returns a function giving the timestamp of a 1-based position, and the
// fixed frequency of the resolution (0 for calendar steps).
func step(start time.Time, resolution string) (func(int) time.Time, time.Duration, error) {
	switch resolution {
	case "P1Y":
		return func(p int) time.Time { return start.AddDate(p-1, 0, 0) }, 0, nil
	case "P1M":
		return func(p int) time.Time { return start.AddDate(0, p-1, 0) }, 0, nil
	case "P7D":
		return func(p int) time.Time { return start.AddDate(0, 0, 7*(p-1)) }, 0, nil
	case "P1D":
		return func(p int) time.Time { return start.AddDate(0, 0, p-1) }, 0, nil
	}

	// PTnM and PTnH map directly onto durations
	if !strings.HasPrefix(resolution, "PT") {
		return nil, 0, fmt.Errorf("unsupported resolution %q", resolution)
	}
	d, err := time.ParseDuration(strings.ToLower(resolution[2:]))
	if err != nil || d <= 0 {
		return nil, 0, fmt.Errorf("unsupported resolution %q", resolution)
	}
	return func(p int) time.Time { return start.Add(time.Duration(p-1) * d) }, d, nil
}

// series converts the document into one series. Consumption time series of
// generation documents are skipped. Later points overwrite earlier ones at the
// same instant.
func (d *document) series(name string, kind Kind) (*timeseries.Series, error) {
	values := make(map[int64]float64)
	stamps := make(map[int64]time.Time)
	freq := time.Duration(-1)

	for _, ts := range d.TimeSeries {
		if kind == Generation && ts.InDomain == "" && ts.OutDomain != "" {
			continue
		}
		for _, p := range ts.Periods {
			start, err := parseInterval(p.Start)
			if err != nil {
				return nil, err
			}
			at, res, err := step(start, strings.TrimSpace(p.Resolution))
			if err != nil {
				return nil, err
			}
			switch {
			case freq < 0:
				freq = res
			case freq != res:
				freq = 0
			}
			for _, pt := range p.Points {
				if pt.Position < 1 {
					return nil, fmt.Errorf("invalid point position %d", pt.Position)
				}
				t := at(pt.Position)
				values[t.UnixNano()] = pt.Quantity
				stamps[t.UnixNano()] = t
			}
		}
	}

	keys := make([]int64, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	s := &timeseries.Series{Name: name}
	for _, k := range keys {
		s.Timestamps = append(s.Timestamps, stamps[k])
		v := values[k]
		if math.IsInf(v, 0) {
			v = math.NaN()
		}
		s.Values = append(s.Values, v)
	}
	if freq > 0 {
		s.Freq = freq
	}
	return s, nil
}
