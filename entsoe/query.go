package entsoe

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Kind selects the Transparency Platform document to retrieve.
type Kind int

const (
	Generation Kind = iota // actual generation per production type
	Load                   // actual total load
	Forecast               // day-ahead wind and solar forecast
	Capacity               // installed generation capacity per production type
)

var kindNames = map[Kind]string{
	Generation: "generation",
	Load:       "load",
	Forecast:   "forecast",
	Capacity:   "capacity",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses a kind name such as "generation".
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Generation, nil
	}
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown query kind %q", s)
}

// Query describes one series to retrieve.
type Query struct {
	Kind    Kind
	Domain  string // area code such as "FI", or an EIC code
	GenType string // production type such as "Solar"; ignored for Load
	Start   time.Time
	End     time.Time
}

// Name is the series name of the query result: "<domain>/<gentype>", or the
// domain alone for load.
func (q Query) Name() string {
	if q.Kind == Load || q.GenType == "" {
		return q.Domain
	}
	return q.Domain + "/" + q.GenType
}

func (q Query) key() string {
	return fmt.Sprintf("%s|%s|%s|%d|%d", q.Kind, q.Domain, q.GenType, q.Start.UnixNano(), q.End.UnixNano())
}

const periodLayout = "200601021504"

// params builds the request parameters for q.
func (q Query) params() (url.Values, error) {
	if !q.End.After(q.Start) {
		return nil, fmt.Errorf("query %s: end %v is not after start %v", q.Name(), q.End, q.Start)
	}
	eic, ok := EIC(q.Domain)
	if !ok {
		return nil, fmt.Errorf("query %s: unknown domain %q", q.Name(), q.Domain)
	}

	v := url.Values{}
	switch q.Kind {
	case Generation:
		v.Set("documentType", "A75")
		v.Set("processType", "A16")
		v.Set("in_Domain", eic)
	case Load:
		v.Set("documentType", "A65")
		v.Set("processType", "A16")
		v.Set("outBiddingZone_Domain", eic)
	case Forecast:
		v.Set("documentType", "A69")
		v.Set("processType", "A01")
		v.Set("in_Domain", eic)
	case Capacity:
		v.Set("documentType", "A68")
		v.Set("processType", "A33")
		v.Set("in_Domain", eic)
	default:
		return nil, fmt.Errorf("query %s: unsupported kind %v", q.Name(), q.Kind)
	}

	if q.Kind != Load {
		psr, ok := PSRType(q.GenType)
		if !ok {
			return nil, fmt.Errorf("query %s: unknown generation type %q", q.Name(), q.GenType)
		}
		v.Set("psrType", psr)
	}

	v.Set("periodStart", q.Start.UTC().Format(periodLayout))
	v.Set("periodEnd", q.End.UTC().Format(periodLayout))
	return v, nil
}
