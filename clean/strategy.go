package clean

import (
	"fmt"
	"strings"

	"github.com/sartorproj/gridclean/report"
	"github.com/sartorproj/gridclean/timeseries"
)

// Strategy is a spike removal algorithm. Pick one per series; their removal
// rules differ and they are not meant to be chained.
type Strategy interface {
	Name() string
	Apply(s *timeseries.Series, m report.Metrics) (*timeseries.Series, error)
}

// DropStrategy removes downward spikes with RemoveDrops.
type DropStrategy struct {
	Options DropOptions
}

func (DropStrategy) Name() string { return "drops" }

func (d DropStrategy) Apply(s *timeseries.Series, m report.Metrics) (*timeseries.Series, error) {
	return RemoveDrops(s, d.Options, m)
}

// PeakStrategy removes upward spikes with RemovePeaks.
type PeakStrategy struct {
	Options DropOptions
}

func (PeakStrategy) Name() string { return "peaks" }

func (p PeakStrategy) Apply(s *timeseries.Series, m report.Metrics) (*timeseries.Series, error) {
	return RemovePeaks(s, p.Options, m)
}

// ReboundStrategy removes jump-and-rebound spans with FilterRebounds.
type ReboundStrategy struct {
	Options ReboundOptions
}

func (ReboundStrategy) Name() string { return "rebound" }

func (r ReboundStrategy) Apply(s *timeseries.Series, m report.Metrics) (*timeseries.Series, error) {
	return FilterRebounds(s, r.Options, m)
}

// ParseStrategy builds the strategy called name. "none" and the empty string
// return a nil Strategy.
func ParseStrategy(name string, drop DropOptions, rebound ReboundOptions) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return nil, nil
	case "drops":
		return DropStrategy{Options: drop}, nil
	case "peaks":
		return PeakStrategy{Options: drop}, nil
	case "rebound", "rebounds":
		return ReboundStrategy{Options: rebound}, nil
	default:
		return nil, fmt.Errorf("%w: unknown spike strategy %q", ErrInvalidParameter, name)
	}
}
