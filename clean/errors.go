package clean

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptySeries reports a series with no real readings.
	ErrEmptySeries = errors.New("series has no data")
	// ErrFrequencyTooCoarse reports a series sampled less often than required.
	ErrFrequencyTooCoarse = errors.New("series frequency is coarser than the minimum time step")
	// ErrInvalidWindow reports a malformed filter window or time range.
	ErrInvalidWindow = errors.New("invalid window")
	// ErrInvalidParameter reports an out-of-range threshold or quantile.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// FrequencyError describes a series whose inferred step exceeds the minimum.
type FrequencyError struct {
	Name string
	Freq time.Duration
	Min  time.Duration
}

func (e *FrequencyError) Error() string {
	return fmt.Sprintf("series %q has frequency %v, coarser than the minimum time step %v", e.Name, e.Freq, e.Min)
}

func (e *FrequencyError) Unwrap() error {
	return ErrFrequencyTooCoarse
}
