package clean

import (
	"errors"
	"math"
	"testing"

	"github.com/sartorproj/gridclean/report"
	"github.com/sartorproj/gridclean/timeseries"
)

func TestFilterReboundsJumpAndRebound(t *testing.T) {
	values := make([]float64, 20)
	for i := range values {
		values[i] = 2
	}
	// +10 at index 5, -10 at index 9
	for i := 5; i < 9; i++ {
		values[i] = 12
	}
	m := report.Metrics{}

	out, err := FilterRebounds(timeseries.New("x", t0, step, values), DefaultReboundOptions(), m)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for i, v := range out.Values {
		if math.Abs(v-2) > 1e-12 {
			t.Errorf("Index %d: expected baseline 2, got %f", i, v)
		}
	}
	if m[report.ExcisedPoints] != 5 {
		t.Errorf("Expected [5, 9] excised, got %v readings", m[report.ExcisedPoints])
	}
}

func TestFilterReboundsIsolatedStep(t *testing.T) {
	values := make([]float64, 20)
	for i := 10; i < 20; i++ {
		values[i] = 10
	}
	m := report.Metrics{}

	out, err := FilterRebounds(timeseries.New("x", t0, step, values), DefaultReboundOptions(), m)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i, v := range out.Values {
		if v != values[i] {
			t.Errorf("Index %d: a step without rebound must be kept, got %f", i, v)
		}
	}
	if m[report.ExcisedPoints] != 0 {
		t.Errorf("Expected nothing excised, got %v", m[report.ExcisedPoints])
	}
}

func TestFilterReboundsToleranceRejectsMismatch(t *testing.T) {
	values := make([]float64, 20)
	for i := 5; i < 20; i++ {
		values[i] = 10
	}
	// a later drop of 3 is not a rebound of a 10 jump
	for i := 12; i < 20; i++ {
		values[i] = 7
	}

	out, err := FilterRebounds(timeseries.New("x", t0, step, values), DefaultReboundOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range out.Values {
		if v != values[i] {
			t.Errorf("Index %d changed from %f to %f", i, values[i], v)
		}
	}
}

func TestFilterReboundsAtEnd(t *testing.T) {
	values := make([]float64, 20)
	for i := range values {
		values[i] = 2
	}
	for i := 15; i < 19; i++ {
		values[i] = 12
	}

	out, err := FilterRebounds(timeseries.New("x", t0, step, values), DefaultReboundOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.CountNaN() != 0 {
		t.Fatalf("Expected the trailing span refilled, got %v", out.Values)
	}
	for i, v := range out.Values {
		if v != 2 {
			t.Errorf("Index %d: expected 2, got %f", i, v)
		}
	}
}

func TestFilterReboundsDropsMissing(t *testing.T) {
	nan := math.NaN()
	s := timeseries.New("x", t0, step, []float64{nan, 1, 1, nan, 1})

	out, err := FilterRebounds(s, DefaultReboundOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 3 {
		t.Errorf("Expected three readings, got %d", out.Len())
	}

	empty, err := FilterRebounds(timeseries.New("x", t0, step, nil), DefaultReboundOptions(), nil)
	if err != nil || empty.Len() != 0 {
		t.Errorf("Expected an empty result, got %v, %v", empty, err)
	}
}

func TestFilterReboundsInvalidOptions(t *testing.T) {
	s := timeseries.New("x", t0, step, []float64{1, 2, 3})
	for _, opts := range []ReboundOptions{{Quantile: 0.6}, {Quantile: -0.1}, {Tolerance: -1}, {Tolerance: 2}} {
		if _, err := FilterRebounds(s, opts, nil); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("%+v: expected ErrInvalidParameter, got %v", opts, err)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	drop := DefaultDropOptions()
	rebound := DefaultReboundOptions()

	tests := []struct {
		name     string
		expected string
	}{
		{"drops", "drops"},
		{"Peaks", "peaks"},
		{" rebound ", "rebound"},
	}
	for _, tt := range tests {
		s, err := ParseStrategy(tt.name, drop, rebound)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tt.name, err)
		}
		if s.Name() != tt.expected {
			t.Errorf("%q: expected %s, got %s", tt.name, tt.expected, s.Name())
		}
	}

	if s, err := ParseStrategy("none", drop, rebound); s != nil || err != nil {
		t.Errorf("Expected no strategy, got %v, %v", s, err)
	}
	if _, err := ParseStrategy("median", drop, rebound); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter, got %v", err)
	}
}

func TestStrategyApply(t *testing.T) {
	s := flat(100, map[int]float64{50: 5})

	for _, strategy := range []Strategy{
		PeakStrategy{Options: DefaultDropOptions()},
		ReboundStrategy{Options: DefaultReboundOptions()},
	} {
		m := report.Metrics{}
		out, err := strategy.Apply(s, m)
		if err != nil {
			t.Fatalf("%s: %v", strategy.Name(), err)
		}
		if math.Abs(out.Values[50]-1) > 1e-12 {
			t.Errorf("%s: expected the spike removed, got %f", strategy.Name(), out.Values[50])
		}
		if m[report.ExcisedPoints] == 0 {
			t.Errorf("%s: expected excised readings to be recorded", strategy.Name())
		}
	}
}
