package clean

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/sartorproj/gridclean/report"
	"github.com/sartorproj/gridclean/timeseries"
)

// flat returns n readings of 1.0 at a 15 minute step, with the given overrides.
func flat(n int, overrides map[int]float64) *timeseries.Series {
	values := make([]float64, n)
	for i := range values {
		values[i] = 1
	}
	for i, v := range overrides {
		values[i] = v
	}
	return timeseries.New("FI/Solar", t0, step, values)
}

func assertAll(t *testing.T, s *timeseries.Series, want float64) {
	t.Helper()
	for i, v := range s.Values {
		if math.Abs(v-want) > 1e-12 {
			t.Errorf("Index %d: expected %f, got %f", i, want, v)
		}
	}
}

func TestRemovePeaksSingleSpike(t *testing.T) {
	s := flat(100, map[int]float64{50: 5})
	m := report.Metrics{}

	out, err := RemovePeaks(s, DropOptions{ZThreshold: 1}, m)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if out.Len() != 100 {
		t.Fatalf("Expected 100 readings, got %d", out.Len())
	}
	if out.Values[50] != 1 {
		t.Errorf("Expected the spike at 50 restored to 1, got %f", out.Values[50])
	}
	assertAll(t, out, 1)
	if m[report.ExcisedPoints] != 1 {
		t.Errorf("Expected one excised reading, got %v", m[report.ExcisedPoints])
	}
	if math.Abs(m[report.RMSEOfFilter]-math.Sqrt(16.0/100.0)) > 1e-12 {
		t.Errorf("Unexpected RMSE %f", m[report.RMSEOfFilter])
	}
	if s.Values[50] != 5 {
		t.Error("Input was modified")
	}
}

func TestRemoveDropsSingleDip(t *testing.T) {
	out, err := RemoveDrops(flat(100, map[int]float64{50: -3}), DefaultDropOptions(), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertAll(t, out, 1)
}

func TestRemoveDropsIgnoresPeaks(t *testing.T) {
	s := flat(100, map[int]float64{50: 5})
	m := report.Metrics{}

	out, err := RemoveDrops(s, DefaultDropOptions(), m)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.Values[50] != 5 {
		t.Errorf("An upward spike is not a drop, got %f", out.Values[50])
	}
	if m[report.ExcisedPoints] != 0 {
		t.Errorf("Expected nothing excised, got %v", m[report.ExcisedPoints])
	}
}

func TestRemoveDropsPlateau(t *testing.T) {
	s := flat(100, map[int]float64{40: 0, 41: 0})
	m := report.Metrics{}

	out, err := RemoveDrops(s, DefaultDropOptions(), m)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertAll(t, out, 1)
	if m[report.ExcisedPoints] != 2 {
		t.Errorf("Expected both plateau edges excised, got %v", m[report.ExcisedPoints])
	}
}

func TestRemoveDropsKeepsWideTroughs(t *testing.T) {
	overrides := map[int]float64{}
	for i := 40; i < 50; i++ {
		overrides[i] = 0
	}
	out, err := RemoveDrops(flat(100, overrides), DefaultDropOptions(), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i := 40; i < 50; i++ {
		if out.Values[i] != 0 {
			t.Errorf("A ten sample trough is not a spike; index %d became %f", i, out.Values[i])
		}
	}
}

func TestRemoveDropsNoSignificantChange(t *testing.T) {
	s := flat(20, nil)
	m := report.Metrics{}

	out, err := RemoveDrops(s, DefaultDropOptions(), m)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertAll(t, out, 1)
	if m[report.RMSEOfFilter] != 0 || m[report.ExcisedPoints] != 0 {
		t.Errorf("Unexpected metrics %v", m)
	}
}

func TestRemoveDropsIdempotent(t *testing.T) {
	tests := []struct {
		name string
		s    *timeseries.Series
	}{
		{"dip", flat(100, map[int]float64{50: -3})},
		{"plateau", flat(100, map[int]float64{40: 0, 41: 0})},
		{"two dips", flat(100, map[int]float64{20: -2, 70: -4})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := RemoveDrops(tt.s, DefaultDropOptions(), nil)
			if err != nil {
				t.Fatal(err)
			}
			m := report.Metrics{}
			if _, err := RemoveDrops(first, DefaultDropOptions(), m); err != nil {
				t.Fatal(err)
			}
			if m[report.ExcisedPoints] != 0 {
				t.Errorf("Second run excised %v readings", m[report.ExcisedPoints])
			}
		})
	}
}

func TestRemoveDropsIdempotentOnNoisyData(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		rng := rand.New(rand.NewSource(seed))
		values := make([]float64, 300)
		for i := range values {
			values[i] = 100 + 10*math.Sin(float64(i)/20) + rng.NormFloat64()
		}
		values[50] -= 30
		s := timeseries.New("FI/Wind Onshore", t0, step, values)

		first := report.Metrics{}
		out, err := RemoveDrops(s, DefaultDropOptions(), first)
		if err != nil {
			t.Fatalf("Seed %d: unexpected error %v", seed, err)
		}
		threshold, ok := first[report.PeakThreshold]
		if !ok || threshold <= 0 {
			t.Fatalf("Seed %d: expected a recorded peak threshold, got %v", seed, first)
		}
		if math.Abs(out.Values[50]-(100+10*math.Sin(2.5))) > 5 {
			t.Errorf("Seed %d: expected the dip at 50 removed, got %f", seed, out.Values[50])
		}

		second := report.Metrics{}
		again, err := RemoveDrops(out, DropOptions{PeakThreshold: threshold}, second)
		if err != nil {
			t.Fatalf("Seed %d: unexpected error %v", seed, err)
		}
		if second[report.ExcisedPoints] != 0 {
			t.Errorf("Seed %d: second run with threshold %f excised %v readings", seed, threshold, second[report.ExcisedPoints])
		}
		if second[report.PeakThreshold] != threshold {
			t.Errorf("Seed %d: expected threshold %f recorded again, got %f", seed, threshold, second[report.PeakThreshold])
		}
		for i := range out.Values {
			if again.Values[i] != out.Values[i] {
				t.Errorf("Seed %d: index %d changed from %f to %f", seed, i, out.Values[i], again.Values[i])
				break
			}
		}
	}
}

func TestRemoveDropsTwoPass(t *testing.T) {
	m := report.Metrics{}
	out, err := RemoveDrops(flat(100, map[int]float64{50: -3}), DropOptions{TwoPass: true}, m)
	if err != nil {
		t.Fatal(err)
	}
	assertAll(t, out, 1)
	if m[report.ExcisedPoints] != 1 {
		t.Errorf("Expected one excised reading, got %v", m[report.ExcisedPoints])
	}
}

func TestRemovePeaksSignSymmetry(t *testing.T) {
	values := make([]float64, 200)
	for i := range values {
		values[i] = 10 + 3*math.Sin(float64(i)/7) + float64(i%5)/10
	}
	values[30] += 6
	values[90] -= 5
	values[140] += 4
	values[141] += 4
	s := timeseries.New("x", t0, step, values)
	opts := DropOptions{ZThreshold: 1.5, TwoPass: true}

	peaks, err := RemovePeaks(s, opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	drops, err := RemoveDrops(s.Negate(), opts, nil)
	if err != nil {
		t.Fatal(err)
	}

	for i := range values {
		if peaks.Values[i] != -drops.Values[i] {
			t.Fatalf("Index %d: peaks %f, negated drops %f", i, peaks.Values[i], -drops.Values[i])
		}
	}
}

func TestRemoveDropsDegenerate(t *testing.T) {
	nan := math.NaN()
	for _, values := range [][]float64{nil, {nan, nan}, {3}, {3, 1}} {
		out, err := RemoveDrops(timeseries.New("x", t0, step, values), DefaultDropOptions(), nil)
		if err != nil {
			t.Errorf("%v: unexpected error %v", values, err)
			continue
		}
		if out.CountNaN() != 0 {
			t.Errorf("%v: output has missing values %v", values, out.Values)
		}
	}
}

func TestRemoveDropsInvalidThreshold(t *testing.T) {
	for _, opts := range []DropOptions{{ZThreshold: -1}, {PeakThreshold: -0.5}, {PeakThreshold: math.NaN()}} {
		if _, err := RemoveDrops(flat(10, nil), opts, nil); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("%+v: expected ErrInvalidParameter, got %v", opts, err)
		}
	}
}
