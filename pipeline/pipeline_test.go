package pipeline

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sartorproj/gridclean/clean"
	"github.com/sartorproj/gridclean/config"
	"github.com/sartorproj/gridclean/entsoe"
	"github.com/sartorproj/gridclean/report"
	"github.com/sartorproj/gridclean/timeseries"
)

var (
	start = time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	end   = start.Add(25 * time.Hour)
)

func testConfig() Config {
	smooth := clean.DefaultSmoothOptions()
	return Config{
		Start:       start,
		End:         end,
		MaxGap:      4,
		MinTimestep: 15 * time.Minute,
		Smooth:      &smooth,
		Spikes:      clean.PeakStrategy{Options: clean.DefaultDropOptions()},
		Workers:     3,
	}
}

// spiky returns 100 readings of 1.0 at 15 minutes with a spike at 50 and a
// short gap at 20..21.
func spiky(name string) *timeseries.Series {
	values := make([]float64, 100)
	for i := range values {
		values[i] = 1
	}
	values[50] = 5
	values[20], values[21] = math.NaN(), math.NaN()
	return timeseries.New(name, start, 15*time.Minute, values).DropNA()
}

func TestCleanSeries(t *testing.T) {
	p := New(testConfig(), WithLogger(zaptest.NewLogger(t)))
	m := report.Metrics{}

	out, err := p.CleanSeries(spiky("FI/Solar"), m)
	require.NoError(t, err)

	assert.Equal(t, 100, out.Len())
	assert.Equal(t, 15*time.Minute, out.Freq)
	for i := 0; i < 100; i++ {
		assert.InDelta(t, 1.0, out.Values[i], 1e-12, "index %d", i)
	}
	assert.Equal(t, 100.0, m[report.ExpandedLength])
	assert.InDelta(t, 0.98, m[report.OriginalCoverage], 1e-12)
	assert.Contains(t, m, report.RMSEOfFilter)
}

func TestCleanSeriesWithoutOptionalSteps(t *testing.T) {
	cfg := testConfig()
	cfg.Smooth = nil
	cfg.Spikes = nil
	p := New(cfg)
	m := report.Metrics{}

	out, err := p.CleanSeries(spiky("FI/Solar"), m)
	require.NoError(t, err)
	assert.Equal(t, 5.0, out.Values[50])
	assert.NotContains(t, m, report.RMSEOfFilter)
}

func TestCleanSeriesEmpty(t *testing.T) {
	p := New(testConfig())
	out, err := p.CleanSeries(&timeseries.Series{Name: "IE/Wind Offshore"}, nil)
	assert.ErrorIs(t, err, clean.ErrEmptySeries)
	assert.ErrorContains(t, err, "IE/Wind Offshore")
	require.NotNil(t, out)
	assert.Equal(t, 0, out.Len())

	nan := math.NaN()
	out, err = p.CleanSeries(timeseries.New("IE/Wind Offshore", start, 15*time.Minute, []float64{nan, nan}), nil)
	assert.ErrorIs(t, err, clean.ErrEmptySeries)
	assert.Equal(t, 2, out.Len())
}

func TestRun(t *testing.T) {
	fetcher := entsoe.FetcherFunc(func(ctx context.Context, q entsoe.Query) (*timeseries.Series, error) {
		switch q.Domain {
		case "XX":
			return nil, &entsoe.RetrievalError{Query: q, StatusCode: 503}
		case "GB":
			return timeseries.New(q.Name(), start, time.Hour, []float64{1, 2, 3, 4}), nil
		case "IE":
			return &timeseries.Series{Name: q.Name()}, nil
		}
		return spiky(q.Name()), nil
	})
	queries := []entsoe.Query{
		{Domain: "FI", GenType: "Solar"},
		{Domain: "SE", GenType: "Solar"},
		{Domain: "XX", GenType: "Solar"},
		{Domain: "GB", GenType: "Solar"},
		{Domain: "IE", GenType: "Wind Offshore"},
	}

	p := New(testConfig(), WithFetcher(fetcher), WithLogger(zaptest.NewLogger(t)))
	res, err := p.Run(context.Background(), queries)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, res.RunID)
	assert.Equal(t, []string{"FI/Solar", "SE/Solar"}, res.Table.Columns)
	assert.Equal(t, 100, res.Table.Len())
	assert.Equal(t, []string{"FI/Solar", "SE/Solar", "GB/Solar"}, res.Raw.Columns)
	assert.Equal(t, []string{"FI/Solar", "SE/Solar"}, res.Record.IDs())

	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, entsoe.ErrRetrieval)
	assert.ErrorIs(t, res.Err, clean.ErrFrequencyTooCoarse)
	assert.NotErrorIs(t, res.Err, clean.ErrEmptySeries, "a series without data is not a failure")

	var fe *clean.FrequencyError
	require.True(t, errors.As(res.Err, &fe))
	assert.Equal(t, "GB/Solar", fe.Name)
}

func TestRunLimitsWorkers(t *testing.T) {
	var (
		running, peak int32
		mu            sync.Mutex
	)
	fetcher := entsoe.FetcherFunc(func(ctx context.Context, q entsoe.Query) (*timeseries.Series, error) {
		n := atomic.AddInt32(&running, 1)
		mu.Lock()
		if n > peak {
			peak = n
		}
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return spiky(q.Name()), nil
	})

	var queries []entsoe.Query
	for _, area := range []string{"AT", "BE", "DE", "DK", "ES", "FI", "FR", "IT", "NL", "NO"} {
		queries = append(queries, entsoe.Query{Domain: area, GenType: "Solar"})
	}

	cfg := testConfig()
	cfg.Workers = 2
	res, err := New(cfg, WithFetcher(fetcher)).Run(context.Background(), queries)
	require.NoError(t, err)
	require.NoError(t, res.Err)
	assert.Len(t, res.Table.Columns, 10)
	assert.LessOrEqual(t, peak, int32(2))
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetcher := entsoe.FetcherFunc(func(ctx context.Context, q entsoe.Query) (*timeseries.Series, error) {
		cancel()
		<-ctx.Done()
		return nil, ctx.Err()
	})

	_, err := New(testConfig(), WithFetcher(fetcher)).Run(ctx, []entsoe.Query{
		{Domain: "FI", GenType: "Solar"},
		{Domain: "SE", GenType: "Solar"},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunRequiresFetcher(t *testing.T) {
	_, err := New(testConfig()).Run(context.Background(), nil)
	assert.Error(t, err)
}

func TestCleanTable(t *testing.T) {
	table := timeseries.NewTable()
	require.NoError(t, table.AddSeries(spiky("FI/Solar")))
	require.NoError(t, table.AddSeries(timeseries.New("SE/Solar", start, 30*time.Minute, []float64{2, 2, 2, 9, 2, 2, 2, 2})))

	cfg := testConfig()
	cfg.MinTimestep = time.Hour
	res, err := New(cfg).CleanTable(context.Background(), table)
	require.NoError(t, err)
	require.NoError(t, res.Err)

	assert.Equal(t, []string{"FI/Solar", "SE/Solar"}, res.Table.Columns)
	fi, _ := res.Table.Column("FI/Solar")
	assert.InDelta(t, 1.0, fi.Values[50], 1e-12)

	row, ok := res.Record.Get("SE/Solar")
	require.True(t, ok)
	assert.Equal(t, 50.0, row[report.ExpandedLength])
}

func TestFromConfig(t *testing.T) {
	c := config.Default()
	c.Spikes.Strategy = "rebound"
	c.Smooth.Enabled = false

	cfg, err := FromConfig(c)
	require.NoError(t, err)
	assert.True(t, cfg.Start.Equal(time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 4, cfg.MaxGap)
	assert.Nil(t, cfg.Smooth)
	assert.Equal(t, "rebound", cfg.Spikes.Name())
	assert.Equal(t, 4, cfg.Workers)

	c.Spikes.Strategy = "bogus"
	_, err = FromConfig(c)
	assert.Error(t, err)
}
