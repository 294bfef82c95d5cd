package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sartorproj/gridclean/clean"
	"github.com/sartorproj/gridclean/config"
	"github.com/sartorproj/gridclean/entsoe"
	"github.com/sartorproj/gridclean/report"
	"github.com/sartorproj/gridclean/timeseries"
)

// Config holds the cleaning parameters applied to every series.
type Config struct {
	Start       time.Time
	End         time.Time
	Location    *time.Location       // Output time zone (default: UTC)
	MaxGap      int                  // Consecutive missing readings filled per gap, 0 for no limit
	MinTimestep time.Duration        // Coarsest accepted resolution, 0 to skip the check
	Smooth      *clean.SmoothOptions // Median smoothing, nil to skip
	Spikes      clean.Strategy       // Spike removal, nil to skip
	Workers     int                  // Series processed at once (default: 1)
}

// FromConfig converts a loaded run configuration.
func FromConfig(c *config.Config) (Config, error) {
	start, end, err := c.Period()
	if err != nil {
		return Config{}, err
	}
	loc, err := c.Location()
	if err != nil {
		return Config{}, err
	}
	strategy, err := c.Strategy()
	if err != nil {
		return Config{}, err
	}
	return Config{
		Start:       start,
		End:         end,
		Location:    loc,
		MaxGap:      c.MaxGap,
		MinTimestep: c.MinTimestep,
		Smooth:      c.SmoothOptions(),
		Spikes:      strategy,
		Workers:     c.Workers,
	}, nil
}

// Result is the outcome of one cleaning run.
type Result struct {
	RunID  uuid.UUID
	Raw    *timeseries.Table // series as retrieved
	Table  *timeseries.Table // cleaned series
	Record *report.Record
	Err    error // failures of individual series, nil if every series succeeded
}

// Pipeline retrieves and cleans series.
type Pipeline struct {
	cfg     Config
	fetcher entsoe.Fetcher
	logger  *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithFetcher sets where Run retrieves series from.
func WithFetcher(f entsoe.Fetcher) Option {
	return func(p *Pipeline) { p.fetcher = f }
}

// New creates a pipeline.
func New(cfg Config, opts ...Option) *Pipeline {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	p := &Pipeline{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CleanSeries expands s onto the configured grid, then smooths it and removes
// spikes when those steps are configured. Statistics are written to m.
// A series without real readings is returned as it is, together with an
// error wrapping clean.ErrEmptySeries.
func (p *Pipeline) CleanSeries(s *timeseries.Series, m report.Metrics) (*timeseries.Series, error) {
	log := p.logger.With(zap.String("series", s.Name))

	if ce := log.Check(zap.DebugLevel, "filling gaps"); ce != nil {
		ce.Write(
			zap.Int("points", s.Len()),
			zap.Float64("mean", s.Mean()),
			zap.Float64("std", s.Std()),
			zap.Float64("min", s.Min()),
			zap.Float64("max", s.Max()))
	}
	out, err := clean.Expand(s, clean.ExpandOptions{
		Start:       p.cfg.Start,
		End:         p.cfg.End,
		Location:    p.cfg.Location,
		MaxGap:      p.cfg.MaxGap,
		MinTimestep: p.cfg.MinTimestep,
	}, m)
	if err != nil {
		return nil, err
	}
	if out.Len()-out.CountNaN() == 0 {
		return out, fmt.Errorf("%w: %s", clean.ErrEmptySeries, s.Name)
	}

	if p.cfg.Smooth != nil {
		log.Debug("smoothing", zap.Int("window", p.cfg.Smooth.Window))
		if out, err = clean.Smooth(out, *p.cfg.Smooth, m); err != nil {
			return nil, err
		}
	}
	if p.cfg.Spikes != nil {
		log.Debug("removing spikes", zap.String("strategy", p.cfg.Spikes.Name()))
		if out, err = p.cfg.Spikes.Apply(out, m); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Run retrieves and cleans every query. A failed series is reported in
// Result.Err and does not stop the others; the returned error is set only
// when ctx ends the run.
func (p *Pipeline) Run(ctx context.Context, queries []entsoe.Query) (*Result, error) {
	if p.fetcher == nil {
		return nil, errors.New("pipeline: no fetcher configured")
	}
	jobs := make([]job, len(queries))
	for i, q := range queries {
		q := q
		jobs[i] = job{
			name: q.Name(),
			load: func(ctx context.Context) (*timeseries.Series, error) {
				return p.fetcher.Fetch(ctx, q)
			},
		}
	}
	return p.run(ctx, jobs)
}

// CleanTable cleans every column of a table that was retrieved earlier.
func (p *Pipeline) CleanTable(ctx context.Context, t *timeseries.Table) (*Result, error) {
	jobs := make([]job, len(t.Columns))
	for i, name := range t.Columns {
		name := name
		jobs[i] = job{
			name: name,
			load: func(context.Context) (*timeseries.Series, error) {
				s, _ := t.Column(name)
				return s, nil
			},
		}
	}
	return p.run(ctx, jobs)
}

type job struct {
	name string
	load func(context.Context) (*timeseries.Series, error)
}

// outcome is written by exactly one worker.
type outcome struct {
	raw     *timeseries.Series
	cleaned *timeseries.Series
	metrics report.Metrics
	err     error
}

func (p *Pipeline) run(ctx context.Context, jobs []job) (*Result, error) {
	runID := uuid.New()
	log := p.logger.With(zap.Stringer("run", runID))
	log.Info("starting run", zap.Int("series", len(jobs)), zap.Int("workers", p.cfg.Workers))

	outcomes := make([]outcome, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)

	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			raw, err := j.load(gctx)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				outcomes[i].err = err
				return nil
			}
			if raw.Name == "" {
				raw.Name = j.name
			}
			m := report.Metrics{}
			cleaned, err := p.CleanSeries(raw, m)
			if errors.Is(err, clean.ErrEmptySeries) {
				log.Info("no data", zap.String("series", j.name))
				err = nil
			}
			outcomes[i] = outcome{raw: raw, cleaned: cleaned, metrics: m, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn("run aborted", zap.Error(err))
		return nil, err
	}

	res := &Result{
		RunID:  runID,
		Raw:    timeseries.NewTable(),
		Table:  timeseries.NewTable(),
		Record: report.NewRecord(),
	}
	var errs *multierror.Error
	for i, o := range outcomes {
		name := jobs[i].name
		if o.raw != nil && o.raw.Len() > 0 {
			if err := res.Raw.AddSeries(o.raw); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
		if o.err != nil {
			log.Warn("series failed", zap.String("series", name), zap.Error(o.err))
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", name, o.err))
			continue
		}
		if len(o.metrics) > 0 {
			res.Record.Merge(name, o.metrics)
		}
		if o.cleaned.Len() > 0 {
			if err := res.Table.AddSeries(o.cleaned); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
	}
	res.Table.DropEmptyColumns()
	res.Err = errs.ErrorOrNil()

	log.Info("run finished",
		zap.Int("cleaned", len(res.Table.Columns)),
		zap.Int("failed", len(errs.WrappedErrors())))
	return res, nil
}
