// Package main downloads ENTSO-E generation data, cleans it and reports
// statistics about the cleaning.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/sartorproj/gridclean/capacity"
	"github.com/sartorproj/gridclean/config"
	"github.com/sartorproj/gridclean/entsoe"
	"github.com/sartorproj/gridclean/pipeline"
	"github.com/sartorproj/gridclean/report"
	"github.com/sartorproj/gridclean/storage"
	"github.com/sartorproj/gridclean/timeseries"
)

// Options are the command line settings.
type Options struct {
	ConfigPath   string // YAML run configuration (optional)
	EnvFile      string // dotenv file with ENTSOE_APIKEY
	Input        string // clean a stored table instead of downloading
	Label        string // label prefix of stored tables
	CapacityPath string // cumulative capacity table for capacity factors
	JSONLogs     bool
	Verbose      bool
}

func parseFlags() Options {
	var o Options
	flag.StringVar(&o.ConfigPath, "config", "", "run configuration (YAML)")
	flag.StringVar(&o.EnvFile, "env", ".env", "dotenv file holding "+config.APIKeyEnv)
	flag.StringVar(&o.Input, "input", "", "label of a stored raw table to clean instead of downloading")
	flag.StringVar(&o.Label, "label", "gen_data", "label prefix of the stored tables")
	flag.StringVar(&o.CapacityPath, "capacity", "", "cumulative wind capacity table (CSV) for capacity factors")
	flag.BoolVar(&o.JSONLogs, "json", false, "log as JSON")
	flag.BoolVar(&o.Verbose, "v", false, "log every cleaning step")
	flag.Parse()
	return o
}

func main() {
	os.Exit(realMain(parseFlags()))
}

// realMain returns the exit code once every deferred cleanup has run.
func realMain(opts Options) int {
	logger, err := newLogger(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		logger.Error("run failed", zap.Error(err))
		return 1
	}
	return 0
}

func newLogger(opts Options) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if opts.JSONLogs {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level.SetLevel(zap.InfoLevel)
	if opts.Verbose {
		cfg.Level.SetLevel(zap.DebugLevel)
	}
	return cfg.Build()
}

func loadConfig(opts Options) (*config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.LoadEnv(opts.EnvFile); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, opts Options, logger *zap.Logger) error {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("gridclean - ENTSO-E time series cleaning")
	fmt.Println(strings.Repeat("=", 80))

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	pcfg, err := pipeline.FromConfig(cfg)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var res *pipeline.Result
	if opts.Input != "" {
		fmt.Printf("\n[1/3] Cleaning stored table %q\n", opts.Input)
		if store == nil {
			return errors.New("-input needs storage.dir or storage.sqlite in the configuration")
		}
		raw, err := store.Load(ctx, opts.Input)
		if err != nil {
			return err
		}
		res, err = pipeline.New(pcfg, pipeline.WithLogger(logger)).CleanTable(ctx, raw)
		if err != nil {
			return err
		}
	} else {
		queries, err := cfg.Queries()
		if err != nil {
			return err
		}
		fmt.Printf("\n[1/3] Downloading and cleaning %d series\n", len(queries))
		client, err := entsoe.NewClient(cfg.APIKey, entsoe.WithLogger(logger))
		if err != nil {
			return err
		}
		p := pipeline.New(pcfg, pipeline.WithFetcher(client), pipeline.WithLogger(logger))
		if res, err = p.Run(ctx, queries); err != nil {
			return err
		}
	}
	if res.Err != nil {
		logger.Warn("some series were not cleaned", zap.Error(res.Err))
	}

	fmt.Printf("\n[2/3] Saving results of run %s\n", res.RunID)
	if err := save(ctx, store, opts, cfg, res); err != nil {
		return err
	}

	fmt.Printf("\n[3/3] Statistics\n\n")
	for _, name := range res.Table.Columns {
		s, _ := res.Table.Column(name)
		fmt.Printf("   %s: %d readings (%.2f to %.2f, median %.2f)\n",
			name, s.Len()-s.CountNaN(), s.Min(), s.Max(), s.Median())
	}
	fmt.Println()
	if err := res.Record.WriteText(os.Stdout); err != nil {
		return err
	}
	fmt.Println()
	if err := report.Describe(os.Stdout, res.Table); err != nil {
		return err
	}

	if opts.CapacityPath != "" {
		cf, err := capacityFactors(opts.CapacityPath, res.Table)
		if err != nil {
			return err
		}
		if store != nil && len(cf.Columns) > 0 {
			if err := store.Save(ctx, opts.Label+"_cf", cf); err != nil {
				return err
			}
		}
		fmt.Println()
		if err := report.DescribeValues(cf).WriteText(os.Stdout); err != nil {
			return err
		}
	}

	fmt.Println(strings.Repeat("=", 80))
	return nil
}

func openStore(cfg *config.Config, logger *zap.Logger) (storage.Store, func(), error) {
	switch {
	case cfg.Storage.SQLite != "":
		db, err := storage.OpenSQLite(cfg.Storage.SQLite, logger)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	case cfg.Storage.Dir != "":
		return storage.NewDirStore(cfg.Storage.Dir), func() {}, nil
	default:
		return nil, func() {}, nil
	}
}

func save(ctx context.Context, store storage.Store, opts Options, cfg *config.Config, res *pipeline.Result) error {
	if store == nil {
		fmt.Println("   No storage configured, skipping")
		return nil
	}
	if opts.Input == "" {
		if err := store.Save(ctx, opts.Label+"_raw", res.Raw); err != nil {
			return err
		}
	}
	if err := store.Save(ctx, opts.Label+"_clean", res.Table); err != nil {
		return err
	}

	if db, ok := store.(*storage.SQLiteStore); ok {
		return db.SaveReport(ctx, res.RunID, res.Record)
	}

	path := filepath.Join(cfg.Storage.Dir, opts.Label+"_stats.csv")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := res.Record.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	fmt.Printf("   Saved %d cleaned series and statistics to %s\n", len(res.Table.Columns), cfg.Storage.Dir)
	return f.Close()
}

// capacityFactors divides every wind column by the daily installed capacity
// of its area.
func capacityFactors(path string, cleaned *timeseries.Table) (*timeseries.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := capacity.ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	out := timeseries.NewTable()
	for _, tech := range []capacity.Technology{capacity.Onshore, capacity.Offshore} {
		points := capacity.Points(entries, tech)
		for _, name := range cleaned.Columns {
			area, genType, ok := strings.Cut(name, "/")
			if !ok || genType != "Wind "+string(tech) {
				continue
			}
			p, ok := points[area]
			if !ok {
				continue
			}
			gen, _ := cleaned.Column(name)
			if err := out.AddSeries(capacity.Factor(gen, capacity.Daily(area, p))); err != nil {
				return nil, err
			}
		}
	}
	out.DropEmptyColumns()
	return out, nil
}
