package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sartorproj/gridclean/clean"
	"github.com/sartorproj/gridclean/countries"
	"github.com/sartorproj/gridclean/entsoe"
)

// APIKeyEnv is the environment variable holding the Transparency Platform key.
const APIKeyEnv = "ENTSOE_APIKEY"

const dateLayout = "2006-01-02"

// Config is the configuration of a cleaning run.
type Config struct {
	Start       string        `yaml:"start"`        // First day, YYYY-MM-DD
	End         string        `yaml:"end"`          // Day after the last, YYYY-MM-DD
	Timezone    string        `yaml:"timezone"`     // IANA zone of the output index
	MaxGap      int           `yaml:"max_gap"`      // Missing readings filled per gap, 0 for no limit
	MinTimestep time.Duration `yaml:"min_timestep"` // Coarsest accepted resolution
	Kind        string        `yaml:"kind"`         // generation, load, forecast or capacity
	Areas       []string      `yaml:"areas"`        // Area names or codes
	GenTypes    []string      `yaml:"gen_types"`
	Workers     int           `yaml:"workers"`

	Smooth  SmoothConfig  `yaml:"smooth"`
	Spikes  SpikeConfig   `yaml:"spikes"`
	Storage StorageConfig `yaml:"storage"`

	APIKey string `yaml:"-"`
}

// SmoothConfig configures the median smoother.
type SmoothConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Window       int     `yaml:"window"`
	SecondPass   bool    `yaml:"second_pass"`
	SecondWindow int     `yaml:"second_window"`
	Quantile     float64 `yaml:"quantile"`
}

// SpikeConfig selects and configures the spike remover.
type SpikeConfig struct {
	Strategy   string  `yaml:"strategy"` // none, drops, peaks or rebound
	ZThreshold float64 `yaml:"z_threshold"`
	TwoPass    bool    `yaml:"two_pass"`
	// PeakThreshold fixes the spike depth instead of deriving it, 0 to derive.
	PeakThreshold float64 `yaml:"peak_threshold"`
	Quantile      float64 `yaml:"quantile"`
	Tolerance     float64 `yaml:"tolerance"`
}

// StorageConfig says where intermediate tables go.
type StorageConfig struct {
	Dir    string `yaml:"dir"`    // CSV directory, empty to skip
	SQLite string `yaml:"sqlite"` // database file, empty to skip
}

// Default returns the configuration of the 2018 European wind and solar run.
func Default() *Config {
	areas := make([]string, len(countries.Areas))
	for i, a := range countries.Areas {
		areas[i] = a.Code
	}
	drop := clean.DefaultDropOptions()
	rebound := clean.DefaultReboundOptions()
	smooth := clean.DefaultSmoothOptions()

	return &Config{
		Start:       "2018-01-01",
		End:         "2019-01-01",
		Timezone:    "UTC",
		MaxGap:      clean.MaxGapToFill,
		MinTimestep: 15 * time.Minute,
		Kind:        entsoe.Generation.String(),
		Areas:       areas,
		GenTypes:    []string{"Solar", "Wind Onshore", "Wind Offshore"},
		Workers:     4,
		Smooth: SmoothConfig{
			Enabled:  true,
			Window:   smooth.Window,
			Quantile: smooth.Quantile,
		},
		Spikes: SpikeConfig{
			Strategy:   "peaks",
			ZThreshold: drop.ZThreshold,
			Quantile:   rebound.Quantile,
			Tolerance:  rebound.Tolerance,
		},
		Storage: StorageConfig{Dir: "data/intermediate"},
	}
}

// Load reads a YAML file over the defaults. Unknown keys are an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadEnv reads the API key from the given dotenv files, or ".env" when none
// are named, falling back to the process environment. Missing files are skipped.
func (c *Config) LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	c.APIKey = os.Getenv(APIKeyEnv)
	return nil
}

// Location loads the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Period returns the start and end of the run in the configured time zone.
func (c *Config) Period() (time.Time, time.Time, error) {
	loc, err := c.Location()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, err := time.ParseInLocation(dateLayout, c.Start, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start: %w", err)
	}
	end, err := time.ParseInLocation(dateLayout, c.End, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end: %w", err)
	}
	return start, end, nil
}

// SmoothOptions returns the smoother options, or nil when smoothing is off.
func (c *Config) SmoothOptions() *clean.SmoothOptions {
	if !c.Smooth.Enabled {
		return nil
	}
	return &clean.SmoothOptions{
		Window:       c.Smooth.Window,
		SecondPass:   c.Smooth.SecondPass,
		SecondWindow: c.Smooth.SecondWindow,
		Quantile:     c.Smooth.Quantile,
	}
}

// Strategy returns the configured spike remover, or nil for none.
func (c *Config) Strategy() (clean.Strategy, error) {
	return clean.ParseStrategy(c.Spikes.Strategy,
		clean.DropOptions{
			ZThreshold:    c.Spikes.ZThreshold,
			TwoPass:       c.Spikes.TwoPass,
			PeakThreshold: c.Spikes.PeakThreshold,
		},
		clean.ReboundOptions{Quantile: c.Spikes.Quantile, Tolerance: c.Spikes.Tolerance})
}

// Queries lists one query per area and generation type, or one per area for load.
func (c *Config) Queries() ([]entsoe.Query, error) {
	kind, err := entsoe.ParseKind(c.Kind)
	if err != nil {
		return nil, err
	}
	start, end, err := c.Period()
	if err != nil {
		return nil, err
	}

	var queries []entsoe.Query
	for _, area := range c.Areas {
		domain := countries.Code(area)
		if kind == entsoe.Load {
			queries = append(queries, entsoe.Query{Kind: kind, Domain: domain, Start: start, End: end})
			continue
		}
		for _, g := range c.GenTypes {
			queries = append(queries, entsoe.Query{Kind: kind, Domain: domain, GenType: g, Start: start, End: end})
		}
	}
	return queries, nil
}

// Validate reports every problem in the configuration.
func (c *Config) Validate() error {
	var result *multierror.Error

	if start, end, err := c.Period(); err != nil {
		result = multierror.Append(result, err)
	} else if !end.After(start) {
		result = multierror.Append(result, fmt.Errorf("end %s is not after start %s", c.End, c.Start))
	}
	if c.MaxGap < 0 {
		result = multierror.Append(result, fmt.Errorf("max_gap must not be negative, got %d", c.MaxGap))
	}
	if c.MinTimestep < 0 {
		result = multierror.Append(result, fmt.Errorf("min_timestep must not be negative, got %v", c.MinTimestep))
	}
	if c.Workers < 1 {
		result = multierror.Append(result, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	kind, err := entsoe.ParseKind(c.Kind)
	if err != nil {
		result = multierror.Append(result, err)
	}

	if len(c.Areas) == 0 {
		result = multierror.Append(result, errors.New("no areas"))
	}
	for _, area := range c.Areas {
		if _, ok := entsoe.EIC(countries.Code(area)); !ok {
			result = multierror.Append(result, fmt.Errorf("unknown area %q", area))
		}
	}
	if kind != entsoe.Load {
		if len(c.GenTypes) == 0 {
			result = multierror.Append(result, errors.New("no generation types"))
		}
		for _, g := range c.GenTypes {
			if _, ok := entsoe.PSRType(g); !ok {
				result = multierror.Append(result, fmt.Errorf("unknown generation type %q", g))
			}
		}
	}

	if c.Smooth.Enabled {
		if c.Smooth.Window < 1 || c.Smooth.Window%2 == 0 {
			result = multierror.Append(result, fmt.Errorf("smooth.window must be odd and positive, got %d", c.Smooth.Window))
		}
		if q := c.Smooth.Quantile; q < 0 || q >= 0.5 {
			result = multierror.Append(result, fmt.Errorf("smooth.quantile must be in [0, 0.5), got %v", q))
		}
	}
	if _, err := c.Strategy(); err != nil {
		result = multierror.Append(result, err)
	}
	if c.Spikes.ZThreshold < 0 {
		result = multierror.Append(result, fmt.Errorf("spikes.z_threshold must not be negative, got %v", c.Spikes.ZThreshold))
	}
	if c.Spikes.PeakThreshold < 0 {
		result = multierror.Append(result, fmt.Errorf("spikes.peak_threshold must not be negative, got %v", c.Spikes.PeakThreshold))
	}

	return result.ErrorOrNil()
}
