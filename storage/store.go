package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sartorproj/gridclean/timeseries"
)

var (
	// ErrInvalidLabel is returned for empty labels or labels containing path separators.
	ErrInvalidLabel = errors.New("invalid label")
	// ErrNotFound is returned when nothing has been saved under a label.
	ErrNotFound = errors.New("label not found")
)

// Store persists intermediate tables under a label.
type Store interface {
	Save(ctx context.Context, label string, t *timeseries.Table) error
	Load(ctx context.Context, label string) (*timeseries.Table, error)
}

func validateLabel(label string) error {
	if strings.TrimSpace(label) == "" || strings.ContainsAny(label, `/\`) || label == "." || label == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	return nil
}

// DirStore keeps one CSV file per label in Dir.
type DirStore struct {
	Dir string
}

// NewDirStore returns a store writing to dir.
func NewDirStore(dir string) *DirStore {
	return &DirStore{Dir: dir}
}

func (d *DirStore) path(label string) string {
	return filepath.Join(d.Dir, label+".csv")
}

// Save writes t to <Dir>/<label>.csv, creating Dir if needed.
func (d *DirStore) Save(ctx context.Context, label string, t *timeseries.Table) error {
	if err := validateLabel(label); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", d.Dir, err)
	}
	return timeseries.SaveTable(t, d.path(label))
}

// Load reads <Dir>/<label>.csv. Columns with no values are dropped.
func (d *DirStore) Load(ctx context.Context, label string) (*timeseries.Table, error) {
	if err := validateLabel(label); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := timeseries.LoadTable(d.path(label))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, label)
	}
	return t, err
}
