package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/sartorproj/gridclean/report"
	"github.com/sartorproj/gridclean/timeseries"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS series_values (
		label    TEXT NOT NULL,
		position INTEGER NOT NULL,
		name     TEXT NOT NULL,
		ts       INTEGER NOT NULL,
		value    REAL,
		PRIMARY KEY (label, name, ts)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_series_label ON series_values(label);`,
	`CREATE TABLE IF NOT EXISTS cleaning_stats (
		run_id TEXT NOT NULL,
		series TEXT NOT NULL,
		metric TEXT NOT NULL,
		value  REAL,
		PRIMARY KEY (run_id, series, metric)
	);`,
}

// SQLiteStore keeps tables and cleaning statistics in a SQLite database.
// Timestamps are stored as Unix nanoseconds and loaded in UTC.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenSQLite opens or creates the database at dsn and applies the schema.
func OpenSQLite(dsn string, logger *zap.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}
	db.SetMaxOpenConns(1)

	for _, q := range schema {
		if _, err := db.Exec(q); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save replaces everything stored under label with t.
func (s *SQLiteStore) Save(ctx context.Context, label string, t *timeseries.Table) error {
	if err := validateLabel(label); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM series_values WHERE label = ?`, label); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO series_values(label, position, name, ts, value) VALUES(?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for pos, name := range t.Columns {
		for i, ts := range t.Index {
			var value sql.NullFloat64
			if v := t.Data[name][i]; !math.IsNaN(v) {
				value = sql.NullFloat64{Float64: v, Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, label, pos, name, ts.UnixNano(), value); err != nil {
				return fmt.Errorf("insert %s/%s: %w", label, name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Debug("saved table", zap.String("label", label),
		zap.Int("columns", len(t.Columns)), zap.Int("rows", t.Len()))
	return nil
}

// Load restores the table saved under label, with its column order.
func (s *SQLiteStore) Load(ctx context.Context, label string) (*timeseries.Table, error) {
	if err := validateLabel(label); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, ts, value FROM series_values WHERE label = ? ORDER BY position, ts`, label)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	t := timeseries.NewTable()
	var current *timeseries.Series
	flush := func() error {
		if current == nil {
			return nil
		}
		return t.AddSeries(current)
	}

	for rows.Next() {
		var (
			column string
			ts     int64
			value  sql.NullFloat64
		)
		if err := rows.Scan(&column, &ts, &value); err != nil {
			return nil, err
		}
		if current == nil || current.Name != column {
			if err := flush(); err != nil {
				return nil, err
			}
			current = &timeseries.Series{Name: column}
		}
		v := math.NaN()
		if value.Valid {
			v = value.Float64
		}
		current.Timestamps = append(current.Timestamps, time.Unix(0, ts).UTC())
		current.Values = append(current.Values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}

	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, label)
	}
	return t, nil
}

// SaveReport stores every metric of r under runID.
func (s *SQLiteStore) SaveReport(ctx context.Context, runID uuid.UUID, r *report.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO cleaning_stats(run_id, series, metric, value) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, id := range r.IDs() {
		row, _ := r.Get(id)
		for metric, v := range row {
			var value sql.NullFloat64
			if !math.IsNaN(v) {
				value = sql.NullFloat64{Float64: v, Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, runID.String(), id, metric, value); err != nil {
				return fmt.Errorf("insert %s/%s: %w", id, metric, err)
			}
		}
	}
	return tx.Commit()
}

// LoadReport reads the statistics stored under runID.
func (s *SQLiteStore) LoadReport(ctx context.Context, runID uuid.UUID) (*report.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT series, metric, value FROM cleaning_stats WHERE run_id = ?`, runID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	r := report.NewRecord()
	found := false
	for rows.Next() {
		var (
			series, metric string
			value          sql.NullFloat64
		)
		if err := rows.Scan(&series, &metric, &value); err != nil {
			return nil, err
		}
		v := math.NaN()
		if value.Valid {
			v = value.Float64
		}
		r.Set(series, metric, v)
		found = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: run %s", ErrNotFound, runID)
	}
	return r, nil
}
