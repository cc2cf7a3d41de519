package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/i474232898/weather-map/internal/logging"
	"github.com/i474232898/weather-map/internal/weather"
)

const schema = `
CREATE TABLE IF NOT EXISTS weather_summary (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	profile_text TEXT,
	fetch_time TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS daily_forecasts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	location TEXT,
	date TEXT,
	weather TEXT,
	max_temp TEXT,
	min_temp TEXT,
	fetch_time TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_daily_forecasts_location_date
	ON daily_forecasts(location, date);
`

// SQLiteStore implements weather.Store on the crawler database (pure Go
// driver modernc.org/sqlite). Databases written by earlier crawlers are read
// as-is; the run_id column is added when missing.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and applies the schema.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Single writer; avoids SQLITE_BUSY between crawler goroutines.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		logging.Warnf("could not set WAL mode: %v", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s := &SQLiteStore{db: db}
	for _, table := range []string{"weather_summary", "daily_forecasts"} {
		if err := s.ensureColumn(table, "run_id", "TEXT"); err != nil {
			db.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *SQLiteStore) ensureColumn(table, column, decl string) error {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		// cid, name, type, notnull, dflt_value, pk
		if name, ok := vals[1].(string); ok && name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	_, err = s.db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl))
	if err != nil {
		return fmt.Errorf("add %s.%s: %w", table, column, err)
	}
	return nil
}

// SaveRun stores the profile and every record of run in one transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, run weather.Run) (err error) {
	fetched := run.FetchedAt.UTC().Format(fetchTimeLayout)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if run.Profile != "" {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO weather_summary(run_id, profile_text, fetch_time) VALUES(?,?,?)`,
			run.ID, run.Profile, fetched); err != nil {
			return err
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO daily_forecasts(run_id, location, date, weather, max_temp, min_temp, fetch_time) VALUES(?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range run.Records {
		if _, err = stmt.ExecContext(ctx, run.ID, r.Location, r.Date, r.Weather,
			tempText(r.MaxTemp), tempText(r.MinTemp), fetched); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Locations(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT location FROM daily_forecasts WHERE location IS NOT NULL ORDER BY location`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Forecasts returns the newest row per date for location, ordered by date.
func (s *SQLiteStore) Forecasts(ctx context.Context, location string) ([]weather.ForecastDay, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, COALESCE(weather, ''),
		       NULLIF(TRIM(max_temp), ''), NULLIF(TRIM(min_temp), ''),
		       COALESCE(CAST(fetch_time AS TEXT), '')
		FROM daily_forecasts d
		WHERE location = ?
		  AND id = (SELECT MAX(id) FROM daily_forecasts
		            WHERE location = d.location AND date = d.date)
		ORDER BY date`, location)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]weather.ForecastDay, 0)
	for rows.Next() {
		var (
			f          weather.ForecastDay
			maxT, minT sql.NullFloat64
		)
		if err := rows.Scan(&f.Date, &f.Weather, &maxT, &minT, &f.FetchTime); err != nil {
			return nil, err
		}
		if maxT.Valid {
			f.MaxTemp = weather.Temp(maxT.Float64)
		}
		if minT.Valid {
			f.MinTemp = weather.Temp(minT.Float64)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) LatestProfile(ctx context.Context) (string, error) {
	var profile string
	err := s.db.QueryRowContext(ctx,
		`SELECT profile_text FROM weather_summary WHERE profile_text <> '' ORDER BY id DESC LIMIT 1`).Scan(&profile)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return profile, err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func tempText(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return fmt.Sprintf("%g", *v)
}
