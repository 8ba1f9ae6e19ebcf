package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/vishnuk/fuelwatch/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS locations (
	id              TEXT PRIMARY KEY,
	display_name    TEXT NOT NULL,
	city            TEXT NOT NULL,
	club_url        TEXT NOT NULL,
	fuel_center_url TEXT NOT NULL DEFAULT '',
	known_address   TEXT NOT NULL DEFAULT '',
	source          TEXT NOT NULL DEFAULT 'registry',
	created_at      DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS price_history (
	id           TEXT PRIMARY KEY,
	location_id  TEXT NOT NULL REFERENCES locations(id),
	fuel_type    TEXT NOT NULL,
	price        REAL NOT NULL CHECK (price >= 0),
	observed_at  DATETIME NOT NULL,
	observed_day TEXT NOT NULL,
	origin       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS scraping_log (
	id            TEXT PRIMARY KEY,
	location_id   TEXT NOT NULL,
	attempted_at  DATETIME NOT NULL,
	attempted_day TEXT NOT NULL,
	outcome       TEXT NOT NULL,
	detail        TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_price_history_loc_time ON price_history(location_id, observed_at);
CREATE INDEX IF NOT EXISTS idx_price_history_day ON price_history(observed_day);
CREATE UNIQUE INDEX IF NOT EXISTS idx_price_history_live_day
	ON price_history(location_id, fuel_type, observed_day) WHERE origin = 'live';
CREATE INDEX IF NOT EXISTS idx_scraping_log_day ON scraping_log(attempted_day);
CREATE INDEX IF NOT EXISTS idx_scraping_log_location ON scraping_log(location_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AppendObservation writes one observation. Live-origin rows are subject to
// the one-per-(location, fuel, day) invariant; the partial unique index makes
// the check race-safe under concurrent writers.
func (s *SQLiteStore) AppendObservation(ctx context.Context, obs model.PriceObservation) (*model.PriceObservation, error) {
	if err := obs.Validate(); err != nil {
		return nil, err
	}
	if obs.ID == "" {
		obs.ID = uuid.New().String()
	}
	if obs.ObservedAt.IsZero() {
		obs.ObservedAt = time.Now().UTC()
	}
	obs.ObservedAt = obs.ObservedAt.UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO price_history (id, location_id, fuel_type, price, observed_at, observed_day, origin)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		obs.ID, obs.LocationID, string(obs.FuelType), obs.Price, obs.ObservedAt, obs.Day(), string(obs.Origin),
	)
	if err != nil {
		if obs.Origin == model.OriginLive && isUniqueViolation(err) {
			return nil, eris.Wrapf(ErrDuplicateLive, "%s/%s on %s", obs.LocationID, obs.FuelType, obs.Day())
		}
		return nil, eris.Wrap(err, "sqlite: append observation")
	}
	return &obs, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Latest returns the most recent observation per fuel type, any origin.
func (s *SQLiteStore) Latest(ctx context.Context, locationID string) (map[model.FuelType]model.PriceObservation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, location_id, fuel_type, price, observed_at, origin
		 FROM price_history WHERE location_id = ?
		 ORDER BY observed_at DESC, id`,
		locationID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: latest")
	}
	defer rows.Close()

	latest := make(map[model.FuelType]model.PriceObservation)
	for rows.Next() {
		obs, err := scanObservation(rows)
		if err != nil {
			return nil, err
		}
		if _, seen := latest[obs.FuelType]; !seen {
			latest[obs.FuelType] = *obs
		}
	}
	return latest, eris.Wrap(rows.Err(), "sqlite: latest iterate")
}

// History returns observations in a time window ordered by
// (location_id, observed_at) ascending.
func (s *SQLiteStore) History(ctx context.Context, filter HistoryFilter) ([]model.PriceObservation, error) {
	query := `SELECT id, location_id, fuel_type, price, observed_at, origin FROM price_history WHERE 1=1`
	var args []any

	if filter.LocationID != "" {
		query += ` AND location_id = ?`
		args = append(args, filter.LocationID)
	}
	if !filter.Since.IsZero() {
		query += ` AND observed_at >= ?`
		args = append(args, filter.Since.UTC())
	}
	if !filter.Until.IsZero() {
		query += ` AND observed_at <= ?`
		args = append(args, filter.Until.UTC())
	}
	query += ` ORDER BY location_id, observed_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: history")
	}
	defer rows.Close()

	var out []model.PriceObservation
	for rows.Next() {
		obs, err := scanObservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *obs)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: history iterate")
}

// HasLiveObservation reports whether a live row exists for the calendar day.
func (s *SQLiteStore) HasLiveObservation(ctx context.Context, locationID string, fuel model.FuelType, day string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM price_history
		 WHERE location_id = ? AND fuel_type = ? AND observed_day = ? AND origin = 'live'`,
		locationID, string(fuel), day,
	).Scan(&n)
	if err != nil {
		return false, eris.Wrap(err, "sqlite: has live observation")
	}
	return n > 0, nil
}

// LogAttempt appends one audit row. Audit data is never rejected.
func (s *SQLiteStore) LogAttempt(ctx context.Context, attempt model.ScrapeAttempt) error {
	if attempt.ID == "" {
		attempt.ID = uuid.New().String()
	}
	if attempt.AttemptedAt.IsZero() {
		attempt.AttemptedAt = time.Now().UTC()
	}
	attempt.AttemptedAt = attempt.AttemptedAt.UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scraping_log (id, location_id, attempted_at, attempted_day, outcome, detail)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		attempt.ID, attempt.LocationID, attempt.AttemptedAt,
		attempt.AttemptedAt.Format("2006-01-02"), string(attempt.Outcome), attempt.Detail,
	)
	return eris.Wrap(err, "sqlite: log attempt")
}

// AttemptStats summarizes the scraping log for one calendar day.
func (s *SQLiteStore) AttemptStats(ctx context.Context, day string) (*AttemptStats, error) {
	var stats AttemptStats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) AS attempts,
		        COALESCE(SUM(CASE WHEN outcome = 'success' THEN 1 ELSE 0 END), 0) AS succeeded,
		        COALESCE(SUM(CASE WHEN outcome != 'success' THEN 1 ELSE 0 END), 0) AS failed,
		        COUNT(DISTINCT location_id) AS locations
		 FROM scraping_log WHERE attempted_day = ?`,
		day,
	).Scan(&stats.Attempts, &stats.Succeeded, &stats.Failed, &stats.LocationsAttempted)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: attempt stats")
	}
	return &stats, nil
}

// UpsertLocation inserts or refreshes a catalog row.
func (s *SQLiteStore) UpsertLocation(ctx context.Context, loc model.Location) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	created := loc.CreatedAt
	if created.IsZero() {
		created = now
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO locations (id, display_name, city, club_url, fuel_center_url, known_address, source, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		 	display_name = excluded.display_name,
		 	city = excluded.city,
		 	club_url = excluded.club_url,
		 	fuel_center_url = excluded.fuel_center_url,
		 	known_address = excluded.known_address,
		 	source = excluded.source,
		 	updated_at = excluded.updated_at`,
		loc.ID, loc.DisplayName, loc.City, loc.ClubURL, loc.FuelCenterURL,
		loc.KnownAddress, string(loc.Source), created, now,
	)
	return eris.Wrapf(err, "sqlite: upsert location %s", loc.ID)
}

// GetLocation returns one catalog row, or nil when absent.
func (s *SQLiteStore) GetLocation(ctx context.Context, id string) (*model.Location, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, display_name, city, club_url, fuel_center_url, known_address, source, created_at, updated_at
		 FROM locations WHERE id = ?`,
		id,
	)
	loc, err := scanLocation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return loc, err
}

// ListLocations returns the full catalog ordered by id.
func (s *SQLiteStore) ListLocations(ctx context.Context) ([]model.Location, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, display_name, city, club_url, fuel_center_url, known_address, source, created_at, updated_at
		 FROM locations ORDER BY id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list locations")
	}
	defer rows.Close()

	var out []model.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *loc)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list locations iterate")
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

func scanObservation(row scannable) (*model.PriceObservation, error) {
	var obs model.PriceObservation
	var fuel, origin string
	if err := row.Scan(&obs.ID, &obs.LocationID, &fuel, &obs.Price, &obs.ObservedAt, &origin); err != nil {
		return nil, eris.Wrap(err, "sqlite: scan observation")
	}
	obs.FuelType = model.FuelType(fuel)
	obs.Origin = model.Origin(origin)
	obs.ObservedAt = obs.ObservedAt.UTC()
	return &obs, nil
}

func scanLocation(row scannable) (*model.Location, error) {
	var loc model.Location
	var source string
	err := row.Scan(&loc.ID, &loc.DisplayName, &loc.City, &loc.ClubURL,
		&loc.FuelCenterURL, &loc.KnownAddress, &source, &loc.CreatedAt, &loc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan location")
	}
	loc.Source = model.LocationSource(source)
	return &loc, nil
}
