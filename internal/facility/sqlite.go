package facility

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/hannesill/oasis/pkg/geocode"
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
CREATE TABLE IF NOT EXISTS facilities (
	unique_id             TEXT PRIMARY KEY,
	name                  TEXT NOT NULL,
	city                  TEXT NOT NULL DEFAULT '',
	region                TEXT NOT NULL DEFAULT '',
	address_line1         TEXT NOT NULL DEFAULT '',
	facility_type         TEXT NOT NULL DEFAULT '',
	specialties           TEXT NOT NULL DEFAULT '[]',
	procedures            TEXT NOT NULL DEFAULT '[]',
	equipment             TEXT NOT NULL DEFAULT '[]',
	capabilities          TEXT NOT NULL DEFAULT '[]',
	description           TEXT NOT NULL DEFAULT '',
	phone                 TEXT NOT NULL DEFAULT '',
	lat                   REAL,
	lng                   REAL,
	geocode_status        TEXT NOT NULL DEFAULT 'unresolved',
	geocode_location_type TEXT NOT NULL DEFAULT '',
	geocode_query         TEXT NOT NULL DEFAULT '',
	updated_at            DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_facilities_region ON facilities(region);
CREATE INDEX IF NOT EXISTS idx_facilities_status ON facilities(geocode_status);
CREATE INDEX IF NOT EXISTS idx_facilities_type ON facilities(facility_type);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const facilityColumns = `unique_id, name, city, region, address_line1, facility_type,
	specialties, procedures, equipment, capabilities, description, phone,
	lat, lng, geocode_status, geocode_location_type, geocode_query`

func (s *SQLiteStore) Insert(ctx context.Context, facilities []Facility) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin insert")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO facilities (`+facilityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (unique_id) DO UPDATE SET
			name = excluded.name,
			city = excluded.city,
			region = excluded.region,
			address_line1 = excluded.address_line1,
			facility_type = excluded.facility_type,
			specialties = excluded.specialties,
			procedures = excluded.procedures,
			equipment = excluded.equipment,
			capabilities = excluded.capabilities,
			description = excluded.description,
			phone = excluded.phone,
			lat = excluded.lat,
			lng = excluded.lng,
			geocode_status = excluded.geocode_status,
			geocode_location_type = excluded.geocode_location_type,
			geocode_query = excluded.geocode_query,
			updated_at = datetime('now')`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close() //nolint:errcheck

	for _, f := range facilities {
		status := f.GeocodeStatus
		if status == "" {
			status = geocode.StatusUnresolved
		}
		_, err := stmt.ExecContext(ctx,
			f.ID, f.Name, f.City, f.Region, f.AddressLine, f.FacilityType,
			marshalList(f.Specialties), marshalList(f.Procedures),
			marshalList(f.Equipment), marshalList(f.Capabilities),
			f.Description, f.Phone,
			f.Lat, f.Lng, string(status), f.GeocodeLocationType, f.GeocodeQuery,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert facility %s", f.ID)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit insert")
}

func (s *SQLiteStore) Search(ctx context.Context, f Filter) ([]Facility, error) {
	where, args := buildFilterSQL(f)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+facilityColumns+` FROM facilities WHERE 1=1`+where+` ORDER BY name`,
		args...,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: search facilities")
	}
	defer rows.Close() //nolint:errcheck
	return scanFacilities(rows)
}

func (s *SQLiteStore) ListUnresolved(ctx context.Context) ([]Facility, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+facilityColumns+` FROM facilities WHERE geocode_status = ? ORDER BY unique_id`,
		string(geocode.StatusUnresolved),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list unresolved")
	}
	defer rows.Close() //nolint:errcheck
	return scanFacilities(rows)
}

func (s *SQLiteStore) UpdateGeocode(ctx context.Context, id string, out *geocode.Outcome) error {
	var lat, lng any
	if out.Status == geocode.StatusPrecise || out.Status == geocode.StatusApproximate {
		lat, lng = out.Latitude, out.Longitude
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE facilities SET
			lat = ?, lng = ?,
			geocode_status = ?, geocode_location_type = ?, geocode_query = ?,
			updated_at = datetime('now')
		WHERE unique_id = ?`,
		lat, lng, string(out.Status), out.LocationType, out.Query, id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update geocode %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: facility %s not found", id)
	}
	return nil
}

func (s *SQLiteStore) CountByRegion(ctx context.Context, f Filter) (map[string]int, error) {
	where, args := buildFilterSQL(f)
	rows, err := s.db.QueryContext(ctx,
		`SELECT region, COUNT(*) FROM facilities WHERE 1=1`+where+` GROUP BY region`,
		args...,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: count by region")
	}
	defer rows.Close() //nolint:errcheck

	counts := make(map[string]int)
	for rows.Next() {
		var region string
		var n int
		if err := rows.Scan(&region, &n); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan count")
		}
		counts[region] = n
	}
	return counts, eris.Wrap(rows.Err(), "sqlite: count rows")
}

func (s *SQLiteStore) Sample(ctx context.Context, f Filter, n int) ([]Facility, error) {
	if n <= 0 {
		return nil, nil
	}
	where, args := buildFilterSQL(f)
	args = append(args, n)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+facilityColumns+` FROM facilities WHERE 1=1`+where+` ORDER BY name LIMIT ?`,
		args...,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: sample facilities")
	}
	defer rows.Close() //nolint:errcheck
	return scanFacilities(rows)
}

// buildFilterSQL renders a Filter as an AND-chained WHERE suffix with `?`
// placeholders.
func buildFilterSQL(f Filter) (string, []any) {
	var sb strings.Builder
	var args []any

	if cond := strings.TrimSpace(f.Condition); cond != "" {
		sb.WriteString(` AND (
			LOWER(specialties) LIKE ?
			OR LOWER(procedures) LIKE ?
			OR LOWER(equipment) LIKE ?
			OR LOWER(capabilities) LIKE ?
			OR LOWER(description) LIKE ?
		)`)
		pattern := "%" + strings.ToLower(cond) + "%"
		args = append(args, pattern, pattern, pattern, pattern, pattern)
	}
	if region := strings.TrimSpace(f.Region); region != "" {
		sb.WriteString(` AND LOWER(region) LIKE ?`)
		args = append(args, "%"+strings.ToLower(region)+"%")
	}
	if ft := strings.TrimSpace(f.FacilityType); ft != "" {
		sb.WriteString(` AND LOWER(facility_type) LIKE ?`)
		args = append(args, "%"+strings.ToLower(ft)+"%")
	}

	return sb.String(), args
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanFacilities(rows rowScanner) ([]Facility, error) {
	var facilities []Facility
	for rows.Next() {
		var f Facility
		var specialties, procedures, equipment, capabilities string
		var lat, lng sql.NullFloat64
		var status string

		err := rows.Scan(
			&f.ID, &f.Name, &f.City, &f.Region, &f.AddressLine, &f.FacilityType,
			&specialties, &procedures, &equipment, &capabilities,
			&f.Description, &f.Phone,
			&lat, &lng, &status, &f.GeocodeLocationType, &f.GeocodeQuery,
		)
		if err != nil {
			return nil, eris.Wrap(err, "store: scan facility")
		}

		f.Specialties = unmarshalList(specialties)
		f.Procedures = unmarshalList(procedures)
		f.Equipment = unmarshalList(equipment)
		f.Capabilities = unmarshalList(capabilities)
		f.GeocodeStatus = geocode.Status(status)
		if lat.Valid && lng.Valid {
			f.Lat, f.Lng = &lat.Float64, &lng.Float64
		}

		facilities = append(facilities, f)
	}
	return facilities, eris.Wrap(rows.Err(), "store: facility rows")
}

func marshalList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func unmarshalList(raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}
