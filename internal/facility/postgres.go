package facility

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/hannesill/oasis/pkg/geocode"
)

// PgxPool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it
// in tests.
type PgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool PgxPool
}

// NewPostgres creates a PostgresStore with a new connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 10
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool, used by tests.
func NewPostgresFromPool(pool PgxPool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
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
	lat                   DOUBLE PRECISION,
	lng                   DOUBLE PRECISION,
	geocode_status        TEXT NOT NULL DEFAULT 'unresolved',
	geocode_location_type TEXT NOT NULL DEFAULT '',
	geocode_query         TEXT NOT NULL DEFAULT '',
	updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_facilities_region ON facilities(region);
CREATE INDEX IF NOT EXISTS idx_facilities_status ON facilities(geocode_status);
CREATE INDEX IF NOT EXISTS idx_facilities_type ON facilities(facility_type);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, facilities []Facility) error {
	for _, f := range facilities {
		status := f.GeocodeStatus
		if status == "" {
			status = geocode.StatusUnresolved
		}
		_, err := s.pool.Exec(ctx, `
			INSERT INTO facilities (`+facilityColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
			ON CONFLICT (unique_id) DO UPDATE SET
				name = EXCLUDED.name,
				city = EXCLUDED.city,
				region = EXCLUDED.region,
				address_line1 = EXCLUDED.address_line1,
				facility_type = EXCLUDED.facility_type,
				specialties = EXCLUDED.specialties,
				procedures = EXCLUDED.procedures,
				equipment = EXCLUDED.equipment,
				capabilities = EXCLUDED.capabilities,
				description = EXCLUDED.description,
				phone = EXCLUDED.phone,
				lat = EXCLUDED.lat,
				lng = EXCLUDED.lng,
				geocode_status = EXCLUDED.geocode_status,
				geocode_location_type = EXCLUDED.geocode_location_type,
				geocode_query = EXCLUDED.geocode_query,
				updated_at = now()`,
			f.ID, f.Name, f.City, f.Region, f.AddressLine, f.FacilityType,
			marshalList(f.Specialties), marshalList(f.Procedures),
			marshalList(f.Equipment), marshalList(f.Capabilities),
			f.Description, f.Phone,
			f.Lat, f.Lng, string(status), f.GeocodeLocationType, f.GeocodeQuery,
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: insert facility %s", f.ID)
		}
	}
	return nil
}

func (s *PostgresStore) Search(ctx context.Context, f Filter) ([]Facility, error) {
	where, args := buildPgFilterSQL(f)
	rows, err := s.pool.Query(ctx,
		`SELECT `+facilityColumns+` FROM facilities WHERE 1=1`+where+` ORDER BY name`,
		args...,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: search facilities")
	}
	defer rows.Close()
	return scanFacilities(pgRows{rows})
}

func (s *PostgresStore) ListUnresolved(ctx context.Context) ([]Facility, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+facilityColumns+` FROM facilities WHERE geocode_status = $1 ORDER BY unique_id`,
		string(geocode.StatusUnresolved),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list unresolved")
	}
	defer rows.Close()
	return scanFacilities(pgRows{rows})
}

func (s *PostgresStore) UpdateGeocode(ctx context.Context, id string, out *geocode.Outcome) error {
	var lat, lng any
	if out.Status == geocode.StatusPrecise || out.Status == geocode.StatusApproximate {
		lat, lng = out.Latitude, out.Longitude
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE facilities SET
			lat = $1, lng = $2,
			geocode_status = $3, geocode_location_type = $4, geocode_query = $5,
			updated_at = now()
		WHERE unique_id = $6`,
		lat, lng, string(out.Status), out.LocationType, out.Query, id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update geocode %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: facility %s not found", id)
	}
	return nil
}

func (s *PostgresStore) CountByRegion(ctx context.Context, f Filter) (map[string]int, error) {
	where, args := buildPgFilterSQL(f)
	rows, err := s.pool.Query(ctx,
		`SELECT region, COUNT(*) FROM facilities WHERE 1=1`+where+` GROUP BY region`,
		args...,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: count by region")
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var region string
		var n int
		if err := rows.Scan(&region, &n); err != nil {
			return nil, eris.Wrap(err, "postgres: scan count")
		}
		counts[region] = n
	}
	return counts, eris.Wrap(rows.Err(), "postgres: count rows")
}

func (s *PostgresStore) Sample(ctx context.Context, f Filter, n int) ([]Facility, error) {
	if n <= 0 {
		return nil, nil
	}
	where, args := buildPgFilterSQL(f)
	args = append(args, n)
	rows, err := s.pool.Query(ctx,
		`SELECT `+facilityColumns+` FROM facilities WHERE 1=1`+where+
			` ORDER BY name LIMIT $`+strconv.Itoa(len(args)),
		args...,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: sample facilities")
	}
	defer rows.Close()
	return scanFacilities(pgRows{rows})
}

// buildPgFilterSQL is buildFilterSQL with numbered placeholders.
func buildPgFilterSQL(f Filter) (string, []any) {
	var sb strings.Builder
	var args []any
	next := func() string {
		return "$" + strconv.Itoa(len(args))
	}

	if cond := strings.TrimSpace(f.Condition); cond != "" {
		pattern := "%" + strings.ToLower(cond) + "%"
		args = append(args, pattern)
		p := next()
		sb.WriteString(` AND (
			LOWER(specialties) LIKE ` + p + `
			OR LOWER(procedures) LIKE ` + p + `
			OR LOWER(equipment) LIKE ` + p + `
			OR LOWER(capabilities) LIKE ` + p + `
			OR LOWER(description) LIKE ` + p + `
		)`)
	}
	if region := strings.TrimSpace(f.Region); region != "" {
		args = append(args, "%"+strings.ToLower(region)+"%")
		sb.WriteString(` AND LOWER(region) LIKE ` + next())
	}
	if ft := strings.TrimSpace(f.FacilityType); ft != "" {
		args = append(args, "%"+strings.ToLower(ft)+"%")
		sb.WriteString(` AND LOWER(facility_type) LIKE ` + next())
	}

	return sb.String(), args
}

// pgRows adapts pgx.Rows to the shared scan helper.
type pgRows struct {
	pgx.Rows
}

func (r pgRows) Err() error {
	return r.Rows.Err()
}
