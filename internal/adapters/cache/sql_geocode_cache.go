package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant-matching-service/internal/domain"
	"restaurant-matching-service/internal/platform/obs"
)

var errEmptyAddress = errors.New("geocode cache: empty address key")

// SQLGeocodeCache is a SQL-backed cache mapping normalized addresses to coordinates.
// The statements are plain SQL accepted by both Postgres (pgx) and SQLite.
// resolved_at is kept in unix seconds.
type SQLGeocodeCache struct {
	DB *sql.DB
}

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

// Fetch the cached entry for address.
func (s *SQLGeocodeCache) Lookup(ctx context.Context, address string) (_ domain.GeocodeEntry, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.Lookup")(&err)

	if s.DB == nil {
		return domain.GeocodeEntry{}, false, errors.New("geocode cache: db is nil")
	}

	q := `
	SELECT lat, lon, resolved_at
	FROM geocode_cache
	WHERE address = $1;
	`

	var lat, lon float64
	var resolvedAt int64
	err = s.DB.QueryRowContext(ctx, q, address).Scan(&lat, &lon, &resolvedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.GeocodeEntry{}, false, nil
	}
	if err != nil {
		return domain.GeocodeEntry{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	return domain.GeocodeEntry{
		Address:    address,
		Coords:     domain.Coordinates{Lat: lat, Lon: lon},
		ResolvedAt: time.Unix(resolvedAt, 0).UTC(),
	}, true, nil
}

// Store an address -> coordinate mapping, replacing any previous one.
func (s *SQLGeocodeCache) Store(
	ctx context.Context,
	address string,
	coords domain.Coordinates,
	resolvedAt time.Time,
) (err error) {
	defer obs.Time(ctx, "geocode.cache.Store")(&err)

	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}
	if strings.TrimSpace(address) == "" {
		return errEmptyAddress
	}

	q := `
	INSERT INTO geocode_cache (address, lat, lon, resolved_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (address) DO UPDATE
	SET lat = excluded.lat,
		lon = excluded.lon,
		resolved_at = excluded.resolved_at;
	`

	if _, err := s.DB.ExecContext(ctx, q, address, coords.Lat, coords.Lon, resolvedAt.Unix()); err != nil {
		return fmt.Errorf("insert geocode cache address=%q: %w", address, err)
	}
	return nil
}
