package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"waypoint-route-service/internal/domain"
	"waypoint-route-service/internal/platform/obs"
)

// SQLGeocodeCache is a postgres-backed cache mapping addresses to their best candidate.
type SQLGeocodeCache struct {
	DB *sql.DB
}

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

// Fetch cached candidates for the given addresses. Keys in the result are normalized.
func (s *SQLGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.GeocodeCandidate, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	uniq := uniqueKeys(addresses)
	if len(uniq) == 0 {
		return map[string]domain.GeocodeCandidate{}, nil
	}

	q := `
	SELECT address, formatted_address, lon, lat
    FROM geocode_cache
    WHERE address = ANY($1::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq)
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	defer rows.Close()

	return scanCandidates(rows, len(uniq))
}

// Store address -> candidate mappings in the cache.
func (s *SQLGeocodeCache) PutMany(ctx context.Context, results map[string]domain.GeocodeCandidate) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	return putCandidates(ctx, s.DB, `
	INSERT INTO geocode_cache (address, formatted_address, lon, lat)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (address) DO UPDATE
	SET formatted_address = EXCLUDED.formatted_address,
		lon = EXCLUDED.lon,
		lat = EXCLUDED.lat;
	`, results)
}

func scanCandidates(rows *sql.Rows, sizeHint int) (map[string]domain.GeocodeCandidate, error) {
	out := make(map[string]domain.GeocodeCandidate, sizeHint)
	for rows.Next() {
		var addr, formatted string
		var lon, lat float64
		if err := rows.Scan(&addr, &formatted, &lon, &lat); err != nil {
			return nil, fmt.Errorf("get geocode cache: scan rows: %w", err)
		}
		out[addr] = domain.GeocodeCandidate{
			Coordinates:      domain.Coordinates{Lon: lon, Lat: lat},
			FormattedAddress: formatted,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get geocode cache: row iteration: %w", err)
	}

	return out, nil
}

func putCandidates(ctx context.Context, db *sql.DB, query string, results map[string]domain.GeocodeCandidate) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for addr, c := range results {
		key := NormalizeAddress(addr)
		if key == "" {
			return fmt.Errorf("insert geocode cache: empty address key")
		}

		if _, err := stmt.ExecContext(ctx, key, c.FormattedAddress, c.Coordinates.Lon, c.Coordinates.Lat); err != nil {
			return fmt.Errorf("insert geocode cache address=%q: %w", addr, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert geocode cache commit: %w", err)
	}

	return nil
}
