package repository

import (
	"context"
	"fmt"

	"geocode-map/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgx shared by *pgxpool.Pool and *pgx.Conn.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

const schema = `
	CREATE EXTENSION IF NOT EXISTS postgis;

	CREATE TABLE IF NOT EXISTS locations (
		id BIGSERIAL PRIMARY KEY,
		region VARCHAR(255) NOT NULL DEFAULT '',
		locality VARCHAR(255) NOT NULL DEFAULT '',
		street VARCHAR(255) NOT NULL DEFAULT '',
		house_number VARCHAR(64) NOT NULL DEFAULT '',
		geom GEOGRAPHY(POINT, 4326) NOT NULL
	);

	CREATE INDEX IF NOT EXISTS locations_geom_idx ON locations USING GIST (geom);
`

// Repository implements location lookups on PostgreSQL with PostGIS
type Repository struct {
	db DB
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the locations table and its spatial index if they do not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// FindNearestLocations returns up to limit locations within radiusMeters of the given coordinates, nearest first
func (r *Repository) FindNearestLocations(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]models.Location, error) {
	sql := `
		SELECT
			id,
			region,
			locality,
			street,
			house_number,
			ST_Y(geom::geometry) AS latitude,
			ST_X(geom::geometry) AS longitude
		FROM locations
		WHERE ST_DWithin(geom, ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography, $3)
		ORDER BY geom <-> ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography
		LIMIT $4
	`

	rows, err := r.db.Query(ctx, sql, lat, lon, radiusMeters, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute spatial query: %w", err)
	}
	defer rows.Close()

	locations := []models.Location{}
	for rows.Next() {
		var loc models.Location
		err := rows.Scan(
			&loc.ID,
			&loc.Region,
			&loc.Locality,
			&loc.Street,
			&loc.HouseNumber,
			&loc.Latitude,
			&loc.Longitude,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan location: %w", err)
		}
		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return locations, nil
}

// InsertLocations loads locations in a single batch and returns the number of rows written
func (r *Repository) InsertLocations(ctx context.Context, locations []models.Location) (int64, error) {
	if len(locations) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, l := range locations {
		batch.Queue(`
			INSERT INTO locations (region, locality, street, house_number, geom)
			VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($6, $5), 4326)::geography)`,
			l.Region, l.Locality, l.Street, l.HouseNumber, l.Latitude, l.Longitude,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int64
	for i := range locations {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("repository: failed to insert location %d: %w", i, err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

// CountLocations returns the number of rows in the locations table
func (r *Repository) CountLocations(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM locations").Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count locations: %w", err)
	}
	return count, nil
}
