// Package postgis reverse geocodes points against the local locations table.
package postgis

import (
	"context"
	"fmt"
	"strings"

	"geocode-map/internal/models"
)

const (
	name = "postgis"
	// DefaultRadius is the search radius in meters.
	DefaultRadius = 10000
	DefaultLimit  = 10
)

// LocationFinder interface for dependency injection
type LocationFinder interface {
	FindNearestLocations(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]models.Location, error)
}

type PostGIS struct {
	repo   LocationFinder
	radius float64
	limit  int
}

func New(repo LocationFinder) *PostGIS {
	return &PostGIS{repo: repo, radius: DefaultRadius, limit: DefaultLimit}
}

func (p *PostGIS) Name() string {
	return name
}

// Geocode returns the stored locations around coord, nearest first.
func (p *PostGIS) Geocode(ctx context.Context, coord models.Coordinate) ([]models.Candidate, error) {
	locations, err := p.repo.FindNearestLocations(ctx, coord.Lat, coord.Lon, p.radius, p.limit)
	if err != nil {
		return nil, fmt.Errorf("postgis: %w", err)
	}

	candidates := make([]models.Candidate, 0, len(locations))
	for _, l := range locations {
		candidates = append(candidates, models.Candidate{
			Name:        joinNonEmpty(", ", l.Street, l.HouseNumber),
			Description: joinNonEmpty(", ", l.Locality, l.Region),
			Kind:        "house",
			Point:       l.Point(),
		})
	}
	return candidates, nil
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || (len(out) > 0 && out[len(out)-1] == p) {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, sep)
}
