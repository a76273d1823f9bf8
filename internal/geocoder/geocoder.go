// Package geocoder defines the reverse geocoding capability the map service depends on, the decorators
// wrapped around providers, and the startup wiring that selects a provider from configuration.
package geocoder

import (
	"context"

	"geocode-map/internal/models"
)

// Geocoder resolves a point into candidate results, most relevant first.
// An empty result with a nil error means the provider knows nothing at that point.
type Geocoder interface {
	Name() string
	Geocode(ctx context.Context, coord models.Coordinate) ([]models.Candidate, error)
}
