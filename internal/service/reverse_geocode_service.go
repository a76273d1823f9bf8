package service

import (
	"context"
	"fmt"

	"geocode-map/internal/models"
)

// ReverseGeoCodeService answers one-off lookups outside of any page session
type ReverseGeoCodeService struct {
	geocoder Geocoder
}

// NewReverseGeoCodeService creates a new reverse geo code service
func NewReverseGeoCodeService(geocoder Geocoder) *ReverseGeoCodeService {
	return &ReverseGeoCodeService{geocoder: geocoder}
}

// ReverseGeocode returns the first candidate at the given coordinates, or nil if the provider has none
func (s *ReverseGeoCodeService) ReverseGeocode(ctx context.Context, lat, lon float64) (*models.Candidate, error) {
	coord := models.Coordinate{Lat: lat, Lon: lon}
	if err := coord.Validate(); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}

	candidates, err := s.geocoder.Geocode(ctx, coord)
	if err != nil {
		return nil, fmt.Errorf("service: failed to reverse geocode: %w", err)
	}

	if len(candidates) == 0 {
		return nil, nil
	}
	return &candidates[0], nil
}
