package models

import (
	"errors"
	"fmt"
)

// ErrInvalidCoordinate is returned for latitudes outside [-90, 90] or longitudes outside [-180, 180].
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Coordinate is a geographic point in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// String formats the coordinate as "lat, lon" with six decimals each.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f, %.6f", c.Lat, c.Lon)
}

// Validate checks the coordinate ranges.
func (c Coordinate) Validate() error {
	if !(c.Lat >= -90 && c.Lat <= 90) {
		return fmt.Errorf("%w: latitude %f", ErrInvalidCoordinate, c.Lat)
	}
	if !(c.Lon >= -180 && c.Lon <= 180) {
		return fmt.Errorf("%w: longitude %f", ErrInvalidCoordinate, c.Lon)
	}
	return nil
}
