package models

// Location is one row of the local address table: an address and the point it sits on.
type Location struct {
	ID          int64   `json:"id"`
	Region      string  `json:"region"`
	Locality    string  `json:"locality"`
	Street      string  `json:"street"`
	HouseNumber string  `json:"house_number"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Point returns the location's coordinate.
func (l Location) Point() Coordinate {
	return Coordinate{Lat: l.Latitude, Lon: l.Longitude}
}
