package models

// Candidate is one entry of a reverse geocode result set, in provider order.
type Candidate struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Kind        string     `json:"kind,omitempty"`
	Point       Coordinate `json:"point"`
}

// Address is what the panel shows for a resolved point. Empty fields are absent.
type Address struct {
	Location string `json:"location,omitempty"`
	Route    string `json:"route,omitempty"`
}

// AddressFromCandidate takes the description as location and the name as route.
func AddressFromCandidate(c Candidate) Address {
	return Address{
		Location: c.Description,
		Route:    c.Name,
	}
}
