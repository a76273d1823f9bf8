package models

// ViewState is the data a mounted page renders from.
type ViewState struct {
	Coordinates *Coordinate `json:"coordinates,omitempty"`
	Address     *Address    `json:"address,omitempty"`
	// Seq is the number of clicks issued so far.
	Seq     uint64 `json:"seq"`
	Pending bool   `json:"pending"`
}

// MapState describes the map viewport and its marker.
type MapState struct {
	Center Coordinate  `json:"center"`
	Zoom   int         `json:"zoom"`
	Marker *Coordinate `json:"marker,omitempty"`
}

// Panel is the rendered content of the address panel.
type Panel struct {
	Empty       bool   `json:"empty"`
	Placeholder string `json:"placeholder,omitempty"`
	Location    string `json:"location,omitempty"`
	Route       string `json:"route,omitempty"`
	Coordinates string `json:"coordinates,omitempty"`
}
