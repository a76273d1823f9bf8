package handler

import "geocode-map/internal/models"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error" example:"session not found"`
}

// SessionResponse describes a session: the map surface, its view state and the rendered address panel.
type SessionResponse struct {
	ID    string           `json:"id"`
	Map   models.MapState  `json:"map"`
	View  models.ViewState `json:"view"`
	Panel models.Panel     `json:"panel"`
}

// ClickRequest is a click on the map surface.
type ClickRequest struct {
	Lat *float64 `json:"lat" binding:"required" example:"59.9"`
	Lon *float64 `json:"lon" binding:"required" example:"30.3"`
}

// ClickResponse acknowledges a click. The address arrives later, on the event stream.
type ClickResponse struct {
	Seq uint64 `json:"seq"`
	SessionResponse
}

// ViewEvent is the payload of a "view" server-sent event.
type ViewEvent struct {
	Map   models.MapState  `json:"map"`
	View  models.ViewState `json:"view"`
	Panel models.Panel     `json:"panel"`
}
