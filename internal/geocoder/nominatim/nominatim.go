// Package nominatim reverse geocodes points with an OpenStreetMap Nominatim instance.
package nominatim

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"geocode-map/internal/httpclient"
	"geocode-map/internal/models"
)

const (
	DefaultBaseURL = "https://nominatim.openstreetmap.org"
	name           = "osm-nominatim"
)

type Nominatim struct {
	http    *httpclient.Client
	baseURL string
	lang    string
}

type reverseResult struct {
	Error       string  `json:"error"`
	APILat      string  `json:"lat"`
	APILon      string  `json:"lon"`
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Address     address `json:"address"`
}

type address struct {
	HouseNumber string `json:"house_number"`
	Road        string `json:"road"`
	Suburb      string `json:"suburb"`
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	State       string `json:"state"`
	Country     string `json:"country"`
}

// New returns a Nominatim geocoder. lang is sent as accept-language, baseURL defaults to the public instance.
func New(client *httpclient.Client, baseURL, lang string) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Nominatim{
		http:    client,
		baseURL: strings.TrimRight(baseURL, "/"),
		lang:    lang,
	}
}

func (n *Nominatim) Name() string {
	return name
}

// Geocode returns at most one candidate, Nominatim's reverse endpoint resolves a single object.
func (n *Nominatim) Geocode(ctx context.Context, coord models.Coordinate) ([]models.Candidate, error) {
	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("lat", strconv.FormatFloat(coord.Lat, 'f', 6, 64))
	query.Set("lon", strconv.FormatFloat(coord.Lon, 'f', 6, 64))
	if n.lang != "" {
		query.Set("accept-language", n.lang)
	}

	var result reverseResult
	if err := n.http.GetJSON(ctx, n.baseURL+"/reverse", query, nil, &result); err != nil {
		return nil, fmt.Errorf("nominatim: failed to fetch reverse address details: %w", err)
	}

	// Points in the sea or outside any object come back as {"error": "Unable to geocode"}.
	if result.Error != "" {
		return []models.Candidate{}, nil
	}

	candidate := models.Candidate{
		Name:        candidateName(result),
		Description: candidateDescription(result),
		Kind:        result.Type,
		Point:       coord,
	}
	if lat, err := strconv.ParseFloat(result.APILat, 64); err == nil {
		candidate.Point.Lat = lat
	}
	if lon, err := strconv.ParseFloat(result.APILon, 64); err == nil {
		candidate.Point.Lon = lon
	}

	return []models.Candidate{candidate}, nil
}

func candidateName(r reverseResult) string {
	if r.Address.Road != "" {
		if r.Address.HouseNumber != "" {
			return r.Address.Road + ", " + r.Address.HouseNumber
		}
		return r.Address.Road
	}
	return r.Name
}

func candidateDescription(r reverseResult) string {
	city := r.Address.City
	if city == "" {
		city = r.Address.Town
	}
	if city == "" {
		city = r.Address.Village
	}

	parts := make([]string, 0, 3)
	for _, p := range []string{city, r.Address.State, r.Address.Country} {
		if p != "" && !contains(parts, p) {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return r.DisplayName
	}
	return strings.Join(parts, ", ")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
