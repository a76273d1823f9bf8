// Package yandex reverse geocodes points with the Yandex HTTP Geocoder API.
package yandex

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"geocode-map/internal/httpclient"
	"geocode-map/internal/models"
)

const (
	APIEndpoint = "https://geocode-maps.yandex.ru/1.x/"
	// WidgetScript is the JS API the map page loads the widget from.
	WidgetScript = "https://api-maps.yandex.ru/2.1/"
	name         = "yandex"
	// defaultResults mirrors the JS API geocode() default.
	defaultResults = 10
)

var ErrMissingAPIKey = errors.New("yandex: api key is required")

// Yandex is a reverse geocoder backed by geocode-maps.yandex.ru.
type Yandex struct {
	http     *httpclient.Client
	endpoint string
	apiKey   string
	lang     string
	results  int
}

// Option customizes a Yandex geocoder.
type Option func(*Yandex)

// WithEndpoint overrides the API endpoint.
func WithEndpoint(endpoint string) Option {
	return func(y *Yandex) { y.endpoint = endpoint }
}

// WithResults limits the number of returned candidates.
func WithResults(n int) Option {
	return func(y *Yandex) {
		if n > 0 {
			y.results = n
		}
	}
}

func New(client *httpclient.Client, apiKey, lang string, opts ...Option) (*Yandex, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	y := &Yandex{
		http:     client,
		endpoint: APIEndpoint,
		apiKey:   apiKey,
		lang:     lang,
		results:  defaultResults,
	}
	for _, opt := range opts {
		opt(y)
	}
	return y, nil
}

func (y *Yandex) Name() string {
	return name
}

type apiResponse struct {
	Response struct {
		GeoObjectCollection struct {
			FeatureMember []featureMember `json:"featureMember"`
		} `json:"GeoObjectCollection"`
	} `json:"response"`
}

type featureMember struct {
	GeoObject struct {
		MetaDataProperty struct {
			GeocoderMetaData struct {
				Kind string `json:"kind"`
				Text string `json:"text"`
			} `json:"GeocoderMetaData"`
		} `json:"metaDataProperty"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Point       struct {
			Pos string `json:"pos"`
		} `json:"Point"`
	} `json:"GeoObject"`
}

// Geocode returns the geo objects found at coord, nearest first.
func (y *Yandex) Geocode(ctx context.Context, coord models.Coordinate) ([]models.Candidate, error) {
	query := url.Values{}
	query.Set("apikey", y.apiKey)
	query.Set("format", "json")
	query.Set("geocode", strconv.FormatFloat(coord.Lon, 'f', 6, 64)+","+strconv.FormatFloat(coord.Lat, 'f', 6, 64))
	query.Set("sco", "longlat")
	query.Set("results", strconv.Itoa(y.results))
	if y.lang != "" {
		query.Set("lang", y.lang)
	}

	var result apiResponse
	if err := y.http.GetJSON(ctx, y.endpoint, query, nil, &result); err != nil {
		return nil, fmt.Errorf("yandex: failed to fetch geo objects: %w", err)
	}

	members := result.Response.GeoObjectCollection.FeatureMember
	candidates := make([]models.Candidate, 0, len(members))
	for _, m := range members {
		var point models.Coordinate
		if m.GeoObject.Point.Pos != "" {
			var err error
			if point, err = parsePos(m.GeoObject.Point.Pos); err != nil {
				return nil, fmt.Errorf("yandex: %w", err)
			}
		}
		candidates = append(candidates, models.Candidate{
			Name:        m.GeoObject.Name,
			Description: m.GeoObject.Description,
			Kind:        m.GeoObject.MetaDataProperty.GeocoderMetaData.Kind,
			Point:       point,
		})
	}

	return candidates, nil
}

// parsePos parses a "lon lat" position string.
func parsePos(pos string) (models.Coordinate, error) {
	parts := strings.Fields(pos)
	if len(parts) != 2 {
		return models.Coordinate{}, fmt.Errorf("invalid position %q", pos)
	}
	lon, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("invalid longitude in position %q: %w", pos, err)
	}
	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("invalid latitude in position %q: %w", pos, err)
	}
	return models.Coordinate{Lat: lat, Lon: lon}, nil
}
