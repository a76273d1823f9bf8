package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"geocode-map/internal/i18n"
	"geocode-map/internal/models"
	"geocode-map/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGeocoder is a mock implementation of the service.Geocoder interface
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, coord models.Coordinate) ([]models.Candidate, error) {
	args := m.Called(ctx, coord)
	candidates, _ := args.Get(0).([]models.Candidate)
	return candidates, args.Error(1)
}

var nevsky = models.Candidate{Name: "Nevsky Ave", Description: "St. Petersburg"}

func newMapRouter(t *testing.T, geocoder service.Geocoder) (*gin.Engine, *service.MapService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zerolog.New(zerolog.NewTestWriter(t))
	svc := service.NewMapService(geocoder, service.MapOptions{
		Center:  models.Coordinate{Lat: 59.94077030138753, Lon: 30.31197058944388},
		Zoom:    12,
		Timeout: time.Second,
		IdleTTL: time.Minute,
	}, log)
	t.Cleanup(svc.Close)

	h := NewMapHandler(svc, i18n.New("en"), "test-key", log)
	r := gin.New()
	r.GET("/", h.Page)
	r.POST("/api/sessions", h.OpenSession)
	r.GET("/api/sessions/:id", h.GetSession)
	r.POST("/api/sessions/:id/clicks", h.Click)
	r.GET("/api/sessions/:id/panel", h.Panel)
	r.GET("/api/sessions/:id/events", h.Events)
	return r, svc
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMapHandler_OpenSession(t *testing.T) {
	r, svc := newMapRouter(t, new(MockGeocoder))

	w := serve(r, http.MethodPost, "/api/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	_, err := uuid.Parse(resp.ID)
	assert.NoError(t, err)
	assert.Equal(t, 12, resp.Map.Zoom)
	assert.InDelta(t, 59.94077030138753, resp.Map.Center.Lat, 1e-12)
	assert.Nil(t, resp.Map.Marker)
	assert.Nil(t, resp.View.Coordinates)
	assert.Equal(t, models.Panel{Empty: true, Placeholder: "Select a point on the map"}, resp.Panel)
	assert.Equal(t, 1, svc.Len())
}

func TestMapHandler_UnknownSession(t *testing.T) {
	r, _ := newMapRouter(t, new(MockGeocoder))

	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{name: "get malformed id", method: http.MethodGet, target: "/api/sessions/not-a-uuid"},
		{name: "get unknown id", method: http.MethodGet, target: "/api/sessions/" + uuid.NewString()},
		{name: "click unknown id", method: http.MethodPost, target: "/api/sessions/" + uuid.NewString() + "/clicks", body: `{"lat":1,"lon":2}`},
		{name: "panel unknown id", method: http.MethodGet, target: "/api/sessions/" + uuid.NewString() + "/panel"},
		{name: "events unknown id", method: http.MethodGet, target: "/api/sessions/" + uuid.NewString() + "/events"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.method, tt.target, tt.body)

			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.JSONEq(t, `{"error":"session not found"}`, w.Body.String())
		})
	}
}

func TestMapHandler_ClickValidation(t *testing.T) {
	r, svc := newMapRouter(t, new(MockGeocoder))
	session := svc.Open()
	target := "/api/sessions/" + session.ID() + "/clicks"

	tests := []struct {
		name         string
		body         string
		expectedBody string
	}{
		{name: "empty body", body: "", expectedBody: `{"error":"body must contain numeric 'lat' and 'lon'"}`},
		{name: "missing longitude", body: `{"lat":59.9}`, expectedBody: `{"error":"body must contain numeric 'lat' and 'lon'"}`},
		{name: "not a number", body: `{"lat":"north","lon":30.3}`, expectedBody: `{"error":"body must contain numeric 'lat' and 'lon'"}`},
		{name: "latitude out of range", body: `{"lat":95,"lon":30.3}`, expectedBody: `{"error":"coordinates out of range"}`},
		{name: "longitude out of range", body: `{"lat":59.9,"lon":-200}`, expectedBody: `{"error":"coordinates out of range"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodPost, target, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}

	assert.Equal(t, uint64(0), session.View().Seq)
}

func TestMapHandler_ClickResolvesAddress(t *testing.T) {
	coord := models.Coordinate{Lat: 59.9, Lon: 30.3}
	geocoder := new(MockGeocoder)
	geocoder.On("Geocode", mock.Anything, coord).Return([]models.Candidate{nevsky}, nil).Once()

	r, svc := newMapRouter(t, geocoder)
	session := svc.Open()

	w := serve(r, http.MethodPost, "/api/sessions/"+session.ID()+"/clicks", `{"lat":59.9,"lon":30.3}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp ClickResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint64(1), resp.Seq)
	assert.Equal(t, session.ID(), resp.ID)
	require.NotNil(t, resp.View.Coordinates)
	assert.Equal(t, coord, *resp.View.Coordinates)
	assert.Equal(t, &coord, resp.Map.Marker)

	require.Eventually(t, func() bool {
		return session.View().Address != nil
	}, 2*time.Second, 10*time.Millisecond)

	w = serve(r, http.MethodGet, "/api/sessions/"+session.ID()+"/panel", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Location: St. Petersburg")
	assert.Contains(t, w.Body.String(), "Address: Nevsky Ave")
	assert.Contains(t, w.Body.String(), "Coordinates: 59.900000, 30.300000")
	assert.NotContains(t, w.Body.String(), "Select a point on the map")

	w = serve(r, http.MethodGet, "/api/sessions/"+session.ID(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	var state SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, "Location: St. Petersburg", state.Panel.Location)
	assert.False(t, state.View.Pending)

	geocoder.AssertExpectations(t)
}

func TestMapHandler_PanelPlaceholder(t *testing.T) {
	r, svc := newMapRouter(t, new(MockGeocoder))
	session := svc.Open()

	w := serve(r, http.MethodGet, "/api/sessions/"+session.ID()+"/panel", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<p class="placeholder">Select a point on the map</p>`)
	assert.NotContains(t, w.Body.String(), "Coordinates:")
}

func TestMapHandler_Page(t *testing.T) {
	r, svc := newMapRouter(t, new(MockGeocoder))

	w := serve(r, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<html lang="en">`)
	assert.Contains(t, body, "<title>Address on the map</title>")
	assert.Contains(t, body, "https://api-maps.yandex.ru/2.1/?apikey=test-key")
	assert.Contains(t, body, "Select a point on the map")
	assert.Equal(t, 1, svc.Len())
}

func readEvent(t *testing.T, scanner *bufio.Scanner) ViewEvent {
	t.Helper()
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		var event ViewEvent
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data:")), &event))
		return event
	}
	require.NoError(t, scanner.Err())
	t.Fatal("event stream ended")
	return ViewEvent{}
}

func TestMapHandler_Events(t *testing.T) {
	coord := models.Coordinate{Lat: 59.9, Lon: 30.3}
	geocoder := new(MockGeocoder)
	geocoder.On("Geocode", mock.Anything, coord).Return([]models.Candidate{nevsky}, nil).Once()

	r, svc := newMapRouter(t, geocoder)
	server := httptest.NewServer(r)
	defer server.Close()

	session := svc.Open()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/sessions/"+session.ID()+"/events", nil)
	require.NoError(t, err)
	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(resp.Body)
	initial := readEvent(t, scanner)
	assert.True(t, initial.Panel.Empty)
	assert.Nil(t, initial.Map.Marker)

	click, err := server.Client().Post(server.URL+"/api/sessions/"+session.ID()+"/clicks", "application/json",
		strings.NewReader(`{"lat":59.9,"lon":30.3}`))
	require.NoError(t, err)
	click.Body.Close()
	require.Equal(t, http.StatusAccepted, click.StatusCode)

	for {
		event := readEvent(t, scanner)
		require.NotNil(t, event.Map.Marker)
		assert.Equal(t, coord, *event.Map.Marker)
		if event.View.Address != nil {
			assert.Equal(t, "Address: Nevsky Ave", event.Panel.Route)
			assert.False(t, event.View.Pending)
			break
		}
		assert.True(t, event.Panel.Empty)
	}
}
