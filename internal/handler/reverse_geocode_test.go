package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"geocode-map/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReverseGeoCodeService is a mock implementation of the ReverseGeoCodeService interface
type MockReverseGeoCodeService struct {
	mock.Mock
}

func (m *MockReverseGeoCodeService) ReverseGeocode(ctx context.Context, lat float64, lon float64) (*models.Candidate, error) {
	args := m.Called(ctx, lat, lon)
	candidate, _ := args.Get(0).(*models.Candidate)
	return candidate, args.Error(1)
}

func TestReverseGeoCodeHandler_ReverseGeocode(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		query          string
		callService    bool
		lat            float64
		lon            float64
		mockCandidate  *models.Candidate
		mockError      error
		expectedStatus int
		expectedBody   interface{}
	}{
		{
			name:           "missing query parameters",
			query:          "",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]interface{}{"error": "missing required query parameters 'lat' and 'lon'"},
		},
		{
			name:           "missing longitude",
			query:          "lat=59.9",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]interface{}{"error": "missing required query parameters 'lat' and 'lon'"},
		},
		{
			name:           "invalid latitude",
			query:          "lat=north&lon=30.3",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]interface{}{"error": "invalid latitude format"},
		},
		{
			name:           "invalid longitude",
			query:          "lat=59.9&lon=east",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]interface{}{"error": "invalid longitude format"},
		},
		{
			name:           "out of range",
			query:          "lat=91&lon=30.3",
			callService:    true,
			lat:            91,
			lon:            30.3,
			mockError:      fmt.Errorf("service: %w", models.ErrInvalidCoordinate),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]interface{}{"error": "coordinates out of range"},
		},
		{
			name:        "successful geocoding with results",
			query:       "lat=59.9&lon=30.3",
			callService: true,
			lat:         59.9,
			lon:         30.3,
			mockCandidate: &models.Candidate{
				Name:        "Nevsky Ave",
				Description: "St. Petersburg, Russia",
				Kind:        "street",
				Point:       models.Coordinate{Lat: 59.9, Lon: 30.3},
			},
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"name":        "Nevsky Ave",
				"description": "St. Petersburg, Russia",
				"kind":        "street",
				"point":       map[string]interface{}{"lat": 59.9, "lon": 30.3},
			},
		},
		{
			name:           "successful geocoding with no results",
			query:          "lat=59.95&lon=29.5",
			callService:    true,
			lat:            59.95,
			lon:            29.5,
			expectedStatus: http.StatusNotFound,
			expectedBody:   map[string]interface{}{"error": "no address found near the specified coordinates"},
		},
		{
			name:           "service error",
			query:          "lat=59.9&lon=30.3",
			callService:    true,
			lat:            59.9,
			lon:            30.3,
			mockError:      assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   map[string]interface{}{"error": "internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockSvc := new(MockReverseGeoCodeService)
			handler := NewReverseGeocodeHandler(mockSvc)

			if tt.callService {
				mockSvc.On("ReverseGeocode", mock.Anything, tt.lat, tt.lon).Return(tt.mockCandidate, tt.mockError)
			}

			// Create request
			req := httptest.NewRequest(http.MethodGet, "/reverse-geocode?"+tt.query, nil)
			w := httptest.NewRecorder()

			// Create Gin context
			c, _ := gin.CreateTestContext(w)
			c.Request = req

			// Execute
			handler.ReverseGeocode(c)

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)

			var actualBody interface{}
			err := json.Unmarshal(w.Body.Bytes(), &actualBody)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, actualBody)

			mockSvc.AssertExpectations(t)
		})
	}
}
