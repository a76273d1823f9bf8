package geocoder

import (
	"context"

	"geocode-map/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockGeocoder is a mock implementation of the Geocoder interface
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Name() string {
	return "mock"
}

func (m *MockGeocoder) Geocode(ctx context.Context, coord models.Coordinate) ([]models.Candidate, error) {
	args := m.Called(ctx, coord)
	candidates, _ := args.Get(0).([]models.Candidate)
	return candidates, args.Error(1)
}
