package geocoder

import (
	"context"
	"testing"
	"time"

	"geocode-map/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) zerolog.Logger {
	return zerolog.New(zerolog.NewTestWriter(t))
}

func TestRateLimited_PassesThrough(t *testing.T) {
	coord := models.Coordinate{Lat: 1, Lon: 2}
	next := new(MockGeocoder)
	next.On("Geocode", mock.Anything, coord).Return(nevsky, nil)

	limited := NewRateLimited(next, 1000, 1)
	got, err := limited.Geocode(context.Background(), coord)
	require.NoError(t, err)
	assert.Equal(t, nevsky, got)
	assert.Equal(t, "mock", limited.Name())
}

func TestRateLimited_ContextDeadline(t *testing.T) {
	coord := models.Coordinate{Lat: 1, Lon: 2}
	next := new(MockGeocoder)
	next.On("Geocode", mock.Anything, coord).Return(nevsky, nil).Once()

	// One request per minute: the first call takes the burst token, the second cannot wait long enough.
	limited := NewRateLimited(next, 1.0/60, 1)
	_, err := limited.Geocode(context.Background(), coord)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = limited.Geocode(ctx, coord)
	assert.Error(t, err)
	next.AssertNumberOfCalls(t, "Geocode", 1)
}
