package geocoder

import (
	"context"
	"fmt"

	"geocode-map/internal/models"

	"golang.org/x/time/rate"
)

// RateLimited spaces out requests to the wrapped geocoder.
type RateLimited struct {
	next    Geocoder
	limiter *rate.Limiter
}

// NewRateLimited allows perSecond requests per second with the given burst.
func NewRateLimited(next Geocoder, perSecond float64, burst int) *RateLimited {
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (r *RateLimited) Name() string {
	return r.next.Name()
}

// Geocode waits for the limiter, giving up when ctx ends first.
func (r *RateLimited) Geocode(ctx context.Context, coord models.Coordinate) ([]models.Candidate, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: rate limit wait: %w", r.next.Name(), err)
	}
	return r.next.Geocode(ctx, coord)
}
