package geocoder

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"geocode-map/internal/models"

	"github.com/rs/zerolog"
)

// coordPrecision quantizes cache keys, 1e-4 degrees is roughly 11 meters.
const coordPrecision = 1e-4

// Store keeps candidate lists by key until their TTL runs out.
type Store interface {
	Get(ctx context.Context, key string) ([]models.Candidate, bool, error)
	Set(ctx context.Context, key string, candidates []models.Candidate, ttl time.Duration) error
}

// Cached serves repeated lookups of nearby points from a Store. Errors are never cached.
type Cached struct {
	next    Geocoder
	store   Store
	ttlHit  time.Duration
	ttlMiss time.Duration
	log     zerolog.Logger
}

func NewCached(next Geocoder, store Store, ttlHit, ttlMiss time.Duration, log zerolog.Logger) *Cached {
	return &Cached{
		next:    next,
		store:   store,
		ttlHit:  ttlHit,
		ttlMiss: ttlMiss,
		log:     log,
	}
}

func (c *Cached) Name() string {
	return c.next.Name()
}

func (c *Cached) Geocode(ctx context.Context, coord models.Coordinate) ([]models.Candidate, error) {
	key := CacheKey(c.next.Name(), coord)

	candidates, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("geocode cache read failed")
	}
	if ok {
		return candidates, nil
	}

	candidates, err = c.next.Geocode(ctx, coord)
	if err != nil {
		return nil, err
	}

	ttl := c.ttlHit
	if len(candidates) == 0 {
		ttl = c.ttlMiss
	}
	if ttl > 0 {
		if err := c.store.Set(ctx, key, candidates, ttl); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("geocode cache write failed")
		}
	}
	return candidates, nil
}

// CacheKey builds the store key for a provider and a quantized coordinate.
func CacheKey(provider string, coord models.Coordinate) string {
	return fmt.Sprintf("%s:%d:%d", provider, quantize(coord.Lat), quantize(coord.Lon))
}

func quantize(v float64) int64 {
	return int64(math.Round(v / coordPrecision))
}

type memoryEntry struct {
	candidates []models.Candidate
	expiry     time.Time
}

// MemoryStore is an in-process Store. Expired entries are dropped by Purge.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]models.Candidate, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.items[key]
	if !ok || !m.now().Before(entry.expiry) {
		return nil, false, nil
	}
	return cloneCandidates(entry.candidates), true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, candidates []models.Candidate, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = memoryEntry{
		candidates: cloneCandidates(candidates),
		expiry:     m.now().Add(ttl),
	}
	return nil
}

// Purge removes entries expired at now and returns how many were removed.
func (m *MemoryStore) Purge(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for k, v := range m.items {
		if !now.Before(v.expiry) {
			delete(m.items, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func cloneCandidates(in []models.Candidate) []models.Candidate {
	out := make([]models.Candidate, len(in))
	copy(out, in)
	return out
}
