package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"geocode-map/internal/models"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "geocode:"

// RedisStore keeps candidate lists as JSON strings in Redis, expiry handled by Redis.
type RedisStore struct {
	client redis.Cmdable
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]models.Candidate, bool, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis store: get %q: %w", key, err)
	}

	candidates := []models.Candidate{}
	if err := json.Unmarshal(raw, &candidates); err != nil {
		return nil, false, fmt.Errorf("redis store: decode %q: %w", key, err)
	}
	return candidates, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, candidates []models.Candidate, ttl time.Duration) error {
	if candidates == nil {
		candidates = []models.Candidate{}
	}
	raw, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("redis store: encode %q: %w", key, err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis store: set %q: %w", key, err)
	}
	return nil
}
