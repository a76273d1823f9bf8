package geocoder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"geocode-map/internal/config"
	"geocode-map/internal/geocoder/nominatim"
	"geocode-map/internal/geocoder/postgis"
	"geocode-map/internal/geocoder/yandex"
	"geocode-map/internal/httpclient"
	"geocode-map/internal/i18n"
	"geocode-map/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var (
	ErrMissingAPIKey   = yandex.ErrMissingAPIKey
	ErrMissingDBSource = errors.New("postgis provider requires DB_SOURCE")
	ErrUnknownProvider = errors.New("unknown geocoder provider")
)

// Stack is the process-wide geocoder built once at startup, together with the resources it holds.
type Stack struct {
	Geocoder Geocoder
	// WidgetKey is the API key the map page loads the widget with.
	WidgetKey string

	memory  *MemoryStore
	closers []func()
}

// Purge drops expired entries of an in-process cache. It is a no-op for other backends.
func (s *Stack) Purge(now time.Time) int {
	if s.memory == nil {
		return 0
	}
	return s.memory.Purge(now)
}

// Close releases connections in reverse order of acquisition.
func (s *Stack) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// NewFromConfig selects and decorates the provider named in cfg. A missing credential fails here, at startup,
// instead of on the first click.
func NewFromConfig(ctx context.Context, cfg config.Config, loc *i18n.Localizer, log zerolog.Logger) (*Stack, error) {
	stack := &Stack{WidgetKey: cfg.YandexAPIKey}
	client := httpclient.New(log, cfg.GeocoderTimeout)

	var provider Geocoder
	switch cfg.GeocoderProvider {
	case config.ProviderYandex:
		y, err := yandex.New(client, cfg.YandexAPIKey, loc.YandexLang())
		if err != nil {
			return nil, err
		}
		provider = y
	case config.ProviderNominatim:
		provider = nominatim.New(client, cfg.NominatimURL, loc.Tag().String())
	case config.ProviderPostGIS:
		if cfg.DBSource == "" {
			return nil, ErrMissingDBSource
		}
		pool, err := pgxpool.New(ctx, cfg.DBSource)
		if err != nil {
			return nil, fmt.Errorf("geocoder: cannot connect to db: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("geocoder: cannot reach db: %w", err)
		}
		stack.closers = append(stack.closers, pool.Close)
		provider = postgis.New(repository.NewRepository(pool))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.GeocoderProvider)
	}

	if cfg.GeocoderRateLimit > 0 {
		provider = NewRateLimited(provider, cfg.GeocoderRateLimit, 1)
	}

	switch cfg.CacheBackend {
	case config.CacheMemory:
		stack.memory = NewMemoryStore()
		provider = NewCached(provider, stack.memory, cfg.CacheTTL, cfg.CacheMissTTL, log)
	case config.CacheRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, MaxRetries: 3})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			stack.Close()
			return nil, fmt.Errorf("geocoder: cannot reach redis: %w", err)
		}
		stack.closers = append(stack.closers, func() { _ = rdb.Close() })
		provider = NewCached(provider, NewRedisStore(rdb), cfg.CacheTTL, cfg.CacheMissTTL, log)
	}

	stack.Geocoder = provider
	log.Info().
		Str("provider", provider.Name()).
		Str("cache", cfg.CacheBackend).
		Float64("rate_limit", cfg.GeocoderRateLimit).
		Msg("geocoder initialized")

	return stack, nil
}
