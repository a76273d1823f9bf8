package geocoder

import (
	"context"
	"testing"
	"time"

	"geocode-map/internal/config"
	"geocode-map/internal/i18n"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() config.Config {
	return config.Config{
		GeocoderProvider:  config.ProviderYandex,
		YandexAPIKey:      "key",
		GeocoderTimeout:   time.Second,
		GeocoderRateLimit: 5,
		CacheBackend:      config.CacheMemory,
		CacheTTL:          time.Hour,
		CacheMissTTL:      time.Minute,
	}
}

func TestNewFromConfig(t *testing.T) {
	ctx := context.Background()
	loc := i18n.New("ru")

	tests := []struct {
		name       string
		mutate     func(*config.Config)
		wantErr    error
		wantName   string
		wantMemory bool
	}{
		{
			name:       "yandex with memory cache",
			mutate:     func(*config.Config) {},
			wantName:   "yandex",
			wantMemory: true,
		},
		{
			name:    "yandex without key",
			mutate:  func(c *config.Config) { c.YandexAPIKey = "" },
			wantErr: ErrMissingAPIKey,
		},
		{
			name: "nominatim without cache",
			mutate: func(c *config.Config) {
				c.GeocoderProvider = config.ProviderNominatim
				c.CacheBackend = config.CacheNone
				c.GeocoderRateLimit = 0
			},
			wantName: "osm-nominatim",
		},
		{
			name:    "postgis without db source",
			mutate:  func(c *config.Config) { c.GeocoderProvider = config.ProviderPostGIS },
			wantErr: ErrMissingDBSource,
		},
		{
			name:    "unknown provider",
			mutate:  func(c *config.Config) { c.GeocoderProvider = "google" },
			wantErr: ErrUnknownProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(&cfg)

			stack, err := NewFromConfig(ctx, cfg, loc, zerolog.Nop())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer stack.Close()

			assert.Equal(t, tt.wantName, stack.Geocoder.Name())
			assert.Equal(t, tt.wantMemory, stack.memory != nil)
			assert.Equal(t, 0, stack.Purge(time.Now()))
		})
	}
}

func TestNewFromConfig_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := baseConfig()
	cfg.CacheBackend = config.CacheRedis
	cfg.RedisAddr = mr.Addr()

	stack, err := NewFromConfig(context.Background(), cfg, i18n.New("en"), zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &Cached{}, stack.Geocoder)
	assert.Equal(t, "key", stack.WidgetKey)
	stack.Close()
}

func TestNewFromConfig_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := baseConfig()
	cfg.CacheBackend = config.CacheRedis
	cfg.RedisAddr = addr

	_, err := NewFromConfig(context.Background(), cfg, i18n.New("en"), zerolog.Nop())
	assert.ErrorContains(t, err, "cannot reach redis")
}
