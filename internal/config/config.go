package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderYandex    = "yandex"
	ProviderNominatim = "nominatim"
	ProviderPostGIS   = "postgis"

	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"

	OrderingLastClick    = "last_click"
	OrderingLastResolved = "last_resolved"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Environment   string `mapstructure:"ENVIRONMENT"`
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	Locale        string `mapstructure:"LOCALE"`

	GeocoderProvider  string        `mapstructure:"GEOCODER_PROVIDER"`
	YandexAPIKey      string        `mapstructure:"YANDEX_API_KEY"`
	NominatimURL      string        `mapstructure:"NOMINATIM_URL"`
	GeocoderTimeout   time.Duration `mapstructure:"GEOCODER_TIMEOUT"`
	GeocoderRateLimit float64       `mapstructure:"GEOCODER_RATE_LIMIT"`
	GeocodeOrdering   string        `mapstructure:"GEOCODE_ORDERING"`

	CacheBackend string        `mapstructure:"CACHE_BACKEND"`
	CacheTTL     time.Duration `mapstructure:"CACHE_TTL"`
	CacheMissTTL time.Duration `mapstructure:"CACHE_MISS_TTL"`
	RedisAddr    string        `mapstructure:"REDIS_ADDR"`
	DBSource     string        `mapstructure:"DB_SOURCE"`

	MapCenterLat float64 `mapstructure:"MAP_CENTER_LAT"`
	MapCenterLon float64 `mapstructure:"MAP_CENTER_LON"`
	MapZoom      int     `mapstructure:"MAP_ZOOM"`

	SessionIdleTTL time.Duration `mapstructure:"SESSION_IDLE_TTL"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOCALE", "ru")

	v.SetDefault("GEOCODER_PROVIDER", ProviderYandex)
	v.SetDefault("YANDEX_API_KEY", "")
	v.SetDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("GEOCODER_TIMEOUT", 10*time.Second)
	v.SetDefault("GEOCODER_RATE_LIMIT", 5)
	v.SetDefault("GEOCODE_ORDERING", OrderingLastClick)

	v.SetDefault("CACHE_BACKEND", CacheMemory)
	v.SetDefault("CACHE_TTL", 24*time.Hour)
	v.SetDefault("CACHE_MISS_TTL", 10*time.Minute)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("DB_SOURCE", "")

	v.SetDefault("MAP_CENTER_LAT", 59.94077030138753)
	v.SetDefault("MAP_CENTER_LON", 30.31197058944388)
	v.SetDefault("MAP_ZOOM", 12)

	v.SetDefault("SESSION_IDLE_TTL", 30*time.Minute)
}

// LoadConfig reads configuration from app.env in path, if present, and from environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: failed to read config file: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: failed to decode config: %w", err)
	}

	return config, config.Validate()
}

// Validate checks enumerated values and ranges.
func (c Config) Validate() error {
	switch c.GeocoderProvider {
	case ProviderYandex, ProviderNominatim, ProviderPostGIS:
	default:
		return fmt.Errorf("config: invalid geocoder provider: %q", c.GeocoderProvider)
	}
	switch c.CacheBackend {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		return fmt.Errorf("config: invalid cache backend: %q", c.CacheBackend)
	}
	switch c.GeocodeOrdering {
	case OrderingLastClick, OrderingLastResolved:
	default:
		return fmt.Errorf("config: invalid geocode ordering: %q", c.GeocodeOrdering)
	}
	if c.MapZoom < 0 || c.MapZoom > 23 {
		return fmt.Errorf("config: invalid map zoom: %d", c.MapZoom)
	}
	if c.GeocoderTimeout <= 0 {
		return fmt.Errorf("config: geocoder timeout must be positive")
	}
	if c.GeocoderRateLimit < 0 {
		return fmt.Errorf("config: geocoder rate limit must not be negative")
	}
	return nil
}
