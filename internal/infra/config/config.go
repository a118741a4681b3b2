package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Calendar   CalendarConfig   `yaml:"calendar"`
	Geocoder   GeocoderConfig   `yaml:"geocoder"`
	PlaceCache PlaceCacheConfig `yaml:"placeCache"`
	Presets    PresetsConfig    `yaml:"presets"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// CalendarConfig tunes grid construction.
type CalendarConfig struct {
	Workers int `yaml:"workers"`
}

// GeocoderConfig controls the reverse-geocoding collaborator.
type GeocoderConfig struct {
	Enabled   bool          `yaml:"enabled"`
	BaseURL   string        `yaml:"baseUrl"`
	UserAgent string        `yaml:"userAgent"`
	Zoom      int           `yaml:"zoom"`
	Timeout   time.Duration `yaml:"timeout"`
}

// PlaceCacheConfig controls how resolved place names are memoized.
type PlaceCacheConfig struct {
	TTL   time.Duration `yaml:"ttl"`
	Redis RedisConfig   `yaml:"redis"`
}

// RedisConfig contains connection information for cache storage.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// PresetsConfig selects where the preset location table lives.
type PresetsConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("CALENDAR_WORKERS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Calendar.Workers = parsed
		}
	}
	if v := os.Getenv("GEOCODER_ENABLED"); v != "" {
		cfg.Geocoder.Enabled = parseBool(v)
	}
	if v := os.Getenv("GEOCODER_BASE_URL"); v != "" {
		cfg.Geocoder.BaseURL = v
	}
	if v := os.Getenv("GEOCODER_USER_AGENT"); v != "" {
		cfg.Geocoder.UserAgent = v
	}
	if v := os.Getenv("GEOCODER_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Geocoder.Timeout = parsed
		}
	}
	if v := os.Getenv("PLACE_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.PlaceCache.TTL = parsed
		}
	}
	if v := os.Getenv("PLACE_CACHE_REDIS_ENABLED"); v != "" {
		cfg.PlaceCache.Redis.Enabled = parseBool(v)
	}
	if v := os.Getenv("PLACE_CACHE_REDIS_ADDR"); v != "" {
		cfg.PlaceCache.Redis.Addr = v
	}
	if v := os.Getenv("PRESETS_POSTGRES_DSN"); v != "" {
		cfg.Presets.Postgres.DSN = v
	}
	if v := os.Getenv("PRESETS_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Presets.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("PRESETS_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Presets.Postgres.MinConns = int32(parsed)
		}
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		Calendar: CalendarConfig{
			Workers: 4,
		},
		Geocoder: GeocoderConfig{
			Enabled:   true,
			BaseURL:   "https://nominatim.openstreetmap.org",
			UserAgent: "lunar-calendar/1.0",
			Zoom:      10,
			Timeout:   10 * time.Second,
		},
		PlaceCache: PlaceCacheConfig{
			TTL: 24 * time.Hour,
			Redis: RedisConfig{
				Enabled: false,
				Prefix:  "lunar",
			},
		},
		Presets: PresetsConfig{
			Postgres: PostgresConfig{
				DSN:      "",
				MaxConns: 4,
				MinConns: 0,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.Calendar.Workers < 0 {
		return errors.New("calendar.workers cannot be negative")
	}
	if c.Geocoder.Enabled {
		if strings.TrimSpace(c.Geocoder.BaseURL) == "" {
			return errors.New("geocoder.baseUrl cannot be empty when the geocoder is enabled")
		}
		if strings.TrimSpace(c.Geocoder.UserAgent) == "" {
			return errors.New("geocoder.userAgent cannot be empty when the geocoder is enabled")
		}
		if c.Geocoder.Timeout <= 0 {
			return errors.New("geocoder.timeout must be positive")
		}
	}
	if c.PlaceCache.TTL < 0 {
		return errors.New("placeCache.ttl cannot be negative")
	}
	if c.PlaceCache.Redis.Enabled && strings.TrimSpace(c.PlaceCache.Redis.Addr) == "" {
		return errors.New("placeCache.redis.addr cannot be empty when redis cache is enabled")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}
