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
	HTTP    HTTPConfig    `yaml:"http"`
	Auth    AuthConfig    `yaml:"auth"`
	AirNow  AirNowConfig  `yaml:"airnow"`
	Geocode GeocodeConfig `yaml:"geocode"`
	Tempo   TempoConfig   `yaml:"tempo"`
	Cache   CacheConfig   `yaml:"cache"`
	Notify  NotifyConfig  `yaml:"notify"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	Secret          string        `yaml:"secret"`
	TokenTTL        time.Duration `yaml:"tokenTtl"`
	RefreshTokenTTL time.Duration `yaml:"refreshTokenTtl"`
	Postgres        PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// AirNowConfig controls the primary observation source.
type AirNowConfig struct {
	APIKey     string `yaml:"apiKey"`
	BaseURL    string `yaml:"baseUrl"`
	DistanceKm int    `yaml:"distanceKm"`
}

// GeocodeConfig controls the Nominatim geocoder.
type GeocodeConfig struct {
	BaseURL   string `yaml:"baseUrl"`
	UserAgent string `yaml:"userAgent"`
}

// TempoConfig controls the supplemental NO2 source.
type TempoConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"baseUrl"`
}

// CacheConfig controls payload caching.
type CacheConfig struct {
	TTL   time.Duration `yaml:"ttl"`
	Redis RedisConfig   `yaml:"redis"`
}

// RedisConfig contains connection information for cache storage.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// NotifyConfig controls urgent SMS dispatch.
type NotifyConfig struct {
	Enabled           bool    `yaml:"enabled"`
	BaseURL           string  `yaml:"baseUrl"`
	APIKey            string  `yaml:"apiKey"`
	SeverityThreshold float64 `yaml:"severityThreshold"`
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
		cfg.HTTP.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = isTruthy(v)
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
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = isTruthy(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("AUTH_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = parsed
		}
	}
	if v := os.Getenv("AUTH_REFRESH_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.RefreshTokenTTL = parsed
		}
	}
	if v := os.Getenv("AUTH_POSTGRES_DSN"); v != "" {
		cfg.Auth.Postgres.DSN = v
	}
	if v := os.Getenv("AUTH_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Auth.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("AUTH_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Auth.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("AIRNOW_API_KEY"); v != "" {
		cfg.AirNow.APIKey = v
	}
	if v := os.Getenv("AIRNOW_BASE_URL"); v != "" {
		cfg.AirNow.BaseURL = v
	}
	if v := os.Getenv("AIRNOW_DISTANCE_KM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.AirNow.DistanceKm = parsed
		}
	}
	if v := os.Getenv("GEOCODE_BASE_URL"); v != "" {
		cfg.Geocode.BaseURL = v
	}
	if v := os.Getenv("GEOCODE_USER_AGENT"); v != "" {
		cfg.Geocode.UserAgent = v
	}
	if v := os.Getenv("TEMPO_ENABLED"); v != "" {
		cfg.Tempo.Enabled = isTruthy(v)
	}
	if v := os.Getenv("TEMPO_BASE_URL"); v != "" {
		cfg.Tempo.BaseURL = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = parsed
		}
	}
	if v := os.Getenv("CACHE_REDIS_ENABLED"); v != "" {
		cfg.Cache.Redis.Enabled = isTruthy(v)
	}
	if v := os.Getenv("CACHE_REDIS_ADDR"); v != "" {
		cfg.Cache.Redis.Addr = v
	}
	if v := os.Getenv("NOTIFY_ENABLED"); v != "" {
		cfg.Notify.Enabled = isTruthy(v)
	}
	if v := os.Getenv("NOTIFY_BASE_URL"); v != "" {
		cfg.Notify.BaseURL = v
	}
	if v := os.Getenv("NOTIFY_API_KEY"); v != "" {
		cfg.Notify.APIKey = v
	}
	if v := os.Getenv("NOTIFY_SEVERITY_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Notify.SeverityThreshold = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     false,
				MaxAttempts: 3,
				BaseBackoff: 100 * time.Millisecond,
				Exclude:     []string{"/api/v1/auth/register"},
			},
		},
		Auth: AuthConfig{
			Secret:          "super-secret-key",
			TokenTTL:        time.Hour,
			RefreshTokenTTL: 7 * 24 * time.Hour,
			Postgres: PostgresConfig{
				MaxConns: 4,
				MinConns: 0,
			},
		},
		AirNow: AirNowConfig{
			BaseURL:    "https://www.airnowapi.org/aq/observation/latLong/current/",
			DistanceKm: 25,
		},
		Geocode: GeocodeConfig{
			BaseURL:   "https://nominatim.openstreetmap.org/search",
			UserAgent: "aqi-advisor/1.0 (+https://example.com)",
		},
		Tempo: TempoConfig{
			Enabled: true,
			BaseURL: "https://api.epa.gov/tempo/no2",
		},
		Cache: CacheConfig{
			TTL: 10 * time.Minute,
		},
		Notify: NotifyConfig{
			Enabled:           false,
			BaseURL:           "https://textbelt.com/text",
			SeverityThreshold: 0.75,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.Auth.Secret == "" {
		return errors.New("auth.secret cannot be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.tokenTtl must be positive")
	}
	if c.Auth.RefreshTokenTTL <= 0 {
		return errors.New("auth.refreshTokenTtl must be positive")
	}
	if c.AirNow.BaseURL == "" {
		return errors.New("airnow.baseUrl cannot be empty")
	}
	if c.AirNow.DistanceKm <= 0 {
		return errors.New("airnow.distanceKm must be positive")
	}
	if c.Geocode.BaseURL == "" {
		return errors.New("geocode.baseUrl cannot be empty")
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl cannot be negative")
	}
	if c.Cache.Redis.Enabled && strings.TrimSpace(c.Cache.Redis.Addr) == "" {
		return errors.New("cache.redis.addr cannot be empty when redis cache is enabled")
	}
	if c.Notify.SeverityThreshold < 0 || c.Notify.SeverityThreshold > 1 {
		return errors.New("notify.severityThreshold must be within [0,1]")
	}
	if c.Notify.Enabled && c.Notify.BaseURL == "" {
		return errors.New("notify.baseUrl cannot be empty when notification is enabled")
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts < 2 {
			return errors.New("http.retry.maxAttempts must be at least 2 when retry is enabled")
		}
		if c.HTTP.Retry.BaseBackoff < 0 {
			return errors.New("http.retry.baseBackoff cannot be negative")
		}
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

func isTruthy(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitAndTrim(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
