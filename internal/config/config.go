package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	DatabaseURL string
	LogLevel    string

	Cache    CacheConfig
	TMDB     TMDBConfig
	AniList  AniListConfig
	Upstream UpstreamConfig
	Auth     AuthConfig
	HTTP     HTTPConfig
}

// CacheConfig selects the key-value store behind the catalog cache.
// Backend is one of "redis", "memory" or "none"; an empty backend means
// redis when RedisURL is set and none otherwise.
type CacheConfig struct {
	Backend   string
	RedisURL  string
	ListTTL   time.Duration
	DetailTTL time.Duration
}

// TMDBConfig and AniListConfig carry per-provider settings. A zero
// RatePerSecond falls back to UpstreamConfig.RatePerSecond.
type TMDBConfig struct {
	APIKey          string
	BaseURL         string
	ImageBaseURL    string
	CreditsLanguage string
	RatePerSecond   float64
}

type AniListConfig struct {
	URL           string
	RatePerSecond float64
}

type UpstreamConfig struct {
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
	MaxRetries    int
	RetryDelay    time.Duration
	UserAgent     string
}

// WithRate returns u with its rate limit replaced by rps when rps is positive.
func (u UpstreamConfig) WithRate(rps float64) UpstreamConfig {
	if rps > 0 {
		u.RatePerSecond = rps
	}
	return u
}

type AuthConfig struct {
	SecretKey      string
	Algorithm      string
	AccessTokenTTL time.Duration
}

type HTTPConfig struct {
	CORSOrigins        []string
	RateLimitPerMinute int
}

// SetDefaults registers every known key on v so AutomaticEnv can resolve it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "8000")
	v.SetDefault("database_url", "")
	v.SetDefault("log_level", "info")

	v.SetDefault("cache_backend", "")
	v.SetDefault("redis_url", "")
	v.SetDefault("cache_list_ttl", "10m")
	v.SetDefault("cache_detail_ttl", "1h")

	v.SetDefault("tmdb_api_key", "")
	v.SetDefault("tmdb_base_url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb_image_base_url", "https://image.tmdb.org/t/p/w500")
	v.SetDefault("tmdb_credits_language", "pt-BR")
	v.SetDefault("tmdb_rate_per_second", 0.0)
	v.SetDefault("anilist_url", "https://graphql.anilist.co")
	v.SetDefault("anilist_rate_per_second", 0.0)

	v.SetDefault("upstream_timeout", "15s")
	v.SetDefault("upstream_rate_per_second", 5.0)
	v.SetDefault("upstream_burst", 5)
	v.SetDefault("upstream_max_retries", 0)
	v.SetDefault("upstream_retry_delay", "1s")
	v.SetDefault("upstream_user_agent", "CineList/1.0")

	v.SetDefault("secret_key", "")
	v.SetDefault("algorithm", "HS256")
	v.SetDefault("access_token_expire_minutes", 60)

	v.SetDefault("cors_origins", "*")
	v.SetDefault("rate_limit_per_minute", 120)
}

// Load builds a Config from v. Call SetDefaults and AutomaticEnv on v first.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:        v.GetString("port"),
		DatabaseURL: v.GetString("database_url"),
		LogLevel:    v.GetString("log_level"),
		Cache: CacheConfig{
			Backend:   strings.ToLower(strings.TrimSpace(v.GetString("cache_backend"))),
			RedisURL:  v.GetString("redis_url"),
			ListTTL:   v.GetDuration("cache_list_ttl"),
			DetailTTL: v.GetDuration("cache_detail_ttl"),
		},
		TMDB: TMDBConfig{
			APIKey:          v.GetString("tmdb_api_key"),
			BaseURL:         strings.TrimRight(v.GetString("tmdb_base_url"), "/"),
			ImageBaseURL:    strings.TrimRight(v.GetString("tmdb_image_base_url"), "/"),
			CreditsLanguage: v.GetString("tmdb_credits_language"),
			RatePerSecond:   v.GetFloat64("tmdb_rate_per_second"),
		},
		AniList: AniListConfig{
			URL:           v.GetString("anilist_url"),
			RatePerSecond: v.GetFloat64("anilist_rate_per_second"),
		},
		Upstream: UpstreamConfig{
			Timeout:       v.GetDuration("upstream_timeout"),
			RatePerSecond: v.GetFloat64("upstream_rate_per_second"),
			Burst:         v.GetInt("upstream_burst"),
			MaxRetries:    v.GetInt("upstream_max_retries"),
			RetryDelay:    v.GetDuration("upstream_retry_delay"),
			UserAgent:     v.GetString("upstream_user_agent"),
		},
		Auth: AuthConfig{
			SecretKey:      v.GetString("secret_key"),
			Algorithm:      strings.ToUpper(v.GetString("algorithm")),
			AccessTokenTTL: time.Duration(v.GetInt("access_token_expire_minutes")) * time.Minute,
		},
		HTTP: HTTPConfig{
			CORSOrigins:        splitList(v.GetString("cors_origins")),
			RateLimitPerMinute: v.GetInt("rate_limit_per_minute"),
		},
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "none"
		if cfg.Cache.RedisURL != "" {
			cfg.Cache.Backend = "redis"
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case "redis", "memory", "none":
	default:
		return fmt.Errorf("invalid cache_backend %q (must be 'redis', 'memory' or 'none')", c.Cache.Backend)
	}
	if c.Cache.ListTTL <= 0 || c.Cache.DetailTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	if c.Auth.Algorithm != "HS256" {
		return fmt.Errorf("unsupported JWT algorithm %q (only HS256 is supported)", c.Auth.Algorithm)
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("access_token_expire_minutes must be positive")
	}
	if c.Upstream.MaxRetries < 0 {
		return fmt.Errorf("upstream_max_retries cannot be negative")
	}
	return nil
}

// RequireServer checks the settings that only the API server needs.
func (c *Config) RequireServer() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Auth.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}
	if c.TMDB.APIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required")
	}
	return nil
}

// GetEnv retrieves values from environment files based on the key it matches,
// returns a string (value) if not empty
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
