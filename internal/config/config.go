// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// RedisAddr is the Redis address for the tenant-scoped cache (e.g. localhost:6379).
	RedisAddr string `mapstructure:"REDIS_ADDR"`
	// OrgTokenSecret signs active-organization selection tokens. Required.
	OrgTokenSecret string `mapstructure:"ORG_TOKEN_SECRET"`
	// OrgTokenTTL is the selection token lifetime (e.g. "720h" for 30 days).
	OrgTokenTTL string `mapstructure:"ORG_TOKEN_TTL"`
	// TenantCacheTTL bounds tenant cache entries within a single epoch (e.g. "5m").
	TenantCacheTTL string `mapstructure:"TENANT_CACHE_TTL"`
	// RateLimit is the per-IP request rate in ulule/limiter format ("100-M" = 100/min). Empty disables.
	RateLimit string `mapstructure:"RATE_LIMIT"`
	// OTLPEndpoint is the OTLP trace collector endpoint (e.g. http://localhost:4317). Empty disables export.
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTLP_INSECURE"`
	// LogLevel is the zerolog level (debug, info, warn, error).
	LogLevel string `mapstructure:"LOG_LEVEL"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("ORG_TOKEN_SECRET", "")
	v.SetDefault("ORG_TOKEN_TTL", "720h") // 30d
	v.SetDefault("TENANT_CACHE_TTL", "5m")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("OTLP_INSECURE", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.OrgTokenSecret == "" {
		return nil, errors.New("config: ORG_TOKEN_SECRET must be set")
	}

	return &cfg, nil
}

// OrgTokenLifetime parses OrgTokenTTL as a time.Duration. Returns 720h if unset or invalid.
func (c *Config) OrgTokenLifetime() time.Duration {
	d, err := time.ParseDuration(c.OrgTokenTTL)
	if err != nil || d <= 0 {
		return 720 * time.Hour
	}
	return d
}

// CacheTTL parses TenantCacheTTL as a time.Duration. Returns 5m if unset or invalid.
func (c *Config) CacheTTL() time.Duration {
	d, err := time.ParseDuration(c.TenantCacheTTL)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}
