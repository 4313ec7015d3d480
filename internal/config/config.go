// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/ulule/limiter/v3"

	"github.com/mmynk/receiptsplit/internal/scanner"
	"github.com/mmynk/receiptsplit/internal/worker"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	Port          string
	DBPath        string
	ImageDir      string
	PublicBaseURL string
	StaticPath    string

	LogLevel  string
	LogFormat string

	CORSAllowedOrigins []string

	AnthropicAPIKey string
	ScanModel       string
	ScanTimeout     time.Duration
	ScanMaxBytes    int64
	ScanRateLimit   string
	ScanCacheTTL    time.Duration
	RedisURL        string

	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	JanitorSchedule string
	ImageRetention  time.Duration
}

// Load reads configuration from environment variables and an optional .env
// file, applies defaults and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	var errs []error
	duration := func(key, fallback string) time.Duration {
		raw := valueOrDefault(k.String(key), fallback)
		d, err := time.ParseDuration(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid duration %q", key, raw))
		}
		return d
	}

	cfg := &Config{
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DBPath:             valueOrDefault(k.String("DB_PATH"), "./data/bills.db"),
		ImageDir:           valueOrDefault(k.String("IMAGE_DIR"), "./data/images"),
		PublicBaseURL:      strings.TrimRight(valueOrDefault(k.String("PUBLIC_BASE_URL"), "http://localhost:8080"), "/"),
		StaticPath:         valueOrDefault(k.String("STATIC_PATH"), "../frontend/static"),
		LogLevel:           strings.ToLower(valueOrDefault(k.String("LOG_LEVEL"), "info")),
		LogFormat:          strings.ToLower(valueOrDefault(k.String("LOG_FORMAT"), "text")),
		CORSAllowedOrigins: splitAndTrim(valueOrDefault(k.String("CORS_ALLOWED_ORIGINS"), "*")),
		AnthropicAPIKey:    strings.TrimSpace(k.String("ANTHROPIC_API_KEY")),
		ScanModel:          valueOrDefault(k.String("SCAN_MODEL"), scanner.DefaultModel),
		ScanTimeout:        duration("SCAN_TIMEOUT", "60s"),
		ScanRateLimit:      valueOrDefault(k.String("SCAN_RATE_LIMIT"), "10-M"),
		ScanCacheTTL:       duration("SCAN_CACHE_TTL", "24h"),
		RedisURL:           strings.TrimSpace(k.String("REDIS_URL")),
		AMQPURL:            strings.TrimSpace(k.String("AMQP_URL")),
		AMQPExchange:       valueOrDefault(k.String("AMQP_EXCHANGE"), "receiptsplit"),
		AMQPRoutingKey:     valueOrDefault(k.String("AMQP_ROUTING_KEY"), "bill_events"),
		JanitorSchedule:    valueOrDefault(k.String("JANITOR_SCHEDULE"), "@hourly"),
		ImageRetention:     duration("IMAGE_RETENTION", "24h"),
	}

	rawMax := valueOrDefault(k.String("SCAN_MAX_BYTES"), "10485760")
	maxBytes, err := strconv.ParseInt(rawMax, 10, 64)
	if err != nil {
		errs = append(errs, fmt.Errorf("SCAN_MAX_BYTES: invalid integer %q", rawMax))
	}
	cfg.ScanMaxBytes = maxBytes

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if p, err := strconv.Atoi(strings.TrimPrefix(c.Port, ":")); err != nil || p <= 0 || p > 65535 {
		errs = append(errs, fmt.Errorf("PORT: invalid port %q", c.Port))
	}
	if u, err := url.Parse(c.PublicBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("PUBLIC_BASE_URL: must be an absolute URL, got %q", c.PublicBaseURL))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL: unknown level %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT: must be text or json, got %q", c.LogFormat))
	}
	if c.ScanMaxBytes <= 0 {
		errs = append(errs, errors.New("SCAN_MAX_BYTES: must be positive"))
	}
	if c.ScanTimeout < 0 {
		errs = append(errs, errors.New("SCAN_TIMEOUT: must not be negative"))
	}
	if _, err := limiter.NewRateFromFormatted(c.ScanRateLimit); err != nil {
		errs = append(errs, fmt.Errorf("SCAN_RATE_LIMIT: %w", err))
	}
	if c.RedisURL != "" {
		if _, err := url.Parse(c.RedisURL); err != nil {
			errs = append(errs, fmt.Errorf("REDIS_URL: %w", err))
		}
	}
	if err := worker.ValidateSchedule(c.JanitorSchedule); err != nil {
		errs = append(errs, fmt.Errorf("JANITOR_SCHEDULE: %w", err))
	}
	if c.ImageRetention <= 0 {
		errs = append(errs, errors.New("IMAGE_RETENTION: must be positive"))
	}

	return errors.Join(errs...)
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// ScanningEnabled reports whether a model provider is configured.
func (c *Config) ScanningEnabled() bool {
	return c.AnthropicAPIKey != ""
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
