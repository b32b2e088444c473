package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// UserSeed describes one entry of the static user table loaded at startup.
// Format in AUTH_USERS: username:password:ROLE[:customerSince], comma separated.
type UserSeed struct {
	Username      string
	Password      string
	Role          string
	CustomerSince *time.Time
}

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv string
	Port   string

	JWTSecret string
	TokenTTL  time.Duration
	Users     []UserSeed

	RedisURL string

	ExchangeProvider  string
	RateCacheTTL      time.Duration
	RateCacheCapacity int

	ExchangeRateAPIURL string
	ExchangeRateAPIKey string
	OpenExchangeURL    string
	OpenExchangeAppID  string
	ProviderTimeout    time.Duration

	RateLimitWindow time.Duration
	RateLimitMax    int

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		JWTSecret:          k.String("JWT_SECRET"),
		TokenTTL:           parseDuration(k.String("TOKEN_TTL"), "1h"),
		RedisURL:           strings.TrimSpace(k.String("REDIS_URL")),
		ExchangeProvider:   valueOrDefault(k.String("EXCHANGE_PROVIDER"), "exchangerateapi"),
		RateCacheTTL:       parseDuration(k.String("RATE_CACHE_TTL"), "1h"),
		RateCacheCapacity:  parseInt(k.String("RATE_CACHE_CAPACITY"), 1000),
		ExchangeRateAPIURL: valueOrDefault(k.String("EXCHANGERATE_API_URL"), "https://v6.exchangerate-api.com/v6"),
		ExchangeRateAPIKey: strings.TrimSpace(k.String("EXCHANGERATE_API_KEY")),
		OpenExchangeURL:    valueOrDefault(k.String("OPENEXCHANGERATES_URL"), "https://openexchangerates.org/api"),
		OpenExchangeAppID:  strings.TrimSpace(k.String("OPENEXCHANGERATES_APP_ID")),
		ProviderTimeout:    parseDuration(k.String("EXCHANGE_PROVIDER_TIMEOUT"), "5s"),
		RateLimitWindow:    parseDuration(k.String("BILLING_RATE_LIMIT_WINDOW"), "1m"),
		RateLimitMax:       parseInt(k.String("BILLING_RATE_LIMIT_MAX"), 60),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
	}

	users, err := parseUsers(k.String("AUTH_USERS"))
	if err != nil {
		return nil, err
	}
	cfg.Users = users

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.RateCacheTTL <= 0 {
		return nil, errors.New("RATE_CACHE_TTL must be positive")
	}
	if cfg.RateCacheCapacity <= 0 {
		return nil, errors.New("RATE_CACHE_CAPACITY must be positive")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func parseUsers(raw string) ([]UserSeed, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	entries := strings.Split(trimmed, ",")
	seeds := make([]UserSeed, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) < 3 {
			return nil, fmt.Errorf("AUTH_USERS entry %q: want username:password:ROLE[:customerSince]", entry)
		}
		seed := UserSeed{
			Username: strings.TrimSpace(parts[0]),
			Password: parts[1],
			Role:     strings.ToUpper(strings.TrimSpace(parts[2])),
		}
		if seed.Username == "" || seed.Password == "" {
			return nil, fmt.Errorf("AUTH_USERS entry %q: username and password are required", entry)
		}
		if len(parts) > 3 {
			since, err := time.Parse("2006-01-02", strings.TrimSpace(parts[3]))
			if err != nil {
				return nil, fmt.Errorf("AUTH_USERS entry %q: customerSince must be YYYY-MM-DD: %w", entry, err)
			}
			seed.CustomerSince = &since
		}
		seeds = append(seeds, seed)
	}
	return seeds, nil
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
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return fallback
	}
	return parsed
}
