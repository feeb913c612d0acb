// Package config loads the storefront settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/stripe/stripe-go/v79"
)

type Config struct {
	HTTPAddr        string
	DatabaseURL     string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	NATSURL         string
	SMTP            SMTP
	StoreEmail      string
	AdminToken      string
	AdminEmail      string
	AdminPassword   string
	Currency        stripe.Currency
	CartTTL         time.Duration
	CartCacheSize   int
	CartIdleTTL     time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	WorkerPoolSize  int
	SeedCatalog     bool
	LogDevelopment  bool
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Load reads an optional .env file from the working directory and then the
// process environment. Variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	e := env{lookup: lookup}

	cfg := &Config{
		HTTPAddr:      e.getString("HTTP_ADDR", ":8080"),
		DatabaseURL:   e.getString("DATABASE_URL", ""),
		RedisAddr:     e.getString("REDIS_ADDR", ""),
		RedisPassword: e.getString("REDIS_PASSWORD", ""),
		RedisDB:       e.getInt("REDIS_DB", 0),
		NATSURL:       e.getString("NATS_URL", ""),
		SMTP: SMTP{
			Host:     e.getString("SMTP_HOST", "smtp.gmail.com"),
			Port:     e.getInt("SMTP_PORT", 465),
			Username: e.getString("SMTP_USERNAME", ""),
			Password: e.getString("SMTP_PASSWORD", ""),
		},
		StoreEmail:      e.getString("STORE_EMAIL", ""),
		AdminToken:      e.getString("ADMIN_TOKEN", ""),
		AdminEmail:      e.getString("ADMIN_EMAIL", ""),
		AdminPassword:   e.getString("ADMIN_PASSWORD", ""),
		Currency:        stripe.Currency(strings.ToLower(e.getString("STORE_CURRENCY", string(stripe.CurrencyEUR)))),
		CartTTL:         e.getDuration("CART_TTL", 720*time.Hour),
		CartCacheSize:   e.getInt("CART_CACHE_SIZE", 10000),
		CartIdleTTL:     e.getDuration("CART_IDLE_TTL", 30*time.Minute),
		RequestTimeout:  e.getDuration("REQUEST_TIMEOUT", 10*time.Second),
		ShutdownTimeout: e.getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		WorkerPoolSize:  e.getInt("WORKER_POOL_SIZE", 4),
		SeedCatalog:     e.getBool("SEED_CATALOG", false),
		LogDevelopment:  e.getBool("LOG_DEVELOPMENT", false),
	}

	if err := errors.Join(e.errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.AdminToken == "" {
		errs = append(errs, errors.New("ADMIN_TOKEN is required"))
	}
	if len(c.Currency) != 3 {
		errs = append(errs, fmt.Errorf("STORE_CURRENCY %q is not a three-letter code", c.Currency))
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("SMTP_PORT %d is out of range", c.SMTP.Port))
	}
	if c.WorkerPoolSize <= 0 {
		errs = append(errs, errors.New("WORKER_POOL_SIZE must be positive"))
	}
	for name, d := range map[string]time.Duration{
		"REQUEST_TIMEOUT":  c.RequestTimeout,
		"SHUTDOWN_TIMEOUT": c.ShutdownTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if c.CartTTL < 0 {
		errs = append(errs, errors.New("CART_TTL must not be negative"))
	}
	if c.CartCacheSize <= 0 {
		errs = append(errs, errors.New("CART_CACHE_SIZE must be positive"))
	}
	if c.CartIdleTTL < 0 {
		errs = append(errs, errors.New("CART_IDLE_TTL must not be negative"))
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		errs = append(errs, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together"))
	}
	return errors.Join(errs...)
}

type env struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *env) getString(key, defaultValue string) string {
	if value, ok := e.lookup(key); ok {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return defaultValue
}

func (e *env) getInt(key string, defaultValue int) int {
	raw := e.getString(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultValue
	}
	return value
}

func (e *env) getBool(key string, defaultValue bool) bool {
	raw := e.getString(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultValue
	}
	return value
}

func (e *env) getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := e.getString(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultValue
	}
	return value
}
