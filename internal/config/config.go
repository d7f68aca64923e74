// Package config loads service settings from the environment (optionally from a .env file).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type GeocodeConfig struct {
	Provider    string
	ORSKey      string
	GoogleKey   string
	Region      string
	Cache       string
	Timeout     time.Duration
	MaxInFlight int
}

type Config struct {
	Port string
	DB   struct {
		Driver string
		URL    string
	}
	Redis struct {
		Addr string
	}
	Geocode      GeocodeConfig
	MatchWorkers int
	SeedPath     string
	SeedOnStart  bool
}

// Load reads the configuration. Malformed numeric or duration values are errors.
func Load() (Config, error) {
	var cfg Config
	var errs []error

	cfg.Port = Get("PORT", "8080")
	cfg.DB.Driver = Get("DB_DRIVER", "pgx")
	cfg.DB.URL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.Redis.Addr = Get("REDIS_ADDR", "localhost:6379")
	cfg.SeedPath = Get("SEED_PATH", "data/seeds/menu.json")

	cfg.Geocode.Provider = strings.ToLower(Get("GEOCODER", "ors"))
	cfg.Geocode.ORSKey = strings.TrimSpace(os.Getenv("ORS_API_KEY"))
	cfg.Geocode.GoogleKey = strings.TrimSpace(os.Getenv("GOOGLE_MAPS_API_KEY"))
	cfg.Geocode.Region = Get("GEOCODE_REGION", "RU")
	cfg.Geocode.Cache = strings.ToLower(Get("GEOCODE_CACHE", "sql"))

	var err error
	if cfg.SeedOnStart, err = getBool("SEED_ON_START", false); err != nil {
		errs = append(errs, err)
	}
	if cfg.Geocode.Timeout, err = getDuration("GEOCODE_TIMEOUT", 10*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.Geocode.MaxInFlight, err = getPositiveInt("GEOCODE_MAX_INFLIGHT", 4); err != nil {
		errs = append(errs, err)
	}
	if cfg.MatchWorkers, err = getPositiveInt("MATCH_WORKERS", 4); err != nil {
		errs = append(errs, err)
	}

	if cfg.DB.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}

	switch cfg.DB.Driver {
	case "pgx", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be pgx or sqlite, got %q", cfg.DB.Driver))
	}

	switch cfg.Geocode.Cache {
	case "sql", "redis", "memory":
	default:
		errs = append(errs, fmt.Errorf("GEOCODE_CACHE must be sql, redis or memory, got %q", cfg.Geocode.Cache))
	}

	switch cfg.Geocode.Provider {
	case "ors":
		if cfg.Geocode.ORSKey == "" {
			errs = append(errs, errors.New("ORS_API_KEY is required when GEOCODER=ors"))
		}
	case "google":
		if cfg.Geocode.GoogleKey == "" {
			errs = append(errs, errors.New("GOOGLE_MAPS_API_KEY is required when GEOCODER=google"))
		}
	default:
		errs = append(errs, fmt.Errorf("GEOCODER must be ors or google, got %q", cfg.Geocode.Provider))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Get returns the trimmed value of key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getPositiveInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, v)
	}
	return b, nil
}
