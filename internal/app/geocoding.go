// Package app builds the geocoding stack from configuration.
// It is shared by the server and the dbtool binaries.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"

	"restaurant-matching-service/internal/adapters/cache"
	"restaurant-matching-service/internal/adapters/geocode"
	"restaurant-matching-service/internal/config"
	"restaurant-matching-service/internal/ports"
	"restaurant-matching-service/internal/services"
)

// NewGeocodeCache returns the cache selected by GEOCODE_CACHE.
// The returned close func releases any connection the cache owns.
func NewGeocodeCache(ctx context.Context, cfg config.Config, db *sql.DB) (ports.GeocodeCache, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Geocode.Cache {
	case "sql":
		return cache.NewSQLGeocodeCache(db), noop, nil
	case "memory":
		return cache.NewMemoryGeocodeCache(), noop, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("geocode cache: redis ping %s: %w", cfg.Redis.Addr, err)
		}
		return cache.NewRedisGeocodeCache(client, ""), client.Close, nil
	default:
		return nil, noop, fmt.Errorf("geocode cache: unknown backend %q", cfg.Geocode.Cache)
	}
}

// NewGeocodeProvider returns the external geocoder selected by GEOCODER.
func NewGeocodeProvider(cfg config.Config) (ports.GeocodeProvider, error) {
	switch cfg.Geocode.Provider {
	case "ors":
		g, err := geocode.NewORSGeocoder(geocode.ORSConfig{
			APIKey:  cfg.Geocode.ORSKey,
			Region:  cfg.Geocode.Region,
			Timeout: cfg.Geocode.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("geocode provider: %w", err)
		}
		return g, nil
	case "google":
		g, err := geocode.NewGoogleGeocoder(cfg.Geocode.GoogleKey, cfg.Geocode.Region)
		if err != nil {
			return nil, fmt.Errorf("geocode provider: %w", err)
		}
		return g, nil
	default:
		return nil, fmt.Errorf("geocode provider: unknown provider %q", cfg.Geocode.Provider)
	}
}

// NewResolver wires cache and provider into a GeocodeResolver.
func NewResolver(ctx context.Context, cfg config.Config, db *sql.DB) (*services.GeocodeResolver, func() error, error) {
	c, closeCache, err := NewGeocodeCache(ctx, cfg, db)
	if err != nil {
		return nil, closeCache, err
	}
	p, err := NewGeocodeProvider(cfg)
	if err != nil {
		return nil, closeCache, err
	}

	r, err := services.NewGeocodeResolver(c, p, services.ResolverConfig{
		MaxInFlight: cfg.Geocode.MaxInFlight,
		Timeout:     cfg.Geocode.Timeout,
	})
	if err != nil {
		return nil, closeCache, err
	}
	return r, closeCache, nil
}
