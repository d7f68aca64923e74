package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"restaurant-matching-service/internal/domain"
	"restaurant-matching-service/internal/platform/obs"
)

const defaultGeocodeKeyPrefix = "geocode:"

// RedisGeocodeCache stores one hash per normalized address
// (fields lat, lon, resolved_at). Entries carry no TTL.
type RedisGeocodeCache struct {
	client    redis.Cmdable
	keyPrefix string
}

func NewRedisGeocodeCache(client redis.Cmdable, prefix string) *RedisGeocodeCache {
	if prefix == "" {
		prefix = defaultGeocodeKeyPrefix
	}
	return &RedisGeocodeCache{client: client, keyPrefix: prefix}
}

func (r *RedisGeocodeCache) Lookup(ctx context.Context, address string) (_ domain.GeocodeEntry, _ bool, err error) {
	defer obs.Time(ctx, "geocode.redis.Lookup")(&err)

	if r.client == nil {
		return domain.GeocodeEntry{}, false, errors.New("redis geocode cache not configured")
	}

	vals, err := r.client.HGetAll(ctx, r.keyPrefix+address).Result()
	if err != nil {
		return domain.GeocodeEntry{}, false, fmt.Errorf("redis hgetall: %w", err)
	}
	if len(vals) == 0 {
		return domain.GeocodeEntry{}, false, nil
	}

	lat, err := strconv.ParseFloat(vals["lat"], 64)
	if err != nil {
		return domain.GeocodeEntry{}, false, fmt.Errorf("redis geocode %q: parse lat: %w", address, err)
	}
	lon, err := strconv.ParseFloat(vals["lon"], 64)
	if err != nil {
		return domain.GeocodeEntry{}, false, fmt.Errorf("redis geocode %q: parse lon: %w", address, err)
	}
	ts, err := strconv.ParseInt(vals["resolved_at"], 10, 64)
	if err != nil {
		return domain.GeocodeEntry{}, false, fmt.Errorf("redis geocode %q: parse resolved_at: %w", address, err)
	}

	return domain.GeocodeEntry{
		Address:    address,
		Coords:     domain.Coordinates{Lat: lat, Lon: lon},
		ResolvedAt: time.Unix(ts, 0).UTC(),
	}, true, nil
}

func (r *RedisGeocodeCache) Store(ctx context.Context, address string, coords domain.Coordinates, resolvedAt time.Time) error {
	if r.client == nil {
		return errors.New("redis geocode cache not configured")
	}
	if strings.TrimSpace(address) == "" {
		return errEmptyAddress
	}

	err := r.client.HSet(ctx, r.keyPrefix+address,
		"lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64),
		"lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64),
		"resolved_at", strconv.FormatInt(resolvedAt.Unix(), 10),
	).Err()
	if err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}
