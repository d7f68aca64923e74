package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"restaurant-matching-service/internal/domain"
	"restaurant-matching-service/internal/platform/obs"
	"restaurant-matching-service/internal/ports"
)

// ResolverConfig configures the cache-then-provider resolution path.
type ResolverConfig struct {
	// Upper bound on outstanding provider calls across all passes.
	MaxInFlight int
	// Per-call provider timeout; a timeout is a transport failure.
	Timeout time.Duration
}

// GeocodeResolver resolves addresses through the cache first and the external
// provider on a miss, storing fresh results. It is safe for concurrent use.
//
// Concurrent misses for the same address share one provider call.
type GeocodeResolver struct {
	cache    ports.GeocodeCache
	provider ports.GeocodeProvider
	sem      *semaphore.Weighted
	timeout  time.Duration
	inflight singleflight.Group
	now      func() time.Time
}

func NewGeocodeResolver(cache ports.GeocodeCache, provider ports.GeocodeProvider, cfg ResolverConfig) (*GeocodeResolver, error) {
	if cache == nil {
		return nil, errors.New("geocode resolver: cache is required")
	}
	if provider == nil {
		return nil, errors.New("geocode resolver: provider is required")
	}
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &GeocodeResolver{
		cache:    cache,
		provider: provider,
		sem:      semaphore.NewWeighted(int64(cfg.MaxInFlight)),
		timeout:  cfg.Timeout,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// Resolve returns the coordinates for address.
//
// The bool result is false when the address is blank or the provider could
// not resolve it (no match or transport failure); such outcomes are not
// cached. An error is only returned for cache read failures and cancellation
// of ctx.
//
// Concurrent misses for one address share a single provider call. That call
// is detached from the callers' cancellation and bounded by the resolver
// timeout, so one caller going away never fails the others.
func (r *GeocodeResolver) Resolve(ctx context.Context, address string) (domain.Coordinates, bool, error) {
	norm := domain.NormalizeAddress(address)
	if norm == "" {
		return domain.Coordinates{}, false, nil
	}
	if err := ctx.Err(); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("resolve %q: %w", norm, err)
	}

	entry, hit, err := r.cache.Lookup(ctx, norm)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("resolve %q: cache lookup: %w", norm, err)
	}
	if hit {
		obs.GeocodeCacheLookups.WithLabelValues("hit").Inc()
		return entry.Coords, true, nil
	}
	obs.GeocodeCacheLookups.WithLabelValues("miss").Inc()

	flight := context.WithoutCancel(ctx)
	ch := r.inflight.DoChan(norm, func() (any, error) {
		return r.fetch(flight, norm)
	})

	select {
	case <-ctx.Done():
		return domain.Coordinates{}, false, fmt.Errorf("resolve %q: %w", norm, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return domain.Coordinates{}, false, nil
		}
		return res.Val.(domain.Coordinates), true, nil
	}
}

// fetch performs one provider call and records its outcome. It runs once per
// flight, so metrics and logs count provider calls rather than callers.
func (r *GeocodeResolver) fetch(ctx context.Context, norm string) (domain.Coordinates, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return domain.Coordinates{}, err
	}
	defer r.sem.Release(1)

	// A previous flight may have stored the address while this one queued.
	if entry, hit, err := r.cache.Lookup(ctx, norm); err == nil && hit {
		return entry.Coords, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	coords, err := r.provider.Resolve(callCtx, norm)
	if err != nil {
		logger := obs.Logger(ctx).With(zap.String("address", norm))
		if errors.Is(err, ports.ErrNoMatch) {
			obs.GeocodeProviderRequests.WithLabelValues("no_match").Inc()
			logger.Warn("address not resolvable", zap.String("reason", "no_match"))
		} else {
			obs.GeocodeProviderRequests.WithLabelValues("error").Inc()
			logger.Warn("geocode provider failed", zap.String("reason", "transport"), zap.Error(err))
		}
		return domain.Coordinates{}, err
	}
	obs.GeocodeProviderRequests.WithLabelValues("ok").Inc()

	if err := r.cache.Store(ctx, norm, coords, r.now()); err != nil {
		obs.Logger(ctx).Error("geocode cache write failed", zap.String("address", norm), zap.Error(err))
	}

	return coords, nil
}
