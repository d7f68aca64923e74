package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"restaurant-matching-service/internal/domain"
	"restaurant-matching-service/internal/platform/obs"
)

// AddressResolver resolves a free-text address; ok=false means unresolved.
type AddressResolver interface {
	Resolve(ctx context.Context, address string) (domain.Coordinates, bool, error)
}

// DistanceRanker orders candidate restaurants by geodesic distance to a
// delivery address. It keeps no state between calls.
type DistanceRanker struct {
	resolver AddressResolver
}

func NewDistanceRanker(resolver AddressResolver) (*DistanceRanker, error) {
	if resolver == nil {
		return nil, errors.New("distance ranker: resolver is required")
	}
	return &DistanceRanker{resolver: resolver}, nil
}

// Rank returns every candidate exactly once: restaurants with a known
// distance first (ascending, ties by name then id), then restaurants whose
// distance is unknown in their input order.
//
// If the origin cannot be resolved every distance is unknown. Provider
// failures never abort the ranking; only cache read failures do.
func (d *DistanceRanker) Rank(
	ctx context.Context,
	origin string,
	candidates []domain.Restaurant,
) (_ []domain.RankedRestaurant, err error) {
	defer obs.Time(ctx, "ranker.Rank")(&err)

	out := make([]domain.RankedRestaurant, 0, len(candidates))
	if len(candidates) == 0 {
		return out, nil
	}

	originCoords, originOK, err := d.resolver.Resolve(ctx, origin)
	if err != nil {
		return nil, fmt.Errorf("rank: resolve origin: %w", err)
	}
	if !originOK {
		for _, c := range candidates {
			out = append(out, domain.RankedRestaurant{Restaurant: c})
		}
		return out, nil
	}

	known := make([]domain.RankedRestaurant, 0, len(candidates))
	unknown := make([]domain.RankedRestaurant, 0)

	for _, c := range candidates {
		coords, ok, err := d.resolver.Resolve(ctx, c.Address)
		if err != nil {
			return nil, fmt.Errorf("rank: resolve restaurant %d: %w", c.RestaurantID, err)
		}
		if !ok {
			unknown = append(unknown, domain.RankedRestaurant{Restaurant: c})
			continue
		}

		km := roundKm(GeodesicKm(originCoords, coords))
		known = append(known, domain.RankedRestaurant{Restaurant: c, DistanceKm: &km})
	}

	slices.SortStableFunc(known, func(a, b domain.RankedRestaurant) int {
		return cmp.Or(
			cmp.Compare(*a.DistanceKm, *b.DistanceKm),
			cmp.Compare(a.Restaurant.Name, b.Restaurant.Name),
			cmp.Compare(a.Restaurant.RestaurantID, b.Restaurant.RestaurantID),
		)
	})

	out = append(out, known...)
	out = append(out, unknown...)
	return out, nil
}
