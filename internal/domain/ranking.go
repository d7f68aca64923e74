package domain

import (
	"fmt"
	"time"
)

// GeocodeEntry is a cached address resolution.
// ResolvedAt records when the provider answered, so a staleness policy can be
// added later without changing the stored shape.
type GeocodeEntry struct {
	Address    string
	Coords     Coordinates
	ResolvedAt time.Time
}

// RankedRestaurant is one row of a distance ranking.
// DistanceKm is nil when either endpoint could not be geocoded.
type RankedRestaurant struct {
	Restaurant Restaurant
	DistanceKm *float64
}

// Known reports whether a distance was computed.
func (r RankedRestaurant) Known() bool { return r.DistanceKm != nil }

// Label renders the ranking row the way the manager board shows it.
func (r RankedRestaurant) Label() string {
	if r.DistanceKm == nil {
		return fmt.Sprintf("%s — distance unknown", r.Restaurant.Name)
	}
	return fmt.Sprintf("%s — %.3f km", r.Restaurant.Name, *r.DistanceKm)
}
