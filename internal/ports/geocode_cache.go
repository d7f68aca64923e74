package ports

import (
	"context"
	"time"

	"restaurant-matching-service/internal/domain"
)

// Port: persistent address -> coordinates store.
// Keys are normalized addresses; callers are responsible for normalization.
type GeocodeCache interface {
	// Exact-match lookup. ok is false on a miss; err is reserved for storage failures.
	Lookup(ctx context.Context, address string) (entry domain.GeocodeEntry, ok bool, err error)
	// Insert or update the entry for address.
	Store(ctx context.Context, address string, coords domain.Coordinates, resolvedAt time.Time) error
}
