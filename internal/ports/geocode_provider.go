package ports

import (
	"context"
	"errors"
	"fmt"

	"restaurant-matching-service/internal/domain"
)

// ErrNoMatch means the provider answered successfully but found no match.
// It is not cached; a later pass may resolve the address.
var ErrNoMatch = errors.New("geocode: no match")

// ProviderError is a transport-class failure (network, timeout, HTTP status).
// It is never cached and the address is retried on the next pass.
type ProviderError struct {
	Provider   string
	Address    string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s geocode %q: status %d: %v", e.Provider, e.Address, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s geocode %q: %v", e.Provider, e.Address, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Contract for resolving a street address to coordinates through an external service.
type GeocodeProvider interface {
	// Return the most relevant match for address.
	// Errors are either ErrNoMatch (wrapped) or a *ProviderError.
	Resolve(ctx context.Context, address string) (domain.Coordinates, error)
}
