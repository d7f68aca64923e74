package ports

import (
	"context"

	"restaurant-matching-service/internal/domain"
)

// BoardSnapshot is everything one board pass reads, taken at a single point in time.
type BoardSnapshot struct {
	// Orders that are not completed, with line items.
	Orders      []*domain.Order
	Restaurants []domain.Restaurant
	MenuEntries []domain.MenuAvailabilityEntry
}

// Port: consistent read of active orders and the menu.
type BoardSource interface {
	LoadBoard(ctx context.Context) (BoardSnapshot, error)
}
