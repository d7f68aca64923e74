package ports

import (
	"context"

	"restaurant-matching-service/internal/domain"
)

// Port: read-only snapshot of restaurants, products and menu availability.
type MenuRepository interface {
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListMenuEntries(ctx context.Context) ([]domain.MenuAvailabilityEntry, error)
}
