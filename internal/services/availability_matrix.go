package services

import (
	"cmp"
	"slices"

	"restaurant-matching-service/internal/domain"
)

// AvailabilityRow lists, for one product, its availability in every
// restaurant of AvailabilityMatrix.Restaurants (same order).
type AvailabilityRow struct {
	Product   domain.Product
	Available []bool
}

type AvailabilityMatrix struct {
	Restaurants []domain.Restaurant
	Rows        []AvailabilityRow
}

// BuildAvailabilityMatrix lays out menu availability as a product x restaurant
// grid. Restaurants are ordered by name; a missing menu entry reads as false.
func BuildAvailabilityMatrix(
	restaurants []domain.Restaurant,
	products []domain.Product,
	entries []domain.MenuAvailabilityEntry,
) AvailabilityMatrix {
	rs := slices.Clone(restaurants)
	slices.SortStableFunc(rs, func(a, b domain.Restaurant) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.RestaurantID, b.RestaurantID))
	})

	type key struct{ product, restaurant int }
	flags := make(map[key]bool, len(entries))
	for _, e := range entries {
		flags[key{e.ProductID, e.RestaurantID}] = e.IsAvailable
	}

	rows := make([]AvailabilityRow, 0, len(products))
	for _, p := range products {
		row := AvailabilityRow{Product: p, Available: make([]bool, len(rs))}
		for i, r := range rs {
			row.Available[i] = flags[key{p.ProductID, r.RestaurantID}]
		}
		rows = append(rows, row)
	}

	return AvailabilityMatrix{Restaurants: rs, Rows: rows}
}
