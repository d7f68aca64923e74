package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"restaurant-matching-service/internal/domain"
)

func TestBuildAvailabilityIndexSkipsUnavailable(t *testing.T) {
	ix := sampleIndex()

	require.Equal(t, []int{restaurant1, restaurant2}, ix.RestaurantsFor(productA).IDs())
	require.Equal(t, []int{restaurant2, restaurant3}, ix.RestaurantsFor(productB).IDs())
	require.Empty(t, ix.RestaurantsFor(productC))
}

func TestRestaurantsForUnknownProduct(t *testing.T) {
	ix := BuildAvailabilityIndex(nil)

	set := ix.RestaurantsFor(42)
	require.NotNil(t, set)
	require.Empty(t, set)
	require.False(t, set.Contains(restaurant1))
}

func TestRestaurantsForReturnsCopy(t *testing.T) {
	ix := BuildAvailabilityIndex([]domain.MenuAvailabilityEntry{
		{RestaurantID: restaurant1, ProductID: productA, IsAvailable: true},
	})

	set := ix.RestaurantsFor(productA)
	set[restaurant3] = struct{}{}

	require.False(t, ix.RestaurantsFor(productA).Contains(restaurant3))
}
