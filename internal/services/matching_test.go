package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"restaurant-matching-service/internal/domain"
)

const (
	productA = 1
	productB = 2
	productC = 3

	restaurant1 = 10
	restaurant2 = 20
	restaurant3 = 30
)

// A is sold by R1 and R2, B by R2 and R3, C by nobody (unavailable in R1).
func sampleIndex() *AvailabilityIndex {
	return BuildAvailabilityIndex([]domain.MenuAvailabilityEntry{
		{RestaurantID: restaurant1, ProductID: productA, IsAvailable: true},
		{RestaurantID: restaurant2, ProductID: productA, IsAvailable: true},
		{RestaurantID: restaurant2, ProductID: productB, IsAvailable: true},
		{RestaurantID: restaurant3, ProductID: productB, IsAvailable: true},
		{RestaurantID: restaurant1, ProductID: productC, IsAvailable: false},
	})
}

func TestMatchCandidates(t *testing.T) {
	ix := sampleIndex()

	tests := []struct {
		name     string
		products []int
		want     []int
	}{
		{name: "intersection of two products", products: []int{productA, productB}, want: []int{restaurant2}},
		{name: "single product", products: []int{productA}, want: []int{restaurant1, restaurant2}},
		{name: "unavailable product", products: []int{productC}, want: []int{}},
		{name: "unknown product", products: []int{99}, want: []int{}},
		{name: "empty set short-circuits", products: []int{productC, productA, productB}, want: []int{}},
		{name: "duplicates ignored", products: []int{productA, productA, productB, productB}, want: []int{restaurant2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MatchCandidates(tc.products, ix)
			require.NoError(t, err)
			require.Equal(t, tc.want, got.IDs())
		})
	}
}

func TestMatchCandidatesOrderIndependent(t *testing.T) {
	ix := sampleIndex()

	forward, err := MatchCandidates([]int{productA, productB}, ix)
	require.NoError(t, err)
	backward, err := MatchCandidates([]int{productB, productA}, ix)
	require.NoError(t, err)

	require.Equal(t, forward.IDs(), backward.IDs())
}

func TestMatchCandidatesRejectsEmptyOrder(t *testing.T) {
	_, err := MatchCandidates(nil, sampleIndex())
	require.ErrorIs(t, err, ErrNoLineItems)
}

func TestMatchCandidatesDoesNotMutateIndex(t *testing.T) {
	ix := sampleIndex()

	_, err := MatchCandidates([]int{productA, productB}, ix)
	require.NoError(t, err)

	require.Equal(t, []int{restaurant1, restaurant2}, ix.RestaurantsFor(productA).IDs())
}
