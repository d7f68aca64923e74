package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"restaurant-matching-service/internal/adapters/cache"
	"restaurant-matching-service/internal/adapters/geocode"
	"restaurant-matching-service/internal/domain"
)

const customerAddress = "Москва, Красная площадь, 1"

var rankerPlaces = []geocode.StubPlace{
	{Address: customerAddress, Lat: 55.7539, Lon: 37.6208},
	{Address: "Москва, Никольская, 10", Lat: 55.7629, Lon: 37.6208},
	{Address: "Москва, Пятницкая, 30", Lat: 55.7828, Lon: 37.6208},
	{Address: "Москва, Ильинка, 4", Lat: 55.7629, Lon: 37.6208},
}

func rankerRestaurants() (near, far, twin, lost domain.Restaurant) {
	near = domain.Restaurant{RestaurantID: 1, Name: "Пельменная", Address: "Москва, Никольская, 10"}
	far = domain.Restaurant{RestaurantID: 2, Name: "Бургерная", Address: "Москва, Пятницкая, 30"}
	twin = domain.Restaurant{RestaurantID: 3, Name: "Блинная", Address: "Москва, Ильинка, 4"}
	lost = domain.Restaurant{RestaurantID: 4, Name: "Столовая", Address: "Нигде, 0"}
	return
}

func newTestRanker(t *testing.T, stub *geocode.StubGeocoder) *DistanceRanker {
	t.Helper()
	resolver, err := NewGeocodeResolver(cache.NewMemoryGeocodeCache(), stub, ResolverConfig{MaxInFlight: 2, Timeout: time.Second})
	require.NoError(t, err)
	ranker, err := NewDistanceRanker(resolver)
	require.NoError(t, err)
	return ranker
}

func TestRankKnownAscendingUnknownLast(t *testing.T) {
	near, far, _, lost := rankerRestaurants()
	ranker := newTestRanker(t, geocode.NewStubGeocoder(rankerPlaces))

	got, err := ranker.Rank(context.Background(), customerAddress, []domain.Restaurant{lost, far, near})
	require.NoError(t, err)
	require.Len(t, got, 3)

	require.Equal(t, near.RestaurantID, got[0].Restaurant.RestaurantID)
	require.Equal(t, far.RestaurantID, got[1].Restaurant.RestaurantID)
	require.Equal(t, lost.RestaurantID, got[2].Restaurant.RestaurantID)

	require.True(t, got[0].Known())
	require.True(t, got[1].Known())
	require.False(t, got[2].Known())
	require.Less(t, *got[0].DistanceKm, *got[1].DistanceKm)
	// Roughly 1 km and 3.2 km north of the customer.
	require.InDelta(t, 1.0, *got[0].DistanceKm, 0.01)
	require.InDelta(t, 3.2, *got[1].DistanceKm, 0.05)
}

func TestRankDistancesRoundedToMetres(t *testing.T) {
	near, _, _, _ := rankerRestaurants()
	ranker := newTestRanker(t, geocode.NewStubGeocoder(rankerPlaces))

	got, err := ranker.Rank(context.Background(), customerAddress, []domain.Restaurant{near})
	require.NoError(t, err)
	require.Len(t, got, 1)

	km := *got[0].DistanceKm
	require.Equal(t, roundKm(km), km)
}

func TestRankTieBrokenByName(t *testing.T) {
	near, _, twin, _ := rankerRestaurants()
	ranker := newTestRanker(t, geocode.NewStubGeocoder(rankerPlaces))

	got, err := ranker.Rank(context.Background(), customerAddress, []domain.Restaurant{near, twin})
	require.NoError(t, err)
	require.Equal(t, *got[0].DistanceKm, *got[1].DistanceKm)
	require.Equal(t, "Блинная", got[0].Restaurant.Name)
	require.Equal(t, "Пельменная", got[1].Restaurant.Name)
}

func TestRankUnresolvedOriginKeepsInputOrder(t *testing.T) {
	near, far, twin, _ := rankerRestaurants()
	stub := geocode.NewStubGeocoder(rankerPlaces)
	stub.Fail(customerAddress, errors.New("connection reset"))
	ranker := newTestRanker(t, stub)

	input := []domain.Restaurant{far, twin, near}
	got, err := ranker.Rank(context.Background(), customerAddress, input)
	require.NoError(t, err)
	require.Len(t, got, len(input))
	for i, r := range got {
		require.False(t, r.Known())
		require.Equal(t, input[i].RestaurantID, r.Restaurant.RestaurantID)
	}
	// Restaurant addresses are not resolved when the origin is unknown.
	require.Zero(t, stub.Calls(far.Address))
}

func TestRankUnknownsKeepInputOrder(t *testing.T) {
	near, _, _, _ := rankerRestaurants()
	ghostA := domain.Restaurant{RestaurantID: 7, Name: "Я", Address: "Нигде, 7"}
	ghostB := domain.Restaurant{RestaurantID: 8, Name: "А", Address: "Нигде, 8"}
	ranker := newTestRanker(t, geocode.NewStubGeocoder(rankerPlaces))

	got, err := ranker.Rank(context.Background(), customerAddress, []domain.Restaurant{ghostA, near, ghostB})
	require.NoError(t, err)
	require.Equal(t, []int{near.RestaurantID, ghostA.RestaurantID, ghostB.RestaurantID},
		[]int{got[0].Restaurant.RestaurantID, got[1].Restaurant.RestaurantID, got[2].Restaurant.RestaurantID})
}

func TestRankIsIdempotent(t *testing.T) {
	near, far, twin, lost := rankerRestaurants()
	ranker := newTestRanker(t, geocode.NewStubGeocoder(rankerPlaces))
	input := []domain.Restaurant{lost, twin, far, near}

	first, err := ranker.Rank(context.Background(), customerAddress, input)
	require.NoError(t, err)
	second, err := ranker.Rank(context.Background(), customerAddress, input)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRankEmptyCandidates(t *testing.T) {
	ranker := newTestRanker(t, geocode.NewStubGeocoder(rankerPlaces))

	got, err := ranker.Rank(context.Background(), customerAddress, nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestRankCacheFailureAborts(t *testing.T) {
	near, _, _, _ := rankerRestaurants()
	resolver, err := NewGeocodeResolver(failingCache{err: errors.New("db gone")}, geocode.NewStubGeocoder(rankerPlaces), ResolverConfig{})
	require.NoError(t, err)
	ranker, err := NewDistanceRanker(resolver)
	require.NoError(t, err)

	_, err = ranker.Rank(context.Background(), customerAddress, []domain.Restaurant{near})
	require.Error(t, err)
}
