package domain

import "testing"

func TestRankedRestaurantLabel(t *testing.T) {
	d := 1.002
	known := RankedRestaurant{Restaurant: Restaurant{Name: "Star Burger"}, DistanceKm: &d}
	if got, want := known.Label(), "Star Burger — 1.002 km"; got != want {
		t.Fatalf("label = %q, want %q", got, want)
	}

	unknown := RankedRestaurant{Restaurant: Restaurant{Name: "Star Burger"}}
	if got, want := unknown.Label(), "Star Burger — distance unknown"; got != want {
		t.Fatalf("label = %q, want %q", got, want)
	}
	if unknown.Known() {
		t.Fatal("expected unknown distance")
	}
}
