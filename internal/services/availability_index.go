package services

import (
	"slices"

	"restaurant-matching-service/internal/domain"
)

// CandidateSet is a set of restaurant ids.
type CandidateSet map[int]struct{}

func (s CandidateSet) Contains(id int) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members in ascending order.
func (s CandidateSet) IDs() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// intersect returns the members of s that are also in other.
func (s CandidateSet) intersect(other CandidateSet) CandidateSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(CandidateSet, len(small))
	for id := range small {
		if _, ok := large[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// AvailabilityIndex maps product id -> restaurants currently selling it.
// It is built once per matching pass and never mutated afterwards.
type AvailabilityIndex struct {
	byProduct map[int]CandidateSet
}

// BuildAvailabilityIndex keeps only available entries.
// A restaurant is listed for a product iff an available entry exists for the pair.
func BuildAvailabilityIndex(entries []domain.MenuAvailabilityEntry) *AvailabilityIndex {
	byProduct := make(map[int]CandidateSet)
	for _, e := range entries {
		if !e.IsAvailable {
			continue
		}
		set, ok := byProduct[e.ProductID]
		if !ok {
			set = make(CandidateSet)
			byProduct[e.ProductID] = set
		}
		set[e.RestaurantID] = struct{}{}
	}
	return &AvailabilityIndex{byProduct: byProduct}
}

// RestaurantsFor returns a copy of the restaurant set for productID.
// Unknown products yield an empty set, never an error.
func (ix *AvailabilityIndex) RestaurantsFor(productID int) CandidateSet {
	src := ix.byProduct[productID]
	out := make(CandidateSet, len(src))
	for id := range src {
		out[id] = struct{}{}
	}
	return out
}
