package services

import (
	"errors"
)

// ErrNoLineItems is returned for an order without line items.
// Such an order has no meaningful candidate set, so it is rejected
// instead of being reported as matching every or no restaurant.
var ErrNoLineItems = errors.New("match candidates: order has no line items")

// MatchCandidates returns the restaurants able to serve every product in productIDs.
//
// The result is a fold over the distinct products: the running set starts as
// the first product's restaurants and is intersected with each following
// product's restaurants. The fold stops as soon as the running set is empty.
// Unknown products contribute an empty set.
func MatchCandidates(productIDs []int, ix *AvailabilityIndex) (CandidateSet, error) {
	if len(productIDs) == 0 {
		return nil, ErrNoLineItems
	}

	seen := make(map[int]struct{}, len(productIDs))
	var running CandidateSet
	for _, pid := range productIDs {
		if _, dup := seen[pid]; dup {
			continue
		}
		seen[pid] = struct{}{}

		if running == nil {
			running = ix.RestaurantsFor(pid)
		} else {
			running = running.intersect(ix.RestaurantsFor(pid))
		}

		if len(running) == 0 {
			return CandidateSet{}, nil
		}
	}

	return running, nil
}
