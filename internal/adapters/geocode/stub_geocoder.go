package geocode

import (
	"context"
	"fmt"
	"sync"

	"restaurant-matching-service/internal/domain"
	"restaurant-matching-service/internal/ports"
)

type StubPlace struct {
	Address string
	Lat     float64
	Lon     float64
}

// StubGeocoder is a deterministic in-memory GeocodeProvider.
// Unknown addresses resolve to ErrNoMatch; addresses registered with Fail
// return the given error. Calls are counted per address.
type StubGeocoder struct {
	mu       sync.Mutex
	places   map[string]domain.Coordinates
	failures map[string]error
	calls    map[string]int
}

func NewStubGeocoder(places []StubPlace) *StubGeocoder {
	m := make(map[string]domain.Coordinates, len(places))
	for _, p := range places {
		m[domain.NormalizeAddress(p.Address)] = domain.Coordinates{Lat: p.Lat, Lon: p.Lon}
	}
	return &StubGeocoder{places: m, failures: map[string]error{}, calls: map[string]int{}}
}

// Fail makes every lookup of address return err.
func (s *StubGeocoder) Fail(address string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[domain.NormalizeAddress(address)] = err
}

// Calls returns how many times address was resolved.
func (s *StubGeocoder) Calls(address string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[domain.NormalizeAddress(address)]
}

func (s *StubGeocoder) Resolve(ctx context.Context, address string) (domain.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinates{}, &ports.ProviderError{Provider: "stub", Address: address, Err: err}
	}

	norm := domain.NormalizeAddress(address)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[norm]++

	if err, ok := s.failures[norm]; ok {
		return domain.Coordinates{}, err
	}
	c, ok := s.places[norm]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("stub geocode %q: %w", norm, ports.ErrNoMatch)
	}
	return c, nil
}
