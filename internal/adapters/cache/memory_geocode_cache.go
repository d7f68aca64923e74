package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"restaurant-matching-service/internal/domain"
)

// MemoryGeocodeCache is a process-local geocode cache.
// Each instance is independent, which keeps tests isolated.
type MemoryGeocodeCache struct {
	mu      sync.RWMutex
	entries map[string]domain.GeocodeEntry
}

func NewMemoryGeocodeCache() *MemoryGeocodeCache {
	return &MemoryGeocodeCache{entries: make(map[string]domain.GeocodeEntry)}
}

func (m *MemoryGeocodeCache) Lookup(_ context.Context, address string) (domain.GeocodeEntry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[address]
	return e, ok, nil
}

func (m *MemoryGeocodeCache) Store(_ context.Context, address string, coords domain.Coordinates, resolvedAt time.Time) error {
	if strings.TrimSpace(address) == "" {
		return errEmptyAddress
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[address] = domain.GeocodeEntry{Address: address, Coords: coords, ResolvedAt: resolvedAt}
	return nil
}

// Len returns the number of cached addresses.
func (m *MemoryGeocodeCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
