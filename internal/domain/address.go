package domain

import "strings"

// NormalizeAddress produces the canonical cache key for a free-text address.
// Leading/trailing whitespace is dropped and internal runs are collapsed, so
// every producer of an address (orders, restaurants, CLI) maps to one key.
func NormalizeAddress(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
