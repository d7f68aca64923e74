package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"restaurant-matching-service/internal/domain"
	"restaurant-matching-service/internal/platform/obs"
	"restaurant-matching-service/internal/ports"
)

const googleProvider = "google"

// GoogleGeocoder implements GeocodeProvider using the Google Geocoding API.
type GoogleGeocoder struct {
	client *maps.Client
	region string
}

// NewGoogleGeocoder creates a geocoder biased to region (a ccTLD such as "ru").
// Extra client options (base URL, HTTP client) are passed through to the maps client.
func NewGoogleGeocoder(apiKey, region string, opts ...maps.ClientOption) (*GoogleGeocoder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("google maps api key is empty")
	}

	options := append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)
	client, err := maps.NewClient(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleGeocoder{client: client, region: strings.ToLower(region)}, nil
}

// Resolve returns the first result of a forward geocode.
func (g *GoogleGeocoder) Resolve(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "google.Resolve")(&err)

	norm := domain.NormalizeAddress(address)
	if norm == "" {
		return domain.Coordinates{}, fmt.Errorf("google geocode: empty address: %w", ports.ErrNoMatch)
	}

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address: norm,
		Region:  g.region,
	})
	if err != nil {
		// The client reports API statuses only as formatted errors ("maps: STATUS - msg").
		// ZERO_RESULTS is the one status that means the lookup succeeded with no match.
		if strings.Contains(err.Error(), "ZERO_RESULTS") {
			return domain.Coordinates{}, fmt.Errorf("google geocode %q: %w", norm, ports.ErrNoMatch)
		}
		return domain.Coordinates{}, &ports.ProviderError{Provider: googleProvider, Address: norm, Err: err}
	}

	if len(results) == 0 {
		return domain.Coordinates{}, fmt.Errorf("google geocode %q: %w", norm, ports.ErrNoMatch)
	}

	loc := results[0].Geometry.Location
	return domain.Coordinates{Lat: loc.Lat, Lon: loc.Lng}, nil
}
