package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"restaurant-matching-service/internal/domain"
	"restaurant-matching-service/internal/platform/obs"
	"restaurant-matching-service/internal/ports"
)

const orsProvider = "ors"

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// ORSConfig configures the OpenRouteService geocoder.
type ORSConfig struct {
	APIKey  string
	BaseURL string
	// ISO 3166 alpha-2 country the search is restricted to.
	Region  string
	Timeout time.Duration
}

// ORSGeocoder implements GeocodeProvider using OpenRouteService (/geocode/search).
// Only the most relevant match is requested. The geocoder is safe for concurrent use.
type ORSGeocoder struct {
	session     *http.Client
	apiKey      string
	baseURL     string
	region      string
	maxAttempts int
	backoff     time.Duration
}

func NewORSGeocoder(cfg ORSConfig) (*ORSGeocoder, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openrouteservice.org"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &ORSGeocoder{
		session:     &http.Client{Timeout: cfg.Timeout},
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		region:      cfg.Region,
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}, nil
}

// Resolve geocodes a single address. Network errors, 429 and 5xx responses
// are retried with exponential backoff until the attempts run out or ctx ends.
func (o *ORSGeocoder) Resolve(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Resolve")(&err)

	norm := domain.NormalizeAddress(address)
	if norm == "" {
		return domain.Coordinates{}, fmt.Errorf("ors geocode: empty address: %w", ports.ErrNoMatch)
	}

	wait := o.backoff
	for attempt := 1; ; attempt++ {
		coords, err := o.search(ctx, norm)
		var pe *ports.ProviderError
		if err == nil || !errors.As(err, &pe) || !retryable(pe) || attempt == o.maxAttempts {
			return coords, err
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return domain.Coordinates{}, &ports.ProviderError{Provider: orsProvider, Address: norm, Err: ctx.Err()}
		case <-timer.C:
		}
		wait *= 2
	}
}

// search performs one /geocode/search request.
func (o *ORSGeocoder) search(ctx context.Context, norm string) (domain.Coordinates, error) {
	fail := func(status int, err error) (domain.Coordinates, error) {
		return domain.Coordinates{}, &ports.ProviderError{Provider: orsProvider, Address: norm, StatusCode: status, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/geocode/search", nil)
	if err != nil {
		return fail(0, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json")

	q := req.URL.Query()
	q.Set("text", norm)
	if o.region != "" {
		q.Set("boundary.country", o.region)
	}
	q.Set("size", "1")
	req.URL.RawQuery = q.Encode()

	resp, err := o.session.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fail(resp.StatusCode, errors.New(strings.TrimSpace(string(b))))
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fail(0, fmt.Errorf("decode geocode response: %w", err))
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("ors geocode %q: %w", norm, ports.ErrNoMatch)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return fail(0, fmt.Errorf("invalid coordinate format: %v", coords))
	}

	// GeoJSON order is [lon, lat].
	return domain.Coordinates{Lon: coords[0], Lat: coords[1]}, nil
}

func retryable(pe *ports.ProviderError) bool {
	switch pe.StatusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	case 0:
		var netErr net.Error
		return errors.As(pe.Err, &netErr)
	}
	return false
}
