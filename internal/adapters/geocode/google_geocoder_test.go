package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"

	"restaurant-matching-service/internal/domain"
	"restaurant-matching-service/internal/ports"
)

func newTestGoogle(t *testing.T, body string) *GoogleGeocoder {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ru", r.URL.Query().Get("region"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	g, err := NewGoogleGeocoder("AIza-test", "RU", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)
	return g
}

func TestGoogleGeocoderResolve(t *testing.T) {
	g := newTestGoogle(t, `{"status":"OK","results":[{"geometry":{"location":{"lat":55.7572,"lng":37.6135}}}]}`)

	coords, err := g.Resolve(context.Background(), "Москва, Тверская, 1")
	require.NoError(t, err)
	require.Equal(t, domain.Coordinates{Lat: 55.7572, Lon: 37.6135}, coords)
}

func TestGoogleGeocoderZeroResults(t *testing.T) {
	g := newTestGoogle(t, `{"status":"ZERO_RESULTS","results":[]}`)

	_, err := g.Resolve(context.Background(), "nowhere")
	require.ErrorIs(t, err, ports.ErrNoMatch)

	var pe *ports.ProviderError
	require.False(t, errors.As(err, &pe))
}

func TestGoogleGeocoderInvalidRequestIsProviderError(t *testing.T) {
	g := newTestGoogle(t, `{"status":"INVALID_REQUEST","error_message":"bad address","results":[]}`)

	_, err := g.Resolve(context.Background(), "Москва")
	var pe *ports.ProviderError
	require.True(t, errors.As(err, &pe))
	require.False(t, errors.Is(err, ports.ErrNoMatch))
}

func TestGoogleGeocoderDenied(t *testing.T) {
	g := newTestGoogle(t, `{"status":"REQUEST_DENIED","error_message":"invalid key","results":[]}`)

	_, err := g.Resolve(context.Background(), "Москва")
	var pe *ports.ProviderError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, "google", pe.Provider)
}

func TestNewGoogleGeocoderRequiresKey(t *testing.T) {
	_, err := NewGoogleGeocoder(" ", "RU")
	require.Error(t, err)
}
