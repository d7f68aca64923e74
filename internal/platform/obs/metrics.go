package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GeocodeCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geocode_cache_lookups_total",
		Help: "Geocode cache lookups grouped by hit or miss.",
	}, []string{"result"})

	GeocodeProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geocode_provider_requests_total",
		Help: "External geocoder calls grouped by outcome.",
	}, []string{"result"})

	MatchingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_matching_duration_seconds",
		Help:    "Time spent matching and ranking a single order.",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})
)
