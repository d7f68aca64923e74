package services

import (
	"math"

	"github.com/jftuga/geodist"

	"restaurant-matching-service/internal/domain"
)

const earthRadiusKm = 6371.0

// GeodesicKm returns the ellipsoidal (Vincenty) distance in kilometres.
// Vincenty can fail to converge for nearly antipodal points; the
// great-circle distance is used in that case.
func GeodesicKm(a, b domain.Coordinates) float64 {
	_, km, err := geodist.VincentyDistance(
		geodist.Coord{Lat: a.Lat, Lon: a.Lon},
		geodist.Coord{Lat: b.Lat, Lon: b.Lon},
	)
	if err != nil || math.IsNaN(km) {
		return haversineKm(a, b)
	}
	return km
}

// roundKm rounds to metre precision (3 decimals).
func roundKm(km float64) float64 {
	return math.Round(km*1000) / 1000
}

func haversineKm(a, b domain.Coordinates) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLon := degreesToRadians(b.Lon - a.Lon)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
