package geo

import (
	"fmt"
	"math"
)

const (
	EarthRadiusMeters = 6_371_000.0

	// MaxDistanceMeters is half the circumference: no two points are further apart.
	MaxDistanceMeters = math.Pi * EarthRadiusMeters
)

// Distance is the great-circle distance between a and b in meters (haversine).
func Distance(a, b Point) float64 {
	dLat := deg2rad(b.Lat - a.Lat)
	dLng := deg2rad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(a.Lat))*math.Cos(deg2rad(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	// rounding can push h a hair outside [0,1] for antipodal or identical points
	h = math.Min(1, math.Max(0, h))

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return math.Min(EarthRadiusMeters*c, MaxDistanceMeters)
}

// FormatDistance renders meters as "123m" below a kilometer and "1.2km" from there on.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%dm", int64(math.Round(meters)))
	}
	return fmt.Sprintf("%.1fkm", meters/1000)
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}
