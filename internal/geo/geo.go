package geo

import (
	"math"

	"github.com/Rrisinglight/isabella/internal/config"
)

// Point is an immutable WGS-84 coordinate in degrees. All distance math
// treats the Earth as a sphere of radius config.EarthRadiusKm, matching the
// tracker server.
type Point struct {
	Lat float64
	Lng float64
}

// Endpoint computes the destination reached from origin after travelling
// distanceKm along the great circle at the given initial bearing.
// Bearing is degrees clockwise from true north. The returned longitude is
// wrapped to [-180, 180].
func Endpoint(origin Point, bearingDeg, distanceKm float64) Point {
	lat1 := origin.Lat * math.Pi / 180
	lng1 := origin.Lng * math.Pi / 180
	brng := bearingDeg * math.Pi / 180
	d := distanceKm / config.EarthRadiusKm // angular distance

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) +
		math.Cos(lat1)*math.Sin(d)*math.Cos(brng))
	lng2 := lng1 + math.Atan2(
		math.Sin(brng)*math.Sin(d)*math.Cos(lat1),
		math.Cos(d)-math.Sin(lat1)*math.Sin(lat2))

	return Point{
		Lat: lat2 * 180 / math.Pi,
		Lng: wrapLng(lng2 * 180 / math.Pi),
	}
}

// Bearing computes the initial great-circle bearing from one point to
// another. Returns degrees in [0, 360), clockwise from true north.
func Bearing(from, to Point) float64 {
	lat1 := from.Lat * math.Pi / 180
	lat2 := to.Lat * math.Pi / 180
	dLng := (to.Lng - from.Lng) * math.Pi / 180

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) -
		math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)

	return NormalizeDeg(math.Atan2(y, x) * 180 / math.Pi)
}

// NormalizeDeg wraps an angle in degrees to [0, 360).
func NormalizeDeg(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// AngleDiffDeg returns the shortest angular distance between two bearings.
// Result is in [0, 180].
func AngleDiffDeg(a, b float64) float64 {
	d := math.Abs(NormalizeDeg(a) - NormalizeDeg(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// wrapLng wraps a longitude to [-180, 180].
func wrapLng(lng float64) float64 {
	lng = math.Mod(lng+180, 360)
	if lng < 0 {
		lng += 360
	}
	return lng - 180
}
