// Package geo converts linear distances into the angular radii used by
// spherical cap ("within radius") queries.
package geo

import (
	"fmt"
	"math"
	"strings"
)

// EarthRadiusMiles is the mean Earth radius used for every radius query.
const EarthRadiusMiles = 3963.0

const kmPerMile = 1.609344

// Unit is the unit a caller expressed a distance in.
type Unit string

const (
	Miles      Unit = "mi"
	Kilometers Unit = "km"
)

// ParseUnit accepts "", "mi", "miles", "km", "kilometers" (case-insensitive).
// The empty string means miles.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mi", "mile", "miles":
		return Miles, nil
	case "km", "kilometer", "kilometers", "kilometre", "kilometres":
		return Kilometers, nil
	}
	return "", fmt.Errorf("unknown distance unit %q", s)
}

// ToMiles converts a distance in u to miles.
func ToMiles(d float64, u Unit) float64 {
	if u == Kilometers {
		return d / kmPerMile
	}
	return d
}

// AngularRadius returns the radius in radians of a spherical cap whose
// surface radius is d (in unit u).
func AngularRadius(d float64, u Unit) float64 {
	return ToMiles(d, u) / EarthRadiusMiles
}

// CentralAngle returns the angle in radians between two points given in
// degrees, using the haversine formula.
func CentralAngle(lat1, lng1, lat2, lng2 float64) float64 {
	p1 := lat1 * math.Pi / 180
	p2 := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(p1)*math.Cos(p2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * math.Asin(math.Min(1, math.Sqrt(h)))
}

// WithinCap reports whether the point (lat, lng) lies inside the cap centred
// on (centerLat, centerLng) with angular radius radius.
func WithinCap(lat, lng, centerLat, centerLng, radius float64) bool {
	return CentralAngle(lat, lng, centerLat, centerLng) <= radius
}
