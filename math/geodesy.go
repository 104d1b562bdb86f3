// math/geodesy.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"
)

const (
	// Mean Earth radius used by Bearing and Destination.
	EarthRadiusMeters = 6371000
	// Earth radius used by NMDistance2LL. Note that this isn't exactly
	// EarthRadiusMeters/MetersPerNM; callers depend on both values.
	EarthRadiusNM = 3440.065
	MetersPerNM   = 1852
)

// Bearing returns the initial great-circle bearing in degrees, in [0,360),
// from the point from to the point to.
// https://www.movable-type.co.uk/scripts/latlong.html
func Bearing(from, to Point2LL) float64 {
	lat1, lon1 := Radians(from[1]), Radians(from[0])
	lat2, lon2 := Radians(to[1]), Radians(to[0])

	dlon := lon2 - lon1
	x := gomath.Sin(dlon) * gomath.Cos(lat2)
	y := gomath.Cos(lat1)*gomath.Sin(lat2) - gomath.Sin(lat1)*gomath.Cos(lat2)*gomath.Cos(dlon)

	return gomath.Mod(Degrees(gomath.Atan2(x, y))+360, 360)
}

// Destination solves the direct problem on a spherical Earth: it returns
// the point reached by travelling meters along the great circle leaving p
// with the given initial bearing. Any real-valued bearing is accepted.
func Destination(p Point2LL, bearing float64, meters float64) Point2LL {
	lat, lon := Radians(p[1]), Radians(p[0])
	brg := Radians(bearing)
	d := meters / EarthRadiusMeters

	lat2 := gomath.Asin(gomath.Sin(lat)*gomath.Cos(d) +
		gomath.Cos(lat)*gomath.Sin(d)*gomath.Cos(brg))
	lon2 := lon + gomath.Atan2(gomath.Sin(brg)*gomath.Sin(d)*gomath.Cos(lat),
		gomath.Cos(d)-gomath.Sin(lat)*gomath.Sin(lat2))

	return Point2LL{Degrees(lon2), Degrees(lat2)}
}

// NMDistance2LL returns the haversine distance in nautical miles between
// two provided lat-long coordinates.
func NMDistance2LL(a Point2LL, b Point2LL) float64 {
	lat1, lon1 := Radians(a[1]), Radians(a[0])
	lat2, lon2 := Radians(b[1]), Radians(b[0])
	dlat, dlon := lat2-lat1, lon2-lon1

	x := Sqr(gomath.Sin(dlat/2)) + gomath.Cos(lat1)*gomath.Cos(lat2)*Sqr(gomath.Sin(dlon/2))
	c := 2 * gomath.Atan2(gomath.Sqrt(x), gomath.Sqrt(1-x))

	return EarthRadiusNM * c
}

// NMToMeters converts nautical miles to meters.
func NMToMeters(nm float64) float64 {
	return nm * MetersPerNM
}
