// math/latlong.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"fmt"
	gomath "math"
	"strings"
)

// Point2LL represents a 2D point on the Earth in latitude-longitude.
// Important: 0 (x) is longitude, 1 (y) is latitude
type Point2LL [2]float64

// NewPoint2LL is a convenience for the (latitude, longitude) order that
// the sector file formats use.
func NewPoint2LL(latitude, longitude float64) Point2LL {
	return Point2LL{longitude, latitude}
}

func (p Point2LL) Longitude() float64 {
	return p[0]
}

func (p Point2LL) Latitude() float64 {
	return p[1]
}

// Valid reports whether the latitude is within [-90,90] and the longitude
// within [-180,180].
func (p Point2LL) Valid() bool {
	return !gomath.IsNaN(p[0]) && !gomath.IsNaN(p[1]) &&
		p[1] >= -90 && p[1] <= 90 && p[0] >= -180 && p[0] <= 180
}

// ApproxEqual reports whether both coordinates of p and q differ by less
// than eps degrees.
func (p Point2LL) ApproxEqual(q Point2LL, eps float64) bool {
	return Abs(p[0]-q[0]) < eps && Abs(p[1]-q[1]) < eps
}

// DDString returns the position in decimal degrees, e.g.:
// (39.860901, -75.274864)
func (p Point2LL) DDString() string {
	return fmt.Sprintf("(%f, %f)", p[1], p[0]) // latitude, longitude
}

// DMSStrings returns the latitude and longitude as separate
// hemisphere-prefixed dotted tokens, e.g. "N040.37.58.400" and
// "W073.46.17.000".
func (p Point2LL) DMSStrings() (string, string) {
	// Round to whole milliseconds of arc first so that values decoded
	// from dotted notation format back to the same text.
	format := func(v float64) string {
		ms := int64(gomath.Round(v * 3600000))
		deg := ms / 3600000
		ms -= deg * 3600000
		min := ms / 60000
		ms -= min * 60000
		sec := ms / 1000
		ms -= sec * 1000
		return fmt.Sprintf("%03d.%02d.%02d.%03d", deg, min, sec, ms)
	}

	var lat, lon strings.Builder
	if p[1] < 0 {
		lat.WriteString("S")
	} else {
		lat.WriteString("N")
	}
	lat.WriteString(format(Abs(p[1])))

	if p[0] < 0 {
		lon.WriteString("W")
	} else {
		lon.WriteString("E")
	}
	lon.WriteString(format(Abs(p[0])))

	return lat.String(), lon.String()
}

// DMSString returns the position in the sector file notation, e.g.
// "N040.37.58.400 W073.46.17.000"
func (p Point2LL) DMSString() string {
	lat, lon := p.DMSStrings()
	return lat + " " + lon
}

func (p Point2LL) String() string {
	return p.DMSString()
}
