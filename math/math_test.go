// math/math_test.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"math"
	"testing"
)

func TestBearing(t *testing.T) {
	for _, tc := range []struct {
		name     string
		from, to Point2LL
		expected float64
	}{
		{"east along equator", NewPoint2LL(0, 0), NewPoint2LL(0, 1), 90},
		{"west along equator", NewPoint2LL(0, 0), NewPoint2LL(0, -1), 270},
		{"north along meridian", NewPoint2LL(0, 0), NewPoint2LL(1, 0), 0},
		{"south along meridian", NewPoint2LL(10, 20), NewPoint2LL(5, 20), 180},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := Bearing(tc.from, tc.to)
			if math.Abs(b-tc.expected) > 1e-9 {
				t.Errorf("got bearing %f, expected %f", b, tc.expected)
			}
			if b < 0 || b >= 360 {
				t.Errorf("bearing %f outside [0,360)", b)
			}
		})
	}
}

func TestDestination(t *testing.T) {
	oneDegree := 2 * math.Pi * EarthRadiusMeters / 360

	p := Destination(NewPoint2LL(0, 0), 90, oneDegree)
	if math.Abs(p.Latitude()) > 1e-9 || math.Abs(p.Longitude()-1) > 1e-9 {
		t.Errorf("got %s, expected (0, 1)", p.DDString())
	}

	// Negative bearings are equivalent to their normalized counterparts.
	a := Destination(NewPoint2LL(-26.1, 28.2), -90, 5000)
	b := Destination(NewPoint2LL(-26.1, 28.2), 270, 5000)
	if !a.ApproxEqual(b, 1e-12) {
		t.Errorf("bearing -90 gave %s, 270 gave %s", a.DDString(), b.DDString())
	}

	// Going out and coming back lands where we started.
	start := NewPoint2LL(51.47, -0.4543)
	out := Destination(start, 42, 20000)
	back := Destination(out, Bearing(out, start), 20000)
	if !back.ApproxEqual(start, 1e-6) {
		t.Errorf("round trip ended at %s, expected %s", back.DDString(), start.DDString())
	}
}

func TestNMDistance2LL(t *testing.T) {
	// One degree of arc with the NM radius.
	d := NMDistance2LL(NewPoint2LL(0, 0), NewPoint2LL(1, 0))
	expected := EarthRadiusNM * math.Pi / 180
	if math.Abs(d-expected) > 1e-9 {
		t.Errorf("got %f nm, expected %f", d, expected)
	}

	if d := NMDistance2LL(NewPoint2LL(40, -73), NewPoint2LL(40, -73)); d != 0 {
		t.Errorf("got %f nm between identical points, expected 0", d)
	}

	// JFK to LHR is roughly 2990nm.
	jfk, lhr := NewPoint2LL(40.6398, -73.7789), NewPoint2LL(51.4700, -0.4543)
	if d := NMDistance2LL(jfk, lhr); math.Abs(d-2991) > 10 {
		t.Errorf("got %f nm for JFK-LHR, expected ~2991", d)
	}
}

func TestDMSStrings(t *testing.T) {
	for _, tc := range []struct {
		p        Point2LL
		lat, lon string
	}{
		{NewPoint2LL(51.5, -0.125), "N051.30.00.000", "W000.07.30.000"},
		{NewPoint2LL(-26.25, 28.75), "S026.15.00.000", "E028.45.00.000"},
		{NewPoint2LL(-(26 + 20.0/60), 28+(37+58.4/60)/60), "S026.20.00.000", "E028.37.58.400"},
		{NewPoint2LL(59.0/60+59.9996/3600, -(1 + 0.0004/3600)), "N001.00.00.000", "W001.00.00.000"},
	} {
		lat, lon := tc.p.DMSStrings()
		if lat != tc.lat {
			t.Errorf("got latitude %q, expected %q", lat, tc.lat)
		}
		if lon != tc.lon {
			t.Errorf("got longitude %q, expected %q", lon, tc.lon)
		}
	}
}

func TestValid(t *testing.T) {
	for _, tc := range []struct {
		p     Point2LL
		valid bool
	}{
		{NewPoint2LL(0, 0), true},
		{NewPoint2LL(90, 180), true},
		{NewPoint2LL(-90, -180), true},
		{NewPoint2LL(90.5, 0), false},
		{NewPoint2LL(0, -180.1), false},
		{NewPoint2LL(math.NaN(), 0), false},
	} {
		if tc.p.Valid() != tc.valid {
			t.Errorf("%s: got valid %v, expected %v", tc.p.DDString(), !tc.valid, tc.valid)
		}
	}
}

func TestNormalizeHeading(t *testing.T) {
	for _, tc := range [][2]float64{{0, 0}, {360, 0}, {-90, 270}, {725, 5}, {359.5, 359.5}} {
		if h := NormalizeHeading(tc[0]); math.Abs(h-tc[1]) > 1e-9 {
			t.Errorf("NormalizeHeading(%f) = %f, expected %f", tc[0], h, tc[1])
		}
	}
}
