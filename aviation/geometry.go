// aviation/geometry.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"github.com/sectorkit/sectorkit/math"
)

// GlideslopeOffsetMeters is how far before the threshold the glideslope
// antenna is placed by ILSOffsets.
const GlideslopeOffsetMeters = 300

// RunwayGeometry is implemented by runways from both .sct and .rwy files.
// The first and last coordinates are taken as the runway's two ends.
type RunwayGeometry interface {
	RunwayCoordinates() []math.Point2LL
	// ILSFrequency returns nil if the runway has no ILS frequency.
	ILSFrequency() *float64
}

func runwayEnds(r RunwayGeometry) (start, end math.Point2LL, ok bool) {
	c := r.RunwayCoordinates()
	if len(c) < 2 {
		return
	}
	return c[0], c[len(c)-1], true
}

// ExtendedCenterline returns the runway's start and end followed by the
// point nm nautical miles beyond the end along the start-to-end bearing.
// It returns nil if the runway has fewer than two coordinates.
func ExtendedCenterline(r RunwayGeometry, nm float64) []math.Point2LL {
	start, end, ok := runwayEnds(r)
	if !ok {
		return nil
	}

	hdg := math.Bearing(start, end)
	ext := math.Destination(end, hdg, math.NMToMeters(nm))
	return []math.Point2LL{start, end, ext}
}

// ILS holds the derived positions of a runway's ILS transmitters.
type ILS struct {
	Localizer  math.Point2LL
	Glideslope math.Point2LL
	Frequency  *float64
}

// ILSOffsets places the localizer at the runway's last coordinate (its
// threshold) and the glideslope GlideslopeOffsetMeters from there along
// the reciprocal of the runway bearing. If freq is nil, the runway's own
// ILS frequency is used. ok is false if the runway has fewer than two
// coordinates.
func ILSOffsets(r RunwayGeometry, freq *float64) (ils ILS, ok bool) {
	start, end, ok := runwayEnds(r)
	if !ok {
		return ILS{}, false
	}

	// The reciprocal isn't normalized; Destination handles negative
	// bearings.
	hdg := math.Bearing(start, end) - 180

	if freq == nil {
		freq = r.ILSFrequency()
	}
	return ILS{
		Localizer:  end,
		Glideslope: math.Destination(end, hdg, GlideslopeOffsetMeters),
		Frequency:  freq,
	}, true
}
