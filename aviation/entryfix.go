// aviation/entryfix.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"github.com/sectorkit/sectorkit/math"
	"github.com/sectorkit/sectorkit/sct"
)

const (
	// DefaultEntryFixLimit is the number of fixes EntryFixes returns if
	// no limit is given.
	DefaultEntryFixLimit = 20
	// UnknownAirportDistanceNM is reported for entry fixes when the
	// airport isn't in the sector file.
	UnknownAirportDistanceNM float64 = 50
)

// EntryFix is a candidate point for aircraft to enter the sector.
type EntryFix struct {
	Name       string
	Location   math.Point2LL
	DistanceNM float64
}

// EntryFixes returns the first limit fixes of the sector file (in file
// order) along with their distance from the given airport. If limit is
// not positive, DefaultEntryFixLimit is used.
func EntryFixes(m *sct.Model, icao string, limit int) []EntryFix {
	if limit <= 0 {
		limit = DefaultEntryFixLimit
	}
	ap, haveAirport := m.Airport(icao)

	var fixes []EntryFix
	for _, f := range m.Fixes[:min(limit, len(m.Fixes))] {
		ef := EntryFix{Name: f.Name, Location: f.Location, DistanceNM: UnknownAirportDistanceNM}
		if haveAirport {
			ef.DistanceNM = math.NMDistance2LL(ap.Location, f.Location)
		}
		fixes = append(fixes, ef)
	}
	return fixes
}
