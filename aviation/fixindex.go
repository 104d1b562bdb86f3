// aviation/fixindex.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	gomath "math"
	"slices"

	"github.com/dhconnelly/rtreego"
	"github.com/sectorkit/sectorkit/math"
	"github.com/sectorkit/sectorkit/sct"
)

const (
	rtreeMinChildren = 25
	rtreeMaxChildren = 50
	// Points are stored as tiny rectangles of this half-size in degrees.
	rtreeTolerance = 1e-6
	// Degrees of latitude per nautical mile
	degreesPerNM = 1.0 / 60
)

type WaypointKind string

const (
	FixWaypoint WaypointKind = "FIX"
	VORWaypoint WaypointKind = "VOR"
	NDBWaypoint WaypointKind = "NDB"
)

type Waypoint struct {
	Name     string
	Kind     WaypointKind
	Location math.Point2LL
}

type WaypointDistance struct {
	Waypoint
	DistanceNM float64
}

type indexedWaypoint struct {
	Waypoint
	rect *rtreego.Rect
}

func (w *indexedWaypoint) Bounds() *rtreego.Rect {
	return w.rect
}

// FixIndex is a spatial index over the fixes, VORs and NDBs of a sector
// file. It is immutable once built and may be queried concurrently.
type FixIndex struct {
	tree *rtreego.Rtree
	n    int
}

// NewFixIndex indexes the fixes and navaids of m.
func NewFixIndex(m *sct.Model) *FixIndex {
	fi := &FixIndex{tree: rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren)}
	add := func(name string, kind WaypointKind, p math.Point2LL) {
		fi.tree.Insert(&indexedWaypoint{
			Waypoint: Waypoint{Name: name, Kind: kind, Location: p},
			rect:     rtreego.Point{p.Latitude(), p.Longitude()}.ToRect(rtreeTolerance),
		})
		fi.n++
	}

	for _, f := range m.Fixes {
		add(f.Name, FixWaypoint, f.Location)
	}
	for _, n := range m.Navaids() {
		add(n.Id, WaypointKind(n.Kind), n.Location)
	}

	return fi
}

// Len returns the number of indexed waypoints.
func (fi *FixIndex) Len() int {
	return fi.n
}

func sortByDistance(w []WaypointDistance) {
	slices.SortFunc(w, func(a, b WaypointDistance) int {
		if a.DistanceNM < b.DistanceNM {
			return -1
		} else if a.DistanceNM > b.DistanceNM {
			return 1
		}
		return 0
	})
}

// Nearest returns up to n waypoints closest to p, nearest first. The tree
// is searched in degree space, so extra candidates are retrieved and then
// ranked by great-circle distance.
func (fi *FixIndex) Nearest(p math.Point2LL, n int) []WaypointDistance {
	if n <= 0 || fi.n == 0 {
		return nil
	}

	k := min(fi.n, 4*n+16)
	var wd []WaypointDistance
	for _, s := range fi.tree.NearestNeighbors(k, rtreego.Point{p.Latitude(), p.Longitude()}) {
		if w, ok := s.(*indexedWaypoint); ok {
			wd = append(wd, WaypointDistance{Waypoint: w.Waypoint, DistanceNM: math.NMDistance2LL(p, w.Location)})
		}
	}
	sortByDistance(wd)
	return wd[:min(n, len(wd))]
}

// WithinNM returns all waypoints within radius nautical miles of p,
// nearest first.
func (fi *FixIndex) WithinNM(p math.Point2LL, radius float64) []WaypointDistance {
	dlat := radius * degreesPerNM
	dlon := 180.0
	if c := gomath.Cos(math.Radians(p.Latitude())); c > 1e-6 {
		dlon = min(180, dlat/c)
	}

	lat0 := math.Clamp(p.Latitude()-dlat, -90, 90)
	lat1 := math.Clamp(p.Latitude()+dlat, -90, 90)

	// Split the search at the antimeridian.
	type span struct{ lon0, lon1 float64 }
	spans := []span{{p.Longitude() - dlon, p.Longitude() + dlon}}
	if spans[0].lon0 < -180 {
		spans = []span{{-180, spans[0].lon1}, {spans[0].lon0 + 360, 180}}
	} else if spans[0].lon1 > 180 {
		spans = []span{{spans[0].lon0, 180}, {-180, spans[0].lon1 - 360}}
	}

	seen := make(map[*indexedWaypoint]bool)
	var wd []WaypointDistance
	for _, sp := range spans {
		rect, err := rtreego.NewRect(rtreego.Point{lat0, sp.lon0},
			[]float64{max(lat1-lat0, rtreeTolerance), max(sp.lon1-sp.lon0, rtreeTolerance)})
		if err != nil {
			continue
		}
		for _, s := range fi.tree.SearchIntersect(rect) {
			w, ok := s.(*indexedWaypoint)
			if !ok || seen[w] {
				continue
			}
			seen[w] = true
			if d := math.NMDistance2LL(p, w.Location); d <= radius {
				wd = append(wd, WaypointDistance{Waypoint: w.Waypoint, DistanceNM: d})
			}
		}
	}
	sortByDistance(wd)
	return wd
}
