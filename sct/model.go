// sct/model.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sct

import (
	"fmt"
	"slices"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/sectorkit/sectorkit/math"
	"github.com/sectorkit/sectorkit/sector"
)

// Model is the parsed contents of a .sct sector file. It is built once by
// Parse or ParseFile and must be treated as read-only afterward.
type Model struct {
	Path string

	// Metadata holds the key=value lines of [INFO] in file order.
	Metadata *orderedmap.OrderedMap
	// Info is set when [INFO] uses the positional layout instead.
	Info *Info

	Airports    []Airport
	VORs        []Navaid
	NDBs        []Navaid
	Runways     []Runway
	Fixes       []Fix
	Frequencies []Frequency
	Taxiways    [][]math.Point2LL

	High []Boundary
	Low  []Boundary

	HighAirways []Airway
	LowAirways  []Airway
	Geo         []Geo

	Version string

	// Sections is the raw split file the model was built from.
	Sections *sector.Sections

	diagnostics []error
}

// Info is the positional form of the [INFO] section.
type Info struct {
	Id                string
	DefaultCallsign   string
	DefaultAirport    string
	Center            math.Point2LL
	NmPerLatitude     float64
	NmPerLongitude    float64
	MagneticVariation float64
	Scale             float64
}

type Airport struct {
	ICAO     string
	Location math.Point2LL
	Name     string
	// Elevation in feet, if given.
	Elevation      *int
	TowerFrequency *float64
	Airspace       string
}

type NavaidKind string

const (
	VOR NavaidKind = "VOR"
	NDB NavaidKind = "NDB"
)

type Navaid struct {
	Kind      NavaidKind
	Id        string
	Name      string
	Location  math.Point2LL
	Frequency *float64
}

type Fix struct {
	Name     string
	Location math.Point2LL
}

type Runway struct {
	Number  string
	Heading float64
	// Length and Width are in feet.
	Length  int
	Width   int
	Surface string
	ILS     *float64

	Coordinates []math.Point2LL

	// Set by the EuroScope runway layout only.
	OppositeNumber  string
	OppositeHeading float64
	Airport         string
}

// RunwayCoordinates returns the runway's points in file order; the first
// and last are taken as its two ends.
func (r Runway) RunwayCoordinates() []math.Point2LL {
	return r.Coordinates
}

func (r Runway) ILSFrequency() *float64 {
	return r.ILS
}

type Frequency struct {
	Type      string
	Name      string
	Frequency float64
}

type Segment struct {
	Start math.Point2LL
	End   math.Point2LL
}

func (s Segment) String() string {
	return s.Start.DMSString() + " " + s.End.DMSString()
}

// Boundary is a named airspace outline. Its segments are the drawn edges
// and need not form a single closed loop.
type Boundary struct {
	Name     string
	Segments []Segment
}

// AirspaceClass is an open, string-backed airspace class tag.
type AirspaceClass string

const (
	ClassA     AirspaceClass = "A"
	ClassB     AirspaceClass = "B"
	ClassC     AirspaceClass = "C"
	ClassD     AirspaceClass = "D"
	ClassE     AirspaceClass = "E"
	ClassF     AirspaceClass = "F"
	ClassG     AirspaceClass = "G"
	ClassOther AirspaceClass = "OTHER"
)

// Class guesses the airspace class from the boundary name. An explicit
// "CLASS x" in the name wins; otherwise control zones are D, terminal and
// control areas C, and FIR/UIR/ARTCC regions E.
func (b Boundary) Class() AirspaceClass {
	name := strings.ToUpper(b.Name)
	for _, c := range "ABCDEFG" {
		if strings.Contains(name, "CLASS "+string(c)) {
			return AirspaceClass(string(c))
		}
	}

	switch {
	case strings.Contains(name, "CTR"):
		return ClassD
	case strings.Contains(name, "TMA"), strings.Contains(name, "CTA"):
		return ClassC
	case strings.Contains(name, "FIR"), strings.Contains(name, "UIR"), strings.Contains(name, "ARTCC"):
		return ClassE
	}
	return ClassOther
}

type Airway struct {
	Name     string
	Segments []Segment
}

type ColoredSegment struct {
	Segment
	Color string
}

type Geo struct {
	Name     string
	Segments []ColoredSegment
}

///////////////////////////////////////////////////////////////////////////
// Lookups

func (m *Model) Airport(icao string) (Airport, bool) {
	idx := slices.IndexFunc(m.Airports, func(ap Airport) bool { return ap.ICAO == icao })
	if idx == -1 {
		return Airport{}, false
	}
	return m.Airports[idx], true
}

// Runway returns the first runway with the given designator.
func (m *Model) Runway(number string) (Runway, bool) {
	idx := slices.IndexFunc(m.Runways, func(r Runway) bool { return r.Number == number })
	if idx == -1 {
		return Runway{}, false
	}
	return m.Runways[idx], true
}

func (m *Model) Frequency(name string) (Frequency, bool) {
	idx := slices.IndexFunc(m.Frequencies, func(f Frequency) bool { return f.Name == name })
	if idx == -1 {
		return Frequency{}, false
	}
	return m.Frequencies[idx], true
}

// Navaid returns the VOR or NDB with the given identifier; VORs are
// searched first.
func (m *Model) Navaid(id string) (Navaid, bool) {
	for _, n := range m.Navaids() {
		if n.Id == id {
			return n, true
		}
	}
	return Navaid{}, false
}

// Navaids returns all VORs followed by all NDBs.
func (m *Model) Navaids() []Navaid {
	return slices.Concat(m.VORs, m.NDBs)
}

func (m *Model) Fix(name string) (Fix, bool) {
	idx := slices.IndexFunc(m.Fixes, func(f Fix) bool { return f.Name == name })
	if idx == -1 {
		return Fix{}, false
	}
	return m.Fixes[idx], true
}

// Diagnostics returns the records that were skipped during parsing.
func (m *Model) Diagnostics() []error {
	return m.diagnostics
}

///////////////////////////////////////////////////////////////////////////
// Validation and reporting

// Validate returns advisory warnings about missing or incomplete data.
func (m *Model) Validate() []sector.Warning {
	var w []sector.Warning
	if len(m.Runways) == 0 {
		w = append(w, sector.Warning{Message: "No runways found"})
	}
	if len(m.Frequencies) == 0 {
		w = append(w, sector.Warning{Message: "No frequencies found"})
	}
	for _, r := range m.Runways {
		if len(r.Coordinates) < 2 {
			w = append(w, sector.Warning{Message: fmt.Sprintf("Runway %s has insufficient coordinates", r.Number)})
		}
	}
	return w
}

func countSegments(b []Boundary) int {
	n := 0
	for _, bd := range b {
		n += len(bd.Segments)
	}
	return n
}

func (m *Model) metadata(key string) string {
	if m.Metadata != nil {
		if v, ok := m.Metadata.Get(key); ok {
			return v.(string)
		}
	}
	return "Unknown"
}

// Summary returns a short human-readable report of what was parsed.
func (m *Model) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SCT File: %s\n", m.Path)
	fmt.Fprintf(&sb, "Version: %s\n", m.Version)
	fmt.Fprintf(&sb, "Airport: %s - %s\n", m.metadata("ICAO"), m.metadata("Name"))
	fmt.Fprintf(&sb, "Runways: %d\n", len(m.Runways))
	fmt.Fprintf(&sb, "Frequencies: %d\n", len(m.Frequencies))
	fmt.Fprintf(&sb, "VORs: %d\n", len(m.VORs))
	fmt.Fprintf(&sb, "NDBs: %d\n", len(m.NDBs))
	fmt.Fprintf(&sb, "Taxiways: %d\n", len(m.Taxiways))
	fmt.Fprintf(&sb, "Airports: %d\n", len(m.Airports))
	fmt.Fprintf(&sb, "Fixes: %d\n", len(m.Fixes))
	fmt.Fprintf(&sb, "ARTCC HIGH boundaries: %d\n", len(m.High))
	fmt.Fprintf(&sb, "ARTCC LOW boundaries: %d\n", len(m.Low))
	fmt.Fprintf(&sb, "  - HIGH segments: %d\n", countSegments(m.High))
	fmt.Fprintf(&sb, "  - LOW segments: %d", countSegments(m.Low))
	return sb.String()
}
