// ese/ese.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package ese parses EuroScope .ese files: controller positions, SID/STAR
// procedures and the sections that are only carried through verbatim.
package ese

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sectorkit/sectorkit/log"
	"github.com/sectorkit/sectorkit/math"
	"github.com/sectorkit/sectorkit/sector"
	"github.com/sectorkit/sectorkit/util"
)

type Options struct {
	Logger *log.Logger
}

type Model struct {
	Path       string
	Positions  []Position
	Procedures []Procedure

	// These sections are kept as their raw lines.
	Airspace []string
	Radar    []string
	Freetext []string

	Sections *sector.Sections

	diagnostics []error
}

// PositionType is the facility type of a controller position. Files use
// codes beyond the ones listed here, so it is an open set.
type PositionType string

const (
	Delivery  PositionType = "DEL"
	Ground    PositionType = "GND"
	Tower     PositionType = "TWR"
	Approach  PositionType = "APP"
	Departure PositionType = "DEP"
	Center    PositionType = "CTR"
	FSS       PositionType = "FSS"
	ATIS      PositionType = "ATIS"
)

// Known reports whether t is one of the predefined position types.
func (t PositionType) Known() bool {
	switch PositionType(strings.ToUpper(string(t))) {
	case Delivery, Ground, Tower, Approach, Departure, Center, FSS, ATIS:
		return true
	}
	return false
}

// Position is a controller position from [POSITIONS], e.g.
// EGLL_TWR:Heathrow Tower:118.500:LLT:T:EGLL:TWR:-:-:0401:0477:N051.28.39.000:W000.27.41.000
type Position struct {
	Callsign    string
	Name        string
	Frequency   string
	Identifier  string
	Prefix      string
	Suffix      string
	Type        PositionType
	Mid         string
	SquawkStart string
	SquawkEnd   string
	// Coordinates holds the well-formed hemisphere-prefixed coordinate
	// tokens found after the fixed fields, in file order.
	Coordinates []string
}

func (p Position) FrequencyMHz() (float64, error) {
	return util.Atof(p.Frequency)
}

// EffectiveLocation resolves the position's coordinate tokens to a single
// location: the last latitude token and the last longitude token win. It
// returns false if either is missing.
func (p Position) EffectiveLocation() (math.Point2LL, bool) {
	var lat, lon *float64
	for _, c := range p.Coordinates {
		pc, err := sector.Decode(c)
		if err != nil {
			continue
		}
		switch pc.Kind {
		case sector.LatitudeOnly:
			lat = &pc.Latitude
		case sector.LongitudeOnly:
			lon = &pc.Longitude
		}
	}
	if lat == nil || lon == nil {
		return math.Point2LL{}, false
	}
	return math.NewPoint2LL(*lat, *lon), true
}

type ProcedureKind string

const (
	SID  ProcedureKind = "SID"
	STAR ProcedureKind = "STAR"
)

// Procedure is a SID or STAR from [SIDSSTARS], e.g.
// SID:EGLL:27R:BPK7G:WOD BPK
type Procedure struct {
	Kind      ProcedureKind
	Airport   string
	Runway    string
	Name      string
	Waypoints []string
}

// LabeledLocation is a resolved position location and its callsign.
type LabeledLocation struct {
	Callsign string
	Location math.Point2LL
}

// AllCoordinates returns the effective location of every position that
// has both a latitude and a longitude.
func (m *Model) AllCoordinates() []LabeledLocation {
	var ll []LabeledLocation
	for _, p := range m.Positions {
		if loc, ok := p.EffectiveLocation(); ok {
			ll = append(ll, LabeledLocation{Callsign: p.Callsign, Location: loc})
		}
	}
	return ll
}

func (m *Model) Position(callsign string) (Position, bool) {
	idx := slices.IndexFunc(m.Positions, func(p Position) bool { return p.Callsign == callsign })
	if idx == -1 {
		return Position{}, false
	}
	return m.Positions[idx], true
}

// ProceduresFor returns the procedures of the given kind for airport, in
// file order.
func (m *Model) ProceduresFor(airport string, kind ProcedureKind) []Procedure {
	return util.FilterSlice(m.Procedures, func(p Procedure) bool {
		return p.Airport == airport && p.Kind == kind
	})
}

func (m *Model) Diagnostics() []error {
	return m.diagnostics
}

///////////////////////////////////////////////////////////////////////////
// Parsing

const (
	positionFields  = 11
	procedureFields = 4
	// Coordinates may appear anywhere from this field onward.
	positionCoordinateField = 10
)

var errUnknownKind = errors.New("expected SID or STAR")

// Parse builds a Model from the split sections of a .ese file. Malformed
// records are skipped and reported through Diagnostics.
func Parse(s *sector.Sections, opts Options) *Model {
	return parse(s, "", opts)
}

// ParseFile reads and parses the .ese file at path. The only error it
// returns is a *sector.IOError if the file can't be read.
func ParseFile(path string, opts Options) (*Model, error) {
	text, err := sector.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(sector.Split(text), path, opts), nil
}

func parse(s *sector.Sections, path string, opts Options) *Model {
	var e util.ErrorLogger
	if path != "" {
		e.Push(path)
		defer e.Pop()
	}
	lg := opts.Logger

	skip := func(section string, l sector.Line, reason string, err error) {
		e.Error(sector.Malformed(section, l, reason, err))
	}

	m := &Model{Path: path, Sections: s}

	if section, lines, ok := s.Lookup("POSITIONS"); ok {
		for _, l := range lines {
			if p, err := parsePosition(l.Text); err != nil {
				skip(section, l, "invalid position", err)
			} else {
				m.Positions = append(m.Positions, p)
			}
		}
	}

	if section, lines, ok := s.Lookup("SIDSSTARS"); ok {
		for _, l := range lines {
			if p, err := parseProcedure(l.Text); err != nil {
				skip(section, l, "invalid procedure", err)
			} else {
				m.Procedures = append(m.Procedures, p)
			}
		}
	}

	texts := func(name string) []string {
		if section, _, ok := s.Lookup(name); ok {
			return s.Texts(section)
		}
		return nil
	}
	m.Airspace = texts("AIRSPACE")
	m.Radar = texts("RADAR")
	m.Freetext = texts("FREETEXT")

	m.diagnostics = e.Errors()
	e.PrintErrors(lg)
	lg.Info("parsed ese file", "path", path, "positions", len(m.Positions),
		"procedures", len(m.Procedures), "skipped", len(m.diagnostics))

	return m
}

func parsePosition(text string) (Position, error) {
	f := strings.Split(text, ":")
	if len(f) < positionFields {
		return Position{}, fmt.Errorf("expected at least %d fields, got %d", positionFields, len(f))
	}
	for i := range f {
		f[i] = strings.TrimSpace(f[i])
	}

	p := Position{
		Callsign:    f[0],
		Name:        f[1],
		Frequency:   f[2],
		Identifier:  f[3],
		Prefix:      f[4],
		Suffix:      f[5],
		Type:        PositionType(f[6]),
		Mid:         f[7],
		SquawkStart: f[9],
		SquawkEnd:   f[10],
	}
	for _, tok := range f[positionCoordinateField:] {
		if sector.IsDottedDMS(tok) {
			p.Coordinates = append(p.Coordinates, tok)
		}
	}
	return p, nil
}

func parseProcedure(text string) (Procedure, error) {
	f := strings.Split(text, ":")
	if len(f) < procedureFields {
		return Procedure{}, fmt.Errorf("expected at least %d fields, got %d", procedureFields, len(f))
	}
	for i := range f {
		f[i] = strings.TrimSpace(f[i])
	}

	kind := ProcedureKind(strings.ToUpper(f[0]))
	if kind != SID && kind != STAR {
		return Procedure{}, fmt.Errorf("%q: %w", f[0], errUnknownKind)
	}

	p := Procedure{
		Kind:    kind,
		Airport: f[1],
		Runway:  f[2],
		Name:    f[3],
	}
	if len(f) > procedureFields {
		p.Waypoints = strings.Fields(f[4])
	}
	return p, nil
}
