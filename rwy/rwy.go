// rwy/rwy.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package rwy parses .rwy runway extension files. Unlike .sct and .ese
// files they have no sections; each line's prefix determines its record
// type and coordinates are plain decimal degrees.
package rwy

import (
	"errors"
	"fmt"
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
	Path        string
	Runways     []Runway
	ILS         []ILSRecord
	Centerlines []Centerline

	diagnostics []error
}

// ILSRecord gives the glideslope and localizer positions for a runway,
// e.g. ILS21L:-26.1358683:28.2571240:-26.1649203:28.2479394
type ILSRecord struct {
	Name       string
	Runway     string
	Glideslope math.Point2LL
	Localizer  math.Point2LL
}

type Runway struct {
	Number      string
	Coordinates []math.Point2LL
	Extended    bool
}

func (r Runway) RunwayCoordinates() []math.Point2LL {
	return r.Coordinates
}

// ILSFrequency always returns nil; .rwy files don't carry frequencies.
func (r Runway) ILSFrequency() *float64 {
	return nil
}

type CenterlineKind string

const (
	RunwayCenterline   CenterlineKind = "RUNWAY"
	ExtendedCenterline CenterlineKind = "EXTENDED_CENTERLINE"
	NamedCenterline    CenterlineKind = "CENTERLINE"
)

type Centerline struct {
	Name        string
	Kind        CenterlineKind
	Coordinates []math.Point2LL
}

// ILSForRunway returns the first ILS record for the given runway.
func (m *Model) ILSForRunway(number string) (ILSRecord, bool) {
	for _, ils := range m.ILS {
		if ils.Runway == number {
			return ils, true
		}
	}
	return ILSRecord{}, false
}

// ExtendedRunways returns the runways defined by RWY_EXT records.
func (m *Model) ExtendedRunways() []Runway {
	return util.FilterSlice(m.Runways, func(r Runway) bool { return r.Extended })
}

func (m *Model) Diagnostics() []error {
	return m.diagnostics
}

///////////////////////////////////////////////////////////////////////////
// Parsing

var (
	errFieldCount = errors.New("wrong number of fields")
	errOddCount   = errors.New("odd number of coordinate values")
)

// ParseFile reads and parses the .rwy file at path. The only error it
// returns is a *sector.IOError if the file can't be read.
func ParseFile(path string, opts Options) (*Model, error) {
	text, err := sector.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := parse(text, path, opts)
	return m, nil
}

// Parse builds a Model from the contents of a .rwy file. Lines that
// don't parse are skipped and reported through Diagnostics.
func Parse(text string, opts Options) *Model {
	return parse(text, "", opts)
}

func parse(text, path string, opts Options) *Model {
	var e util.ErrorLogger
	if path != "" {
		e.Push(path)
		defer e.Pop()
	}
	lg := opts.Logger

	m := &Model{Path: path}
	for i, raw := range strings.Split(text, "\n") {
		l := sector.Line{Text: strings.TrimSpace(raw), Lineno: i + 1}
		if l.Text == "" || strings.HasPrefix(l.Text, ";") {
			continue
		}

		var kind string
		var err error
		switch {
		case strings.HasPrefix(l.Text, "ILS"):
			kind = "ILS"
			var ils ILSRecord
			if ils, err = parseILS(l.Text); err == nil {
				m.ILS = append(m.ILS, ils)
			}

		case strings.HasPrefix(l.Text, "RWY_EXT"), strings.HasPrefix(l.Text, "RWY:"):
			ext := strings.HasPrefix(l.Text, "RWY_EXT")
			kind = util.Select(ext, "RWY_EXT", "RWY")

			var name string
			var pts []math.Point2LL
			if name, pts, err = parsePolyline(l.Text); err == nil {
				m.Runways = append(m.Runways, Runway{Number: name, Coordinates: pts, Extended: ext})
				m.Centerlines = append(m.Centerlines, Centerline{
					Name:        "RWY" + name,
					Kind:        util.Select(ext, ExtendedCenterline, RunwayCenterline),
					Coordinates: pts,
				})
			}

		case strings.Contains(l.Text, "CENTERLINE"), strings.Contains(l.Text, "CLINE"):
			kind = "CENTERLINE"
			var name string
			var pts []math.Point2LL
			if name, pts, err = parsePolyline(l.Text); err == nil {
				m.Centerlines = append(m.Centerlines, Centerline{Name: name, Kind: NamedCenterline, Coordinates: pts})
			}

		default:
			continue
		}

		if err != nil {
			e.Error(sector.Malformed(kind, l, "invalid "+kind+" record", err))
		}
	}

	m.diagnostics = e.Errors()
	e.PrintErrors(lg)
	lg.Info("parsed rwy file", "path", path, "runways", len(m.Runways), "ils", len(m.ILS),
		"centerlines", len(m.Centerlines), "skipped", len(m.diagnostics))
	return m
}

func parsePoint(lat, lon string) (math.Point2LL, error) {
	la, err := util.Atof(lat)
	if err != nil {
		return math.Point2LL{}, err
	}
	lo, err := util.Atof(lon)
	if err != nil {
		return math.Point2LL{}, err
	}
	p := math.NewPoint2LL(la, lo)
	if !p.Valid() {
		return math.Point2LL{}, &sector.CoordinateDecodeError{Text: lat + ":" + lon, Err: sector.ErrOutOfRange}
	}
	return p, nil
}

// parseILS handles NAME:GSLAT:GSLON:LOCLAT:LOCLON.
func parseILS(text string) (ILSRecord, error) {
	f := strings.Split(text, ":")
	if len(f) != 5 {
		return ILSRecord{}, fmt.Errorf("expected 5, got %d: %w", len(f), errFieldCount)
	}
	gs, err := parsePoint(f[1], f[2])
	if err != nil {
		return ILSRecord{}, err
	}
	loc, err := parsePoint(f[3], f[4])
	if err != nil {
		return ILSRecord{}, err
	}
	return ILSRecord{
		Name:       f[0],
		Runway:     strings.TrimPrefix(f[0], "ILS"),
		Glideslope: gs,
		Localizer:  loc,
	}, nil
}

// parsePolyline handles PREFIX:NAME:LAT1:LON1:LAT2:LON2:...
func parsePolyline(text string) (string, []math.Point2LL, error) {
	f := strings.Split(text, ":")
	if len(f) < 4 {
		return "", nil, fmt.Errorf("expected at least 4, got %d: %w", len(f), errFieldCount)
	}
	if (len(f)-2)%2 != 0 {
		return "", nil, errOddCount
	}

	var pts []math.Point2LL
	for i := 2; i+1 < len(f); i += 2 {
		p, err := parsePoint(f[i], f[i+1])
		if err != nil {
			return "", nil, err
		}
		pts = append(pts, p)
	}
	return f[1], pts, nil
}
