// sct/parse.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sct

import (
	"errors"
	gomath "math"
	"regexp"
	"strconv"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/sectorkit/sectorkit/log"
	"github.com/sectorkit/sectorkit/math"
	"github.com/sectorkit/sectorkit/sector"
	"github.com/sectorkit/sectorkit/util"
)

// Options controls how a sector file is parsed. The zero value is valid.
type Options struct {
	Logger *log.Logger
	// Cache, if set, is consulted by ParseFile for previously computed
	// ARTCC boundaries.
	Cache BoundaryCache
	// CacheName is the logical name (typically the companion .ese file)
	// used to derive the cache key.
	CacheName string
}

var (
	reVersion = regexp.MustCompile(`(?i)VERSION\s+(\d+\.\d+)`)
	reILS     = regexp.MustCompile(`ILS\s+(\d+\.\d+)`)
	reNumber  = regexp.MustCompile(`[-+]?\d*\.\d+|\d+`)
	reVORFreq = regexp.MustCompile(`^\d+\.\d+$`)
	reNDBFreq = regexp.MustCompile(`^\d+$`)
)

var errNoBoundary = errors.New("coordinates before first boundary name")

const feetPerNM = 6076.115

type parser struct {
	d  *sector.Decoder
	e  util.ErrorLogger
	lg *log.Logger
}

func (p *parser) skip(section string, l sector.Line, reason string, err error) {
	p.e.Error(sector.Malformed(section, l, reason, err))
}

// tagged reports whether tok is a hemisphere-tagged latitude or longitude.
func (p *parser) tagged(tok string) bool {
	pc, err := p.d.Decode(tok)
	return err == nil && (pc.Kind == sector.LatitudeOnly || pc.Kind == sector.LongitudeOnly)
}

func (p *parser) segment(f []string) (Segment, error) {
	p0, err := p.d.DecodePair(f[0], f[1])
	if err != nil {
		return Segment{}, err
	}
	p1, err := p.d.DecodePair(f[2], f[3])
	if err != nil {
		return Segment{}, err
	}
	return Segment{Start: p0, End: p1}, nil
}

// Parse builds a Model from the split sections of a .sct file. Malformed
// records are skipped and reported through Diagnostics.
func Parse(s *sector.Sections, opts Options) *Model {
	return parse(s, "", opts, nil)
}

// parse builds the model; if boundaries is non-nil the ARTCC sections are
// not reparsed and the given boundaries are used instead.
func parse(s *sector.Sections, path string, opts Options, boundaries *CachedBoundaries) *Model {
	p := &parser{d: sector.NewDecoder(), lg: opts.Logger}
	if path != "" {
		p.e.Push(path)
		defer p.e.Pop()
	}

	m := &Model{Path: path, Sections: s}

	p.parseInfo(s, m)
	m.Airports = p.parseAirports(s)
	m.VORs = p.parseNavaids(s, VOR)
	m.NDBs = p.parseNavaids(s, NDB)
	m.Runways = p.parseRunways(s)
	m.Fixes = p.parseFixes(s)
	m.Frequencies = p.parseFrequencies(s)
	m.Taxiways = p.parseTaxiways(s)

	if boundaries != nil {
		m.High, m.Low = boundaries.High, boundaries.Low
	} else {
		m.High, m.Low = p.parseARTCC(s)
	}

	m.HighAirways = p.parseAirways(s, "HIGH AIRWAY")
	m.LowAirways = p.parseAirways(s, "LOW AIRWAY")
	m.Geo = p.parseGeo(s)
	m.Version = parseVersion(s)

	m.diagnostics = p.e.Errors()
	p.e.PrintErrors(p.lg)

	hits, misses := p.d.Stats()
	p.lg.Info("parsed sector file", "path", path, "airports", len(m.Airports),
		"vors", len(m.VORs), "ndbs", len(m.NDBs), "runways", len(m.Runways),
		"fixes", len(m.Fixes), "frequencies", len(m.Frequencies),
		"taxiways", len(m.Taxiways), "high", len(m.High), "low", len(m.Low),
		"skipped", len(m.diagnostics), "decode_hits", hits, "decode_misses", misses)

	return m
}

///////////////////////////////////////////////////////////////////////////
// [INFO]

func (p *parser) parseInfo(s *sector.Sections, m *Model) {
	section, lines, ok := s.Lookup("INFO")
	if !ok {
		return
	}

	m.Metadata = orderedmap.New()
	for _, l := range lines {
		if key, value, ok := strings.Cut(l.Text, "="); ok {
			m.Metadata.Set(strings.TrimSpace(key), strings.TrimSpace(value))
		}
	}
	if len(m.Metadata.Keys()) > 0 || len(lines) < 8 {
		return
	}

	// Positional layout: a fixed number of lines, each with a fixed meaning.
	info := &Info{
		Id:              lines[0].Text,
		DefaultCallsign: lines[1].Text,
		DefaultAirport:  lines[2].Text,
		Scale:           1,
	}
	var err error
	if info.Center, err = p.d.DecodePair(lines[3].Text, lines[4].Text); err != nil {
		p.skip(section, lines[3], "invalid center", err)
	}
	for i, v := range []*float64{&info.NmPerLatitude, &info.NmPerLongitude, &info.MagneticVariation, &info.Scale} {
		if 5+i >= len(lines) {
			break
		}
		if *v, err = util.Atof(lines[5+i].Text); err != nil {
			p.skip(section, lines[5+i], "expected number", err)
		}
	}
	m.Info = info
}

///////////////////////////////////////////////////////////////////////////
// [AIRPORT]

func (p *parser) parseAirports(s *sector.Sections) []Airport {
	section, lines, ok := s.Lookup("AIRPORT", "AIRPORTS")
	if !ok {
		return nil
	}

	var airports []Airport
	for _, l := range lines {
		if ap, err := p.parseAirport(l); err != nil {
			p.skip(section, l, "invalid airport", err)
		} else {
			airports = append(airports, ap)
		}
	}
	return airports
}

func (p *parser) parseAirport(l sector.Line) (Airport, error) {
	f := strings.Fields(l.Text)
	if len(f) < 3 {
		return Airport{}, errors.New("expected at least 3 fields")
	}
	ap := Airport{ICAO: f[0]}

	if len(f) >= 4 && p.tagged(f[2]) && p.tagged(f[3]) {
		// ICAO FREQ LAT LON [AIRSPACE]
		freq, err := util.Atof(f[1])
		if err != nil {
			return Airport{}, err
		}
		if ap.Location, err = p.d.DecodePair(f[2], f[3]); err != nil {
			return Airport{}, err
		}
		ap.TowerFrequency = &freq
		ap.Airspace = strings.Join(f[4:], " ")
		ap.Name = ap.ICAO
		return ap, nil
	}

	// ICAO LAT LON [ELEVATION] [NAME...]
	var err error
	if ap.Location, err = p.d.DecodePair(f[1], f[2]); err != nil {
		return Airport{}, err
	}
	rest := f[3:]
	if len(rest) > 1 && util.IsAllNumbers(rest[0]) {
		elev, _ := strconv.Atoi(rest[0])
		ap.Elevation = &elev
		rest = rest[1:]
	}
	if len(rest) > 0 {
		ap.Name = strings.Join(rest, " ")
	} else {
		ap.Name = ap.ICAO
	}
	return ap, nil
}

///////////////////////////////////////////////////////////////////////////
// [VOR], [NDB]

func (p *parser) parseNavaids(s *sector.Sections, kind NavaidKind) []Navaid {
	section, lines, ok := s.Lookup(string(kind))
	if !ok {
		return nil
	}

	var navaids []Navaid
	for _, l := range lines {
		if n, err := p.parseNavaid(l, kind); err != nil {
			p.skip(section, l, "invalid "+string(kind), err)
		} else {
			navaids = append(navaids, n)
		}
	}
	return navaids
}

func (p *parser) parseNavaid(l sector.Line, kind NavaidKind) (Navaid, error) {
	f := strings.Fields(l.Text)
	if len(f) < 3 {
		return Navaid{}, errors.New("expected at least 3 fields")
	}
	n := Navaid{Kind: kind, Id: f[0]}

	if len(f) == 4 && p.tagged(f[2]) && p.tagged(f[3]) {
		// ID FREQ LAT LON
		freq, err := util.Atof(f[1])
		if err != nil {
			return Navaid{}, err
		}
		if n.Location, err = p.d.DecodePair(f[2], f[3]); err != nil {
			return Navaid{}, err
		}
		n.Frequency = &freq
		n.Name = n.Id
		return n, nil
	}

	// ID LAT LON [NAME...], with the frequency somewhere in the name
	var err error
	if n.Location, err = p.d.DecodePair(f[1], f[2]); err != nil {
		return Navaid{}, err
	}
	re := reVORFreq
	if kind == NDB {
		re = reNDBFreq
	}
	var name []string
	for _, tok := range f[3:] {
		if n.Frequency == nil && re.MatchString(tok) {
			if freq, err := util.Atof(tok); err == nil {
				n.Frequency = &freq
				continue
			}
		}
		name = append(name, tok)
	}
	n.Name = strings.Join(name, " ")
	return n, nil
}

///////////////////////////////////////////////////////////////////////////
// [RUNWAY]

func (p *parser) parseRunways(s *sector.Sections) []Runway {
	section, lines, ok := s.Lookup("RUNWAY")
	if !ok {
		return nil
	}

	var runways []Runway
	for _, l := range lines {
		if r, err := p.parseRunway(section, l); err != nil {
			p.skip(section, l, "invalid runway", err)
		} else {
			runways = append(runways, r)
		}
	}
	return runways
}

func (p *parser) parseRunway(section string, l sector.Line) (Runway, error) {
	text := l.Text
	var ils *float64
	if m := reILS.FindStringSubmatchIndex(text); m != nil {
		freq, _ := strconv.ParseFloat(text[m[2]:m[3]], 64)
		ils = &freq
		text = text[:m[0]] + text[m[1]:]
	}

	f := strings.Fields(text)
	if len(f) < 3 {
		return Runway{}, errors.New("expected at least 3 fields")
	}

	if len(f) >= 8 && p.tagged(f[4]) {
		// NUM OPP HDG OPPHDG LAT LON LAT LON [ICAO]
		hdg, err := util.Atof(f[2])
		if err != nil {
			return Runway{}, err
		}
		opp, err := util.Atof(f[3])
		if err != nil {
			return Runway{}, err
		}
		seg, err := p.segment(f[4:8])
		if err != nil {
			return Runway{}, err
		}
		r := Runway{
			Number:          f[0],
			OppositeNumber:  f[1],
			Heading:         hdg,
			OppositeHeading: opp,
			Length:          int(gomath.Round(math.NMDistance2LL(seg.Start, seg.End) * feetPerNM)),
			Width:           100,
			Surface:         "ASPH",
			ILS:             ils,
			Coordinates:     []math.Point2LL{seg.Start, seg.End},
		}
		if len(f) > 8 {
			r.Airport = f[8]
		}
		return r, nil
	}

	// NUMBER HEADING LENGTH [WIDTH [SURFACE [LAT LON]...]]
	hdg, err := util.Atof(f[1])
	if err != nil {
		return Runway{}, err
	}
	length, err := strconv.Atoi(f[2])
	if err != nil {
		return Runway{}, err
	}
	r := Runway{
		Number:  f[0],
		Heading: hdg,
		Length:  length,
		Width:   100,
		Surface: "ASPH",
		ILS:     ils,
	}
	if len(f) > 3 {
		if r.Width, err = strconv.Atoi(f[3]); err != nil {
			return Runway{}, err
		}
	}
	if len(f) > 4 {
		r.Surface = f[4]
	}
	for i := 5; i+1 < len(f); i += 2 {
		if pt, err := p.d.DecodePair(f[i], f[i+1]); err != nil {
			p.skip(section, l, "invalid runway coordinate", err)
		} else {
			r.Coordinates = append(r.Coordinates, pt)
		}
	}
	return r, nil
}

///////////////////////////////////////////////////////////////////////////
// [FIXES], [FREQUENCY]

func (p *parser) parseFixes(s *sector.Sections) []Fix {
	section, lines, ok := s.Lookup("FIXES")
	if !ok {
		return nil
	}

	var fixes []Fix
	for _, l := range lines {
		f := strings.Fields(l.Text)
		if len(f) < 3 {
			p.skip(section, l, "expected 3 fields", nil)
			continue
		}
		// Fix names may contain spaces; the position is the last two fields.
		n := len(f)
		if pt, err := p.d.DecodePair(f[n-2], f[n-1]); err != nil {
			p.skip(section, l, "invalid fix", err)
		} else {
			fixes = append(fixes, Fix{Name: strings.Join(f[:n-2], " "), Location: pt})
		}
	}
	return fixes
}

func (p *parser) parseFrequencies(s *sector.Sections) []Frequency {
	section, lines, ok := s.Lookup("FREQUENCY")
	if !ok {
		return nil
	}

	var freqs []Frequency
	for _, l := range lines {
		f := strings.Fields(l.Text)
		if len(f) < 3 {
			p.skip(section, l, "expected 3 fields", nil)
			continue
		}
		if v, err := util.Atof(f[2]); err != nil {
			p.skip(section, l, "invalid frequency", err)
		} else {
			freqs = append(freqs, Frequency{Type: f[0], Name: f[1], Frequency: v})
		}
	}
	return freqs
}

///////////////////////////////////////////////////////////////////////////
// [TAXIWAY]

func (p *parser) taxiwayPoints(section string, l sector.Line) []math.Point2LL {
	var pts []math.Point2LL

	f := strings.Fields(l.Text)
	if len(f) >= 2 && p.tagged(f[0]) {
		for i := 0; i+1 < len(f); i += 2 {
			if pt, err := p.d.DecodePair(f[i], f[i+1]); err != nil {
				p.skip(section, l, "invalid taxiway coordinate", err)
			} else {
				pts = append(pts, pt)
			}
		}
		return pts
	}

	nums := reNumber.FindAllString(l.Text, -1)
	for i := 0; i+1 < len(nums); i += 2 {
		lat, _ := strconv.ParseFloat(nums[i], 64)
		lon, _ := strconv.ParseFloat(nums[i+1], 64)
		if pt := math.NewPoint2LL(lat, lon); pt.Valid() {
			pts = append(pts, pt)
		} else {
			p.skip(section, l, "taxiway coordinate out of range", sector.ErrOutOfRange)
		}
	}
	return pts
}

// parseTaxiways returns one polyline per run of lines; comment lines
// separate runs.
func (p *parser) parseTaxiways(s *sector.Sections) [][]math.Point2LL {
	section, lines, ok := s.Lookup("TAXIWAY")
	if !ok {
		return nil
	}

	var taxiways [][]math.Point2LL
	var current []math.Point2LL
	for _, l := range lines {
		if l.AfterComment && len(current) > 0 {
			taxiways = append(taxiways, current)
			current = nil
		}
		current = append(current, p.taxiwayPoints(section, l)...)
	}
	if len(current) > 0 {
		taxiways = append(taxiways, current)
	}
	return taxiways
}

///////////////////////////////////////////////////////////////////////////
// Airways and [GEO]

// parseAirways handles named segments where the last four fields are the
// segment and anything before them is the name, e.g.
// "EGNS Isle of Man CTA N053.58.00.066 W004.18.42.359 N053.58.04.867 W004.18.20.829".
func (p *parser) parseAirways(s *sector.Sections, name string) []Airway {
	section, lines, ok := s.Lookup(name)
	if !ok {
		return nil
	}

	var airways []Airway
	index := make(map[string]int)
	for _, l := range lines {
		f := strings.Fields(l.Text)
		if len(f) < 5 {
			p.skip(section, l, "expected 5+ fields for named segment", nil)
			continue
		}
		seg, err := p.segment(f[len(f)-4:])
		if err != nil {
			p.skip(section, l, "invalid segment", err)
			continue
		}
		awName := strings.Join(f[:len(f)-4], " ")
		idx, ok := index[awName]
		if !ok {
			idx = len(airways)
			index[awName] = idx
			airways = append(airways, Airway{Name: awName})
		}
		airways[idx].Segments = append(airways[idx].Segments, seg)
	}
	return airways
}

func (p *parser) parseGeo(s *sector.Sections) []Geo {
	section, lines, ok := s.Lookup("GEO")
	if !ok {
		return nil
	}

	var geo []Geo
	for _, l := range lines {
		f := strings.Fields(l.Text)
		if len(f) < 4 {
			p.skip(section, l, "expected at least 4 fields", nil)
			continue
		}

		// A line that starts with a segment continues the current group;
		// otherwise look for the first full segment and treat what comes
		// before it as the group's name.
		i := 0
		if _, err := p.segment(f[:4]); err == nil {
			if len(geo) == 0 {
				geo = append(geo, Geo{})
			}
		} else {
			for i = 1; i+4 <= len(f); i++ {
				if _, err := p.segment(f[i : i+4]); err == nil {
					break
				}
			}
			if i+4 > len(f) {
				p.skip(section, l, "did not find valid segment", nil)
				continue
			}
			geo = append(geo, Geo{Name: strings.Join(f[:i], " ")})
		}

		seg, _ := p.segment(f[i : i+4])
		cs := ColoredSegment{Segment: seg}
		if i+4 < len(f) {
			cs.Color = strings.Join(f[i+4:], " ")
		}
		geo[len(geo)-1].Segments = append(geo[len(geo)-1].Segments, cs)
	}
	return geo
}

///////////////////////////////////////////////////////////////////////////
// Version

// parseVersion returns the first "VERSION x.y" found in the file.
func parseVersion(s *sector.Sections) string {
	for _, lines := range s.All() {
		for _, l := range lines {
			if m := reVersion.FindStringSubmatch(l.Text); m != nil {
				return m[1]
			}
		}
	}
	return ""
}
