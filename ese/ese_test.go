// ese/ese_test.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package ese

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/sectorkit/sectorkit/math"
	"github.com/sectorkit/sectorkit/sector"
)

const testESE = `[POSITIONS]
EGLL_TWR:Heathrow Tower:118.500:LLT:T:EGLL:TWR:-:-:0401:0477:N051.28.39.000:W000.27.41.000
EGLL_GND:Heathrow Ground:121.900:LLG
; vis centers in either order, the last of each axis wins
FAOR_APP:Johannesburg Approach:124.500:JA:J:FAOR:APP:-:-:0001:0100:E028.00.00.000:S026.00.00.000:junk:S026.30.00.000
FAOR_ATIS:ATIS:126.2:JT:J:FAOR:ATIS:-:-:::
[SIDSSTARS]
SID:EGLL:27R:BPK7G:WOD BPK
STAR:EGLL:27R:BNN1B
STAR:EGLL
APPROACH:EGLL:27R:I27R:XX
sid:FAOR:03L:EXOB1A:EXOBI
[AIRSPACE]
SECTORLINE:1
COORD:N051.00.00.000:W001.00.00.000
[FREETEXT]
N051.28.39.000:W000.27.41.000:Heathrow:EGLL
`

func TestParse(t *testing.T) {
	m := Parse(sector.Split(testESE), Options{})

	if len(m.Positions) != 3 {
		t.Fatalf("got %d positions, expected 3", len(m.Positions))
	}
	p, ok := m.Position("EGLL_TWR")
	if !ok || p.Name != "Heathrow Tower" || p.Type != Tower || p.SquawkStart != "0401" || p.SquawkEnd != "0477" {
		t.Errorf("EGLL_TWR: got %+v", p)
	}
	if !slices.Equal(p.Coordinates, []string{"N051.28.39.000", "W000.27.41.000"}) {
		t.Errorf("EGLL_TWR: got coordinates %v", p.Coordinates)
	}
	if f, err := p.FrequencyMHz(); err != nil || f != 118.5 {
		t.Errorf("EGLL_TWR: got frequency %v %v", f, err)
	}

	app, _ := m.Position("FAOR_APP")
	if len(app.Coordinates) != 3 {
		t.Errorf("FAOR_APP: got coordinates %v", app.Coordinates)
	}
	loc, ok := app.EffectiveLocation()
	if !ok || !loc.ApproxEqual(math.NewPoint2LL(-26.5, 28), 1e-9) {
		t.Errorf("FAOR_APP: got %s %v", loc.DDString(), ok)
	}

	if _, ok := m.Position("EGLL_GND"); ok {
		t.Errorf("expected short EGLL_GND record to be skipped")
	}

	if len(m.Procedures) != 3 {
		t.Fatalf("got %d procedures, expected 3", len(m.Procedures))
	}
	if p := m.Procedures[0]; p.Kind != SID || p.Name != "BPK7G" || !slices.Equal(p.Waypoints, []string{"WOD", "BPK"}) {
		t.Errorf("got %+v", p)
	}
	if p := m.Procedures[1]; p.Kind != STAR || len(p.Waypoints) != 0 {
		t.Errorf("got %+v", p)
	}
	if sids := m.ProceduresFor("FAOR", SID); len(sids) != 1 || sids[0].Runway != "03L" {
		t.Errorf("got FAOR SIDs %+v", sids)
	}
	if stars := m.ProceduresFor("EGLL", STAR); len(stars) != 1 {
		t.Errorf("got EGLL STARs %+v", stars)
	}

	if len(m.Airspace) != 2 || m.Airspace[1] != "COORD:N051.00.00.000:W001.00.00.000" {
		t.Errorf("got airspace %q", m.Airspace)
	}
	if len(m.Freetext) != 1 || m.Radar != nil {
		t.Errorf("got freetext %q radar %q", m.Freetext, m.Radar)
	}

	// EGLL_GND, the 2-field STAR and the APPROACH line.
	if len(m.Diagnostics()) != 3 {
		t.Errorf("got %d diagnostics, expected 3: %v", len(m.Diagnostics()), m.Diagnostics())
	}
	if !errors.Is(m.Diagnostics()[2], errUnknownKind) {
		t.Errorf("got %v, expected unknown kind", m.Diagnostics()[2])
	}
}

func TestMalformedPositionSkipped(t *testing.T) {
	m := Parse(sector.Split("[POSITIONS]\n"+
		"EGLL_TWR:Heathrow Tower:118.500:LLT:T:EGLL:TWR:-:-:0401:0477\n"+
		"A:B:C\n"), Options{})
	if len(m.Positions) != 1 {
		t.Errorf("got %d positions, expected 1", len(m.Positions))
	}
	var mre *sector.MalformedRecordError
	if len(m.Diagnostics()) != 1 || !errors.As(m.Diagnostics()[0], &mre) || mre.Line != 3 {
		t.Errorf("got diagnostics %v", m.Diagnostics())
	}
}

func TestAllCoordinates(t *testing.T) {
	m := Parse(sector.Split(testESE), Options{})
	ll := m.AllCoordinates()
	if len(ll) != 2 {
		t.Fatalf("got %d locations, expected 2", len(ll))
	}
	if ll[0].Callsign != "EGLL_TWR" || ll[1].Callsign != "FAOR_APP" {
		t.Errorf("got %+v", ll)
	}
	if ll[0].Location.Latitude() < 51.47 || ll[0].Location.Longitude() > -0.46 {
		t.Errorf("got %s", ll[0].Location.DDString())
	}
}

func TestPositionLongFractionCoordinates(t *testing.T) {
	m := Parse(sector.Split("[POSITIONS]\n"+
		"EGLL_TWR:Heathrow Tower:118.500:LLT:T:EGLL:TWR:-:-:0401:0477:N051.28.39.0000:W000.27.41.0000\n"), Options{})
	if len(m.Positions) != 1 {
		t.Fatalf("got %d positions, expected 1", len(m.Positions))
	}
	p := m.Positions[0]
	if !slices.Equal(p.Coordinates, []string{"N051.28.39.0000", "W000.27.41.0000"}) {
		t.Errorf("got coordinates %v", p.Coordinates)
	}
	loc, ok := p.EffectiveLocation()
	if !ok {
		t.Fatalf("no effective location")
	}
	if s := loc.DMSString(); s != "N051.28.39.000 W000.27.41.000" {
		t.Errorf("got %q, expected \"N051.28.39.000 W000.27.41.000\"", s)
	}
}

func TestPositionTypeKnown(t *testing.T) {
	for ty, known := range map[PositionType]bool{
		"TWR": true, "twr": true, "ATIS": true, "DEP": true, "RMP": false, "": false,
	} {
		if ty.Known() != known {
			t.Errorf("%q: got %v, expected %v", ty, !known, known)
		}
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.ese")
	if err := os.WriteFile(path, []byte(testESE), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := ParseFile(path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if m.Path != path || len(m.Positions) != 3 {
		t.Errorf("got path %q with %d positions", m.Path, len(m.Positions))
	}

	if _, err := ParseFile(path+".missing", Options{}); err == nil {
		t.Errorf("expected error for missing file")
	}
}
