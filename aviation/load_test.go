// aviation/load_test.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/sectorkit/sectorkit/log"
	"github.com/sectorkit/sectorkit/sct"
	"github.com/sectorkit/sectorkit/sector"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

type recordingCache struct {
	keys []string
}

func (c *recordingCache) Get(key string) (sct.CachedBoundaries, bool, error) {
	return sct.CachedBoundaries{}, false, nil
}

func (c *recordingCache) Put(key string, cb sct.CachedBoundaries) error {
	c.keys = append(c.keys, key)
	return nil
}

func TestLoadSector(t *testing.T) {
	dir := t.TempDir()
	opts := LoadOptions{
		SCTPath: writeFile(t, dir, "FAJA.sct", "[AIRPORT]\nFAOR -26.1392 28.2411 O.R.Tambo\n"+
			"[RUNWAY]\n03L 30 14495 60 ASPH -26.15 28.22 -26.12 28.24 ILS 109.50\n"+
			"21R 210 14495 60 ASPH -26.12 28.24 -26.15 28.22\n"),
		ESEPath: writeFile(t, dir, "faja.ese", "[POSITIONS]\n"+
			"FAOR_TWR:Tambo Tower:118.100:OT:T:FAOR:TWR:-:-:0001:0100:S026.08.00.000:E028.14.00.000\n"),
		RWYPath: writeFile(t, dir, "FAJA.rwy", "ILS21R:-26.14:28.23:-26.15:28.22\n"),
		Logger:  log.Discard(),
	}
	c := &recordingCache{}
	opts.Cache = c

	s, err := LoadSector(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if s.SCT == nil || s.ESE == nil || s.RWY == nil {
		t.Fatalf("got %+v", s)
	}
	if len(s.SCT.Airports) != 1 || len(s.ESE.Positions) != 1 || len(s.RWY.ILS) != 1 {
		t.Errorf("unexpected contents")
	}
	if len(c.keys) != 1 || c.keys[0] != sct.CacheKey("faja", opts.SCTPath) {
		t.Errorf("got cache keys %v", c.keys)
	}

	// 21R has an ILS record in the .rwy file; 03L is derived.
	ils, ok := s.ILS("21R")
	if !ok || ils.Localizer.Latitude() != -26.15 || ils.Frequency != nil {
		t.Errorf("21R: got %+v %v", ils, ok)
	}
	ils, ok = s.ILS("03L")
	if !ok || ils.Frequency == nil || *ils.Frequency != 109.5 || ils.Localizer.Latitude() != -26.12 {
		t.Errorf("03L: got %+v %v", ils, ok)
	}
	if _, ok := s.ILS("09"); ok {
		t.Errorf("unexpected ILS for 09")
	}
}

func TestLoadSectorPartial(t *testing.T) {
	dir := t.TempDir()
	s, err := LoadSector(context.Background(), LoadOptions{
		RWYPath: writeFile(t, dir, "x.rwy", "RWY:09:0:0:0:0.01\n"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if s.SCT != nil || s.ESE != nil || len(s.RWY.Runways) != 1 {
		t.Errorf("got %+v", s)
	}
}

func TestLoadSectorMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadSector(context.Background(), LoadOptions{
		SCTPath: writeFile(t, dir, "ok.sct", "[INFO]\n"),
		ESEPath: filepath.Join(dir, "missing.ese"),
		Logger:  log.Discard(),
	})
	var ioe *sector.IOError
	if !errors.As(err, &ioe) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("got %v, expected IOError", err)
	}
}

func TestLoadSectorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadSector(ctx, LoadOptions{SCTPath: "unused.sct", Logger: log.Discard()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, expected context.Canceled", err)
	}
}
