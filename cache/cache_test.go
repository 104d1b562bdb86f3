// cache/cache_test.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sectorkit/sectorkit/math"
	"github.com/sectorkit/sectorkit/sct"
)

func testEntry() sct.CachedBoundaries {
	seg := func(lat0, lon0, lat1, lon1 float64) sct.Segment {
		return sct.Segment{Start: math.NewPoint2LL(lat0, lon0), End: math.NewPoint2LL(lat1, lon1)}
	}
	return sct.CachedBoundaries{
		High: []sct.Boundary{
			{Name: "FAJA_CTR", Segments: []sct.Segment{seg(26.8, 28, 27, 29), seg(27, 29, 26.5, 29.5)}},
		},
		Low: []sct.Boundary{
			{Name: "EGNS Isle of Man CTA", Segments: []sct.Segment{seg(53.966685, -4.311766, 53.967907, -4.305786)}},
		},
		SourceFile: "/sectors/test.sct",
		Timestamp:  time.Date(2025, 3, 4, 10, 11, 12, 345678000, time.UTC),
		Version:    sct.CacheVersion,
	}
}

func checkEntry(t *testing.T, got, expected sct.CachedBoundaries) {
	t.Helper()
	if !reflect.DeepEqual(got.High, expected.High) {
		t.Errorf("got high %+v, expected %+v", got.High, expected.High)
	}
	if !reflect.DeepEqual(got.Low, expected.Low) {
		t.Errorf("got low %+v, expected %+v", got.Low, expected.Low)
	}
	if got.SourceFile != expected.SourceFile || got.Version != expected.Version {
		t.Errorf("got %q/%q, expected %q/%q", got.SourceFile, got.Version, expected.SourceFile, expected.Version)
	}
	if !got.Timestamp.Equal(expected.Timestamp) {
		t.Errorf("got timestamp %s, expected %s", got.Timestamp, expected.Timestamp)
	}
}

func TestDisk(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatMsgpack} {
		t.Run(format.String(), func(t *testing.T) {
			d := NewDisk(filepath.Join(t.TempDir(), "nested", "dir"), format)
			key := sct.CacheKey("FAJA", "/sectors/test.sct")

			if _, ok, err := d.Get(key); ok || err != nil {
				t.Fatalf("missing entry: got ok=%v err=%v", ok, err)
			}

			entry := testEntry()
			if err := d.Put(key, entry); err != nil {
				t.Fatal(err)
			}
			if _, err := os.Stat(d.Path(key)); err != nil {
				t.Errorf("expected cache file: %v", err)
			}

			cb, ok, err := d.Get(key)
			if !ok || err != nil {
				t.Fatalf("got ok=%v err=%v", ok, err)
			}
			checkEntry(t, cb, entry)

			// Overwrite.
			entry.High = nil
			if err := d.Put(key, entry); err != nil {
				t.Fatal(err)
			}
			if cb, _, _ = d.Get(key); len(cb.High) != 0 {
				t.Errorf("got %d high boundaries after overwrite, expected 0", len(cb.High))
			}

			// Only the entry remains; temporary files are cleaned up.
			if ents, _ := os.ReadDir(d.Dir); len(ents) != 1 {
				t.Errorf("got %d files in cache directory, expected 1", len(ents))
			}
		})
	}
}

func TestDiskPath(t *testing.T) {
	key := "FAJA-1a2b3c4d-cache.json"
	if p := NewDisk("/c", FormatJSON).Path(key); p != filepath.Join("/c", key) {
		t.Errorf("got %q", p)
	}
	if p := NewDisk("/c", FormatMsgpack).Path(key); p != filepath.Join("/c", "FAJA-1a2b3c4d-cache.msgpack.zst") {
		t.Errorf("got %q", p)
	}
}

func TestDiskCorrupt(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatMsgpack} {
		d := NewDisk(t.TempDir(), format)
		if err := os.WriteFile(d.Path("X-cache.json"), []byte("not a cache entry"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, ok, err := d.Get("X-cache.json"); ok || err == nil {
			t.Errorf("%s: expected error for corrupt entry, got ok=%v err=%v", format, ok, err)
		}
	}
}

func TestJSONDocument(t *testing.T) {
	d := NewDisk(t.TempDir(), FormatJSON)
	if err := d.Put("K-cache.json", testEntry()); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(d.Path("K-cache.json"))
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"ARTCC_HIGH", "ARTCC_LOW", "source_file", "timestamp", "cache_version"} {
		if _, ok := doc[k]; !ok {
			t.Errorf("missing %q in cache document", k)
		}
	}
	if !strings.Contains(string(b), "\n  \"ARTCC_HIGH\"") {
		t.Errorf("expected two-space indentation:\n%s", b)
	}

	// Coordinates are stored latitude first.
	high := doc["ARTCC_HIGH"].([]any)
	seg := high[0].(map[string]any)["segments"].([]any)[0].(map[string]any)
	if start := seg["start"].([]any); start[0].(float64) != 26.8 || start[1].(float64) != 28 {
		t.Errorf("got start %v, expected [26.8 28]", start)
	}
}

func TestJSONDocumentNaiveTimestamp(t *testing.T) {
	doc := `{
  "ARTCC_HIGH": [{"name": "A", "segments": [{"start": [10.0, 20.0], "end": [11.0, 21.0]}]}],
  "ARTCC_LOW": [],
  "source_file": "/s/test.sct",
  "timestamp": "2025-03-04T10:11:12.345678",
  "cache_version": "1.0"
}`
	d := NewDisk(t.TempDir(), FormatJSON)
	if err := os.WriteFile(d.Path("A-cache.json"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cb, ok, err := d.Get("A-cache.json")
	if !ok || err != nil {
		t.Fatalf("got ok=%v err=%v", ok, err)
	}
	expected := time.Date(2025, 3, 4, 10, 11, 12, 345678000, time.Local)
	if !cb.Timestamp.Equal(expected) {
		t.Errorf("got timestamp %s, expected %s", cb.Timestamp, expected)
	}
	if len(cb.High) != 1 || len(cb.Low) != 0 {
		t.Fatalf("got %d high, %d low", len(cb.High), len(cb.Low))
	}
	s := cb.High[0].Segments[0]
	if s.Start.Latitude() != 10 || s.Start.Longitude() != 20 || s.End.Latitude() != 11 || s.End.Longitude() != 21 {
		t.Errorf("got segment %v", s)
	}
}

func TestParseFormat(t *testing.T) {
	for s, expected := range map[string]Format{"json": FormatJSON, "JSON": FormatJSON, "msgpack": FormatMsgpack} {
		if f, err := ParseFormat(s); err != nil || f != expected {
			t.Errorf("%q: got %v (%v), expected %v", s, f, err, expected)
		}
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Errorf("expected error for unknown format")
	}
}

type countingCache struct {
	m          map[string]sct.CachedBoundaries
	gets, puts int
}

func (c *countingCache) Get(key string) (sct.CachedBoundaries, bool, error) {
	c.gets++
	cb, ok := c.m[key]
	return cb, ok, nil
}

func (c *countingCache) Put(key string, cb sct.CachedBoundaries) error {
	c.puts++
	c.m[key] = cb
	return nil
}

func TestMemory(t *testing.T) {
	m := NewMemory(2, time.Hour, nil)
	if _, ok, _ := m.Get("a"); ok {
		t.Errorf("expected miss on empty cache")
	}

	entry := testEntry()
	if err := m.Put("a", entry); err != nil {
		t.Fatal(err)
	}
	cb, ok, err := m.Get("a")
	if !ok || err != nil {
		t.Fatalf("got ok=%v err=%v", ok, err)
	}
	checkEntry(t, cb, entry)

	// Returned entries are copies.
	cb.High[0].Name = "MODIFIED"
	cb.High[0].Segments[0] = sct.Segment{}
	if cb, _, _ = m.Get("a"); cb.High[0].Name != "FAJA_CTR" || cb.High[0].Segments[0] != entry.High[0].Segments[0] {
		t.Errorf("cached entry was modified: %+v", cb.High[0])
	}

	// Least recently used entries are evicted.
	m.Put("b", entry)
	m.Put("c", entry)
	if m.Len() != 2 {
		t.Errorf("got %d entries, expected 2", m.Len())
	}
	if _, ok, _ := m.Get("a"); ok {
		t.Errorf("expected \"a\" to have been evicted")
	}
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(4, 10*time.Millisecond, nil)
	m.Put("a", testEntry())
	time.Sleep(50 * time.Millisecond)
	if _, ok, _ := m.Get("a"); ok {
		t.Errorf("expected entry to have expired")
	}
}

func TestMemoryTiered(t *testing.T) {
	next := &countingCache{m: map[string]sct.CachedBoundaries{"a": testEntry()}}
	m := NewMemory(4, time.Hour, next)

	for range 3 {
		if _, ok, err := m.Get("a"); !ok || err != nil {
			t.Fatalf("got ok=%v err=%v", ok, err)
		}
	}
	if next.gets != 1 {
		t.Errorf("got %d reads of backing cache, expected 1", next.gets)
	}

	if err := m.Put("b", testEntry()); err != nil {
		t.Fatal(err)
	}
	if next.puts != 1 {
		t.Errorf("got %d writes to backing cache, expected 1", next.puts)
	}
	if _, ok, _ := m.Get("missing"); ok {
		t.Errorf("expected miss")
	}
}

func TestParseFileWithDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.sct")
	text := "[ARTCC HIGH]\nA\nN10.0.0.0 E10.0.0.0 N11.0.0.0 E11.0.0.0\n"
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}

	d := NewDisk(filepath.Join(dir, "cache"), FormatJSON)
	opts := sct.Options{Cache: d, CacheName: "TEST"}
	first, err := sct.ParseFile(path, opts)
	if err != nil {
		t.Fatal(err)
	}

	cb, ok, err := d.Get(sct.CacheKey("TEST", path))
	if !ok || err != nil {
		t.Fatalf("expected cache entry, got ok=%v err=%v", ok, err)
	}
	if cb.SourceFile != path || !reflect.DeepEqual(cb.High, first.High) {
		t.Errorf("got cache entry %+v", cb)
	}

	second, err := sct.ParseFile(path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(second.High, first.High) {
		t.Errorf("got %+v from cache, expected %+v", second.High, first.High)
	}
}
