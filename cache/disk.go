// cache/disk.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package cache provides implementations of sct.BoundaryCache.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/sectorkit/sectorkit/math"
	"github.com/sectorkit/sectorkit/sct"
	"github.com/sectorkit/sectorkit/util"
	"github.com/vmihailenco/msgpack/v5"
)

type Format int

const (
	// FormatJSON is an indented JSON document with ARTCC_HIGH, ARTCC_LOW,
	// source_file, timestamp and cache_version members; coordinates are
	// [latitude, longitude] arrays.
	FormatJSON Format = iota
	// FormatMsgpack is msgpack compressed with zstd.
	FormatMsgpack
)

func (f Format) String() string {
	return util.Select(f == FormatMsgpack, "msgpack", "json")
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "msgpack":
		return FormatMsgpack, nil
	default:
		return FormatJSON, fmt.Errorf("%q: unknown cache format", s)
	}
}

// DefaultDir returns the directory used for the boundary cache when none
// is specified.
func DefaultDir() (string, error) {
	cd, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cd, "sectorkit"), nil
}

// Disk stores one file per key in Dir.
type Disk struct {
	Dir    string
	Format Format
}

func NewDisk(dir string, format Format) *Disk {
	return &Disk{Dir: dir, Format: format}
}

// Path returns the file that holds the entry for key.
func (d *Disk) Path(key string) string {
	if d.Format == FormatMsgpack {
		key = strings.TrimSuffix(key, ".json") + ".msgpack.zst"
	}
	return filepath.Join(d.Dir, key)
}

func (d *Disk) Get(key string) (sct.CachedBoundaries, bool, error) {
	f, err := os.Open(d.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return sct.CachedBoundaries{}, false, nil
	} else if err != nil {
		return sct.CachedBoundaries{}, false, err
	}
	defer f.Close()

	var cb sct.CachedBoundaries
	if d.Format == FormatMsgpack {
		cb, err = decodeMsgpack(f)
	} else {
		cb, err = decodeJSON(f)
	}
	if err != nil {
		return sct.CachedBoundaries{}, false, fmt.Errorf("%s: %w", d.Path(key), err)
	}
	return cb, true, nil
}

// Put writes the entry to a temporary file and renames it into place so
// that readers never see a partial entry.
func (d *Disk) Put(key string, cb sct.CachedBoundaries) error {
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return err
	}

	f, err := os.CreateTemp(d.Dir, ".tmp-"+key)
	if err != nil {
		return err
	}
	defer os.Remove(f.Name()) // no-op after a successful rename

	if d.Format == FormatMsgpack {
		err = encodeMsgpack(f, cb)
	} else {
		err = encodeJSON(f, cb)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	return os.Rename(f.Name(), d.Path(key))
}

///////////////////////////////////////////////////////////////////////////
// msgpack + zstd

func encodeMsgpack(w io.Writer, cb sct.CachedBoundaries) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if err := msgpack.NewEncoder(zw).Encode(cb); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}
	return nil
}

func decodeMsgpack(r io.Reader) (sct.CachedBoundaries, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return sct.CachedBoundaries{}, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	var cb sct.CachedBoundaries
	if err := msgpack.NewDecoder(zr).Decode(&cb); err != nil {
		return sct.CachedBoundaries{}, err
	}
	return cb, nil
}

///////////////////////////////////////////////////////////////////////////
// JSON

type jsonSegment struct {
	Start [2]float64 `json:"start"` // latitude, longitude
	End   [2]float64 `json:"end"`
}

type jsonBoundary struct {
	Name     string        `json:"name"`
	Segments []jsonSegment `json:"segments"`
}

type jsonDocument struct {
	High         []jsonBoundary `json:"ARTCC_HIGH"`
	Low          []jsonBoundary `json:"ARTCC_LOW"`
	SourceFile   string         `json:"source_file"`
	Timestamp    string         `json:"timestamp"`
	CacheVersion string         `json:"cache_version"`
}

// Timestamps written without a zone offset are taken as local time.
var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05"}

func toJSON(b []sct.Boundary) []jsonBoundary {
	jb := util.MapSlice(b, func(bd sct.Boundary) jsonBoundary {
		return jsonBoundary{
			Name: bd.Name,
			Segments: util.MapSlice(bd.Segments, func(s sct.Segment) jsonSegment {
				return jsonSegment{
					Start: [2]float64{s.Start.Latitude(), s.Start.Longitude()},
					End:   [2]float64{s.End.Latitude(), s.End.Longitude()},
				}
			}),
		}
	})
	if jb == nil {
		jb = []jsonBoundary{}
	}
	return jb
}

func fromJSON(jb []jsonBoundary) []sct.Boundary {
	return util.MapSlice(jb, func(b jsonBoundary) sct.Boundary {
		return sct.Boundary{
			Name: b.Name,
			Segments: util.MapSlice(b.Segments, func(s jsonSegment) sct.Segment {
				return sct.Segment{
					Start: math.NewPoint2LL(s.Start[0], s.Start[1]),
					End:   math.NewPoint2LL(s.End[0], s.End[1]),
				}
			}),
		}
	})
}

func encodeJSON(w io.Writer, cb sct.CachedBoundaries) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonDocument{
		High:         toJSON(cb.High),
		Low:          toJSON(cb.Low),
		SourceFile:   cb.SourceFile,
		Timestamp:    cb.Timestamp.Format(time.RFC3339Nano),
		CacheVersion: cb.Version,
	})
}

func decodeJSON(r io.Reader) (sct.CachedBoundaries, error) {
	var doc jsonDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return sct.CachedBoundaries{}, err
	}

	cb := sct.CachedBoundaries{
		High:       fromJSON(doc.High),
		Low:        fromJSON(doc.Low),
		SourceFile: doc.SourceFile,
		Version:    doc.CacheVersion,
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, doc.Timestamp, time.Local); err == nil {
			cb.Timestamp = t
			return cb, nil
		}
	}
	return sct.CachedBoundaries{}, fmt.Errorf("%q: invalid timestamp", doc.Timestamp)
}
