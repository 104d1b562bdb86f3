// sct/cache.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sct

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"strings"
	"time"

	"github.com/sectorkit/sectorkit/sector"
)

// CacheVersion is stored with each cached entry.
const CacheVersion = "1.0"

// CachedBoundaries is what's stored in a BoundaryCache: the reconstructed
// boundaries of one sector file and where and when they came from.
type CachedBoundaries struct {
	High       []Boundary
	Low        []Boundary
	SourceFile string
	Timestamp  time.Time
	Version    string
}

// BoundaryCache stores reconstructed ARTCC boundaries between runs. Get
// returns ok=false with a nil error if there's no entry for key; an error
// means the entry exists but couldn't be read.
type BoundaryCache interface {
	Get(key string) (CachedBoundaries, bool, error)
	Put(key string, cb CachedBoundaries) error
}

// CacheKey returns the cache key for the sector file at path: the first
// four characters of name (or "SECT"), upper-cased, followed by the first
// eight hex digits of the MD5 hash of path, e.g. "EGTT-1a2b3c4d-cache.json".
func CacheKey(name, path string) string {
	prefix := "SECT"
	if name != "" {
		r := []rune(name)
		prefix = strings.ToUpper(string(r[:min(4, len(r))]))
	}
	sum := md5.Sum([]byte(path))
	return prefix + "-" + hex.EncodeToString(sum[:])[:8] + "-cache.json"
}

// ParseFile reads and parses the .sct file at path. The only error it
// returns is a *sector.IOError if the file can't be read; problems with
// the boundary cache are logged and the boundaries are recomputed.
func ParseFile(path string, opts Options) (*Model, error) {
	text, err := sector.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := sector.Split(text)

	if opts.Cache == nil {
		return parse(s, path, opts, nil), nil
	}

	key := CacheKey(opts.CacheName, path)
	if cb := lookupCache(path, key, opts); cb != nil {
		return parse(s, path, opts, cb), nil
	}

	m := parse(s, path, opts, nil)
	cb := CachedBoundaries{
		High:       m.High,
		Low:        m.Low,
		SourceFile: path,
		Timestamp:  time.Now(),
		Version:    CacheVersion,
	}
	if err := opts.Cache.Put(key, cb); err != nil {
		opts.Logger.Warn("unable to store boundaries", "key", key, "error", err)
	} else {
		opts.Logger.Debug("stored boundaries", "key", key)
	}
	return m, nil
}

// lookupCache returns the cached boundaries for path if present and
// current: the entry must name the same source file and be no older than
// the file itself.
func lookupCache(path, key string, opts Options) *CachedBoundaries {
	cb, ok, err := opts.Cache.Get(key)
	if err != nil {
		opts.Logger.Warn("unable to read cached boundaries", "key", key, "error", err)
		return nil
	} else if !ok {
		return nil
	}

	if cb.SourceFile != path {
		opts.Logger.Warn("cached boundaries are for another file", "key", key, "source", cb.SourceFile)
		return nil
	}
	if fi, err := os.Stat(path); err != nil || cb.Timestamp.Before(fi.ModTime()) {
		opts.Logger.Warn("cached boundaries are stale", "key", key)
		return nil
	}

	opts.Logger.Debug("using cached boundaries", "key", key)
	return &cb
}
