// cache/memory.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package cache

import (
	"time"

	"github.com/brunoga/deep"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sectorkit/sectorkit/sct"
)

const (
	DefaultMemorySize = 16
	DefaultMemoryTTL  = time.Hour
)

// Memory is an in-process boundary cache with a bounded number of entries
// that expire after a fixed time. If Next is non-nil, misses are passed
// through to it and hits there are kept; Put writes through to it.
//
// Callers get their own copy of the boundaries, so modifying a returned
// entry doesn't affect what's cached.
type Memory struct {
	lru  *expirable.LRU[string, sct.CachedBoundaries]
	Next sct.BoundaryCache
}

func NewMemory(size int, ttl time.Duration, next sct.BoundaryCache) *Memory {
	if size <= 0 {
		size = DefaultMemorySize
	}
	return &Memory{
		lru:  expirable.NewLRU[string, sct.CachedBoundaries](size, nil, ttl),
		Next: next,
	}
}

func (m *Memory) Len() int {
	return m.lru.Len()
}

func (m *Memory) Get(key string) (sct.CachedBoundaries, bool, error) {
	if cb, ok := m.lru.Get(key); ok {
		return copyBoundaries(cb), true, nil
	}
	if m.Next == nil {
		return sct.CachedBoundaries{}, false, nil
	}

	cb, ok, err := m.Next.Get(key)
	if err != nil || !ok {
		return cb, ok, err
	}
	m.lru.Add(key, copyBoundaries(cb))
	return cb, true, nil
}

func (m *Memory) Put(key string, cb sct.CachedBoundaries) error {
	m.lru.Add(key, copyBoundaries(cb))
	if m.Next != nil {
		return m.Next.Put(key, cb)
	}
	return nil
}

func copyBoundaries(cb sct.CachedBoundaries) sct.CachedBoundaries {
	cb.High = deep.MustCopy(cb.High)
	cb.Low = deep.MustCopy(cb.Low)
	return cb
}
