// aviation/load.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/sectorkit/sectorkit/ese"
	"github.com/sectorkit/sectorkit/log"
	"github.com/sectorkit/sectorkit/rwy"
	"github.com/sectorkit/sectorkit/sct"

	"golang.org/x/sync/errgroup"
)

// LoadOptions specifies the files that make up a sector. Any of the paths
// may be empty.
type LoadOptions struct {
	SCTPath string
	ESEPath string
	RWYPath string

	Logger *log.Logger
	Cache  sct.BoundaryCache
	// CacheName is used for the boundary cache key; if empty, the base
	// name of ESEPath is used.
	CacheName string
}

// Sector holds the parsed models of a sector's files; models for files
// that weren't given are nil.
type Sector struct {
	SCT *sct.Model
	ESE *ese.Model
	RWY *rwy.Model
}

// LoadSector parses the given files concurrently. The parses are
// independent; if any file can't be read, the first such error is
// returned and parses that haven't started yet are skipped.
func LoadSector(ctx context.Context, opts LoadOptions) (*Sector, error) {
	start := time.Now()
	cacheName := opts.CacheName
	if cacheName == "" && opts.ESEPath != "" {
		cacheName = strings.TrimSuffix(filepath.Base(opts.ESEPath), filepath.Ext(opts.ESEPath))
	}

	var s Sector
	eg, ctx := errgroup.WithContext(ctx)
	if opts.SCTPath != "" {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var err error
			s.SCT, err = sct.ParseFile(opts.SCTPath, sct.Options{
				Logger:    opts.Logger,
				Cache:     opts.Cache,
				CacheName: cacheName,
			})
			return err
		})
	}
	if opts.ESEPath != "" {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var err error
			s.ESE, err = ese.ParseFile(opts.ESEPath, ese.Options{Logger: opts.Logger})
			return err
		})
	}
	if opts.RWYPath != "" {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var err error
			s.RWY, err = rwy.ParseFile(opts.RWYPath, rwy.Options{Logger: opts.Logger})
			return err
		})
	}

	if err := eg.Wait(); err != nil {
		opts.Logger.Errorf("%v", err)
		return nil, err
	}

	opts.Logger.Info("loaded sector", "sct", opts.SCTPath, "ese", opts.ESEPath, "rwy", opts.RWYPath,
		"elapsed", time.Since(start))
	return &s, nil
}

// ILS returns the ILS positions for the given runway. An ILS record from
// the .rwy file is preferred; otherwise the positions are derived from
// the .sct runway's coordinates.
func (s *Sector) ILS(runway string) (ILS, bool) {
	var sctRunway *sct.Runway
	if s.SCT != nil {
		if r, ok := s.SCT.Runway(runway); ok {
			sctRunway = &r
		}
	}

	if s.RWY != nil {
		if rec, ok := s.RWY.ILSForRunway(runway); ok {
			ils := ILS{Localizer: rec.Localizer, Glideslope: rec.Glideslope}
			if sctRunway != nil {
				ils.Frequency = sctRunway.ILS
			}
			return ils, true
		}
	}

	if sctRunway != nil {
		return ILSOffsets(*sctRunway, nil)
	}
	return ILS{}, false
}
