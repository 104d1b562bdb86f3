// cmd/sectorinfo/main.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

/*
sectorinfo loads EuroScope-style sector files and reports on their contents.

Usage:

	sectorinfo [flags] command files...

The files may be any combination of one .sct, one .ese and one .rwy file;
the type of each is taken from its extension.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/sectorkit/sectorkit/aviation"
	"github.com/sectorkit/sectorkit/cache"
	"github.com/sectorkit/sectorkit/log"
	"github.com/sectorkit/sectorkit/sct"
	"github.com/spf13/cobra"
)

var (
	logLevel    string
	logDir      string
	cacheDir    string
	cacheFormat string
	noCache     bool
	cacheName   string
	extensionNM float64
	fixLimit    int
	nearLimit   int

	lg *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sectorinfo",
	Short: "Inspect EuroScope sector files",
	Long:  `Parse .sct, .ese and .rwy sector files and report on airports, runways, boundaries, fixes and procedures.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := log.ParseLevel(logLevel); err != nil {
			return err
		}
		lg = log.New(logLevel, logDir)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logLevel, "log-level", "info", "Logging level: debug, info, warn, error")
	pf.StringVar(&logDir, "log-dir", "", "Log file directory")
	pf.StringVar(&cacheDir, "cache-dir", "", "Boundary cache directory (default: user cache directory)")
	pf.StringVar(&cacheFormat, "cache-format", "json", "Boundary cache format: json or msgpack")
	pf.BoolVar(&noCache, "no-cache", false, "Don't read or write the boundary cache")
	pf.StringVar(&cacheName, "name", "", "Logical sector name used for the cache key (default: .ese base name)")

	centerlinesCmd.Flags().Float64VarP(&extensionNM, "extension-nm", "e", 10, "Extended centerline length in nautical miles")
	entryFixesCmd.Flags().IntVarP(&fixLimit, "limit", "l", aviation.DefaultEntryFixLimit, "Maximum number of entry fixes")
	nearestCmd.Flags().IntVarP(&nearLimit, "limit", "l", 10, "Maximum number of waypoints")
	nearestCmd.Flags().Float64VarP(&radiusNM, "radius", "r", 0, "Return all waypoints within this many nautical miles instead")
	dumpCmd.Flags().BoolVar(&dumpSections, "sections", false, "Include the raw section lines")

	rootCmd.AddCommand(summaryCmd, dumpCmd, centerlinesCmd, entryFixesCmd, nearestCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func boundaryCache() (sct.BoundaryCache, error) {
	if noCache {
		return nil, nil
	}

	format, err := cache.ParseFormat(cacheFormat)
	if err != nil {
		return nil, err
	}
	dir := cacheDir
	if dir == "" {
		if dir, err = cache.DefaultDir(); err != nil {
			return nil, err
		}
	}
	lg.Debug("boundary cache", "dir", dir, "format", format)

	return cache.NewMemory(cache.DefaultMemorySize, cache.DefaultMemoryTTL, cache.NewDisk(dir, format)), nil
}

// loadSector parses the files named on the command line.
func loadSector(args []string) (*aviation.Sector, error) {
	bc, err := boundaryCache()
	if err != nil {
		return nil, err
	}
	opts := aviation.LoadOptions{
		Logger:    lg,
		Cache:     bc,
		CacheName: cacheName,
	}

	for _, fn := range args {
		var p *string
		switch strings.ToLower(filepath.Ext(fn)) {
		case ".sct":
			p = &opts.SCTPath
		case ".ese":
			p = &opts.ESEPath
		case ".rwy":
			p = &opts.RWYPath
		default:
			return nil, fmt.Errorf("%s: unknown sector file type", fn)
		}
		if *p != "" {
			return nil, fmt.Errorf("%s: only one %s file may be given", fn, filepath.Ext(fn))
		}
		*p = fn
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	return aviation.LoadSector(ctx, opts)
}
