// cmd/sectorinfo/commands.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/goforj/godump"
	"github.com/sectorkit/sectorkit/aviation"
	"github.com/sectorkit/sectorkit/ese"
	"github.com/sectorkit/sectorkit/sector"
	"github.com/spf13/cobra"
)

var (
	radiusNM     float64
	dumpSections bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary files...",
	Short: "Print counts, validation warnings and diagnostics",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSummary,
}

var dumpCmd = &cobra.Command{
	Use:   "dump files...",
	Short: "Dump the parsed models",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDump,
}

var centerlinesCmd = &cobra.Command{
	Use:   "centerlines files...",
	Short: "Print extended centerlines and ILS positions for each runway",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCenterlines,
}

var entryFixesCmd = &cobra.Command{
	Use:   "entryfixes ICAO file.sct",
	Short: "Print candidate entry fixes and their distance from an airport",
	Args:  cobra.ExactArgs(2),
	RunE:  runEntryFixes,
}

var nearestCmd = &cobra.Command{
	Use:   "nearest LAT LON file.sct",
	Short: "Print the fixes and navaids closest to a location",
	Long: `Print the fixes, VORs and NDBs closest to the given location. The
location may be given in any of the coordinate notations found in sector
files, e.g. "N051.28.39.000 W000.27.41.000" or "51.4775 -0.4614".`,
	Args: cobra.ExactArgs(3),
	RunE: runNearest,
}

var errNoSCT = errors.New("a .sct file is required")

func printDiagnostics(w io.Writer, what string, diags []error) {
	if len(diags) == 0 {
		return
	}
	fmt.Fprintf(w, "%s: %d records skipped\n", what, len(diags))
	for _, err := range diags {
		fmt.Fprintf(w, "  %v\n", err)
	}
}

func runSummary(cmd *cobra.Command, args []string) error {
	s, err := loadSector(args)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if m := s.SCT; m != nil {
		fmt.Fprintln(w, m.Summary())
		for _, warn := range m.Validate() {
			fmt.Fprintf(w, "warning: %s\n", warn)
		}
		printDiagnostics(w, m.Path, m.Diagnostics())
	}
	if m := s.ESE; m != nil {
		fmt.Fprintf(w, "%s: %d positions, %d procedures, %d freetext lines\n", m.Path,
			len(m.Positions), len(m.Procedures), len(m.Freetext))
		var airports []string
		for _, p := range m.Procedures {
			if !slices.Contains(airports, p.Airport) {
				airports = append(airports, p.Airport)
			}
		}
		for _, ap := range airports {
			fmt.Fprintf(w, "  %s: SIDs %v, STARs %v\n", ap, procedureNames(m, ap, ese.SID), procedureNames(m, ap, ese.STAR))
		}
		for _, p := range m.Positions {
			if !p.Type.Known() {
				fmt.Fprintf(w, "warning: %s: unknown position type %q\n", p.Callsign, p.Type)
			}
		}
		printDiagnostics(w, m.Path, m.Diagnostics())
	}
	if m := s.RWY; m != nil {
		fmt.Fprintf(w, "%s: %d runways (%d extended), %d ILS, %d centerlines\n", m.Path,
			len(m.Runways), len(m.ExtendedRunways()), len(m.ILS), len(m.Centerlines))
		printDiagnostics(w, m.Path, m.Diagnostics())
	}
	return nil
}

func runDump(cmd *cobra.Command, args []string) error {
	s, err := loadSector(args)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if s.SCT != nil {
		m := *s.SCT
		if !dumpSections {
			m.Sections = nil
		}
		godump.Fdump(w, m)
	}
	if s.ESE != nil {
		m := *s.ESE
		if !dumpSections {
			m.Sections = nil
		}
		godump.Fdump(w, m)
	}
	if s.RWY != nil {
		godump.Fdump(w, *s.RWY)
	}
	return nil
}

func runCenterlines(cmd *cobra.Command, args []string) error {
	s, err := loadSector(args)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	report := func(number string, r aviation.RunwayGeometry) {
		cl := aviation.ExtendedCenterline(r, extensionNM)
		if cl == nil {
			fmt.Fprintf(w, "%-4s: insufficient coordinates\n", number)
			return
		}
		fmt.Fprintf(w, "%-4s: centerline %s -> %s\n", number, sector.FormatDMS(cl[0]), sector.FormatDMS(cl[len(cl)-1]))

		if ils, ok := s.ILS(number); ok {
			fmt.Fprintf(w, "      localizer  %s\n", sector.FormatDMS(ils.Localizer))
			fmt.Fprintf(w, "      glideslope %s\n", sector.FormatDMS(ils.Glideslope))
			if ils.Frequency != nil {
				fmt.Fprintf(w, "      frequency  %.3f\n", *ils.Frequency)
			}
		}
	}

	if s.SCT != nil {
		for _, r := range s.SCT.Runways {
			report(r.Number, r)
		}
	}
	if s.RWY != nil {
		for _, r := range s.RWY.Runways {
			if s.SCT != nil {
				if _, ok := s.SCT.Runway(r.Number); ok {
					continue
				}
			}
			report(r.Number, r)
		}
	}
	return nil
}

func runEntryFixes(cmd *cobra.Command, args []string) error {
	icao, fn := args[0], args[1]
	s, err := loadSector([]string{fn})
	if err != nil {
		return err
	} else if s.SCT == nil {
		return errNoSCT
	}
	w := cmd.OutOrStdout()

	if _, ok := s.SCT.Airport(icao); !ok {
		fmt.Fprintf(w, "%s: airport not found; using %.0f nm for all fixes\n", icao, aviation.UnknownAirportDistanceNM)
	}
	for _, ef := range aviation.EntryFixes(s.SCT, icao, fixLimit) {
		fmt.Fprintf(w, "%-8s %s %6.1f nm\n", ef.Name, sector.FormatDMS(ef.Location), ef.DistanceNM)
	}
	return nil
}

func runNearest(cmd *cobra.Command, args []string) error {
	p, err := sector.DecodePair(args[0], args[1])
	if err != nil {
		return err
	}
	s, err := loadSector(args[2:])
	if err != nil {
		return err
	} else if s.SCT == nil {
		return errNoSCT
	}

	idx := aviation.NewFixIndex(s.SCT)
	lg.Debug("built fix index", "waypoints", idx.Len())

	var wd []aviation.WaypointDistance
	if radiusNM > 0 {
		wd = idx.WithinNM(p, radiusNM)
		wd = wd[:min(len(wd), max(nearLimit, 0))]
	} else {
		wd = idx.Nearest(p, nearLimit)
	}

	w := cmd.OutOrStdout()
	for _, d := range wd {
		fmt.Fprintf(w, "%-8s %-3s %s %6.1f nm\n", d.Name, d.Kind, sector.FormatDMS(d.Location), d.DistanceNM)
	}
	return nil
}

// procedureNames returns the distinct names of the airport's procedures
// of the given kind.
func procedureNames(m *ese.Model, airport string, kind ese.ProcedureKind) []string {
	var names []string
	for _, p := range m.ProceduresFor(airport, kind) {
		if !slices.Contains(names, p.Name) {
			names = append(names, p.Name)
		}
	}
	return names
}
