// sct/boundary.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sct

import (
	"fmt"
	"strings"

	"github.com/sectorkit/sectorkit/math"
	"github.com/sectorkit/sectorkit/sector"
)

// ChainTolerance is the per-axis distance in degrees under which the end
// of one segment and the start of the next are considered the same point.
const ChainTolerance = 1e-6

// parseARTCC returns the high and low boundaries. An unqualified [ARTCC]
// section is used for the low boundaries only when there's no explicit
// low section.
func (p *parser) parseARTCC(s *sector.Sections) (high, low []Boundary) {
	if section, lines, ok := s.Lookup("ARTCC HIGH", "ARTCC_HIGH"); ok {
		high = p.parseBoundaries(section, lines)
	}
	if section, lines, ok := s.Lookup("ARTCC LOW", "ARTCC_LOW"); ok {
		low = p.parseBoundaries(section, lines)
	} else if section, lines, ok := s.Lookup("ARTCC"); ok {
		low = p.parseBoundaries(section, lines)
	}
	return
}

// isCoordinateLine reports whether a boundary line starts with a
// coordinate rather than a boundary name.
func isCoordinateLine(text string) bool {
	if text == "" {
		return false
	}
	isDigit := func(c byte) bool { return c >= '0' && c <= '9' }

	switch c := text[0]; {
	case isDigit(c), c == '-', c == '+', c == '.':
		return true
	case strings.IndexByte("NSEWnsew", c) != -1:
		return len(text) > 1 && isDigit(text[1])
	}
	return false
}

// boundaryBuilder accumulates segments into boundaries, chaining
// consecutive segments that share an endpoint into a single path.
type boundaryBuilder struct {
	boundaries []Boundary
	open       bool
	path       []math.Point2LL
}

// flushPath converts the current path into segments of the open boundary.
// A path with fewer than two points contributes nothing.
func (b *boundaryBuilder) flushPath() {
	if b.open {
		bd := &b.boundaries[len(b.boundaries)-1]
		for i := 0; i+1 < len(b.path); i++ {
			bd.Segments = append(bd.Segments, Segment{Start: b.path[i], End: b.path[i+1]})
		}
	}
	b.path = nil
}

func (b *boundaryBuilder) begin(name string) {
	b.flushPath()
	b.boundaries = append(b.boundaries, Boundary{Name: name})
	b.open = true
}

func (b *boundaryBuilder) add(seg Segment) {
	if n := len(b.path); n > 0 && b.path[n-1].ApproxEqual(seg.Start, ChainTolerance) {
		b.path = append(b.path, seg.End)
	} else {
		b.flushPath()
		b.path = []math.Point2LL{seg.Start, seg.End}
	}
}

func (b *boundaryBuilder) finish() []Boundary {
	b.flushPath()
	return b.boundaries
}

// parseBoundaries reconstructs the named boundaries of one ARTCC section.
// A name line starts a new boundary; each following coordinate line holds
// one or more groups of four tokens, each group a start and end position.
func (p *parser) parseBoundaries(section string, lines []sector.Line) []Boundary {
	var b boundaryBuilder

	for _, l := range lines {
		f := strings.Fields(l.Text)

		if !isCoordinateLine(l.Text) {
			// Name lines may carry a segment of their own, e.g.
			// "EGNS Isle of Man CTA N053.58.00.066 W004.18.42.359 N053.58.04.867 W004.18.20.829".
			if n := len(f); n >= 5 {
				if seg, err := p.segment(f[n-4:]); err == nil {
					b.begin(strings.Join(f[:n-4], " "))
					b.add(seg)
					continue
				}
			}
			b.begin(l.Text)
			continue
		}

		if !b.open {
			p.skip(section, l, "invalid boundary", errNoBoundary)
			continue
		}

		for i := 0; i+4 <= len(f); i += 4 {
			if seg, err := p.segment(f[i : i+4]); err != nil {
				p.skip(section, l, "invalid segment", err)
			} else {
				b.add(seg)
			}
		}
		if r := len(f) % 4; r != 0 {
			p.skip(section, l, fmt.Sprintf("ignored %d trailing tokens", r), nil)
		}
	}

	return b.finish()
}
