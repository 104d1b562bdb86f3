// sector/sections.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sector

import (
	"iter"
	"strings"

	"github.com/iancoleman/orderedmap"
)

// Line is a single retained line of a section. Text has surrounding
// whitespace removed but internal spacing preserved.
type Line struct {
	Text   string
	Lineno int
	// AfterComment is set when one or more comment lines were dropped
	// immediately before this one in the same section.
	AfterComment bool
}

// Sections holds the raw lines of a bracket-sectioned file, keyed by
// section name. It is built once by Split and is read-only afterward.
type Sections struct {
	m *orderedmap.OrderedMap // name -> []Line
}

func isComment(s string) bool {
	return strings.HasPrefix(s, ";")
}

// sectionHeader returns NAME if s is exactly "[NAME]".
func sectionHeader(s string) (string, bool) {
	if len(s) < 3 || s[0] != '[' || s[len(s)-1] != ']' {
		return "", false
	}
	name := s[1 : len(s)-1]
	if strings.ContainsAny(name, "[]") {
		return "", false
	}
	return name, true
}

// Split breaks text into named sections. Lines before the first section
// header, blank lines and comment lines (starting with ';') are dropped.
// A repeated header starts the section over with an empty buffer.
func Split(text string) *Sections {
	s := &Sections{m: orderedmap.New()}

	var name string
	var lines []Line
	open, afterComment := false, false

	flush := func() {
		if open {
			s.m.Set(name, lines)
		}
	}

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if isComment(line) {
			afterComment = open
			continue
		}
		if hdr, ok := sectionHeader(line); ok {
			flush()
			name, lines, open, afterComment = hdr, []Line{}, true, false
			s.m.Set(name, lines)
			continue
		}
		if !open {
			continue
		}
		lines = append(lines, Line{Text: line, Lineno: i + 1, AfterComment: afterComment})
		afterComment = false
	}
	flush()

	return s
}

// Names returns the section names in the order they first appeared.
func (s *Sections) Names() []string {
	if s == nil {
		return nil
	}
	return s.m.Keys()
}

// Len returns the number of sections.
func (s *Sections) Len() int {
	return len(s.Names())
}

// Lines returns the lines of the section with exactly the given name.
func (s *Sections) Lines(name string) []Line {
	if s == nil {
		return nil
	}
	if v, ok := s.m.Get(name); ok {
		return v.([]Line)
	}
	return nil
}

// Has reports whether a section with exactly the given name exists.
func (s *Sections) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.m.Get(name)
	return ok
}

// Lookup returns the first of the given section names that is present.
// An exact match is tried for each name first; then the names are tried
// again ignoring case.
func (s *Sections) Lookup(names ...string) (string, []Line, bool) {
	for _, n := range names {
		if s.Has(n) {
			return n, s.Lines(n), true
		}
	}
	for _, n := range names {
		for _, sn := range s.Names() {
			if strings.EqualFold(n, sn) {
				return sn, s.Lines(sn), true
			}
		}
	}
	return "", nil, false
}

// Texts returns just the text of each line of the named section.
func (s *Sections) Texts(name string) []string {
	lines := s.Lines(name)
	t := make([]string, len(lines))
	for i, l := range lines {
		t[i] = l.Text
	}
	return t
}

// All iterates over the sections in file order.
func (s *Sections) All() iter.Seq2[string, []Line] {
	return func(yield func(string, []Line) bool) {
		for _, name := range s.Names() {
			if !yield(name, s.Lines(name)) {
				return
			}
		}
	}
}
