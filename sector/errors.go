// sector/errors.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sector

import (
	"errors"
	"fmt"

	"github.com/sectorkit/sectorkit/util"
)

var (
	ErrOutOfRange = errors.New("coordinate out of range")
	ErrUnresolved = errors.New("unable to resolve latitude and longitude")
)

// IOError is returned when a sector file can't be read at all. It is the
// only error that aborts a parse.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// CoordinateDecodeError reports a token that didn't match any of the
// recognized coordinate encodings. Callers skip the token or record.
type CoordinateDecodeError struct {
	Text string
	Err  error // optional underlying cause, e.g. ErrOutOfRange
}

func (e *CoordinateDecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%q: invalid coordinate: %v", e.Text, e.Err)
	}
	return fmt.Sprintf("%q: invalid coordinate", e.Text)
}

func (e *CoordinateDecodeError) Unwrap() error {
	return e.Err
}

// MalformedRecordError reports a line that didn't have the fields its
// record requires or had a field that failed to parse.
type MalformedRecordError struct {
	Section string
	Line    int
	Text    string
	Reason  string
	Err     error
}

// Malformed returns a MalformedRecordError for the given line of section.
func Malformed(section string, l Line, reason string, err error) *MalformedRecordError {
	return &MalformedRecordError{
		Section: section,
		Line:    l.Lineno,
		Text:    l.Text,
		Reason:  reason,
		Err:     err,
	}
}

func (e *MalformedRecordError) Error() string {
	s := fmt.Sprintf("[%s]:%d: %s", e.Section, e.Line, e.Reason)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s + fmt.Sprintf(" (%q)", e.Text)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// Warning is an advisory message returned by the models' Validate
// methods. It is never returned as an error.
type Warning struct {
	Message string
}

func (w Warning) String() string {
	return w.Message
}

// ReadFile reads the file at path, decoding it as Latin-1 if it isn't
// valid UTF-8. Failures are returned as *IOError.
func ReadFile(path string) (string, error) {
	s, err := util.ReadTextFile(path)
	if err != nil {
		return "", &IOError{Path: path, Err: err}
	}
	return s, nil
}
