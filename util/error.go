// util/error.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"fmt"
	"strings"

	"github.com/sectorkit/sectorkit/log"
)

// ErrorLogger is a small utility class used to accumulate the records that
// were skipped while parsing a file. It tracks context about what is
// currently being parsed (e.g. the section name) and accumulates multiple
// errors, making it possible to log errors while still continuing to
// parse.
type ErrorLogger struct {
	// Tracked via Push()/Pop() calls to remember what we're looking at if
	// an error is found.
	hierarchy []string
	errors    []error
}

func (e *ErrorLogger) Push(s string) {
	e.hierarchy = append(e.hierarchy, s)
}

func (e *ErrorLogger) Pop() {
	e.hierarchy = e.hierarchy[:len(e.hierarchy)-1]
}

// Error records err. The current hierarchy is prepended to its message,
// but the original error remains available to errors.Is and errors.As.
func (e *ErrorLogger) Error(err error) {
	if len(e.hierarchy) > 0 {
		err = fmt.Errorf("%s: %w", strings.Join(e.hierarchy, " / "), err)
	}
	e.errors = append(e.errors, err)
}

func (e *ErrorLogger) HaveErrors() bool {
	return e != nil && len(e.errors) > 0
}

// Errors returns the accumulated errors in the order they were reported.
func (e *ErrorLogger) Errors() []error {
	if e == nil {
		return nil
	}
	return e.errors
}

// PrintErrors sends all of the accumulated errors to the logger at debug
// level, since they are expected in real-world files. Nothing is logged
// if there are no errors.
func (e *ErrorLogger) PrintErrors(lg *log.Logger) {
	if !e.HaveErrors() {
		return
	}
	lg.Debug("skipped records", "count", len(e.errors))
	for _, err := range e.errors {
		lg.Debugf("%+v", err)
	}
}

func (e *ErrorLogger) String() string {
	var s []string
	for _, err := range e.Errors() {
		s = append(s, err.Error())
	}
	return strings.Join(s, "\n")
}
