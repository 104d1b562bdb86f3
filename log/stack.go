// log/stack.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package log

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

const modulePrefix = "github.com/sectorkit/sectorkit/"

// maxFrames bounds the number of frames recorded with each log record.
const maxFrames = 12

type StackFrame struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function"`
}

// loggerFrame reports whether fn (with the module prefix removed) is one
// of the Logger's own methods or Callstack itself.
func loggerFrame(fn string) bool {
	return strings.HasPrefix(fn, "log.(*Logger).") || fn == "log.Callstack"
}

// Callstack returns the frames of the goroutine calling into the logger,
// starting at the function that called the Logger method. Function names
// are relative to the module; the walk stops at main.main or at the test
// runner. fr's storage is reused.
func Callstack(fr []StackFrame) []StackFrame {
	var callers [maxFrames + 8]uintptr
	n := runtime.Callers(1, callers[:])
	frames := runtime.CallersFrames(callers[:n])

	fr = fr[:0]
	for len(fr) < maxFrames {
		frame, more := frames.Next()
		fn := strings.TrimPrefix(frame.Function, modulePrefix)

		if !loggerFrame(fn) {
			fr = append(fr, StackFrame{
				File:     filepath.Base(frame.File),
				Line:     frame.Line,
				Function: fn,
			})
		}

		if !more || frame.Function == "main.main" || frame.Function == "testing.tRunner" {
			break
		}
	}
	return fr
}

func (f StackFrame) String() string {
	return f.File + ":" + strconv.Itoa(f.Line) + ":" + f.Function
}
