// log/log_test.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, tc := range []struct {
		s    string
		lvl  slog.Level
		fail bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	} {
		lvl, err := ParseLevel(tc.s)
		if (err != nil) != tc.fail {
			t.Errorf("%q: got error %v, expected failure %v", tc.s, err, tc.fail)
		}
		if lvl != tc.lvl {
			t.Errorf("%q: got level %v, expected %v", tc.s, lvl, tc.lvl)
		}
	}
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	// None of these should panic.
	l.Debug("debug")
	l.Debugf("debug %d", 1)
	l.Info("info")
	l.Infof("info %d", 1)
	if l.With("a", 1) != nil {
		t.Errorf("With on nil logger should return nil")
	}
}

func TestWriterLoggerIncludesCallstack(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, slog.LevelDebug)
	l.Debug("skipped record", slog.String("section", "VOR"))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("%s: unable to decode log record: %v", buf.String(), err)
	}
	if rec["msg"] != "skipped record" {
		t.Errorf("got message %v, expected \"skipped record\"", rec["msg"])
	}
	if rec["section"] != "VOR" {
		t.Errorf("got section %v, expected VOR", rec["section"])
	}
	if _, ok := rec["callstack"]; !ok {
		t.Errorf("callstack attribute missing from %s", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, slog.LevelWarn)
	l.Info("quiet")
	l.Warnf("loud %d", 2)

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, "loud 2") {
		t.Errorf("warn record missing: %s", out)
	}
}

func TestCallstackStartsAtCaller(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, slog.LevelDebug)
	l.Infof("parsed %d records", 3)

	var rec struct {
		Callstack []StackFrame `json:"callstack"`
	}
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("%s: unable to decode log record: %v", buf.String(), err)
	}
	if len(rec.Callstack) == 0 {
		t.Fatalf("empty callstack in %s", buf.String())
	}
	if fn := rec.Callstack[0].Function; fn != "log.TestCallstackStartsAtCaller" {
		t.Errorf("got first frame %q, expected \"log.TestCallstackStartsAtCaller\"", fn)
	}
	for _, f := range rec.Callstack {
		if loggerFrame(f.Function) || strings.HasPrefix(f.Function, "runtime.") {
			t.Errorf("unexpected frame %s", f)
		}
	}
}
