// Copyright (C) 2026  windward authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package log

import (
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestCliFormatter(t *testing.T) {
	f := &CliFormatter{}
	entry := &logrus.Entry{
		Message: "hello windward",
		Level:   logrus.InfoLevel,
		Time:    time.Now(),
	}
	b, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format() failed: %v", err)
	}
	if string(b) != "hello windward\n" {
		t.Errorf("Format() = %q, want %q", string(b), "hello windward\n")
	}
}

func TestDaemonFormatter(t *testing.T) {
	f := &DaemonFormatter{}
	entry := &logrus.Entry{
		Message: "window updated",
		Level:   logrus.DebugLevel,
		Time:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Data:    logrus.Fields{"cwnd": 14600, "algorithm": "reno"},
	}
	b, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format() failed: %v", err)
	}
	line := string(b)
	if !strings.HasPrefix(line, "2026-01-02T03:04:05Z DEBUG window updated") {
		t.Errorf("Format() = %q, missing time, level or message", line)
	}
	// Fields are sorted by name.
	if !strings.HasSuffix(line, "algorithm=reno cwnd=14600\n") {
		t.Errorf("Format() = %q, fields are not sorted", line)
	}
}

func TestNilFormatter(t *testing.T) {
	f := &NilFormatter{}
	entry := &logrus.Entry{
		Message: "discarded",
		Level:   logrus.ErrorLevel,
		Time:    time.Now(),
	}
	b, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format() failed: %v", err)
	}
	if len(b) != 0 {
		t.Errorf("Format() = %q, want empty output", string(b))
	}
}

func TestSetLevel(t *testing.T) {
	defer SetLevel("INFO")
	if ok := SetLevel("TRACE"); !ok {
		t.Fatalf("SetLevel(%q) = %v, want %v", "TRACE", ok, true)
	}
	if !IsLevelEnabled(TraceLevel) {
		t.Errorf("IsLevelEnabled(TraceLevel) = %v, want %v", false, true)
	}
	if ok := SetLevel("NOISE"); ok {
		t.Errorf("SetLevel(%q) = %v, want %v", "NOISE", ok, false)
	}
}
