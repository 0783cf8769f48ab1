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

// Package log provides leveled logging for the windward project.
// It is a thin layer on top of logrus with formatters that fit
// command line tools and long running processes.
package log

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Level is the severity of a log message.
type Level = logrus.Level

// Log levels, from the most severe to the most verbose.
const (
	FatalLevel Level = logrus.FatalLevel
	ErrorLevel Level = logrus.ErrorLevel
	WarnLevel  Level = logrus.WarnLevel
	InfoLevel  Level = logrus.InfoLevel
	DebugLevel Level = logrus.DebugLevel
	TraceLevel Level = logrus.TraceLevel
)

// Fields carries structured data attached to a log message.
type Fields = logrus.Fields

// Entry is a log message with attached fields.
type Entry = logrus.Entry

var logger = logrus.New()

func init() {
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&CliFormatter{})
	logger.SetLevel(InfoLevel)
}

// SetOutput redirects all log messages to the given writer.
func SetOutput(out io.Writer) {
	logger.SetOutput(out)
}

// SetFormatter changes the format of log messages.
func SetFormatter(formatter logrus.Formatter) {
	logger.SetFormatter(formatter)
}

// SetLevel updates the log level from a string. It returns true if the
// string is a recognized level.
func SetLevel(level string) bool {
	l, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return false
	}
	logger.SetLevel(l)
	return true
}

// GetLevel returns the current log level.
func GetLevel() Level {
	return logger.GetLevel()
}

// IsLevelEnabled returns true if messages at the given level are printed.
func IsLevelEnabled(level Level) bool {
	return logger.IsLevelEnabled(level)
}

// WithFields attaches structured data to a log message.
func WithFields(fields Fields) *Entry {
	return logger.WithFields(fields)
}

func Tracef(format string, args ...any) {
	logger.Tracef(format, args...)
}

func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

func Infof(format string, args ...any) {
	logger.Infof(format, args...)
}

func Warnf(format string, args ...any) {
	logger.Warnf(format, args...)
}

func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
}

// Fatalf logs the message and terminates the process.
func Fatalf(format string, args ...any) {
	logger.Fatalf(format, args...)
}
