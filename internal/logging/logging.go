// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	LogFormatPlain = "plain"
	LogFormatText  = "text"
	LogFormatJSON  = "json"
)

// NewConsoleWriter parses the log format and creates a writer for standard
// error. Standard output is reserved for command results.
func NewConsoleWriter(format string) (io.Writer, error) {
	return NewConsoleWriterWith(os.Stderr, format)
}

func NewConsoleWriterWith(w io.Writer, format string) (io.Writer, error) {
	switch strings.ToLower(format) {
	case LogFormatPlain, LogFormatText:
		return newConsoleWriter(w, strings.ToLower(format) == LogFormatPlain), nil

	case LogFormatJSON:
		return w, nil

	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}
}

// newConsoleWriter creates a zerolog console writer that formats log messages
// as text for the console. The plain format is not colored.
func newConsoleWriter(w io.Writer, noColor bool) *zerolog.ConsoleWriter {
	return &zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColor,
		TimeFormat: time.RFC3339,
		FormatLevel: func(i interface{}) string {
			if ll, ok := i.(string); ok {
				return strings.ToUpper(ll)
			}
			return "????"
		},
	}
}

// New creates a logger that writes to w. The level is parsed with
// [ParseLevels].
func New(w io.Writer, level, format string) (zerolog.Logger, error) {
	w, err := NewConsoleWriterWith(w, format)
	if err != nil {
		return zerolog.Nop(), err
	}

	levels, err := ParseLevels(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if len(levels.Modules) > 0 {
		w = moduleFilter{out: w, levels: levels}
	}

	return zerolog.New(w).Level(levels.Lowest()).With().Timestamp().Logger(), nil
}
