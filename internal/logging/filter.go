// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Modules that log under their own name, set with the "module" field.
const (
	ModuleCLI    = "cli"
	ModuleBuild  = "build"
	ModuleClient = "client"
)

// Modules returns the names that may be given a level of their own.
func Modules() []string {
	return []string{ModuleCLI, ModuleBuild, ModuleClient}
}

// Levels is a default log level and per-module overrides.
type Levels struct {
	Default zerolog.Level
	Modules map[string]zerolog.Level
}

// ParseLevels parses a level, or a list of levels separated by semicolons
// such as "error;client=debug". A bare level or "*=level" sets the default.
// Module names must be one of [Modules].
func ParseLevels(s string) (Levels, error) {
	l := Levels{Default: zerolog.Disabled, Modules: map[string]zerolog.Level{}}
	if s == "" {
		return Levels{}, fmt.Errorf("empty log level")
	}
	if !strings.Contains(s, "=") {
		level, err := zerolog.ParseLevel(s)
		if err != nil {
			return Levels{}, err
		}
		l.Default = level
		return l, nil
	}

	for _, part := range strings.Split(s, ";") {
		if part == "" {
			continue
		}
		module, value, ok := strings.Cut(part, "=")
		if !ok {
			module, value = "*", part
		}
		level, err := zerolog.ParseLevel(value)
		if err != nil {
			return Levels{}, fmt.Errorf("module %q: %w", module, err)
		}
		switch {
		case module == "*":
			l.Default = level
		case isModule(module):
			l.Modules[module] = level
		default:
			return Levels{}, fmt.Errorf("unknown log module %q, want one of %s", module, strings.Join(Modules(), ", "))
		}
	}
	return l, nil
}

func isModule(name string) bool {
	for _, m := range Modules() {
		if m == name {
			return true
		}
	}
	return false
}

// Lowest returns the most verbose level of the default and every module.
func (l Levels) Lowest() zerolog.Level {
	lowest := l.Default
	for _, level := range l.Modules {
		if level < lowest {
			lowest = level
		}
	}
	return lowest
}

// Enabled returns true if an event of the given level from the module is
// written. Events without a module use the default level.
func (l Levels) Enabled(module string, level zerolog.Level) bool {
	want, ok := l.Modules[module]
	if !ok {
		want = l.Default
	}
	return want != zerolog.Disabled && level >= want
}

func (l Levels) String() string {
	parts := []string{l.Default.String()}
	names := make([]string, 0, len(l.Modules))
	for name := range l.Modules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, name+"="+l.Modules[name].String())
	}
	return strings.Join(parts, ";")
}

// moduleFilter drops events below their module's level. It must sit in front
// of any console writer since it reads the JSON form of the event.
type moduleFilter struct {
	out    io.Writer
	levels Levels
}

var _ zerolog.LevelWriter = moduleFilter{}

func (f moduleFilter) Write(p []byte) (int, error) {
	return f.WriteLevel(zerolog.NoLevel, p)
}

func (f moduleFilter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	var evt struct {
		Module string `json:"module"`
		Level  string `json:"level"`
	}
	err := json.Unmarshal(p, &evt)
	if err != nil {
		return 0, fmt.Errorf("cannot decode event: %w", err)
	}

	if level == zerolog.NoLevel {
		level, _ = zerolog.ParseLevel(evt.Level)
	}
	if !f.levels.Enabled(evt.Module, level) {
		return len(p), nil
	}
	return f.out.Write(p)
}
