// Copyright (C) 2022-2026, VigilantDoomer
//
// This file is part of VigilantVis program.
//
// VigilantVis is free software: you can redistribute it
// and/or modify it under the terms of GNU General Public License
// as published by the Free Software Foundation, either version 2 of
// the License, or (at your option) any later version.
//
// VigilantVis is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with VigilantVis.  If not, see <https://www.gnu.org/licenses/>.

// Central log of the program. Keeps the printf-style vocabulary the rest of
// the code is written against, but the entries end up as structured log
// entries of go-tooling's logs package, so level filtering, encoding and
// output are configured in one place (see cmd/vigilantvis)
package vlog

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

type MyLogger struct {
	component string
	verbosity atomic.Int32
}

func CreateLogger(component string) *MyLogger {
	return &MyLogger{component: component}
}

var Log = CreateLogger("vigilantvis")

func (log *MyLogger) SetVerbosity(level int) {
	log.verbosity.Store(int32(level))
}

func (log *MyLogger) Verbosity() int {
	return int(log.verbosity.Load())
}

// Your generic printf to let user see things
func (log *MyLogger) Printf(s string, a ...interface{}) {
	logs.WithTag("component", log.component).Info(message(s, a...))
}

// Reported as a warning. Does NOT interrupt execution of the program
func (log *MyLogger) Error(s string, a ...interface{}) {
	logs.WithTag("component", log.component).
		Warn(errors.New(message(s, a...)))
}

// For stuff the user might want to see but only when they asked for it with
// enough -verbose
func (log *MyLogger) Verbose(verbosityLevel int, s string, a ...interface{}) {
	if verbosityLevel > log.Verbosity() {
		return
	}
	logs.WithTag("component", log.component).
		WithTag("verbosity", verbosityLevel).
		Info(message(s, a...))
}

// Panicking is not a good thing, but at least we can now use formatted printing
// for it
func (log *MyLogger) Panic(s string, a ...interface{}) {
	panic(message(s, a...))
}

// Log lines used to be written with trailing newlines, structured entries
// don't want them
func message(s string, a ...interface{}) string {
	return strings.TrimRight(fmt.Sprintf(s, a...), "\n")
}
