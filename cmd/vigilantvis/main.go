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

package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/segmentio/encoding/json"
	"github.com/vigilantdoomer/vigilantvis/internal/vlog"
)

// Set at build
var version = "v0.1.0"

func main() {
	conf := defaultConfig()

	cli.Register().
		Help("Determines which subsectors of a Doom level are visible from a viewpoint, near to far, culling what solid walls hide.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	errors.Encoder = json.Marshal
	vlog.Log.SetVerbosity(conf.Verbose)

	if err := validateConfig(&conf); err != nil {
		logs.Fatal(err)
	}

	if conf.Profile != "" {
		f, err := os.Create(conf.Profile)
		if err != nil {
			vlog.Log.Error("Could not create CPU profile: %s", err.Error())
		} else {
			defer f.Close()
			if err := pprof.StartCPUProfile(f); err != nil {
				vlog.Log.Error("Could not start CPU profile: %s", err.Error())
			} else {
				defer pprof.StopCPUProfile()
			}
		}
	}

	if err := run(&conf, os.Stdout); err != nil {
		pprof.StopCPUProfile()
		logs.Fatal(err)
	}
}
