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
	"math"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/vigilantdoomer/vigilantvis/vis"
)

const ErrTypeInvalidConfig = "invalid_config"

const (
	BACKEND_FIXED = "fixed"
	BACKEND_FLOAT = "float"

	PROJECTOR_PERSPECTIVE = "perspective"
	PROJECTOR_ANGLE       = "angle"
)

type config struct {
	Wad       string  `cli:""        env:"VIGILANTVIS_WAD"        help:"The WAD file to read the level from."`
	Map       string  `cli:""        env:"VIGILANTVIS_MAP"        help:"The level to look at, the first one in the WAD if empty."`
	X         float64 `cli:""        env:"VIGILANTVIS_X"          help:"Viewpoint x in map units, player 1 start if not set."`
	Y         float64 `cli:""        env:"VIGILANTVIS_Y"          help:"Viewpoint y in map units, player 1 start if not set."`
	Angle     float64 `cli:""        env:"VIGILANTVIS_ANGLE"      help:"View angle in degrees, counterclockwise from east, player 1 start if not set."`
	FOV       float64 `cli:""        env:"VIGILANTVIS_FOV"        help:"Horizontal field of view in degrees."`
	Backend   string  `cli:""        env:"VIGILANTVIS_BACKEND"    help:"Numeric backend (fixed|float)."`
	Projector string  `cli:""        env:"VIGILANTVIS_PROJECTOR"  help:"Projection (perspective|angle), angle needs the fixed backend."`
	Solid     string  `cli:""        env:"VIGILANTVIS_SOLID"      help:"Which segs occlude (doom|onesided|never)."`
	Frames    int     `cli:""        env:"VIGILANTVIS_FRAMES"     help:"Number of frames to render, more than one turns around the viewpoint for a full circle."`
	Stack     bool    `cli:""        env:"VIGILANTVIS_STACK"      help:"Walk the tree with an explicit stack instead of recursion."`
	NoCulling bool    `cli:",hidden" env:"VIGILANTVIS_NO_CULLING" help:"Visit every subtree, occlusion is still computed."`
	JSON      bool    `cli:""        env:"VIGILANTVIS_JSON"       help:"Print the report as JSON."`
	Overlay   string  `cli:""        env:"VIGILANTVIS_OVERLAY"    help:"Write a PNG of the last frame over the map to this file."`
	Metrics   bool    `cli:""        env:"VIGILANTVIS_METRICS"    help:"Print Prometheus metrics of the run."`
	Profile   string  `cli:",hidden" env:"VIGILANTVIS_PROFILE"    help:"Write a CPU profile to this file."`
	LogLevel  string  `cli:""        env:"VIGILANTVIS_LOG_LEVEL"  help:"Log level (debug|info|warning|error)."`
	Verbose   int     `cli:""        env:"VIGILANTVIS_VERBOSE"    help:"Verbosity of program messages, 0 to 3."`
	Version   bool    `cli:""        env:"-"                      help:"Show version."`
	Help      bool    `cli:""        env:"-"                      help:"Show help."`
}

// Viewpoint fields left NaN are taken from the player start
func defaultConfig() config {
	return config{
		X:         math.NaN(),
		Y:         math.NaN(),
		Angle:     math.NaN(),
		FOV:       90,
		Backend:   BACKEND_FIXED,
		Projector: PROJECTOR_PERSPECTIVE,
		Solid:     "doom",
		Frames:    1,
		LogLevel:  logs.InfoLevel.String(),
	}
}

func configError(msg, option, value string) error {
	return errors.New(msg).
		WithType(ErrTypeInvalidConfig).
		WithTag("option", option).
		WithTag("value", value)
}

// validateConfig also normalizes the names to lower case
func validateConfig(conf *config) error {
	if conf.Wad == "" {
		return configError("no WAD file given", "wad", "")
	}
	conf.Backend = strings.ToLower(conf.Backend)
	conf.Projector = strings.ToLower(conf.Projector)
	conf.Solid = strings.ToLower(conf.Solid)
	conf.Map = strings.ToUpper(conf.Map)

	switch conf.Backend {
	case BACKEND_FIXED, BACKEND_FLOAT:
	default:
		return configError("unknown backend", "backend", conf.Backend)
	}
	switch conf.Projector {
	case PROJECTOR_PERSPECTIVE:
	case PROJECTOR_ANGLE:
		if conf.Backend != BACKEND_FIXED {
			return configError("angle projection works in fixed point only", "projector", conf.Projector)
		}
	default:
		return configError("unknown projector", "projector", conf.Projector)
	}
	if _, ok := vis.SolidPolicyByName(conf.Solid); !ok {
		return configError("unknown solid policy", "solid", conf.Solid)
	}
	if conf.Frames < 1 {
		return configError("need at least one frame", "frames", "")
	}
	if math.IsNaN(conf.FOV) || conf.FOV < vis.MIN_FOV_DEGREES || conf.FOV > vis.MAX_FOV_DEGREES {
		return configError("field of view out of range", "fov", "")
	}
	if math.IsNaN(conf.X) != math.IsNaN(conf.Y) {
		return configError("give both x and y or neither", "x", "")
	}
	return nil
}
