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
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"
	"github.com/vigilantdoomer/vigilantvis/num"
	"github.com/vigilantdoomer/vigilantvis/wad"
)

func encode(t *testing.T, vs ...any) []byte {
	var buf bytes.Buffer
	for _, v := range vs {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
	}
	return buf.Bytes()
}

// writeTestWad writes a PWAD with one level, two subsectors either side of
// x = 64, and returns its path
func writeTestWad(t *testing.T) string {
	vertices := []wad.Vertex{{XPos: 64, YPos: 0}, {XPos: 64, YPos: 128}, {XPos: 0, YPos: 0}, {XPos: 0, YPos: 128}}
	linedefs := []wad.Linedef{
		{StartVertex: 0, EndVertex: 1, Flags: wad.LF_IMPASSABLE, FrontSdef: 0, BackSdef: wad.SIDEDEF_NONE},
		{StartVertex: 3, EndVertex: 2, Flags: wad.LF_IMPASSABLE, FrontSdef: 1, BackSdef: wad.SIDEDEF_NONE},
	}
	sidedefs := []wad.Sidedef{{Sector: 0}, {Sector: 0}}
	sectors := []wad.Sector{{FloorHeight: 0, CeilHeight: 128, LightLevel: 160}}
	segs := []wad.Seg{
		{StartVertex: 0, EndVertex: 1, Angle: 0x4000, Linedef: 0},
		{StartVertex: 3, EndVertex: 2, Angle: -0x4000, Linedef: 1},
	}
	subsectors := []wad.SubSector{{SegCount: 1, FirstSeg: 0}, {SegCount: 1, FirstSeg: 1}}
	nodes := []wad.Node{{
		X: 64, Y: 0, Dx: 0, Dy: 128,
		Rbox:   [4]int16{128, 0, 64, 64},
		Lbox:   [4]int16{128, 0, 0, 0},
		RChild: int16(-0x8000),
		LChild: int16(-0x7FFF),
	}}
	things := []wad.Thing{{XPos: 32, YPos: 64, Angle: 90, Type: wad.THING_PLAYER1, Flags: 7}}
	lumps := []struct {
		name string
		data []byte
	}{
		{"MAP01", nil},
		{"THINGS", encode(t, things)},
		{"LINEDEFS", encode(t, linedefs)},
		{"SIDEDEFS", encode(t, sidedefs)},
		{"VERTEXES", encode(t, vertices)},
		{"SEGS", encode(t, segs)},
		{"SSECTORS", encode(t, subsectors)},
		{"NODES", encode(t, nodes)},
		{"SECTORS", encode(t, sectors)},
		{"REJECT", []byte{0}},
		{"BLOCKMAP", nil},
	}

	var data bytes.Buffer
	dir := make([]wad.LumpEntry, len(lumps))
	pos := uint32(wad.WAD_HEADER_SIZE)
	for i, l := range lumps {
		dir[i] = wad.LumpEntry{FilePos: pos, Size: uint32(len(l.data))}
		copy(dir[i].Name[:], l.name)
		data.Write(l.data)
		pos += uint32(len(l.data))
	}
	hdr := wad.WadHeader{MagicSig: wad.PWAD_MAGIC_SIG, LumpCount: uint32(len(lumps)), DirectoryStart: pos}

	path := filepath.Join(t.TempDir(), "test.wad")
	require.NoError(t, os.WriteFile(path, encode(t, hdr, data.Bytes(), dir), 0o644))
	return path
}

func TestValidateConfig(t *testing.T) {
	valid := func() config {
		conf := defaultConfig()
		conf.Wad = "doom2.wad"
		return conf
	}
	conf := valid()
	conf.Backend, conf.Projector, conf.Map = "FLOAT", "Perspective", "map01"
	require.NoError(t, validateConfig(&conf))
	require.Equal(t, BACKEND_FLOAT, conf.Backend)
	require.Equal(t, PROJECTOR_PERSPECTIVE, conf.Projector)
	require.Equal(t, "MAP01", conf.Map)

	tests := []struct {
		scenario string
		change   func(*config)
	}{
		{"no wad", func(c *config) { c.Wad = "" }},
		{"unknown backend", func(c *config) { c.Backend = "double" }},
		{"unknown projector", func(c *config) { c.Projector = "fisheye" }},
		{"angle projector in float", func(c *config) { c.Backend, c.Projector = BACKEND_FLOAT, PROJECTOR_ANGLE }},
		{"unknown solid policy", func(c *config) { c.Solid = "glass" }},
		{"no frames", func(c *config) { c.Frames = 0 }},
		{"fov too wide", func(c *config) { c.FOV = 180 }},
		{"fov not a number", func(c *config) { c.FOV = math.NaN() }},
		{"x without y", func(c *config) { c.X = 10 }},
	}
	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			conf := valid()
			test.change(&conf)
			err := validateConfig(&conf)
			require.Error(t, err)
			require.True(t, errors.IsType(err, ErrTypeInvalidConfig))
		})
	}
}

func TestRun(t *testing.T) {
	path := writeTestWad(t)
	overlayPath := filepath.Join(t.TempDir(), "frame.png")

	for _, backend := range []struct{ backend, projector string }{
		{BACKEND_FIXED, PROJECTOR_PERSPECTIVE},
		{BACKEND_FIXED, PROJECTOR_ANGLE},
		{BACKEND_FLOAT, PROJECTOR_PERSPECTIVE},
	} {
		t.Run(backend.backend+"_"+backend.projector, func(t *testing.T) {
			conf := defaultConfig()
			conf.Wad = path
			conf.Backend, conf.Projector = backend.backend, backend.projector
			conf.JSON = true
			conf.Overlay = overlayPath
			require.NoError(t, validateConfig(&conf))

			var out bytes.Buffer
			require.NoError(t, run(&conf, &out))
			var rep report
			require.NoError(t, json.Unmarshal(out.Bytes(), &rep))

			require.Equal(t, "MAP01", rep.Map)
			// from the player start, looking north
			require.Equal(t, viewpoint{X: 32, Y: 64, Angle: 90, FOV: 90}, rep.View)
			require.Equal(t, uint32(1), rep.Subsector)
			require.Equal(t, []uint32{1, 0}, rep.DrawList)
			require.Equal(t, 1, rep.Stats.NodesVisited)
			require.Equal(t, 1, rep.Frames)

			info, err := os.Stat(overlayPath)
			require.NoError(t, err)
			require.NotZero(t, info.Size())
		})
	}
}

func TestRunTourWithMetrics(t *testing.T) {
	conf := defaultConfig()
	conf.Wad = writeTestWad(t)
	conf.Map = "MAP01"
	conf.X, conf.Y = 32, 100
	conf.Frames = 16
	conf.Stack = true
	conf.Metrics = true
	require.NoError(t, validateConfig(&conf))

	var out bytes.Buffer
	require.NoError(t, run(&conf, &out))
	require.Contains(t, out.String(), `vigilantvis_frames_total{backend="fixed_perspective"} 16`)
	// the root is visited every frame
	require.Contains(t, out.String(), `vigilantvis_nodes_visited_total{backend="fixed_perspective"} 16`)
}

func TestRunErrors(t *testing.T) {
	conf := defaultConfig()
	conf.Wad = filepath.Join(t.TempDir(), "missing.wad")
	require.Error(t, run(&conf, &bytes.Buffer{}))

	conf.Wad = writeTestWad(t)
	conf.Map = "MAP02"
	err := run(&conf, &bytes.Buffer{})
	require.Error(t, err)
	require.True(t, errors.IsType(err, wad.ErrTypeNoSuchLevel))
}

func TestTourView(t *testing.T) {
	start := viewpoint{X: 10, Y: 20, Angle: 0, FOV: 90}
	first := tourView[num.Float](start, 0, 1)
	require.Equal(t, num.Float(10), first.X)
	require.Equal(t, num.Angle(0), first.Angle)

	// 16 frames make 4 tics of 90 degrees: frame 2 is half way to the
	// second tic
	mid := tourView[num.Float](start, 2, 16)
	require.InDelta(t, 45, mid.Angle.Degrees(), 1e-6)
	tic := tourView[num.Float](start, 4, 16)
	require.InDelta(t, 90, tic.Angle.Degrees(), 1e-6)
	require.Equal(t, num.Float(20), tic.Y)
}

func TestTourViewFewFrames(t *testing.T) {
	start := viewpoint{X: 10, Y: 20, Angle: 30, FOV: 90}
	for _, n := range []int{1, 2, 3, 4, 6, 8, 16} {
		for i := 0; i < n; i++ {
			want := math.Mod(30+360*float64(i)/float64(n), 360)
			got := tourView[num.Float](start, i, n).Angle.Degrees()
			require.InDelta(t, want, got, 1e-3, "frame %d of %d", i, n)
			fixed := tourView[num.Fixed](start, i, n).Angle.Degrees()
			require.InDelta(t, want, fixed, 1e-3, "fixed frame %d of %d", i, n)
		}
	}
}
