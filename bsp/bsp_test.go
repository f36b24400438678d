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

package bsp

import (
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/vigilantdoomer/vigilantvis/num"
	"github.com/vigilantdoomer/vigilantvis/wad"
)

func deepLeaf(ss uint32) int32 {
	return int32(ss | wad.SSECTOR_DEEP_MASK)
}

func fx(v int) num.Fixed {
	return num.Fixed(0).FromInt(v)
}

// Three subsectors side by side along x, split at x = 100 (root) and
// x = 200. The wall at x = 100 faces -x
func corridorLevel() *wad.Level {
	return &wad.Level{
		Name: "MAP01",
		Vertices: []wad.Vertex{
			{XPos: 100, YPos: 1000}, {XPos: 100, YPos: -1000},
			{XPos: 200, YPos: 1000}, {XPos: 200, YPos: -1000},
		},
		Sectors: []wad.Sector{
			{FloorHeight: 0, CeilHeight: 128},
			{FloorHeight: 0, CeilHeight: 128},
			{FloorHeight: 8, CeilHeight: 96},
		},
		Sidedefs: []wad.Sidedef{{Sector: 0}, {Sector: 1}, {Sector: 2}},
		Linedefs: []wad.Linedef{
			{StartVertex: 0, EndVertex: 1, Flags: wad.LF_IMPASSABLE, FrontSdef: 0, BackSdef: wad.SIDEDEF_NONE},
			{StartVertex: 2, EndVertex: 3, Flags: wad.LF_IMPASSABLE, FrontSdef: 1, BackSdef: wad.SIDEDEF_NONE},
			{StartVertex: 3, EndVertex: 2, Flags: wad.LF_IMPASSABLE, FrontSdef: 2, BackSdef: wad.SIDEDEF_NONE},
		},
		Segs: []wad.DeepSeg{
			{StartVertex: 0, EndVertex: 1, Angle: -0x4000, Linedef: 0},
			{StartVertex: 2, EndVertex: 3, Angle: -0x4000, Linedef: 1},
			{StartVertex: 3, EndVertex: 2, Angle: 0x4000, Linedef: 2},
		},
		SubSectors: []wad.DeepSubSector{
			{SegCount: 1, FirstSeg: 0}, {SegCount: 1, FirstSeg: 1}, {SegCount: 1, FirstSeg: 2},
		},
		Nodes: []wad.DeepNode{
			{
				X: 200, Y: 0, Dx: 0, Dy: -1,
				Rbox:   [4]int16{1000, -1000, 100, 200},
				Lbox:   [4]int16{1000, -1000, 200, 300},
				RChild: deepLeaf(1),
				LChild: deepLeaf(2),
			},
			{
				X: 100, Y: 0, Dx: 0, Dy: -1,
				Rbox:   [4]int16{1000, -1000, 0, 100},
				Lbox:   [4]int16{1000, -1000, 100, 300},
				RChild: deepLeaf(0),
				LChild: 0,
			},
		},
		Things: []wad.Thing{
			{XPos: 50, YPos: 0, Angle: 0, Type: wad.THING_PLAYER1},
			{XPos: 250, YPos: 10, Angle: 180, Type: 3001},
		},
	}
}

func TestChild(t *testing.T) {
	c := LeafChild(5)
	require.True(t, c.IsLeaf())
	require.Equal(t, uint32(5), c.Index())
	c = NodeChild(7)
	require.False(t, c.IsLeaf())
	require.Equal(t, uint32(7), c.Index())
}

func TestFromLevel(t *testing.T) {
	tree, err := FromLevel(corridorLevel())
	require.NoError(t, err)

	require.Equal(t, NodeChild(1), tree.Root())
	require.Equal(t, Vertex{fx(100), fx(1000)}, tree.Segs[0].V1)
	require.Equal(t, Vertex{fx(100), fx(-1000)}, tree.Segs[0].V2)
	require.Equal(t, num.ANG270, tree.Segs[0].Angle)
	require.Equal(t, int32(0), tree.Segs[0].FrontSector)
	require.True(t, tree.Segs[0].OneSided())
	require.Equal(t, int32(2), tree.Subsectors[2].Sector)
	require.Equal(t, fx(8), tree.Sectors[2].FloorHeight)

	root := &tree.Nodes[1]
	require.Equal(t, fx(100), root.X)
	require.Equal(t, fx(-1), root.Dy)
	require.Equal(t, BBox{fx(1000), fx(-1000), fx(0), fx(100)}, root.BBox[SIDE_FRONT])
	require.Equal(t, [2]Child{LeafChild(0), NodeChild(0)}, root.Children)

	p1, ok := tree.PlayerStart(1)
	require.True(t, ok)
	require.Equal(t, fx(50), p1.X)
	_, ok = tree.PlayerStart(2)
	require.False(t, ok)
	_, ok = tree.PlayerStart(3001)
	require.False(t, ok)
	require.Equal(t, num.ANG180, tree.Things[1].Angle)

	require.Equal(t, BBox{fx(1000), fx(-1000), fx(100), fx(200)}, tree.Bounds())
	require.Len(t, tree.SubsectorSegs(1), 1)
	require.Equal(t, uint32(1), tree.SubsectorSegs(1)[0].Line)
}

func TestTwoSidedSegs(t *testing.T) {
	lvl := corridorLevel()
	lvl.Linedefs[1].Flags = wad.LF_TWOSIDED
	lvl.Linedefs[1].BackSdef = 2
	tree, err := FromLevel(lvl)
	require.NoError(t, err)
	require.Equal(t, int32(1), tree.Segs[1].FrontSector)
	require.Equal(t, int32(2), tree.Segs[1].BackSector)
	require.False(t, tree.Segs[1].OneSided())

	// flipped seg sees the sides the other way around
	lvl.Segs[1].Flip = 1
	tree, err = FromLevel(lvl)
	require.NoError(t, err)
	require.Equal(t, int32(2), tree.Segs[1].FrontSector)
	require.Equal(t, int32(1), tree.Segs[1].BackSector)

	// second sidedef without the two-sided flag is ignored
	lvl.Linedefs[1].Flags = wad.LF_IMPASSABLE
	tree, err = FromLevel(lvl)
	require.NoError(t, err)
	require.Equal(t, int32(-1), tree.Segs[1].BackSector)
}

func TestPointInSubsector(t *testing.T) {
	tree, err := FromLevel(corridorLevel())
	require.NoError(t, err)
	require.Equal(t, uint32(0), tree.PointInSubsector(fx(50), 0))
	require.Equal(t, uint32(1), tree.PointInSubsector(fx(150), fx(-500)))
	require.Equal(t, uint32(2), tree.PointInSubsector(fx(250), fx(700)))
	// on the partition line counts as front
	require.Equal(t, uint32(0), tree.PointInSubsector(fx(100), fx(3)))
	require.Equal(t, uint32(1), tree.PointInSubsector(fx(200), fx(5)))

	single := &Tree{Subsectors: []Subsector{{}}}
	require.Equal(t, LeafChild(0), single.Root())
	require.Equal(t, uint32(0), single.PointInSubsector(fx(5), fx(5)))
}

func TestPointOnSideBackendsAgree(t *testing.T) {
	n := &Node{X: fx(10), Y: fx(-20), Dx: fx(3), Dy: fx(7)}
	for x := -50; x <= 50; x += 5 {
		for y := -50; y <= 50; y += 5 {
			fside := PointOnSide(n, fx(x), fx(y))
			gside := PointOnSide(n, num.Float(x), num.Float(y))
			require.Equal(t, fside, gside, "point (%d, %d)", x, y)
		}
	}
	// (13, -13) lies on the line
	require.Equal(t, SIDE_FRONT, PointOnSide(n, fx(13), fx(-13)))
	require.Equal(t, SIDE_FRONT, PointOnSide(n, fx(20), fx(-20)))
	require.Equal(t, SIDE_BACK, PointOnSide(n, fx(0), fx(-20)))
}

func TestValidate(t *testing.T) {
	build := func(t *testing.T) *Tree {
		tree, err := FromLevel(corridorLevel())
		require.NoError(t, err)
		return tree
	}
	cases := []struct {
		name    string
		mutate  func(tree *Tree)
		errType string
	}{
		{"cycle", func(tree *Tree) { tree.Nodes[0].Children[1] = NodeChild(1) }, ErrTypeCyclicTree},
		{"self", func(tree *Tree) { tree.Nodes[1].Children[1] = NodeChild(1) }, ErrTypeCyclicTree},
		{"shared subtree", func(tree *Tree) { tree.Nodes[1].Children[0] = LeafChild(1) }, ErrTypeCyclicTree},
		{"missing subsector", func(tree *Tree) { tree.Nodes[0].Children[0] = LeafChild(9) }, ErrTypeBadChild},
		{"missing node", func(tree *Tree) { tree.Nodes[1].Children[1] = NodeChild(5) }, ErrTypeBadChild},
		{"seg range", func(tree *Tree) { tree.Subsectors[2].NumSegs = 2 }, ErrTypeBadSegRange},
		{"sidedef", func(tree *Tree) { tree.Lines[0].Sides[1] = 3 }, ErrTypeBadReference},
		{"sector", func(tree *Tree) { tree.Sides[1].Sector = 3 }, ErrTypeBadReference},
		{"no subsectors", func(tree *Tree) {
			tree.Nodes = nil
			tree.Subsectors = nil
		}, ErrTypeBadChild},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tree := build(t)
			require.NoError(t, Validate(tree))
			c.mutate(tree)
			err := Validate(tree)
			require.Error(t, err)
			require.True(t, errors.IsType(err, c.errType), "got %v", err)
		})
	}
}

func TestFromLevelErrors(t *testing.T) {
	lvl := corridorLevel()
	lvl.Segs[2].EndVertex = 40
	_, err := FromLevel(lvl)
	require.Error(t, err)
	require.True(t, errors.IsType(err, ErrTypeBadReference))

	lvl = corridorLevel()
	lvl.Nodes[1].LChild = 1
	_, err = FromLevel(lvl)
	require.Error(t, err)
	require.True(t, errors.IsType(err, ErrTypeCyclicTree))
}
