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

// Package bsp holds the static level asset the renderer walks: the node tree
// with its bounding boxes, subsectors, segs and the map geometry they refer
// to. Coordinates are 16.16 fixed point map units. A Tree is never modified
// once built.
package bsp

import (
	"github.com/vigilantdoomer/vigilantvis/num"
	"github.com/vigilantdoomer/vigilantvis/wad"
)

// Child reference flag: if set, the rest of the bits index a subsector,
// otherwise a node
const NF_SUBSECTOR = wad.SSECTOR_DEEP_MASK

const (
	BOXTOP    = wad.BB_TOP
	BOXBOTTOM = wad.BB_BOTTOM
	BOXLEFT   = wad.BB_LEFT
	BOXRIGHT  = wad.BB_RIGHT
)

// Sides of a node, and the indices of its boxes and children
const (
	SIDE_FRONT = 0 // right of the partition line
	SIDE_BACK  = 1
)

type Child uint32

func LeafChild(ss uint32) Child {
	return Child(ss | NF_SUBSECTOR)
}

func NodeChild(n uint32) Child {
	return Child(n &^ NF_SUBSECTOR)
}

func (c Child) IsLeaf() bool {
	return c&NF_SUBSECTOR != 0
}

func (c Child) Index() uint32 {
	return uint32(c &^ NF_SUBSECTOR)
}

type BBox [4]num.Fixed

// ClearBox sets the box inside out, so that the first AddPoint sets it to
// that point
func (b *BBox) ClearBox() {
	b[BOXTOP] = num.MINFIXED
	b[BOXRIGHT] = num.MINFIXED
	b[BOXBOTTOM] = num.MAXFIXED
	b[BOXLEFT] = num.MAXFIXED
}

func (b *BBox) AddPoint(x, y num.Fixed) {
	b[BOXLEFT] = min(b[BOXLEFT], x)
	b[BOXRIGHT] = max(b[BOXRIGHT], x)
	b[BOXBOTTOM] = min(b[BOXBOTTOM], y)
	b[BOXTOP] = max(b[BOXTOP], y)
}

type Vertex struct {
	X, Y num.Fixed
}

type Node struct {
	// partition line: from (X, Y) along (Dx, Dy)
	X, Y   num.Fixed
	Dx, Dy num.Fixed
	// indexed by SIDE_FRONT / SIDE_BACK
	BBox     [2]BBox
	Children [2]Child
}

type Seg struct {
	V1, V2 Vertex
	Angle  num.Angle
	Offset num.Fixed
	Line   uint32
	Side   uint8 // 0 - seg runs along its line, 1 - the opposite
	// -1 when there is none
	FrontSector int32
	BackSector  int32
}

func (s *Seg) OneSided() bool {
	return s.BackSector < 0
}

type Subsector struct {
	FirstSeg uint32
	NumSegs  uint32
	Sector   int32 // front sector of the first seg, -1 if no segs
}

type Line struct {
	V1, V2  uint32
	Flags   uint16
	Special uint16
	Tag     uint16
	Sides   [2]int32 // -1 for none
}

type Side struct {
	XOffset, YOffset num.Fixed
	Top, Bottom, Mid string
	Sector           uint32
}

type Sector struct {
	FloorHeight num.Fixed
	CeilHeight  num.Fixed
	FloorPic    string
	CeilPic     string
	LightLevel  uint16
	Special     uint16
	Tag         uint16
}

type Thing struct {
	X, Y  num.Fixed
	Angle num.Angle
	Type  int16
	Flags int16
}

type Tree struct {
	Name       string
	Vertices   []Vertex
	Lines      []Line
	Sides      []Side
	Sectors    []Sector
	Segs       []Seg
	Subsectors []Subsector
	Nodes      []Node
	Things     []Thing
}

// Root is the last node, nodebuilders write it there. A level with a single
// subsector has no nodes at all
func (t *Tree) Root() Child {
	if len(t.Nodes) == 0 {
		return LeafChild(0)
	}
	return NodeChild(uint32(len(t.Nodes) - 1))
}

func (t *Tree) SubsectorSegs(ss uint32) []Seg {
	sub := &t.Subsectors[ss]
	return t.Segs[sub.FirstSeg : sub.FirstSeg+sub.NumSegs]
}

// PointOnSide returns SIDE_FRONT when (x, y) is right of the partition line
// or exactly on it, SIDE_BACK otherwise. Works in either numeric backend:
// node coordinates convert exactly to both
func PointOnSide[T num.Scalar[T]](n *Node, x, y T) int {
	var zero T
	dx := x - zero.FromFixed(n.X)
	dy := y - zero.FromFixed(n.Y)
	if num.Cross(zero.FromFixed(n.Dx), zero.FromFixed(n.Dy), dx, dy) <= 0 {
		return SIDE_FRONT
	}
	return SIDE_BACK
}

// PointInSubsector descends the tree by the same side rule the renderer
// uses
func (t *Tree) PointInSubsector(x, y num.Fixed) uint32 {
	c := t.Root()
	for !c.IsLeaf() {
		n := &t.Nodes[c.Index()]
		c = n.Children[PointOnSide(n, x, y)]
	}
	return c.Index()
}

// PlayerStart finds the start of player n (1 to 4)
func (t *Tree) PlayerStart(n int) (Thing, bool) {
	if n < wad.THING_PLAYER1 || n > wad.THING_PLAYER4 {
		return Thing{}, false
	}
	for _, th := range t.Things {
		if int(th.Type) == n {
			return th, true
		}
	}
	return Thing{}, false
}

// Bounds of the map geometry. Zero box if there are no vertices
func (t *Tree) Bounds() BBox {
	if len(t.Vertices) == 0 {
		return BBox{}
	}
	var b BBox
	b.ClearBox()
	for _, v := range t.Vertices {
		b.AddPoint(v.X, v.Y)
	}
	return b
}
