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

package vis

import (
	"math/rand/v2"

	"github.com/vigilantdoomer/vigilantvis/bsp"
	"github.com/vigilantdoomer/vigilantvis/num"
	"github.com/vigilantdoomer/vigilantvis/wad"
)

// Test levels: a w by h grid of square cells, one subsector (and sector)
// per cell, split by a random axis aligned BSP. Cell edges are either
// walls (one-sided segs on both sides) or open (two-sided)

const gridCell = 64

func fx(v int) num.Fixed {
	return num.Fixed(0).FromInt(v)
}

type gridLevel struct {
	tree *bsp.Tree
	w, h int
	// subsectors under each child of each node, indexed like Children
	leaves [][2][]uint32
}

func buildGrid(rng *rand.Rand, w, h int, wallChance float64) *gridLevel {
	g := &gridLevel{w: w, h: h, tree: &bsp.Tree{Name: "GRID"}}
	t := g.tree
	// vwall[y][x]: edge on the left of cell x; hwall[y][x]: edge below cell
	// at row y
	vwall := make([][]bool, h)
	for y := range vwall {
		vwall[y] = make([]bool, w+1)
		for x := range vwall[y] {
			vwall[y][x] = x == 0 || x == w || rng.Float64() < wallChance
		}
	}
	hwall := make([][]bool, h+1)
	for y := range hwall {
		hwall[y] = make([]bool, w)
		for x := range hwall[y] {
			hwall[y][x] = y == 0 || y == h || rng.Float64() < wallChance
		}
	}
	for i := 0; i < w*h; i++ {
		t.Sectors = append(t.Sectors, bsp.Sector{CeilHeight: fx(128)})
	}
	for cy := 0; cy < h; cy++ {
		for cx := 0; cx < w; cx++ {
			cell := cy*w + cx
			t.Subsectors = append(t.Subsectors, bsp.Subsector{
				FirstSeg: uint32(len(t.Segs)),
				NumSegs:  4,
				Sector:   int32(cell),
			})
			x0, y0 := cx*gridCell, cy*gridCell
			x1, y1 := x0+gridCell, y0+gridCell
			// clockwise, so that the cell is on the right of every seg
			g.addSeg(x0, y0, x0, y1, cell, g.cellAt(cx-1, cy), vwall[cy][cx])
			g.addSeg(x0, y1, x1, y1, cell, g.cellAt(cx, cy+1), hwall[cy+1][cx])
			g.addSeg(x1, y1, x1, y0, cell, g.cellAt(cx+1, cy), vwall[cy][cx+1])
			g.addSeg(x1, y0, x0, y0, cell, g.cellAt(cx, cy-1), hwall[cy][cx])
		}
	}
	g.split(rng, 0, 0, w, h)
	return g
}

func (g *gridLevel) cellAt(cx, cy int) int {
	if cx < 0 || cy < 0 || cx >= g.w || cy >= g.h {
		return -1
	}
	return cy*g.w + cx
}

func (g *gridLevel) addSeg(x0, y0, x1, y1 int, front, back int, wall bool) {
	t := g.tree
	v1 := bsp.Vertex{X: fx(x0), Y: fx(y0)}
	v2 := bsp.Vertex{X: fx(x1), Y: fx(y1)}
	t.Vertices = append(t.Vertices, v1, v2)
	line := bsp.Line{
		V1:    uint32(len(t.Vertices) - 2),
		V2:    uint32(len(t.Vertices) - 1),
		Sides: [2]int32{int32(len(t.Sides)), -1},
	}
	t.Sides = append(t.Sides, bsp.Side{Sector: uint32(front)})
	seg := bsp.Seg{
		V1:          v1,
		V2:          v2,
		Line:        uint32(len(t.Lines)),
		FrontSector: int32(front),
		BackSector:  -1,
	}
	if !wall && back >= 0 {
		line.Flags = wad.LF_TWOSIDED
		line.Sides[1] = int32(len(t.Sides))
		t.Sides = append(t.Sides, bsp.Side{Sector: uint32(back)})
		seg.BackSector = int32(back)
	}
	t.Lines = append(t.Lines, line)
	t.Segs = append(t.Segs, seg)
}

func cellBox(cx0, cy0, cx1, cy1 int) bsp.BBox {
	return bsp.BBox{
		bsp.BOXTOP:    fx(cy1 * gridCell),
		bsp.BOXBOTTOM: fx(cy0 * gridCell),
		bsp.BOXLEFT:   fx(cx0 * gridCell),
		bsp.BOXRIGHT:  fx(cx1 * gridCell),
	}
}

// split builds the subtree over cells [cx0, cx1) x [cy0, cy1), children
// before parents so that the root ends up last
func (g *gridLevel) split(rng *rand.Rand, cx0, cy0, cx1, cy1 int) (bsp.Child, []uint32) {
	if cx1-cx0 == 1 && cy1-cy0 == 1 {
		ss := uint32(cy0*g.w + cx0)
		return bsp.LeafChild(ss), []uint32{ss}
	}
	vertical := cx1-cx0 > 1 && (cy1-cy0 == 1 || rng.IntN(2) == 0)
	var node bsp.Node
	var low, high bsp.Child
	var lowLeaves, highLeaves []uint32
	var lowBox, highBox bsp.BBox
	if vertical {
		k := cx0 + 1 + rng.IntN(cx1-cx0-1)
		low, lowLeaves = g.split(rng, cx0, cy0, k, cy1)
		high, highLeaves = g.split(rng, k, cy0, cx1, cy1)
		lowBox, highBox = cellBox(cx0, cy0, k, cy1), cellBox(k, cy0, cx1, cy1)
		node.X, node.Y = fx(k*gridCell), fx(cy0*gridCell)
		node.Dy = fx(gridCell)
	} else {
		k := cy0 + 1 + rng.IntN(cy1-cy0-1)
		low, lowLeaves = g.split(rng, cx0, cy0, cx1, k)
		high, highLeaves = g.split(rng, cx0, k, cx1, cy1)
		lowBox, highBox = cellBox(cx0, cy0, cx1, k), cellBox(cx0, k, cx1, cy1)
		node.X, node.Y = fx(cx0*gridCell), fx(k*gridCell)
		node.Dx = fx(-gridCell)
	}
	// as set up above, the high side is on the right (front); flipping the
	// direction swaps the sides
	leaves := [2][]uint32{highLeaves, lowLeaves}
	node.Children = [2]bsp.Child{high, low}
	node.BBox = [2]bsp.BBox{highBox, lowBox}
	if rng.IntN(2) == 0 {
		node.Dx, node.Dy = -node.Dx, -node.Dy
		leaves[0], leaves[1] = leaves[1], leaves[0]
		node.Children[0], node.Children[1] = node.Children[1], node.Children[0]
		node.BBox[0], node.BBox[1] = node.BBox[1], node.BBox[0]
	}
	g.tree.Nodes = append(g.tree.Nodes, node)
	g.leaves = append(g.leaves, leaves)
	return bsp.NodeChild(uint32(len(g.tree.Nodes) - 1)), append(append([]uint32(nil), lowLeaves...), highLeaves...)
}

// randomView picks a viewpoint inside a cell, away from cell edges, on a
// 1/256 grid so that it converts exactly to both backends
func (g *gridLevel) randomView(rng *rand.Rand) (x, y float64, angle num.Angle) {
	pick := func(cells int) float64 {
		c := rng.IntN(cells)
		off := 8 + float64(rng.IntN(48*256))/256
		return float64(c*gridCell) + off
	}
	return pick(g.w), pick(g.h), num.Angle(rng.Uint32())
}

func gridView[T num.Scalar[T]](x, y float64, angle num.Angle) ViewState[T] {
	var zero T
	return NewViewState(zero.FromFloat(x), zero.FromFloat(y), angle, num.ANG90)
}

// Three subsectors along x split at x = 100 (root) and x = 200, the near
// one closed off by a wall at x = 100 facing -x
func corridorTree() *bsp.Tree {
	seg := func(x0, y0, x1, y1 int, line uint32, sector int32) bsp.Seg {
		return bsp.Seg{
			V1:          bsp.Vertex{X: fx(x0), Y: fx(y0)},
			V2:          bsp.Vertex{X: fx(x1), Y: fx(y1)},
			Line:        line,
			FrontSector: sector,
			BackSector:  -1,
		}
	}
	box := func(left, right int) bsp.BBox {
		return bsp.BBox{
			bsp.BOXTOP:    fx(1000),
			bsp.BOXBOTTOM: fx(-1000),
			bsp.BOXLEFT:   fx(left),
			bsp.BOXRIGHT:  fx(right),
		}
	}
	return &bsp.Tree{
		Name: "CORRIDOR",
		Vertices: []bsp.Vertex{
			{X: fx(100), Y: fx(1000)}, {X: fx(100), Y: fx(-1000)},
			{X: fx(200), Y: fx(1000)}, {X: fx(200), Y: fx(-1000)},
		},
		Lines: []bsp.Line{
			{V1: 0, V2: 1, Sides: [2]int32{0, -1}},
			{V1: 2, V2: 3, Sides: [2]int32{1, -1}},
			{V1: 3, V2: 2, Sides: [2]int32{2, -1}},
		},
		Sides:   []bsp.Side{{Sector: 0}, {Sector: 1}, {Sector: 2}},
		Sectors: []bsp.Sector{{CeilHeight: fx(128)}, {CeilHeight: fx(128)}, {CeilHeight: fx(128)}},
		Segs: []bsp.Seg{
			seg(100, 1000, 100, -1000, 0, 0),
			seg(200, 1000, 200, -1000, 1, 1),
			seg(200, -1000, 200, 1000, 2, 2),
		},
		Subsectors: []bsp.Subsector{
			{FirstSeg: 0, NumSegs: 1, Sector: 0},
			{FirstSeg: 1, NumSegs: 1, Sector: 1},
			{FirstSeg: 2, NumSegs: 1, Sector: 2},
		},
		Nodes: []bsp.Node{
			{
				X: fx(200), Y: 0, Dx: 0, Dy: fx(-1),
				BBox:     [2]bsp.BBox{box(100, 200), box(200, 300)},
				Children: [2]bsp.Child{bsp.LeafChild(1), bsp.LeafChild(2)},
			},
			{
				X: fx(100), Y: 0, Dx: 0, Dy: fx(-1),
				BBox:     [2]bsp.BBox{box(0, 100), box(100, 300)},
				Children: [2]bsp.Child{bsp.LeafChild(0), bsp.NodeChild(0)},
			},
		},
	}
}
