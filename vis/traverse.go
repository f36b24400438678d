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

// Package vis determines what is visible from a viewpoint: it walks the BSP
// tree near to far, emitting subsectors into a draw list, and skips every
// subtree whose bounding box projects onto screen ranges already covered by
// solid walls. One generic implementation serves the fixed point and the
// floating point backends.
package vis

import (
	"github.com/vigilantdoomer/vigilantvis/bsp"
	"github.com/vigilantdoomer/vigilantvis/num"
)

// What happens to a child of a node during traversal
type visitState int

const (
	visitNode visitState = iota
	visitLeaf
	visitRejected
)

type frameConfig struct {
	explicitStack bool
	noCulling     bool
}

type FrameOption func(*frameConfig)

// WithExplicitStack walks the tree with a stack of pending children
// instead of recursion. The result is the same
func WithExplicitStack() FrameOption {
	return func(c *frameConfig) {
		c.explicitStack = true
	}
}

// WithoutCulling visits every child regardless of its bounding box. Solid
// segs still build the occlusion set
func WithoutCulling() FrameOption {
	return func(c *frameConfig) {
		c.noCulling = true
	}
}

// Frame is the per-frame context of the traversal. It owns the draw list
// and the occlusion set, both reused from one Render to the next. A Frame
// must only be used by one goroutine at a time
type Frame[T num.Scalar[T]] struct {
	Tree      *bsp.Tree
	Projector Projector[T]
	Solid     SolidPolicy

	DrawList  *DrawList
	Occlusion *OcclusionTracker[T]
	Stats     FrameStats

	cfg   frameConfig
	view  *ViewState[T]
	stack []pendingChild
}

// child waiting to be visited by the explicit stack traversal. box is nil
// for the root, which is never tested
type pendingChild struct {
	child bsp.Child
	box   *bsp.BBox
	depth int
}

// NewFrame sets up traversal of tree. A nil solid policy means DoomSolid
func NewFrame[T num.Scalar[T]](tree *bsp.Tree, projector Projector[T], solid SolidPolicy,
	opts ...FrameOption) *Frame[T] {
	if solid == nil {
		solid = DoomSolid
	}
	f := &Frame[T]{
		Tree:      tree,
		Projector: projector,
		Solid:     solid,
		DrawList:  NewDrawList(len(tree.Subsectors)),
		Occlusion: NewNDCOcclusionTracker[T](),
	}
	for _, opt := range opts {
		opt(&f.cfg)
	}
	if f.cfg.explicitStack {
		f.stack = make([]pendingChild, 0, 64)
	}
	return f
}

// Render determines visibility from view. Results are in DrawList,
// Occlusion and Stats until the next call
func (f *Frame[T]) Render(view *ViewState[T]) {
	f.Occlusion.Clear()
	f.DrawList.Reset()
	f.Stats = FrameStats{}
	f.view = view
	if f.cfg.explicitStack {
		f.walk()
	} else {
		f.visit(f.Tree.Root(), nil, 0)
	}
	f.Stats.Ranges = f.Occlusion.Len()
	f.view = nil
}

func (f *Frame[T]) classify(c bsp.Child, box *bsp.BBox) visitState {
	if box != nil && !f.cfg.noCulling {
		// nothing left to see
		if f.Occlusion.Full() {
			return visitRejected
		}
		xMin, xMax := f.Projector.ProjectBox(f.view, box)
		if !f.Occlusion.IsRangeVisible(xMin, xMax) {
			return visitRejected
		}
	}
	if c.IsLeaf() {
		return visitLeaf
	}
	return visitNode
}

// visit is the recursive traversal. The box of the far child is tested only
// after the near child has been fully visited, so walls found on the near
// side already count
func (f *Frame[T]) visit(c bsp.Child, box *bsp.BBox, depth int) {
	switch f.classify(c, box) {
	case visitRejected:
		f.Stats.Rejected++
	case visitLeaf:
		f.Stats.reach(depth)
		f.emit(c.Index())
	case visitNode:
		f.Stats.reach(depth)
		f.Stats.NodesVisited++
		node := &f.Tree.Nodes[c.Index()]
		near := f.view.PointOnSide(node)
		far := near ^ 1
		f.visit(node.Children[near], &node.BBox[near], depth+1)
		f.visit(node.Children[far], &node.BBox[far], depth+1)
	}
}

// walk is visit with the recursion unrolled. The far child is pushed first
// so the whole near subtree is popped before it
func (f *Frame[T]) walk() {
	f.stack = append(f.stack[:0], pendingChild{child: f.Tree.Root()})
	for len(f.stack) > 0 {
		p := f.stack[len(f.stack)-1]
		f.stack = f.stack[:len(f.stack)-1]
		switch f.classify(p.child, p.box) {
		case visitRejected:
			f.Stats.Rejected++
		case visitLeaf:
			f.Stats.reach(p.depth)
			f.emit(p.child.Index())
		case visitNode:
			f.Stats.reach(p.depth)
			f.Stats.NodesVisited++
			node := &f.Tree.Nodes[p.child.Index()]
			near := f.view.PointOnSide(node)
			far := near ^ 1
			f.stack = append(f.stack,
				pendingChild{child: node.Children[far], box: &node.BBox[far], depth: p.depth + 1},
				pendingChild{child: node.Children[near], box: &node.BBox[near], depth: p.depth + 1})
		}
	}
}

// emit appends the subsector to the draw list and lets its solid segs
// occlude
func (f *Frame[T]) emit(ss uint32) {
	f.DrawList.Append(ss)
	f.Stats.SubsectorsEmitted++
	sub := &f.Tree.Subsectors[ss]
	for i := sub.FirstSeg; i < sub.FirstSeg+sub.NumSegs; i++ {
		if !f.Solid(f.Tree, i) {
			continue
		}
		seg := &f.Tree.Segs[i]
		xMin, xMax, ok := f.Projector.ProjectSeg(f.view, seg.V1, seg.V2)
		if !ok {
			continue
		}
		f.Occlusion.OccludeRange(xMin, xMax)
		f.Stats.SegsOccluded++
	}
}
