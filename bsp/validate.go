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
	"github.com/aukilabs/go-tooling/pkg/errors"
)

// Error types, to be checked with errors.IsType
const (
	ErrTypeBadChild     = "bad_child"
	ErrTypeBadSegRange  = "bad_seg_range"
	ErrTypeCyclicTree   = "cyclic_tree"
	ErrTypeBadReference = "bad_reference"
)

// Validate checks everything the renderer takes on trust: every reference is
// in range and the nodes reachable from the root form a tree, so a traversal
// terminates and meets each subsector at most once
func Validate(t *Tree) error {
	for i, l := range t.Lines {
		if int(l.V1) >= len(t.Vertices) || int(l.V2) >= len(t.Vertices) {
			return refError("linedef refers to a missing vertex", "linedef", i)
		}
		for _, sd := range l.Sides {
			if int(sd) >= len(t.Sides) {
				return refError("linedef refers to a missing sidedef", "linedef", i)
			}
		}
		if l.Sides[0] < 0 {
			return refError("linedef has no front sidedef", "linedef", i)
		}
	}
	for i, sd := range t.Sides {
		if int(sd.Sector) >= len(t.Sectors) {
			return refError("sidedef refers to a missing sector", "sidedef", i)
		}
	}
	for i, sg := range t.Segs {
		if int(sg.Line) >= len(t.Lines) {
			return refError("seg refers to a missing linedef", "seg", i)
		}
		if int(sg.FrontSector) >= len(t.Sectors) || int(sg.BackSector) >= len(t.Sectors) {
			return refError("seg refers to a missing sector", "seg", i)
		}
	}
	for i, ss := range t.Subsectors {
		if uint64(ss.FirstSeg)+uint64(ss.NumSegs) > uint64(len(t.Segs)) {
			return errors.New("subsector segs run past the end of segs").
				WithType(ErrTypeBadSegRange).
				WithTag("subsector", i).
				WithTag("first_seg", ss.FirstSeg).
				WithTag("num_segs", ss.NumSegs)
		}
		if int(ss.Sector) >= len(t.Sectors) {
			return refError("subsector refers to a missing sector", "subsector", i)
		}
	}
	return validateTree(t)
}

func refError(msg string, kind string, idx int) error {
	return errors.New(msg).
		WithType(ErrTypeBadReference).
		WithTag(kind, idx)
}

// validateTree walks the tree from the root with an explicit stack, the way
// the nodebuilder does, so that corrupt deep trees can't blow up the
// goroutine stack. A node or a subsector reached twice means a cycle or a
// shared subtree
func validateTree(t *Tree) error {
	if len(t.Subsectors) == 0 {
		return errors.New("level has no subsectors").
			WithType(ErrTypeBadChild)
	}
	seenNode := make([]bool, len(t.Nodes))
	seenLeaf := make([]bool, len(t.Subsectors))
	stack := make([]Child, 0, 64)
	stack = append(stack, t.Root())
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if c.IsLeaf() {
			idx := c.Index()
			if int(idx) >= len(t.Subsectors) {
				return childError("child refers to a missing subsector", idx)
			}
			if seenLeaf[idx] {
				return errors.New("subsector is reached more than once").
					WithType(ErrTypeCyclicTree).
					WithTag("subsector", idx)
			}
			seenLeaf[idx] = true
			continue
		}
		idx := c.Index()
		if int(idx) >= len(t.Nodes) {
			return childError("child refers to a missing node", idx)
		}
		if seenNode[idx] {
			return errors.New("node is reached more than once").
				WithType(ErrTypeCyclicTree).
				WithTag("node", idx)
		}
		seenNode[idx] = true
		stack = append(stack, t.Nodes[idx].Children[SIDE_BACK], t.Nodes[idx].Children[SIDE_FRONT])
	}
	return nil
}

func childError(msg string, idx uint32) error {
	return errors.New(msg).
		WithType(ErrTypeBadChild).
		WithTag("index", idx)
}
