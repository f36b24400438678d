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
	"iter"
)

// DrawList is the near to far order of subsectors produced by a frame.
// Entries are only ever appended, the order is the order of visiting
type DrawList struct {
	arena []uint32
}

// NewDrawList pre-sizes the list, a level can't emit more subsectors than
// it has, so with capacity = number of subsectors Append never allocates
func NewDrawList(capacity int) *DrawList {
	return &DrawList{arena: make([]uint32, 0, capacity)}
}

func (d *DrawList) Reset() {
	d.arena = d.arena[:0]
}

func (d *DrawList) Append(ss uint32) {
	d.arena = append(d.arena, ss)
}

func (d *DrawList) Len() int {
	return len(d.arena)
}

func (d *DrawList) At(i int) uint32 {
	return d.arena[i]
}

// Subsectors is a view into the list, valid until the next Reset
func (d *DrawList) Subsectors() []uint32 {
	return d.arena
}

// All yields draw position and subsector index, nearest first
func (d *DrawList) All() iter.Seq2[int, uint32] {
	return func(yield func(int, uint32) bool) {
		for i, ss := range d.arena {
			if !yield(i, ss) {
				return
			}
		}
	}
}
