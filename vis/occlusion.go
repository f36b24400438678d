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
	"slices"
	"sort"

	"github.com/vigilantdoomer/vigilantvis/num"
)

// OcclusionRange is a closed horizontal screen interval that is fully
// covered by solid geometry
type OcclusionRange[T num.Scalar[T]] struct {
	XMin, XMax T
}

// OcclusionTracker keeps the set of occluded screen ranges of the current
// frame. The set is sorted by XMin and its ranges never touch nor overlap:
// touching ranges are merged on insertion. Every input is clamped to the
// screen domain [lo, hi] first
type OcclusionTracker[T num.Scalar[T]] struct {
	lo, hi T
	ranges []OcclusionRange[T]
}

func NewOcclusionTracker[T num.Scalar[T]](lo, hi T) *OcclusionTracker[T] {
	return &OcclusionTracker[T]{
		lo:     lo,
		hi:     hi,
		ranges: make([]OcclusionRange[T], 0, 32),
	}
}

// NewNDCOcclusionTracker covers normalized device coordinates, [-1, 1]
func NewNDCOcclusionTracker[T num.Scalar[T]]() *OcclusionTracker[T] {
	one := num.One[T]()
	return NewOcclusionTracker(-one, one)
}

// Clear empties the set, keeping its storage for the next frame
func (o *OcclusionTracker[T]) Clear() {
	o.ranges = o.ranges[:0]
}

// first range whose right end is at or beyond x
func (o *OcclusionTracker[T]) search(x T) int {
	return sort.Search(len(o.ranges), func(i int) bool {
		return o.ranges[i].XMax >= x
	})
}

// OccludeRange marks [xMin, xMax] as covered. Empty, reversed and NaN
// ranges are ignored
func (o *OcclusionTracker[T]) OccludeRange(xMin, xMax T) {
	xMin = num.Clamp(xMin, o.lo, o.hi)
	xMax = num.Clamp(xMax, o.lo, o.hi)
	if !(xMin < xMax) {
		return
	}
	i := o.search(xMin)
	if i == len(o.ranges) {
		o.ranges = append(o.ranges, OcclusionRange[T]{xMin, xMax})
		return
	}
	found := &o.ranges[i]
	if found.XMin > xMax {
		// strictly between ranges i-1 and i
		o.ranges = slices.Insert(o.ranges, i, OcclusionRange[T]{xMin, xMax})
		return
	}
	found.XMin = min(found.XMin, xMin)
	found.XMax = max(found.XMax, xMax)
	j := i + 1
	for j < len(o.ranges) && o.ranges[j].XMin <= found.XMax {
		found.XMax = max(found.XMax, o.ranges[j].XMax)
		j++
	}
	o.ranges = slices.Delete(o.ranges, i+1, j)
}

// IsRangeVisible reports whether any part of [xMin, xMax] is not covered.
// An empty range shows nothing. A reversed or NaN range is reported
// visible: a broken projection must not hide geometry
func (o *OcclusionTracker[T]) IsRangeVisible(xMin, xMax T) bool {
	xMin = num.Clamp(xMin, o.lo, o.hi)
	xMax = num.Clamp(xMax, o.lo, o.hi)
	if xMin == xMax {
		return false
	}
	if !(xMin < xMax) {
		return true
	}
	i := o.search(xMin)
	if i == len(o.ranges) {
		return true
	}
	found := &o.ranges[i]
	return xMin < found.XMin || xMax > found.XMax
}

// Ranges returns the current set. The slice is owned by the tracker and is
// only valid until the next call that modifies it
func (o *OcclusionTracker[T]) Ranges() []OcclusionRange[T] {
	return o.ranges
}

func (o *OcclusionTracker[T]) Len() int {
	return len(o.ranges)
}

// Covered is the total width of the occluded ranges
func (o *OcclusionTracker[T]) Covered() T {
	var sum T
	for _, r := range o.ranges {
		sum += r.XMax - r.XMin
	}
	return sum
}

// Full reports whether the whole screen is covered, after which nothing
// more can be visible
func (o *OcclusionTracker[T]) Full() bool {
	return len(o.ranges) == 1 && o.ranges[0].XMin == o.lo && o.ranges[0].XMax == o.hi
}
