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
	"github.com/vigilantdoomer/vigilantvis/bsp"
	"github.com/vigilantdoomer/vigilantvis/num"
)

// Projector maps map-space geometry to a horizontal screen extent in
// normalized device coordinates: -1 is the left edge, +1 the right edge.
// Results may exceed [-1, 1], the occlusion tracker clamps them
type Projector[T num.Scalar[T]] interface {
	// ProjectBox returns the screen extent of a bounding box. A box that
	// can't be seen at all may come back with zero width
	ProjectBox(view *ViewState[T], box *bsp.BBox) (xMin, xMax T)
	// ProjectSeg returns the screen extent of a seg seen from its front
	// side. ok is false for segs seen from behind or entirely behind the
	// viewer
	ProjectSeg(view *ViewState[T], v1, v2 bsp.Vertex) (xMin, xMax T, ok bool)
}

// Slopes (lateral / depth) are clamped to this before multiplying by the
// focal length. Way beyond the screen edge for any allowed field of view,
// small enough for fixed point not to overflow
const MAX_SLOPE = 64

// Perspective projects with a pinhole camera: x = lateral / depth * focal,
// after clipping against the near plane. Works in both numeric backends
type Perspective[T num.Scalar[T]] struct{}

var _ Projector[num.Fixed] = Perspective[num.Fixed]{}
var _ Projector[num.Float] = Perspective[num.Float]{}

// point in view space: depth along the view direction, lateral to the
// right of it
type viewPoint[T num.Scalar[T]] struct {
	depth, lateral T
}

func toView[T num.Scalar[T]](view *ViewState[T], x, y num.Fixed) viewPoint[T] {
	var zero T
	dx := zero.FromFixed(x) - view.X
	dy := zero.FromFixed(y) - view.Y
	return viewPoint[T]{
		depth:   dx.Mul(view.Cos) + dy.Mul(view.Sin),
		lateral: dx.Mul(view.Sin) - dy.Mul(view.Cos),
	}
}

// intersectNear returns the point of segment a-b lying on the near plane.
// a and b must be on different sides of it
func intersectNear[T num.Scalar[T]](a, b viewPoint[T], near T) viewPoint[T] {
	t := (near - a.depth).Div(b.depth - a.depth)
	return viewPoint[T]{
		depth:   near,
		lateral: a.lateral + (b.lateral - a.lateral).Mul(t),
	}
}

// clipNear is one Sutherland-Hodgman pass keeping depth >= near. Output is
// appended to out
func clipNear[T num.Scalar[T]](poly []viewPoint[T], near T, out []viewPoint[T]) []viewPoint[T] {
	if len(poly) == 0 {
		return out
	}
	start := poly[len(poly)-1]
	for _, end := range poly {
		startInside := start.depth >= near
		endInside := end.depth >= near
		if endInside {
			if !startInside {
				out = append(out, intersectNear(start, end, near))
			}
			out = append(out, end)
		} else if startInside {
			out = append(out, intersectNear(start, end, near))
		}
		start = end
	}
	return out
}

func (Perspective[T]) screenX(view *ViewState[T], p viewPoint[T]) T {
	var zero T
	limit := zero.FromInt(MAX_SLOPE)
	slope := num.Clamp(p.lateral.Div(p.depth), -limit, limit)
	return slope.Mul(view.Focal)
}

func (pr Perspective[T]) ProjectBox(view *ViewState[T], box *bsp.BBox) (T, T) {
	one := num.One[T]()
	if view.InBox(box) {
		return -one, one
	}
	corners := [4]viewPoint[T]{
		toView(view, box[bsp.BOXLEFT], box[bsp.BOXTOP]),
		toView(view, box[bsp.BOXRIGHT], box[bsp.BOXTOP]),
		toView(view, box[bsp.BOXRIGHT], box[bsp.BOXBOTTOM]),
		toView(view, box[bsp.BOXLEFT], box[bsp.BOXBOTTOM]),
	}
	var storage [8]viewPoint[T]
	poly := clipNear(corners[:], view.Near, storage[:0])
	if len(poly) == 0 {
		var zero T
		return zero, zero
	}
	xMin := pr.screenX(view, poly[0])
	xMax := xMin
	for _, p := range poly[1:] {
		x := pr.screenX(view, p)
		xMin = min(xMin, x)
		xMax = max(xMax, x)
	}
	return xMin, xMax
}

func (pr Perspective[T]) ProjectSeg(view *ViewState[T], v1, v2 bsp.Vertex) (T, T, bool) {
	var zero T
	x1, y1 := zero.FromFixed(v1.X), zero.FromFixed(v1.Y)
	x2, y2 := zero.FromFixed(v2.X), zero.FromFixed(v2.Y)
	// the front of a seg is to its right, the viewer must be strictly there
	if num.Cross(x2-x1, y2-y1, view.X-x1, view.Y-y1) >= 0 {
		return zero, zero, false
	}
	a := toView(view, v1.X, v1.Y)
	b := toView(view, v2.X, v2.Y)
	aInside := a.depth >= view.Near
	bInside := b.depth >= view.Near
	switch {
	case !aInside && !bInside:
		return zero, zero, false
	case !aInside:
		a = intersectNear(a, b, view.Near)
	case !bInside:
		b = intersectNear(a, b, view.Near)
	}
	sa := pr.screenX(view, a)
	sb := pr.screenX(view, b)
	return min(sa, sb), max(sa, sb), true
}

// AngleProjector is the software renderer's way: silhouette corners are
// turned into view angles with the tantoangle table, clipped to the field of
// view, and then to screen positions through the fine tangent table. Fixed
// point only
type AngleProjector struct{}

var _ Projector[num.Fixed] = AngleProjector{}

// For each of the 9 positions of the viewer relative to a box (3 columns by
// 3 rows, row stride 4) the two box corners that make its silhouette, as
// {x1, y1, x2, y2} indices into the box. Position 5 is inside the box
var checkcoord = [12][4]int{
	{bsp.BOXRIGHT, bsp.BOXTOP, bsp.BOXLEFT, bsp.BOXBOTTOM},
	{bsp.BOXRIGHT, bsp.BOXTOP, bsp.BOXLEFT, bsp.BOXTOP},
	{bsp.BOXRIGHT, bsp.BOXBOTTOM, bsp.BOXLEFT, bsp.BOXTOP},
	{0, 0, 0, 0},
	{bsp.BOXLEFT, bsp.BOXTOP, bsp.BOXLEFT, bsp.BOXBOTTOM},
	{0, 0, 0, 0},
	{bsp.BOXRIGHT, bsp.BOXBOTTOM, bsp.BOXRIGHT, bsp.BOXTOP},
	{0, 0, 0, 0},
	{bsp.BOXLEFT, bsp.BOXTOP, bsp.BOXRIGHT, bsp.BOXBOTTOM},
	{bsp.BOXLEFT, bsp.BOXBOTTOM, bsp.BOXRIGHT, bsp.BOXBOTTOM},
	{bsp.BOXLEFT, bsp.BOXBOTTOM, bsp.BOXRIGHT, bsp.BOXTOP},
	{0, 0, 0, 0},
}

func (AngleProjector) ProjectBox(view *ViewState[num.Fixed], box *bsp.BBox) (num.Fixed, num.Fixed) {
	var boxx, boxy int
	if view.X <= box[bsp.BOXLEFT] {
		boxx = 0
	} else if view.X < box[bsp.BOXRIGHT] {
		boxx = 1
	} else {
		boxx = 2
	}
	if view.Y >= box[bsp.BOXTOP] {
		boxy = 0
	} else if view.Y > box[bsp.BOXBOTTOM] {
		boxy = 1
	} else {
		boxy = 2
	}
	boxpos := (boxy << 2) + boxx
	if boxpos == 5 {
		return -num.FRACUNIT, num.FRACUNIT
	}
	cc := &checkcoord[boxpos]
	angle1 := num.PointToAngle(box[cc[0]]-view.X, box[cc[1]]-view.Y) - view.Angle
	angle2 := num.PointToAngle(box[cc[2]]-view.X, box[cc[3]]-view.Y) - view.Angle
	span := angle1 - angle2
	// sitting on a line
	if span >= num.ANG180 {
		return -num.FRACUNIT, num.FRACUNIT
	}
	return clipAngles(view, angle1, angle2, span)
}

func (AngleProjector) ProjectSeg(view *ViewState[num.Fixed], v1, v2 bsp.Vertex) (num.Fixed, num.Fixed, bool) {
	angle1 := num.PointToAngle(v1.X-view.X, v1.Y-view.Y)
	angle2 := num.PointToAngle(v2.X-view.X, v2.Y-view.Y)
	span := angle1 - angle2
	// back side
	if span >= num.ANG180 {
		return 0, 0, false
	}
	xMin, xMax := clipAngles(view, angle1-view.Angle, angle2-view.Angle, span)
	return xMin, xMax, true
}

// clipAngles clips the view-relative angles of the left (angle1) and right
// (angle2) silhouette edges to the field of view and converts them to
// screen positions. Anything entirely outside comes back with zero width
func clipAngles(view *ViewState[num.Fixed], angle1, angle2, span num.Angle) (num.Fixed, num.Fixed) {
	clipangle := view.ClipAngle
	tspan := angle1 + clipangle
	if tspan > 2*clipangle {
		tspan -= 2 * clipangle
		// totally off the left edge
		if tspan >= span {
			return 0, 0
		}
		angle1 = clipangle
	}
	tspan = clipangle - angle2
	if tspan > 2*clipangle {
		tspan -= 2 * clipangle
		// totally off the right edge
		if tspan >= span {
			return 0, 0
		}
		angle2 = -clipangle
	}
	return angleToScreen(view, angle1), angleToScreen(view, angle2)
}

// Positive angles are to the left, same as in the map
func angleToScreen(view *ViewState[num.Fixed], a num.Angle) num.Fixed {
	if a == view.ClipAngle {
		return -num.FRACUNIT
	}
	if a == -view.ClipAngle {
		return num.FRACUNIT
	}
	return -num.FineTangent(a).Mul(view.Focal)
}
