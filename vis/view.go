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
	"math"

	"github.com/vigilantdoomer/vigilantvis/bsp"
	"github.com/vigilantdoomer/vigilantvis/num"
)

// Field of view is kept within these, outside of them the focal length
// degenerates
const (
	MIN_FOV_DEGREES = 1
	MAX_FOV_DEGREES = 170
)

// Near plane distance in map units
const NEAR_PLANE = 1.0 / 16

// ViewState is the camera of one frame. Everything derived from position and
// angle is computed once in NewViewState, traversal only reads it
type ViewState[T num.Scalar[T]] struct {
	X, Y  T
	Angle num.Angle
	FOV   num.Angle

	Cos, Sin T
	Focal    T // 1/tan(FOV/2): slope at the screen edge maps to 1
	Near     T
	// half of FOV as a binary angle, used by AngleProjector
	ClipAngle num.Angle
}

func NewViewState[T num.Scalar[T]](x, y T, angle num.Angle, fov num.Angle) ViewState[T] {
	var zero T
	fovDeg := min(max(fov.Degrees(), MIN_FOV_DEGREES), MAX_FOV_DEGREES)
	fov = num.FromDegrees(fovDeg)
	rad := angle.Radians()
	return ViewState[T]{
		X:         x,
		Y:         y,
		Angle:     angle,
		FOV:       fov,
		Cos:       zero.FromFloat(math.Cos(rad)),
		Sin:       zero.FromFloat(math.Sin(rad)),
		Focal:     zero.FromFloat(1 / math.Tan(fovDeg*math.Pi/360)),
		Near:      zero.FromFloat(NEAR_PLANE),
		ClipAngle: fov / 2,
	}
}

func (v *ViewState[T]) PointOnSide(node *bsp.Node) int {
	return bsp.PointOnSide(node, v.X, v.Y)
}

// InBox includes the edges of the box
func (v *ViewState[T]) InBox(box *bsp.BBox) bool {
	var zero T
	return v.X >= zero.FromFixed(box[bsp.BOXLEFT]) &&
		v.X <= zero.FromFixed(box[bsp.BOXRIGHT]) &&
		v.Y >= zero.FromFixed(box[bsp.BOXBOTTOM]) &&
		v.Y <= zero.FromFixed(box[bsp.BOXTOP])
}

// Interpolate builds the view in between two simulation tics. Position is
// interpolated linearly, angle along the shorter arc
func Interpolate[T num.Scalar[T]](prev, cur *ViewState[T], frac float64) ViewState[T] {
	if math.IsNaN(frac) || frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	var zero T
	f := zero.FromFloat(frac)
	x := prev.X + (cur.X - prev.X).Mul(f)
	y := prev.Y + (cur.Y - prev.Y).Mul(f)
	angle := prev.Angle + num.Angle(int32(math.Round(float64((cur.Angle-prev.Angle).Signed())*frac)))
	fov := prev.FOV + num.Angle(int32(math.Round(float64((cur.FOV-prev.FOV).Signed())*frac)))
	return NewViewState(x, y, angle, fov)
}
