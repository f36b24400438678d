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

package num

// Scalar is satisfied by Fixed and Float. Addition, subtraction and
// comparisons are plain operators on both; multiplication and division are
// methods because fixed point needs rescaling there. Code written against
// Scalar must not convert non-zero constants with T(c): on Fixed that is a
// raw value, not c. Use FromInt/FromFloat on a zero value instead.
type Scalar[T any] interface {
	~int32 | ~float64
	Mul(T) T
	Div(T) T
	CrossSign(ay, bx, by T) int
	FromInt(int) T
	FromFixed(Fixed) T
	FromFloat(float64) T
	Float() float64
}

// Cross returns the sign of the 2-D cross product (ax, ay) x (bx, by)
func Cross[T Scalar[T]](ax, ay, bx, by T) int {
	return ax.CrossSign(ay, bx, by)
}

// Clamp does not touch NaN, so a NaN stays NaN and fails every comparison
// downstream
func Clamp[T Scalar[T]](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Abs[T Scalar[T]](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

func One[T Scalar[T]]() T {
	var zero T
	return zero.FromInt(1)
}

func FromFixed[T Scalar[T]](f Fixed) T {
	var zero T
	return zero.FromFixed(f)
}

func FromFloat[T Scalar[T]](f float64) T {
	var zero T
	return zero.FromFloat(f)
}
