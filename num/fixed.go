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

// Package num holds the two numeric representations the renderer works
// with: 16.16 fixed point used by the software path and float64 used by the
// hardware path, together with binary angles and the lookup tables that go
// with them.
package num

import (
	"math"
	"strconv"
)

const FRACBITS = 16
const FRACUNIT = Fixed(1 << FRACBITS)

const FIXED16DOT16_MULTIPLIER = 65536.0

const (
	MAXFIXED = Fixed(math.MaxInt32)
	MINFIXED = Fixed(math.MinInt32)
)

// Fixed is a 16.16 two's complement fixed-point number: 16 bits of integral
// part, 16 bits of fraction
type Fixed int32

// FixedMul is the vanilla multiplication, the intermediate product is 64 bit
// so only the result can overflow
func FixedMul(a, b Fixed) Fixed {
	return Fixed((int64(a) * int64(b)) >> FRACBITS)
}

// FixedDiv saturates instead of overflowing, same as vanilla. Division by
// zero saturates too
func FixedDiv(a, b Fixed) Fixed {
	if (abs64(int64(a)) >> 14) >= abs64(int64(b)) {
		if (a ^ b) < 0 {
			return MINFIXED
		}
		return MAXFIXED
	}
	return Fixed((int64(a) << FRACBITS) / int64(b))
}

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

func (a Fixed) Mul(b Fixed) Fixed {
	return FixedMul(a, b)
}

func (a Fixed) Div(b Fixed) Fixed {
	return FixedDiv(a, b)
}

// CrossSign returns the sign of a*by - ay*bx, where a is the receiver. The
// products are computed in 64 bits and never overflow
func (a Fixed) CrossSign(ay, bx, by Fixed) int {
	v := int64(a)*int64(by) - int64(ay)*int64(bx)
	if v < 0 {
		return -1
	} else if v > 0 {
		return 1
	}
	return 0
}

// The value of the receiver is ignored by FromInt, FromFixed and FromFloat.
// They exist so that generic code can construct its values from a zero
// value of whatever type it was instantiated with.

func (Fixed) FromInt(i int) Fixed {
	return Fixed(int32(i) << FRACBITS)
}

func (Fixed) FromFixed(f Fixed) Fixed {
	return f
}

// FromFloat rounds to the nearest representable value and clamps what does
// not fit
func (Fixed) FromFloat(f float64) Fixed {
	v := math.Round(f * FIXED16DOT16_MULTIPLIER)
	if v >= math.MaxInt32 {
		return MAXFIXED
	}
	if v <= math.MinInt32 {
		return MINFIXED
	}
	if math.IsNaN(v) {
		return 0
	}
	return Fixed(v)
}

func (a Fixed) Float() float64 {
	return float64(a) / FIXED16DOT16_MULTIPLIER
}

// Int drops the fractional part, rounding toward negative infinity like an
// arithmetic shift does
func (a Fixed) Int() int {
	return int(a >> FRACBITS)
}

func (a Fixed) String() string {
	return strconv.FormatFloat(a.Float(), 'f', -1, 64)
}
