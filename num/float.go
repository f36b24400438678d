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

// Float is what the hardware-accelerated path computes with. Unlike Fixed it
// has no saturation: dividing by zero yields infinities, callers clamp
type Float float64

func (a Float) Mul(b Float) Float {
	return a * b
}

func (a Float) Div(b Float) Float {
	return a / b
}

func (a Float) CrossSign(ay, bx, by Float) int {
	v := a*by - ay*bx
	if v < 0 {
		return -1
	} else if v > 0 {
		return 1
	}
	return 0
}

// On Float, the receiver is ignored by these three as well
func (Float) FromInt(i int) Float {
	return Float(i)
}

func (Float) FromFixed(f Fixed) Float {
	return Float(f.Float())
}

func (Float) FromFloat(f float64) Float {
	return Float(f)
}

func (a Float) Float() float64 {
	return float64(a)
}
