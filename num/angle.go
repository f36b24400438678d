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

// angle
package num

import (
	"math"
)

// Angle is a binary angle measurement: the whole circle is 2^32, so
// arithmetic wraps around for free. 0 points east, angles grow
// counterclockwise
type Angle uint32

const (
	ANG45  = Angle(0x20000000)
	ANG90  = Angle(0x40000000)
	ANG180 = Angle(0x80000000)
	ANG270 = Angle(0xc0000000)
)

const FINEANGLES = 8192
const FINEMASK = FINEANGLES - 1
const ANGLETOFINESHIFT = 19 // 0x100000000 to 0x2000

const SLOPERANGE = 2048
const SLOPEBITS = 11

const bamTurn = 4294967296.0

// tantoangle maps a slope (scaled by SLOPERANGE) in the first octant to its
// angle
var tantoangle [SLOPERANGE + 1]Angle

// fineTangent covers -90..+90 degrees in FINEANGLES/2 steps, sampled at the
// middle of each step so it never hits the asymptote
var fineTangent [FINEANGLES / 2]Fixed

func init() {
	for i := range tantoangle {
		a := math.Atan(float64(i) / SLOPERANGE)
		tantoangle[i] = Angle(uint32(a / (2 * math.Pi) * bamTurn))
	}
	for i := range fineTangent {
		a := (float64(i) - FINEANGLES/4 + 0.5) * math.Pi * 2 / FINEANGLES
		fineTangent[i] = Fixed(0).FromFloat(math.Tan(a))
	}
}

func FromDegrees(d float64) Angle {
	turns := d / 360
	turns -= math.Floor(turns)
	return Angle(uint32(uint64(turns * bamTurn)))
}

func (a Angle) Degrees() float64 {
	return float64(a) * 360 / bamTurn
}

func (a Angle) Radians() float64 {
	return float64(a) * 2 * math.Pi / bamTurn
}

// Signed reinterprets the angle as lying in [-180, 180) degrees. Useful for
// relative angles and for taking the shortest way around
func (a Angle) Signed() int32 {
	return int32(a)
}

// FineTangent expects a relative angle in [-90, 90) degrees, anything
// beyond is clamped to the ends of the table
func FineTangent(a Angle) Fixed {
	idx := uint32(a+ANG90) >> ANGLETOFINESHIFT
	if idx >= FINEANGLES/2 {
		if a.Signed() < 0 {
			idx = 0
		} else {
			idx = FINEANGLES/2 - 1
		}
	}
	return fineTangent[idx]
}

// SlopeDiv is capped at SLOPERANGE; the vanilla overflow on large numerators
// is avoided by doing it in 64 bits
func SlopeDiv(num, den uint32) uint32 {
	if den < 512 {
		return SLOPERANGE
	}
	ans := (uint64(num) << 3) / uint64(den>>8)
	if ans <= SLOPERANGE {
		return uint32(ans)
	}
	return SLOPERANGE
}

// PointToAngle returns the angle of the vector (x, y), by octant, the way
// the software renderer does it. (0, 0) gives 0
func PointToAngle(x, y Fixed) Angle {
	if x == 0 && y == 0 {
		return 0
	}
	// magnitudes as unsigned so that -MINFIXED does not overflow
	ux, uy := uint32(x), uint32(y)
	if x < 0 {
		ux = uint32(-int64(x))
	}
	if y < 0 {
		uy = uint32(-int64(y))
	}
	if x >= 0 {
		if y >= 0 {
			if ux > uy {
				// octant 0
				return tantoangle[SlopeDiv(uy, ux)]
			}
			// octant 1
			return ANG90 - 1 - tantoangle[SlopeDiv(ux, uy)]
		}
		if ux > uy {
			// octant 8
			return -tantoangle[SlopeDiv(uy, ux)]
		}
		// octant 7
		return ANG270 + tantoangle[SlopeDiv(ux, uy)]
	}
	if y >= 0 {
		if ux > uy {
			// octant 3
			return ANG180 - 1 - tantoangle[SlopeDiv(uy, ux)]
		}
		// octant 2
		return ANG90 + tantoangle[SlopeDiv(ux, uy)]
	}
	if ux > uy {
		// octant 4
		return ANG180 + tantoangle[SlopeDiv(uy, ux)]
	}
	// octant 5
	return ANG270 - 1 - tantoangle[SlopeDiv(ux, uy)]
}
