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
)

// SolidPolicy decides whether a seg hides everything behind it over its
// whole screen extent. Only segs it accepts add to the occlusion set
type SolidPolicy func(tree *bsp.Tree, seg uint32) bool

// DoomSolid follows the engine: one-sided walls are solid, and so are
// two-sided lines whose opening is closed, like a shut door
func DoomSolid(tree *bsp.Tree, seg uint32) bool {
	sg := &tree.Segs[seg]
	if sg.OneSided() {
		return true
	}
	if sg.FrontSector < 0 {
		return false
	}
	front := &tree.Sectors[sg.FrontSector]
	back := &tree.Sectors[sg.BackSector]
	return back.CeilHeight <= front.FloorHeight || back.FloorHeight >= front.CeilHeight
}

func OneSidedSolid(tree *bsp.Tree, seg uint32) bool {
	return tree.Segs[seg].OneSided()
}

// NeverSolid turns occlusion off, only the field of view culls
func NeverSolid(tree *bsp.Tree, seg uint32) bool {
	return false
}

// SolidPolicyByName is for configuration: "doom", "onesided" and "never"
func SolidPolicyByName(name string) (SolidPolicy, bool) {
	switch name {
	case "doom":
		return DoomSolid, true
	case "onesided":
		return OneSidedSolid, true
	case "never":
		return NeverSolid, true
	}
	return nil, false
}
