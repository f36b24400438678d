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
	"github.com/vigilantdoomer/vigilantvis/internal/vlog"
	"github.com/vigilantdoomer/vigilantvis/num"
	"github.com/vigilantdoomer/vigilantvis/wad"
)

// FromLevel converts a loaded level into a Tree and validates it
func FromLevel(lvl *wad.Level) (*Tree, error) {
	t := &Tree{Name: lvl.Name}

	t.Vertices = make([]Vertex, len(lvl.Vertices))
	for i, v := range lvl.Vertices {
		t.Vertices[i] = Vertex{X: mapUnits(v.XPos), Y: mapUnits(v.YPos)}
	}

	t.Sectors = make([]Sector, len(lvl.Sectors))
	for i, s := range lvl.Sectors {
		t.Sectors[i] = Sector{
			FloorHeight: mapUnits(s.FloorHeight),
			CeilHeight:  mapUnits(s.CeilHeight),
			FloorPic:    lumpString(s.FloorName),
			CeilPic:     lumpString(s.CeilName),
			LightLevel:  s.LightLevel,
			Special:     s.Special,
			Tag:         s.Tag,
		}
	}

	t.Sides = make([]Side, len(lvl.Sidedefs))
	for i, sd := range lvl.Sidedefs {
		t.Sides[i] = Side{
			XOffset: mapUnits(sd.XOffset),
			YOffset: mapUnits(sd.YOffset),
			Top:     lumpString(sd.UpName),
			Bottom:  lumpString(sd.LoName),
			Mid:     lumpString(sd.MidName),
			Sector:  uint32(sd.Sector),
		}
	}

	t.Lines = make([]Line, len(lvl.Linedefs))
	for i, ld := range lvl.Linedefs {
		t.Lines[i] = Line{
			V1:      uint32(ld.StartVertex),
			V2:      uint32(ld.EndVertex),
			Flags:   ld.Flags,
			Special: ld.Action,
			Tag:     ld.Tag,
			Sides:   [2]int32{sideRef(ld.FrontSdef), sideRef(ld.BackSdef)},
		}
	}

	t.Segs = make([]Seg, len(lvl.Segs))
	for i, sg := range lvl.Segs {
		if int(sg.StartVertex) >= len(t.Vertices) || int(sg.EndVertex) >= len(t.Vertices) {
			return nil, errors.New("seg refers to a missing vertex").
				WithType(ErrTypeBadReference).
				WithTag("level", lvl.Name).
				WithTag("seg", i)
		}
		if int(sg.Linedef) >= len(t.Lines) {
			return nil, errors.New("seg refers to a missing linedef").
				WithType(ErrTypeBadReference).
				WithTag("level", lvl.Name).
				WithTag("seg", i)
		}
		seg := Seg{
			V1:          t.Vertices[sg.StartVertex],
			V2:          t.Vertices[sg.EndVertex],
			Angle:       num.Angle(uint32(int32(sg.Angle) << 16)),
			Offset:      mapUnits(int16(sg.Offset)),
			Line:        uint32(sg.Linedef),
			FrontSector: -1,
			BackSector:  -1,
		}
		if sg.Flip != 0 {
			seg.Side = 1
		}
		line := &t.Lines[seg.Line]
		seg.FrontSector = t.sideSector(line.Sides[seg.Side])
		// same as the engine: without the two-sided flag there is no back
		// sector even if the line has a second sidedef
		if line.Flags&wad.LF_TWOSIDED != 0 {
			seg.BackSector = t.sideSector(line.Sides[seg.Side^1])
		}
		t.Segs[i] = seg
	}

	t.Subsectors = make([]Subsector, len(lvl.SubSectors))
	for i, ss := range lvl.SubSectors {
		sub := Subsector{FirstSeg: ss.FirstSeg, NumSegs: uint32(ss.SegCount), Sector: -1}
		if sub.NumSegs > 0 && int(sub.FirstSeg) < len(t.Segs) {
			sub.Sector = t.Segs[sub.FirstSeg].FrontSector
		}
		t.Subsectors[i] = sub
	}

	t.Nodes = make([]Node, len(lvl.Nodes))
	for i, nd := range lvl.Nodes {
		t.Nodes[i] = Node{
			X:  mapUnits(nd.X),
			Y:  mapUnits(nd.Y),
			Dx: mapUnits(nd.Dx),
			Dy: mapUnits(nd.Dy),
			BBox: [2]BBox{
				convertBox(nd.Rbox),
				convertBox(nd.Lbox),
			},
			Children: [2]Child{Child(uint32(nd.RChild)), Child(uint32(nd.LChild))},
		}
	}

	t.Things = make([]Thing, len(lvl.Things))
	for i, th := range lvl.Things {
		t.Things[i] = Thing{
			X:     mapUnits(th.XPos),
			Y:     mapUnits(th.YPos),
			Angle: num.FromDegrees(float64(th.Angle)),
			Type:  th.Type,
			Flags: th.Flags,
		}
	}

	err := Validate(t)
	if err != nil {
		return nil, errors.New("level failed validation").
			WithType(errors.Type(err)).
			WithTag("level", lvl.Name).
			Wrap(err)
	}
	vlog.Log.Verbose(1, "Level %s: tree of %d nodes and %d subsectors is valid.\n",
		lvl.Name, len(t.Nodes), len(t.Subsectors))
	return t, nil
}

func mapUnits(v int16) num.Fixed {
	return num.Fixed(int32(v) << num.FRACBITS)
}

func convertBox(b [4]int16) BBox {
	return BBox{
		BOXTOP:    mapUnits(b[wad.BB_TOP]),
		BOXBOTTOM: mapUnits(b[wad.BB_BOTTOM]),
		BOXLEFT:   mapUnits(b[wad.BB_LEFT]),
		BOXRIGHT:  mapUnits(b[wad.BB_RIGHT]),
	}
}

func sideRef(sdef uint16) int32 {
	if sdef == wad.SIDEDEF_NONE {
		return -1
	}
	return int32(sdef)
}

// sideSector tolerates bad references, Validate reports them
func (t *Tree) sideSector(side int32) int32 {
	if side < 0 || int(side) >= len(t.Sides) {
		return -1
	}
	return int32(t.Sides[side].Sector)
}

func lumpString(name [8]byte) string {
	return string(wad.ByteSliceBeforeTerm(name[:]))
}
