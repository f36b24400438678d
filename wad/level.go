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

package wad

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/vigilantdoomer/vigilantvis/internal/vlog"
)

// Level holds the lumps the renderer needs. Hexen things and linedefs are
// converted to Doom layout, vanilla segs, subsectors and nodes are widened
// to the DeePBSP layout, so consumers deal with one shape only
type Level struct {
	Name      string
	Format    int // FORMAT_DOOM or FORMAT_HEXEN
	DeepNodes bool

	Things     []Thing
	Linedefs   []Linedef
	Sidedefs   []Sidedef
	Vertices   []Vertex
	Segs       []DeepSeg
	SubSectors []DeepSubSector
	Nodes      []DeepNode
	Sectors    []Sector
}

func (f *File) LoadLevel(name string) (*Level, error) {
	marker := -1
	for i := range f.Dir {
		if f.LumpName(i) == name && isLevelMarker(f, i) {
			marker = i
			break
		}
	}
	if marker == -1 {
		return nil, errors.New("level not found").
			WithType(ErrTypeNoSuchLevel).
			WithTag("level", name)
	}

	lumps := f.levelLumps(marker)
	for _, must := range LUMP_MUSTEXIST {
		if _, ok := lumps[must]; !ok {
			return nil, errors.New("level is missing a lump").
				WithType(ErrTypeMissingLump).
				WithTag("level", name).
				WithTag("lump", must)
		}
	}

	l := &Level{Name: name, Format: FORMAT_DOOM}
	if _, ok := lumps["BEHAVIOR"]; ok {
		l.Format = FORMAT_HEXEN
		vlog.Log.Verbose(1, "Level %s is in Hexen format.\n", name)
	}

	var err error
	if l.Format == FORMAT_HEXEN {
		var hexenThings []HexenThing
		hexenThings, err = readRecords[HexenThing](f, lumps["THINGS"], HEXEN_THING_SIZE, 0)
		if err != nil {
			return nil, levelError(err, name)
		}
		l.Things = make([]Thing, len(hexenThings))
		for i, ht := range hexenThings {
			l.Things[i] = Thing{
				XPos:  ht.XPos,
				YPos:  ht.YPos,
				Angle: ht.Angle,
				Type:  ht.Type,
				Flags: ht.Flags,
			}
		}
		var hexenLinedefs []HexenLinedef
		hexenLinedefs, err = readRecords[HexenLinedef](f, lumps["LINEDEFS"], HEXEN_LINEDEF_SIZE, 0)
		if err != nil {
			return nil, levelError(err, name)
		}
		l.Linedefs = make([]Linedef, len(hexenLinedefs))
		for i, hl := range hexenLinedefs {
			l.Linedefs[i] = Linedef{
				StartVertex: hl.StartVertex,
				EndVertex:   hl.EndVertex,
				Flags:       hl.Flags,
				Action:      uint16(hl.Action),
				Tag:         uint16(hl.Arg1),
				FrontSdef:   hl.FrontSdef,
				BackSdef:    hl.BackSdef,
			}
		}
	} else {
		l.Things, err = readRecords[Thing](f, lumps["THINGS"], DOOM_THING_SIZE, 0)
		if err != nil {
			return nil, levelError(err, name)
		}
		l.Linedefs, err = readRecords[Linedef](f, lumps["LINEDEFS"], DOOM_LINEDEF_SIZE, 0)
		if err != nil {
			return nil, levelError(err, name)
		}
	}

	l.Sidedefs, err = readRecords[Sidedef](f, lumps["SIDEDEFS"], DOOM_SIDEDEF_SIZE, 0)
	if err != nil {
		return nil, levelError(err, name)
	}
	l.Vertices, err = readRecords[Vertex](f, lumps["VERTEXES"], DOOM_VERTEX_SIZE, 0)
	if err != nil {
		return nil, levelError(err, name)
	}
	l.Sectors, err = readRecords[Sector](f, lumps["SECTORS"], DOOM_SECTOR_SIZE, 0)
	if err != nil {
		return nil, levelError(err, name)
	}

	err = l.readNodes(f, lumps)
	if err != nil {
		return nil, levelError(err, name)
	}
	vlog.Log.Verbose(1, "Level %s: %d nodes, %d subsectors, %d segs (deep nodes: %t)\n",
		name, len(l.Nodes), len(l.SubSectors), len(l.Segs), l.DeepNodes)
	return l, nil
}

func levelError(err error, name string) error {
	return errors.New("could not load level").
		WithType(errors.Type(err)).
		WithTag("level", name).
		Wrap(err)
}

// Node lumps come in flavours: the signature at the start of NODES tells
// which
func (l *Level) readNodes(f *File, lumps map[string]int) error {
	nodesIdx := lumps["NODES"]
	var sig [8]byte
	n, _ := f.LumpReader(nodesIdx).ReadAt(sig[:], 0)
	if n >= 4 && (bytes.Equal(sig[:4], ZNODES_PLAIN_SIG[:]) ||
		bytes.Equal(sig[:4], ZNODES_COMPRESSED_SIG[:])) {
		return errors.New("zdoom extended nodes are not supported").
			WithType(ErrTypeUnsupportedNodes).
			WithTag("lump", "NODES").
			WithTag("signature", string(sig[:4]))
	}
	if n == len(sig) && sig == DEEPNODES_SIG {
		l.DeepNodes = true
		vlog.Log.Verbose(1, "Level %s has DeePBSP nodes.\n", l.Name)
	}

	var err error
	if l.DeepNodes {
		l.Nodes, err = readRecords[DeepNode](f, nodesIdx, DEEP_NODE_SIZE, len(DEEPNODES_SIG))
		if err != nil {
			return err
		}
		l.SubSectors, err = readRecords[DeepSubSector](f, lumps["SSECTORS"], DEEP_SUBSECTOR_SIZE, 0)
		if err != nil {
			return err
		}
		l.Segs, err = readRecords[DeepSeg](f, lumps["SEGS"], DEEP_SEG_SIZE, 0)
		return err
	}

	nodes, err := readRecords[Node](f, nodesIdx, DOOM_NODE_SIZE, 0)
	if err != nil {
		return err
	}
	l.Nodes = make([]DeepNode, len(nodes))
	for i, nd := range nodes {
		l.Nodes[i] = DeepNode{
			X:      nd.X,
			Y:      nd.Y,
			Dx:     nd.Dx,
			Dy:     nd.Dy,
			Rbox:   nd.Rbox,
			Lbox:   nd.Lbox,
			RChild: widenChild(nd.RChild),
			LChild: widenChild(nd.LChild),
		}
	}
	subsectors, err := readRecords[SubSector](f, lumps["SSECTORS"], DOOM_SUBSECTOR_SIZE, 0)
	if err != nil {
		return err
	}
	l.SubSectors = make([]DeepSubSector, len(subsectors))
	for i, ss := range subsectors {
		l.SubSectors[i] = DeepSubSector{
			SegCount: ss.SegCount,
			FirstSeg: uint32(ss.FirstSeg),
		}
	}
	segs, err := readRecords[Seg](f, lumps["SEGS"], DOOM_SEG_SIZE, 0)
	if err != nil {
		return err
	}
	l.Segs = make([]DeepSeg, len(segs))
	for i, sg := range segs {
		l.Segs[i] = DeepSeg{
			StartVertex: uint32(sg.StartVertex),
			EndVertex:   uint32(sg.EndVertex),
			Angle:       sg.Angle,
			Linedef:     sg.Linedef,
			Flip:        sg.Flip,
			Offset:      sg.Offset,
		}
	}
	return nil
}

// widenChild moves the subsector bit from bit 15 to bit 31
func widenChild(c int16) int32 {
	u := uint16(c)
	if u&SSECTOR_NORMAL_MASK != 0 {
		return int32(uint32(u&^SSECTOR_NORMAL_MASK) | SSECTOR_DEEP_MASK)
	}
	return int32(u)
}

// readRecords decodes a lump as an array of fixed size little-endian
// records, skipping skip bytes of signature first
func readRecords[R any](f *File, idx int, recSize int, skip int) ([]R, error) {
	size := int(f.Dir[idx].Size) - skip
	if size < 0 || size%recSize != 0 {
		return nil, errors.New("lump size is not a multiple of its record size").
			WithType(ErrTypeBadLumpSize).
			WithTag("lump", f.LumpName(idx)).
			WithTag("size", f.Dir[idx].Size).
			WithTag("record_size", recSize)
	}
	recs := make([]R, size/recSize)
	if len(recs) == 0 {
		return recs, nil
	}
	r := io.NewSectionReader(f.LumpReader(idx), int64(skip), int64(size))
	err := binary.Read(r, binary.LittleEndian, recs)
	if err != nil {
		return nil, errors.New("could not decode lump").
			WithTag("lump", f.LumpName(idx)).
			Wrap(err)
	}
	return recs, nil
}
