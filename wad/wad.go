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

// Package wad reads levels out of Doom-engine wad files. It never writes
// them.
package wad

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

// Error types, to be checked with errors.IsType
const (
	ErrTypeBadWad           = "bad_wad"
	ErrTypeMissingLump      = "missing_lump"
	ErrTypeBadLumpSize      = "bad_lump_size"
	ErrTypeUnsupportedNodes = "unsupported_nodes"
	ErrTypeNoSuchLevel      = "no_such_level"
)

// Lumps that may follow a level marker, in the order they are normally
// written. Anything else ends the level
var LUMP_SORT_ORDER = []string{"THINGS", "LINEDEFS", "SIDEDEFS", "VERTEXES", "SEGS", "SSECTORS", "NODES", "SECTORS", "REJECT", "BLOCKMAP", "BEHAVIOR", "SCRIPTS"}

// The renderer can't do without any of these. Vanilla nodes are part of the
// list: unlike the nodebuilder we are not going to create them
var LUMP_MUSTEXIST = []string{"THINGS", "LINEDEFS", "SIDEDEFS", "VERTEXES", "SEGS", "SSECTORS", "NODES", "SECTORS"}

type File struct {
	Header WadHeader
	Dir    []LumpEntry
	r      io.ReaderAt
	size   int64
	closer io.Closer
}

// Open reads the directory of a wad file on disk. The file stays open until
// Close is called
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New("could not open wad").
			WithTag("file_name", path).
			Wrap(err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.New("could not stat wad").
			WithTag("file_name", path).
			Wrap(err)
	}
	wf, err := read(f, fi.Size())
	if err != nil {
		f.Close()
		return nil, errors.New("could not read wad").
			WithTag("file_name", path).
			Wrap(err)
	}
	wf.closer = f
	return wf, nil
}

// Read reads the directory of a wad held by anything that supports ReadAt.
// If r also has a Size() int64 method (bytes.Reader, io.SectionReader), lump
// bounds are checked against it
func Read(r io.ReaderAt) (*File, error) {
	size := int64(-1)
	if sz, ok := r.(interface{ Size() int64 }); ok {
		size = sz.Size()
	}
	return read(r, size)
}

func read(r io.ReaderAt, size int64) (*File, error) {
	wf := &File{r: r, size: size}
	err := binary.Read(io.NewSectionReader(r, 0, WAD_HEADER_SIZE),
		binary.LittleEndian, &wf.Header)
	if err != nil {
		return nil, errors.New("wad header is truncated").
			WithType(ErrTypeBadWad).
			Wrap(err)
	}
	if wf.Header.MagicSig != IWAD_MAGIC_SIG && wf.Header.MagicSig != PWAD_MAGIC_SIG {
		return nil, errors.Newf("bad wad signature %08X", wf.Header.MagicSig).
			WithType(ErrTypeBadWad)
	}
	dirSize := int64(wf.Header.LumpCount) * LUMP_ENTRY_SIZE
	if size >= 0 && int64(wf.Header.DirectoryStart)+dirSize > size {
		return nil, errors.New("wad directory points past the end of file").
			WithType(ErrTypeBadWad).
			WithTag("directory_start", wf.Header.DirectoryStart).
			WithTag("lump_count", wf.Header.LumpCount)
	}
	wf.Dir = make([]LumpEntry, wf.Header.LumpCount)
	err = binary.Read(io.NewSectionReader(r, int64(wf.Header.DirectoryStart), dirSize),
		binary.LittleEndian, wf.Dir)
	if err != nil {
		return nil, errors.New("wad directory is truncated").
			WithType(ErrTypeBadWad).
			Wrap(err)
	}
	if size >= 0 {
		for i, le := range wf.Dir {
			if int64(le.FilePos)+int64(le.Size) > size {
				return nil, errors.New("lump points past the end of file").
					WithType(ErrTypeBadWad).
					WithTag("lump", wf.LumpName(i)).
					WithTag("index", i)
			}
		}
	}
	return wf, nil
}

func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

func (f *File) LumpName(idx int) string {
	return strings.ToUpper(string(ByteSliceBeforeTerm(f.Dir[idx].Name[:])))
}

// LumpReader gives a reader for lump contents, no data is read until asked
func (f *File) LumpReader(idx int) *io.SectionReader {
	le := f.Dir[idx]
	return io.NewSectionReader(f.r, int64(le.FilePos), int64(le.Size))
}

func (f *File) ReadLump(idx int) ([]byte, error) {
	data := make([]byte, f.Dir[idx].Size)
	_, err := io.ReadFull(f.LumpReader(idx), data)
	if err != nil {
		return nil, errors.New("could not read lump").
			WithTag("lump", f.LumpName(idx)).
			Wrap(err)
	}
	return data, nil
}

// LevelNames lists the levels of the wad in directory order. A level is a
// marker named like MAPxx or ExMy followed by a THINGS lump
func (f *File) LevelNames() []string {
	var res []string
	for i := 0; i+1 < len(f.Dir); i++ {
		if isLevelMarker(f, i) {
			res = append(res, f.LumpName(i))
		}
	}
	return res
}

func isLevelMarker(f *File, idx int) bool {
	if idx+1 >= len(f.Dir) || f.LumpName(idx+1) != "THINGS" {
		return false
	}
	name := ByteSliceBeforeTerm(f.Dir[idx].Name[:])
	name = bytes.ToUpper(name)
	return MAP_SEQUEL.Match(name) || MAP_ExMx.Match(name)
}

// levelLumps maps lump names of the level with the given marker to their
// directory index. The last duplicate wins, same as in the engine
func (f *File) levelLumps(marker int) map[string]int {
	lumps := make(map[string]int)
	for i := marker + 1; i < len(f.Dir); i++ {
		name := f.LumpName(i)
		if !isLevelLump(name) {
			break
		}
		lumps[name] = i
	}
	return lumps
}

func isLevelLump(name string) bool {
	for _, s := range LUMP_SORT_ORDER {
		if s == name {
			return true
		}
	}
	return false
}

// ByteSliceBeforeTerm returns a part of the original bytes
// excluding everything that starts with zero-byte character.
// This allows string operations (such as pattern matching) to be performed
// correctly on returned value
func ByteSliceBeforeTerm(b []byte) []byte {
	i := bytes.IndexByte(b, 0)
	if i == -1 {
		return b
	} else {
		return b[:i]
	}
}
