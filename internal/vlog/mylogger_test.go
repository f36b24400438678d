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

package vlog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessage(t *testing.T) {
	require.Equal(t, "loaded 3 levels", message("loaded %d levels\n", 3))
	require.Equal(t, "a\n b", message("a\n b\n\n"))
}

func TestVerbosity(t *testing.T) {
	log := CreateLogger("test")
	require.Equal(t, 0, log.Verbosity())
	log.SetVerbosity(2)
	require.Equal(t, 2, log.Verbosity())
	// below and above the threshold, neither may fail
	log.Verbose(1, "shown %d\n", 1)
	log.Verbose(3, "hidden %d\n", 3)
}

func TestPanic(t *testing.T) {
	require.PanicsWithValue(t, "broken invariant at node 7", func() {
		Log.Panic("broken invariant at node %d\n", 7)
	})
}
