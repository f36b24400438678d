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
	"fmt"
)

// FrameStats counts what one Render did
type FrameStats struct {
	NodesVisited      int `json:"nodes_visited"`
	Rejected          int `json:"rejected"` // children culled by their bounding box
	SubsectorsEmitted int `json:"subsectors_emitted"`
	SegsOccluded      int `json:"segs_occluded"` // solid segs that reached the occlusion set
	MaxDepth          int `json:"max_depth"`     // root is depth 0
	Ranges            int `json:"ranges"`        // occlusion ranges at the end of the frame
}

func (s *FrameStats) reach(depth int) {
	s.MaxDepth = max(s.MaxDepth, depth)
}

// Add accumulates counters of another frame. MaxDepth and Ranges keep the
// maximum
func (s *FrameStats) Add(o FrameStats) {
	s.NodesVisited += o.NodesVisited
	s.Rejected += o.Rejected
	s.SubsectorsEmitted += o.SubsectorsEmitted
	s.SegsOccluded += o.SegsOccluded
	s.MaxDepth = max(s.MaxDepth, o.MaxDepth)
	s.Ranges = max(s.Ranges, o.Ranges)
}

func (s FrameStats) String() string {
	return fmt.Sprintf("nodes visited %d, rejected %d, subsectors %d, solid segs %d, max depth %d, ranges %d",
		s.NodesVisited, s.Rejected, s.SubsectorsEmitted, s.SegsOccluded, s.MaxDepth, s.Ranges)
}
