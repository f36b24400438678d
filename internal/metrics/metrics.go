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

// Package metrics counts what the traversal does across frames, in
// Prometheus form, for benchmark runs
package metrics

import (
	"io"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
	"github.com/vigilantdoomer/vigilantvis/vis"
)

const (
	namespace    = "vigilantvis"
	backendLabel = "backend"
)

type Recorder struct {
	frames            *prometheus.CounterVec
	nodesVisited      *prometheus.CounterVec
	rejected          *prometheus.CounterVec
	subsectorsEmitted *prometheus.CounterVec
	segsOccluded      *prometheus.CounterVec
	frameDuration     *prometheus.HistogramVec
	drawListLength    *prometheus.HistogramVec
	maxDepth          *prometheus.GaugeVec
}

// NewRecorder registers the collectors with reg, which panics if a second
// Recorder is registered with the same one
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	labels := []string{backendLabel}
	return &Recorder{
		frames: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "The number of frames rendered.",
		}, labels),
		nodesVisited: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_visited_total",
			Help:      "The number of BSP nodes visited.",
		}, labels),
		rejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_total",
			Help:      "The number of subtrees culled by their bounding box.",
		}, labels),
		subsectorsEmitted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subsectors_emitted_total",
			Help:      "The number of subsectors added to draw lists.",
		}, labels),
		segsOccluded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segs_occluded_total",
			Help:      "The number of solid segs added to occlusion sets.",
		}, labels),
		frameDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "The time to determine visibility for one frame.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, labels),
		drawListLength: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "draw_list_length",
			Help:      "The number of subsectors emitted per frame.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		}, labels),
		maxDepth: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "max_depth",
			Help:      "The deepest tree level reached by the last frame.",
		}, labels),
	}
}

func (r *Recorder) Observe(backend string, stats vis.FrameStats, elapsed time.Duration) {
	l := prometheus.Labels{backendLabel: backend}
	r.frames.With(l).Inc()
	r.nodesVisited.With(l).Add(float64(stats.NodesVisited))
	r.rejected.With(l).Add(float64(stats.Rejected))
	r.subsectorsEmitted.With(l).Add(float64(stats.SubsectorsEmitted))
	r.segsOccluded.With(l).Add(float64(stats.SegsOccluded))
	r.frameDuration.With(l).Observe(elapsed.Seconds())
	r.drawListLength.With(l).Observe(float64(stats.SubsectorsEmitted))
	r.maxDepth.With(l).Set(float64(stats.MaxDepth))
}

// WriteText dumps everything g gathers in the text exposition format
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return errors.New("gathering metrics failed").Wrap(err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.New("writing metrics failed").
				WithTag("family", mf.GetName()).
				Wrap(err)
		}
	}
	return nil
}
