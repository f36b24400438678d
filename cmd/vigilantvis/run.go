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

package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/encoding/json"
	"github.com/vigilantdoomer/vigilantvis/bsp"
	"github.com/vigilantdoomer/vigilantvis/internal/metrics"
	"github.com/vigilantdoomer/vigilantvis/internal/vlog"
	"github.com/vigilantdoomer/vigilantvis/num"
	"github.com/vigilantdoomer/vigilantvis/overlay"
	"github.com/vigilantdoomer/vigilantvis/vis"
	"github.com/vigilantdoomer/vigilantvis/wad"
)

// Frames rendered per simulation tic when touring, the views in between are
// interpolated
const FRAMES_PER_TIC = 4

type viewpoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Angle float64 `json:"angle"`
	FOV   float64 `json:"fov"`
}

type report struct {
	Wad       string         `json:"wad"`
	Map       string         `json:"map"`
	Backend   string         `json:"backend"`
	Projector string         `json:"projector"`
	Solid     string         `json:"solid"`
	View      viewpoint      `json:"view"`
	Subsector uint32         `json:"subsector"` // the one the viewer is in
	DrawList  []uint32       `json:"draw_list"`
	Occlusion [][2]float64   `json:"occlusion"`
	Stats     vis.FrameStats `json:"stats"` // of the last frame
	Frames    int            `json:"frames"`
	Total     vis.FrameStats `json:"total"`
	ElapsedMs float64        `json:"elapsed_ms"`
}

func run(conf *config, out io.Writer) error {
	timeStart := time.Now()

	f, err := wad.Open(conf.Wad)
	if err != nil {
		return err
	}
	defer f.Close()

	name := conf.Map
	if name == "" {
		names := f.LevelNames()
		if len(names) == 0 {
			return errors.New("no levels in wad").
				WithType(wad.ErrTypeNoSuchLevel).
				WithTag("wad", conf.Wad)
		}
		name = names[0]
	}
	lvl, err := f.LoadLevel(name)
	if err != nil {
		return err
	}
	tree, err := bsp.FromLevel(lvl)
	if err != nil {
		return err
	}
	vlog.Log.Printf("Loaded %s: %d nodes, %d subsectors, %d segs\n",
		tree.Name, len(tree.Nodes), len(tree.Subsectors), len(tree.Segs))

	start := startView(conf, tree)
	reg := prometheus.NewRegistry()
	rec := metrics.NewRecorder(reg)

	var rep *report
	var res overlay.Result
	switch {
	case conf.Backend == BACKEND_FLOAT:
		rep, res = render[num.Float](tree, vis.Perspective[num.Float]{}, conf, start, rec)
	case conf.Projector == PROJECTOR_ANGLE:
		rep, res = render[num.Fixed](tree, vis.AngleProjector{}, conf, start, rec)
	case conf.Projector == PROJECTOR_PERSPECTIVE:
		rep, res = render[num.Fixed](tree, vis.Perspective[num.Fixed]{}, conf, start, rec)
	default:
		vlog.Log.Panic("unvalidated projector %q\n", conf.Projector)
	}
	rep.Wad = conf.Wad
	rep.Map = name
	rep.View = start
	rep.Subsector = tree.PointInSubsector(num.Fixed(0).FromFloat(start.X), num.Fixed(0).FromFloat(start.Y))

	if conf.Overlay != "" {
		if err := writeOverlay(conf.Overlay, tree, &res); err != nil {
			return err
		}
		vlog.Log.Verbose(1, "Overlay written to %s\n", conf.Overlay)
	}

	if conf.JSON {
		b, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return errors.New("encoding report failed").Wrap(err)
		}
		if _, err := fmt.Fprintf(out, "%s\n", b); err != nil {
			return errors.New("writing report failed").Wrap(err)
		}
	} else {
		logReport(rep)
	}

	if conf.Metrics {
		if err := metrics.WriteText(out, reg); err != nil {
			return err
		}
	}
	vlog.Log.Verbose(1, "Total time: %s\n", time.Since(timeStart))
	return nil
}

// startView fills in what the options leave unset from the player 1 start,
// or failing that the middle of the map looking east
func startView(conf *config, tree *bsp.Tree) viewpoint {
	v := viewpoint{X: conf.X, Y: conf.Y, Angle: conf.Angle, FOV: conf.FOV}
	start, ok := tree.PlayerStart(1)
	if !ok {
		b := tree.Bounds()
		start = bsp.Thing{
			X: b[bsp.BOXLEFT]/2 + b[bsp.BOXRIGHT]/2,
			Y: b[bsp.BOXBOTTOM]/2 + b[bsp.BOXTOP]/2,
		}
		if math.IsNaN(v.X) {
			vlog.Log.Error("No player 1 start in %s, looking from the middle of the map\n", tree.Name)
		}
	}
	if math.IsNaN(v.X) {
		v.X, v.Y = start.X.Float(), start.Y.Float()
	}
	if math.IsNaN(v.Angle) {
		v.Angle = start.Angle.Degrees()
	}
	return v
}

// tourView is the view of frame i out of n frames turning a full circle
// around the start. Only every FRAMES_PER_TIC-th frame is on a tic, fewer
// when n is small: interpolation takes the short way round, so tics must
// stay less than half a turn apart
func tourView[T num.Scalar[T]](start viewpoint, i, n int) vis.ViewState[T] {
	var zero T
	perTic := FRAMES_PER_TIC
	for perTic > 1 && 2*perTic >= n {
		perTic--
	}
	step := 360 * float64(perTic) / float64(n)
	tic := func(k int) vis.ViewState[T] {
		return vis.NewViewState(zero.FromFloat(start.X), zero.FromFloat(start.Y),
			num.FromDegrees(start.Angle+float64(k)*step), num.FromDegrees(start.FOV))
	}
	k := i / perTic
	prev, cur := tic(k), tic(k+1)
	frac := float64(i%perTic) / float64(perTic)
	return vis.Interpolate(&prev, &cur, frac)
}

func render[T num.Scalar[T]](tree *bsp.Tree, projector vis.Projector[T], conf *config,
	start viewpoint, rec *metrics.Recorder) (*report, overlay.Result) {
	solid, _ := vis.SolidPolicyByName(conf.Solid)
	var opts []vis.FrameOption
	if conf.Stack {
		opts = append(opts, vis.WithExplicitStack())
	}
	if conf.NoCulling {
		opts = append(opts, vis.WithoutCulling())
	}
	frame := vis.NewFrame(tree, projector, solid, opts...)
	label := conf.Backend + "_" + conf.Projector

	rep := &report{
		Backend:   conf.Backend,
		Projector: conf.Projector,
		Solid:     conf.Solid,
		Frames:    conf.Frames,
	}
	var view vis.ViewState[T]
	began := time.Now()
	for i := 0; i < conf.Frames; i++ {
		view = tourView[T](start, i, conf.Frames)
		frameStart := time.Now()
		frame.Render(&view)
		rec.Observe(label, frame.Stats, time.Since(frameStart))
		rep.Total.Add(frame.Stats)
		vlog.Log.Verbose(3, "Frame %d at %.1f degrees: %s\n", i, view.Angle.Degrees(), frame.Stats)
	}
	rep.ElapsedMs = float64(time.Since(began).Microseconds()) / 1000

	res := overlay.FromFrame(frame, &view)
	rep.DrawList = res.DrawOrder
	rep.Occlusion = res.Occlusion
	rep.Stats = frame.Stats
	return rep, res
}

func writeOverlay(path string, tree *bsp.Tree, res *overlay.Result) error {
	img := overlay.Render(tree, res, overlay.DefaultOptions())
	f, err := os.Create(path)
	if err != nil {
		return errors.New("creating overlay file failed").
			WithTag("path", path).
			Wrap(err)
	}
	if err := overlay.WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.New("closing overlay file failed").
			WithTag("path", path).
			Wrap(err)
	}
	return nil
}

func logReport(rep *report) {
	vlog.Log.Printf("%s from (%.2f, %.2f) at %.1f degrees, subsector %d\n",
		rep.Map, rep.View.X, rep.View.Y, rep.View.Angle, rep.Subsector)
	vlog.Log.Printf("Last frame: %s\n", rep.Stats)
	if rep.Frames > 1 {
		vlog.Log.Printf("%d frames in %.3f ms: %s\n", rep.Frames, rep.ElapsedMs, rep.Total)
	}
	vlog.Log.Verbose(1, "Draw list: %v\n", rep.DrawList)
	vlog.Log.Verbose(2, "Occluded: %v\n", rep.Occlusion)
}
