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

// Package overlay draws the result of one frame over the map: subsectors
// coloured by draw order, walls, the viewer, and the final occlusion set as
// a strip along the bottom
package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/vigilantdoomer/vigilantvis/bsp"
	"github.com/vigilantdoomer/vigilantvis/num"
	"github.com/vigilantdoomer/vigilantvis/vis"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

const (
	DEFAULT_WIDTH  = 1024
	DEFAULT_HEIGHT = 768
)

type Options struct {
	Width, Height int
	Margin        int // pixels around the map
	StripHeight   int // occlusion strip, 0 for none
	Legend        bool
}

func DefaultOptions() Options {
	return Options{
		Width:       DEFAULT_WIDTH,
		Height:      DEFAULT_HEIGHT,
		Margin:      16,
		StripHeight: 24,
		Legend:      true,
	}
}

// Result is what gets drawn, copied out of a frame so that the frame can go
// on rendering
type Result struct {
	ViewX, ViewY float64
	Angle        num.Angle
	FOV          num.Angle
	DrawOrder    []uint32
	Occlusion    [][2]float64 // in [-1, 1]
	Stats        vis.FrameStats
}

func FromFrame[T num.Scalar[T]](f *vis.Frame[T], view *vis.ViewState[T]) Result {
	res := Result{
		ViewX:     view.X.Float(),
		ViewY:     view.Y.Float(),
		Angle:     view.Angle,
		FOV:       view.FOV,
		DrawOrder: append([]uint32(nil), f.DrawList.Subsectors()...),
		Stats:     f.Stats,
	}
	for _, r := range f.Occlusion.Ranges() {
		res.Occlusion = append(res.Occlusion, [2]float64{r.XMin.Float(), r.XMax.Float()})
	}
	return res
}

var (
	background = color.RGBA{16, 16, 24, 255}
	nearColor  = color.RGBA{255, 200, 40, 255}
	farColor   = color.RGBA{40, 80, 200, 255}
	wallColor  = color.RGBA{235, 235, 235, 255}
	openColor  = color.RGBA{90, 90, 100, 255}
	viewColor  = color.RGBA{255, 60, 60, 255}
	stripColor = color.RGBA{40, 40, 48, 255}
	textColor  = color.RGBA{220, 220, 220, 255}
)

type canvas struct {
	img *image.RGBA
	ras *vector.Rasterizer
	// map units to pixels, y flipped
	ctm matrix.Matrix
}

func (c *canvas) apply(p vec.Vec2) vec.Vec2 {
	m := c.ctm
	return vec.Vec2{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

func (c *canvas) fill(pts []vec.Vec2, col color.Color) {
	if len(pts) < 3 {
		return
	}
	b := c.img.Bounds()
	c.ras.Reset(b.Dx(), b.Dy())
	first := c.apply(pts[0])
	c.ras.MoveTo(float32(first.X), float32(first.Y))
	for _, p := range pts[1:] {
		q := c.apply(p)
		c.ras.LineTo(float32(q.X), float32(q.Y))
	}
	c.ras.ClosePath()
	c.ras.Draw(c.img, b, image.NewUniform(col), image.Point{})
}

// stroke draws a line of the given pixel width as a thin quad
func (c *canvas) stroke(a, b vec.Vec2, width float64, col color.Color) {
	pa, pb := c.apply(a), c.apply(b)
	d := pb.Sub(pa)
	length := math.Hypot(d.X, d.Y)
	if length == 0 {
		return
	}
	n := vec.Vec2{X: -d.Y, Y: d.X}.Mul(width / 2 / length)
	quad := []vec.Vec2{pa.Add(n), pb.Add(n), pb.Sub(n), pa.Sub(n)}
	bounds := c.img.Bounds()
	c.ras.Reset(bounds.Dx(), bounds.Dy())
	c.ras.MoveTo(float32(quad[0].X), float32(quad[0].Y))
	for _, q := range quad[1:] {
		c.ras.LineTo(float32(q.X), float32(q.Y))
	}
	c.ras.ClosePath()
	c.ras.Draw(c.img, bounds, image.NewUniform(col), image.Point{})
}

func toVec(v bsp.Vertex) vec.Vec2 {
	return vec.Vec2{X: v.X.Float(), Y: v.Y.Float()}
}

// mapBounds covers vertices and segs both, trees put together by hand may
// lack either
func mapBounds(tree *bsp.Tree) rect.Rect {
	r := rect.Rect{LLx: math.Inf(1), LLy: math.Inf(1), URx: math.Inf(-1), URy: math.Inf(-1)}
	add := func(v bsp.Vertex) {
		p := toVec(v)
		r.LLx, r.URx = min(r.LLx, p.X), max(r.URx, p.X)
		r.LLy, r.URy = min(r.LLy, p.Y), max(r.URy, p.Y)
	}
	for _, v := range tree.Vertices {
		add(v)
	}
	for i := range tree.Segs {
		add(tree.Segs[i].V1)
		add(tree.Segs[i].V2)
	}
	if r.LLx > r.URx {
		return rect.Rect{URx: 1, URy: 1}
	}
	return r
}

// fitMatrix scales the map box into the pixel box, keeping aspect ratio,
// with map y pointing up
func fitMatrix(m rect.Rect, px image.Rectangle) matrix.Matrix {
	w := max(m.URx-m.LLx, 1)
	h := max(m.URy-m.LLy, 1)
	s := min(float64(px.Dx())/w, float64(px.Dy())/h)
	// centre the map in the pixel box
	ox := float64(px.Min.X) + (float64(px.Dx())-w*s)/2
	oy := float64(px.Min.Y) + (float64(px.Dy())-h*s)/2
	return matrix.Matrix{s, 0, 0, -s, ox - m.LLx*s, oy + m.URy*s}
}

func ramp(i, n int) color.RGBA {
	t := 0.0
	if n > 1 {
		t = float64(i) / float64(n-1)
	}
	lerp := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
	}
	return color.RGBA{
		R: lerp(nearColor.R, farColor.R),
		G: lerp(nearColor.G, farColor.G),
		B: lerp(nearColor.B, farColor.B),
		A: 255,
	}
}

// Render draws res over tree
func Render(tree *bsp.Tree, res *Result, opts Options) *image.RGBA {
	if opts.Width <= 0 {
		opts.Width = DEFAULT_WIDTH
	}
	if opts.Height <= 0 {
		opts.Height = DEFAULT_HEIGHT
	}
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	mapBottom := opts.Height - opts.StripHeight
	bounds := mapBounds(tree)
	c := &canvas{
		img: img,
		ras: vector.NewRasterizer(opts.Width, opts.Height),
		ctm: fitMatrix(bounds, image.Rect(opts.Margin, opts.Margin,
			opts.Width-opts.Margin, mapBottom-opts.Margin)),
	}

	for i, ss := range res.DrawOrder {
		if int(ss) >= len(tree.Subsectors) {
			continue
		}
		c.fill(subsectorPolygon(tree, ss), ramp(i, len(res.DrawOrder)))
	}
	for i := range tree.Segs {
		seg := &tree.Segs[i]
		if seg.OneSided() {
			c.stroke(toVec(seg.V1), toVec(seg.V2), 1.5, wallColor)
		} else {
			c.stroke(toVec(seg.V1), toVec(seg.V2), 1, openColor)
		}
	}
	drawViewer(c, res, max(bounds.URx-bounds.LLx, bounds.URy-bounds.LLy))

	if opts.StripHeight > 0 {
		drawStrip(img, res.Occlusion, mapBottom)
	}
	if opts.Legend {
		drawLegend(img, tree.Name, res)
	}
	return img
}

// subsectorPolygon walks the segs of a subsector. Edges along partition
// lines have no segs, closing the polygon fills them in
func subsectorPolygon(tree *bsp.Tree, ss uint32) []vec.Vec2 {
	segs := tree.SubsectorSegs(ss)
	pts := make([]vec.Vec2, 0, 2*len(segs))
	for i := range segs {
		pts = append(pts, toVec(segs[i].V1))
		next := segs[(i+1)%len(segs)].V1
		if segs[i].V2 != next {
			pts = append(pts, toVec(segs[i].V2))
		}
	}
	return pts
}

func drawViewer(c *canvas, res *Result, extent float64) {
	pos := vec.Vec2{X: res.ViewX, Y: res.ViewY}
	reach := extent / 8
	half := res.FOV / 2
	for _, a := range []num.Angle{res.Angle + half, res.Angle - half} {
		rad := a.Radians()
		end := pos.Add(vec.Vec2{X: math.Cos(rad), Y: math.Sin(rad)}.Mul(reach))
		c.stroke(pos, end, 1, viewColor)
	}
	// marker a few pixels across whatever the scale
	r := 4 / c.ctm[0]
	c.fill([]vec.Vec2{
		pos.Add(vec.Vec2{X: r}),
		pos.Add(vec.Vec2{Y: r}),
		pos.Add(vec.Vec2{X: -r}),
		pos.Add(vec.Vec2{Y: -r}),
	}, viewColor)
}

// drawStrip shows the occlusion set over the screen width, left edge of
// the screen at the left of the image
func drawStrip(img *image.RGBA, occlusion [][2]float64, top int) {
	b := img.Bounds()
	strip := image.Rect(b.Min.X, top, b.Max.X, b.Max.Y)
	draw.Draw(img, strip, image.NewUniform(stripColor), image.Point{}, draw.Src)
	w := float64(b.Dx())
	for _, r := range occlusion {
		x0 := int(math.Round((r[0] + 1) / 2 * w))
		x1 := int(math.Round((r[1] + 1) / 2 * w))
		covered := image.Rect(x0, top+2, x1, b.Max.Y-2).Intersect(strip)
		draw.Draw(img, covered, image.NewUniform(wallColor), image.Point{}, draw.Src)
	}
}

func drawLegend(img *image.RGBA, name string, res *Result) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: basicfont.Face7x13,
	}
	lines := []string{name, res.Stats.String()}
	for i, line := range lines {
		d.Dot = fixed.P(8, 16+i*15)
		d.DrawString(line)
	}
}

func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return errors.New("encoding overlay failed").Wrap(err)
	}
	return nil
}
