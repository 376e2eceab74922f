// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package softrender is a pure-software rendering backend for
// [scene.Drawer]. It rasterizes the frame's draw stream into an
// *image.RGBA with painter's-algorithm depth sorting, which is
// plenty for frame capture, headless tests, and server-side
// thumbnailing; interactive deployments swap in a GPU backend
// behind the same interface.
package softrender

import (
	"image"
	"image/color"
	"image/draw"
	"sort"

	xdraw "golang.org/x/image/draw"

	"github.com/pvscene/pvscene/math32"
	"github.com/pvscene/pvscene/scene"
)

// Painter implements [scene.Drawer] in software.
type Painter struct {
	width  int
	height int

	cam *scene.Camera
	img *image.RGBA

	textures map[string]*image.RGBA
	batches  map[string]batch

	sunDir       math32.Vector3
	sunIntensity float32

	prims []primitive
}

type batch struct {
	size       math32.Vector3
	transforms []math32.Matrix4
}

// primitive is one screen-space fill queued for the current frame,
// sorted back to front before compositing.
type primitive struct {
	depth   float32
	rect    image.Rectangle
	texture string
	tint    color.RGBA
	shade   float32
	line    bool
	x0, y0  int
	x1, y1  int
	widthPx int
}

// New returns a painter producing frames of the given pixel size.
func New(width, height int) *Painter {
	return &Painter{
		width:    width,
		height:   height,
		textures: map[string]*image.RGBA{},
		batches:  map[string]batch{},
	}
}

func (p *Painter) Begin(cam *scene.Camera, background color.RGBA) {
	cam.Aspect = float32(p.width) / float32(p.height)
	cam.UpdateMatrix()
	p.cam = cam
	p.img = image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	draw.Draw(p.img, p.img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	p.prims = p.prims[:0]
	p.sunDir = math32.Vec3(0, 1, 0)
	p.sunIntensity = 1
}

func (p *Painter) SetTexture(name string, img *image.RGBA) {
	p.textures[name] = img
}

func (p *Painter) SetInstances(mesh string, size math32.Vector3, transforms []math32.Matrix4) {
	p.batches[mesh] = batch{size: size, transforms: transforms}
}

func (p *Painter) DrawInstanced(mesh string, count int, texture string, tint color.RGBA) {
	b, ok := p.batches[mesh]
	if !ok {
		return
	}
	if count > len(b.transforms) {
		count = len(b.transforms)
	}
	for i := 0; i < count; i++ {
		p.queueBox(&b.transforms[i], b.size, texture, tint)
	}
}

func (p *Painter) DrawQuad(transform *math32.Matrix4, size math32.Vector2, texture string, tint color.RGBA) {
	p.queueBox(transform, math32.Vec3(size.X, 0, size.Y), texture, tint)
}

func (p *Painter) DrawBox(transform *math32.Matrix4, size math32.Vector3, texture string, tint color.RGBA) {
	p.queueBox(transform, size, texture, tint)
}

func (p *Painter) DrawLines(points []math32.Vector3, width float32, tint color.RGBA) {
	if p.cam == nil || len(points) < 2 {
		return
	}
	px := int(width * 2)
	if px < 1 {
		px = 1
	}
	for i := 1; i < len(points); i++ {
		a, da, okA := p.project(points[i-1])
		b, db, okB := p.project(points[i])
		if !okA || !okB {
			continue
		}
		p.prims = append(p.prims, primitive{
			depth: (da + db) / 2,
			tint:  tint,
			shade: 1,
			line:  true,
			x0:    a.X, y0: a.Y, x1: b.X, y1: b.Y,
			widthPx: px,
		})
	}
}

func (p *Painter) SetSun(dir math32.Vector3, intensity float32) {
	p.sunDir = dir.Normal()
	p.sunIntensity = intensity
}

// End composites the queued primitives back to front and returns the
// finished frame.
func (p *Painter) End() *image.RGBA {
	if p.img == nil {
		return nil
	}
	sort.SliceStable(p.prims, func(i, j int) bool {
		return p.prims[i].depth > p.prims[j].depth
	})
	for i := range p.prims {
		p.composite(&p.prims[i])
	}
	out := p.img
	p.img = nil
	p.cam = nil
	return out
}

// queueBox projects the eight corners of an oriented box and queues
// its screen-space bounding rectangle, shaded by the sun against the
// box's up axis.
func (p *Painter) queueBox(transform *math32.Matrix4, size math32.Vector3, texture string, tint color.RGBA) {
	if p.cam == nil {
		return
	}
	h := size.MulScalar(0.5)
	minX, minY := p.width, p.height
	maxX, maxY := 0, 0
	depth := float32(0)
	seen := 0
	for _, sx := range []float32{-h.X, h.X} {
		for _, sy := range []float32{-h.Y, h.Y} {
			for _, sz := range []float32{-h.Z, h.Z} {
				world := math32.Vec3(sx, sy, sz).MulMatrix4(transform)
				pt, d, ok := p.project(world)
				if !ok {
					continue
				}
				seen++
				depth += d
				if pt.X < minX {
					minX = pt.X
				}
				if pt.Y < minY {
					minY = pt.Y
				}
				if pt.X > maxX {
					maxX = pt.X
				}
				if pt.Y > maxY {
					maxY = pt.Y
				}
			}
		}
	}
	if seen == 0 {
		return
	}

	up := math32.Vector3Y.MulMatrix4AsVector(transform).Normal()
	shade := up.Dot(p.sunDir)
	if shade < 0 {
		shade = -shade
	}
	shade = 0.4 + 0.6*shade*p.sunIntensity
	if shade > 1 {
		shade = 1
	}

	p.prims = append(p.prims, primitive{
		depth:   depth / float32(seen),
		rect:    image.Rect(minX, minY, maxX+1, maxY+1),
		texture: texture,
		tint:    tint,
		shade:   shade,
	})
}

// project maps a world point to pixel coordinates.
func (p *Painter) project(world math32.Vector3) (image.Point, float32, bool) {
	pt, depth, ok := p.cam.Project(world)
	if !ok {
		return image.Point{}, 0, false
	}
	return image.Point{
		X: int(pt.X * float32(p.width)),
		Y: int(pt.Y * float32(p.height)),
	}, depth, true
}

func (p *Painter) composite(pr *primitive) {
	if pr.line {
		p.drawLine(pr)
		return
	}
	r := pr.rect.Intersect(p.img.Bounds())
	if r.Empty() {
		return
	}
	if tex, ok := p.textures[pr.texture]; ok && pr.texture != "" {
		scaled := image.NewRGBA(r.Sub(r.Min))
		xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), tex, tex.Bounds(), xdraw.Src, nil)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				c := scaled.RGBAAt(x-r.Min.X, y-r.Min.Y)
				p.blend(x, y, modulate(c, pr.tint, pr.shade))
			}
		}
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p.blend(x, y, modulate(color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, pr.tint, pr.shade))
		}
	}
}

// drawLine rasterizes a fixed-width segment with the integer form of
// Bresenham's algorithm.
func (p *Painter) drawLine(pr *primitive) {
	x0, y0, x1, y1 := pr.x0, pr.y0, pr.x1, pr.y1
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		for ox := 0; ox < pr.widthPx; ox++ {
			for oy := 0; oy < pr.widthPx; oy++ {
				p.blend(x0+ox, y0+oy, pr.tint)
			}
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				return
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				return
			}
			err += dx
			y0 += sy
		}
	}
}

// blend alpha-composites c over the pixel at (x, y).
func (p *Painter) blend(x, y int, c color.RGBA) {
	if !(image.Point{X: x, Y: y}).In(p.img.Bounds()) {
		return
	}
	if c.A == 0xff {
		p.img.SetRGBA(x, y, c)
		return
	}
	dst := p.img.RGBAAt(x, y)
	a := uint32(c.A)
	ia := 255 - a
	p.img.SetRGBA(x, y, color.RGBA{
		R: uint8((uint32(c.R)*a + uint32(dst.R)*ia) / 255),
		G: uint8((uint32(c.G)*a + uint32(dst.G)*ia) / 255),
		B: uint8((uint32(c.B)*a + uint32(dst.B)*ia) / 255),
		A: 0xff,
	})
}

// modulate multiplies a texel by the tint and the sun shade factor.
func modulate(c, tint color.RGBA, shade float32) color.RGBA {
	mul := func(a, b uint8) uint8 { return uint8(uint16(a) * uint16(b) / 255) }
	sh := func(v uint8) uint8 { return uint8(float32(v) * shade) }
	return color.RGBA{
		R: sh(mul(c.R, tint.R)),
		G: sh(mul(c.G, tint.G)),
		B: sh(mul(c.B, tint.B)),
		A: tint.A,
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
