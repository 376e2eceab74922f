// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package softrender

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvscene/pvscene/math32"
	"github.com/pvscene/pvscene/scene"
)

func testCamera() *scene.Camera {
	cam := &scene.Camera{}
	cam.Defaults()
	cam.Pose.Pos = math32.Vec3(0, 10, 30)
	cam.LookAt(math32.Vector3{}, math32.Vector3Y)
	return cam
}

func countNonBackground(t *testing.T, p *Painter, bg color.RGBA) int {
	t.Helper()
	img := p.End()
	require.NotNil(t, img)
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if c.R != bg.R || c.G != bg.G || c.B != bg.B {
				n++
			}
		}
	}
	return n
}

func TestPainterBoxProducesPixels(t *testing.T) {
	bg := color.RGBA{A: 0xff}
	p := New(200, 150)
	p.Begin(testCamera(), bg)
	p.SetSun(math32.Vec3(0, 1, 0), 1)

	var tr math32.Matrix4
	tr.SetIdentity()
	p.DrawBox(&tr, math32.Vec3(4, 4, 4), "", color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})

	n := countNonBackground(t, p, bg)
	assert.Greater(t, n, 0, "box in front of camera should rasterize")
}

func TestPainterEmptyFrameIsBackground(t *testing.T) {
	bg := color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}
	p := New(64, 64)
	p.Begin(testCamera(), bg)
	assert.Equal(t, 0, countNonBackground(t, p, bg))
}

func TestPainterInstancedBatch(t *testing.T) {
	bg := color.RGBA{A: 0xff}
	p := New(200, 150)
	p.Begin(testCamera(), bg)

	transforms := make([]math32.Matrix4, 3)
	for i := range transforms {
		transforms[i].SetIdentity()
		transforms[i].SetPos(math32.Vec3(float32(i*6-6), 0, 0))
	}
	p.SetInstances("table", math32.Vec3(4, 0.2, 2), transforms)
	p.DrawInstanced("table", len(transforms), "", color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})

	assert.Greater(t, countNonBackground(t, p, bg), 0)
}

func TestPainterLine(t *testing.T) {
	bg := color.RGBA{A: 0xff}
	p := New(100, 100)
	p.Begin(testCamera(), bg)
	p.DrawLines([]math32.Vector3{
		math32.Vec3(-5, 0, 0),
		math32.Vec3(5, 0, 0),
	}, 0.5, color.RGBA{R: 0xff, A: 0xff})
	assert.Greater(t, countNonBackground(t, p, bg), 0)
}

func TestPainterBehindCameraCulled(t *testing.T) {
	bg := color.RGBA{A: 0xff}
	p := New(64, 64)
	p.Begin(testCamera(), bg)

	var tr math32.Matrix4
	tr.SetIdentity()
	tr.SetPos(math32.Vec3(0, 10, 100)) // behind the eye
	p.DrawBox(&tr, math32.Vec3(2, 2, 2), "", color.RGBA{R: 0xff, A: 0xff})
	assert.Equal(t, 0, countNonBackground(t, p, bg))
}
