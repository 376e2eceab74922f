// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"image"
	"image/color"

	"github.com/pvscene/pvscene/math32"
)

// Drawer is the rendering backend boundary. The scene produces the
// frame's draw stream through it; [softrender.Painter] implements it
// in software for frame capture and tests, and a GPU backend can
// implement the same contract.
//
// Instance transforms are uploaded once per rebuild via SetInstances
// and then drawn with a single DrawInstanced call per frame; backends
// must not require per-frame re-upload.
type Drawer interface {
	// Begin starts a frame with the given camera and background.
	Begin(cam *Camera, background color.RGBA)

	// SetTexture registers or replaces a named texture.
	SetTexture(name string, img *image.RGBA)

	// SetInstances uploads the full per-instance transform batch for
	// the named instanced mesh, replacing any previous batch. size is
	// the local dimensions of the shared mesh geometry.
	SetInstances(mesh string, size math32.Vector3, transforms []math32.Matrix4)

	// DrawInstanced issues one draw call covering count instances of
	// the named instanced mesh, using the previously uploaded batch.
	DrawInstanced(mesh string, count int, texture string, tint color.RGBA)

	// DrawQuad draws one textured quad of the given world size
	// centered on the transform.
	DrawQuad(transform *math32.Matrix4, size math32.Vector2, texture string, tint color.RGBA)

	// DrawBox draws one solid box of the given world dimensions
	// centered on the transform.
	DrawBox(transform *math32.Matrix4, size math32.Vector3, texture string, tint color.RGBA)

	// DrawLines draws a polyline through the given world points.
	DrawLines(points []math32.Vector3, width float32, tint color.RGBA)

	// SetSun sets the directional sun light for the frame.
	SetSun(dir math32.Vector3, intensity float32)

	// End finishes the frame and returns the rendered image, which
	// may be nil for backends that present directly.
	End() *image.RGBA
}
