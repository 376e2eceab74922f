// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvscene/pvscene/layout"
	"github.com/pvscene/pvscene/math32"
)

func TestLargeSiteRendersAsOneInstancedCall(t *testing.T) {
	const rows, cols = 250, 100 // 25,000 tables
	sc, _, rd := newTestScene(t, rows, cols)

	require.Len(t, sc.panels.transforms, rows*cols,
		"exactly one transform per panel record")

	sc.RenderFrame(0)
	require.Len(t, rd.instancedCalls, 1, "one draw call for the whole batch")
	assert.Equal(t, rows*cols, rd.instancedCalls[0])
	assert.Equal(t, 1, rd.instanceUpload)

	// the batch does not re-upload on subsequent frames
	sc.RenderFrame(0)
	assert.Equal(t, 1, rd.instanceUpload)
	assert.Len(t, rd.instancedCalls, 2)
}

func TestPickResolvesIndexInLargeBatch(t *testing.T) {
	sc, _, _ := newTestScene(t, 250, 100)

	const want = 12499
	center, ok := sc.panels.center(want)
	require.True(t, ok)

	anchor, ok := sc.Pick(rayDownAt(center))
	require.True(t, ok)
	assert.Equal(t, PanelElement, anchor.Type)
	assert.Equal(t, layout.PanelID(want), anchor.ID)
	assert.Equal(t, "Panel 12500", anchor.Label)
}

func TestPickMissReturnsNoSelection(t *testing.T) {
	sc, _, _ := newTestScene(t, 2, 2)
	_, ok := sc.Pick(rayDownAt(math32.Vec3(9999, 0, 9999)))
	assert.False(t, ok)
}

func TestPanelTintsDrawAsOverlays(t *testing.T) {
	sc, h, rd := newTestScene(t, 2, 2)

	h.SetPanelTint("1", color.RGBA{R: 0xff, A: 0x80})
	h.SetPanelTint("3", color.RGBA{G: 0xff, A: 0x80})
	sc.RenderFrame(0)
	require.Len(t, rd.instancedCalls, 1, "tints never split the instanced batch")
	assert.Equal(t, 2, rd.quads, "one overlay per tinted panel")

	h.SetPanelTint("1", color.RGBA{}) // zero alpha clears
	rd.quads = 0
	rd.instancedCalls = nil
	sc.RenderFrame(0)
	assert.Equal(t, 1, rd.quads)
}

func TestHoverAddsSingleOverlay(t *testing.T) {
	sc, _, rd := newTestScene(t, 1, 2)
	sc.panels.hovered = 1
	sc.panels.selected = 0

	sc.RenderFrame(0)
	require.Len(t, rd.instancedCalls, 1)
	assert.Equal(t, 1, rd.quads, "selection and hover share one overlay slot")
}

func TestMixedPanelSizesRenderAndPickAgree(t *testing.T) {
	narrow := 10.0
	pl := &layout.ParsedLayout{
		Panels: []layout.PanelRecord{
			{Insert: layout.Point3{}},
			{Insert: layout.Point3{Y: 50}, TableWidth: &narrow},
		},
		Bounds: layout.Bounds{Extents: layout.Point3{X: 60, Y: 60}},
	}
	rd := newRecordDrawer()
	sc, _ := New(rd)
	sc.SetLayout(pl)
	sc.RenderFrame(0)

	// the shared mesh is unit-sized; each instance carries its own
	// table dimensions in the transform scale
	require.Len(t, rd.instances, 2)
	assert.Equal(t, math32.Vec3(1, 1, 1), rd.meshSize)
	widthOf := func(tr *math32.Matrix4) float64 {
		// azimuth 0: the width axis stays on x
		return float64(math32.Vec3(1, 0, 0).MulMatrix4AsVector(tr).Length())
	}
	assert.InDelta(t, 28, widthOf(&rd.instances[0]), 1e-3)
	assert.InDelta(t, 10, widthOf(&rd.instances[1]), 1e-3)

	// the pick box of the narrow panel matches its rendered slab
	center, ok := sc.panels.center(1)
	require.True(t, ok)
	inside := center.Add(math32.Vec3(4.9, 0, 0))
	idx, _, ok := sc.panels.pick(rayDownAt(inside))
	require.True(t, ok, "ray inside the narrow slab hits")
	assert.Equal(t, 1, idx)

	outside := center.Add(math32.Vec3(5.1, 0, 0))
	_, _, ok = sc.panels.pick(rayDownAt(outside))
	assert.False(t, ok, "ray just past the narrow slab misses")
}

func TestExplicitZeroTiltPanelsLieFlat(t *testing.T) {
	zero := 0.0
	pl := &layout.ParsedLayout{
		Panels: []layout.PanelRecord{
			{Insert: layout.Point3{}, TiltDeg: &zero},
			{Insert: layout.Point3{X: 30}},
		},
		Bounds: layout.Bounds{Extents: layout.Point3{X: 50, Y: 50}},
	}
	rd := newRecordDrawer()
	sc, _ := New(rd)
	sc.SetLayout(pl)

	flat, ok := sc.panels.center(0)
	require.True(t, ok)
	tilted, ok := sc.panels.center(1)
	require.True(t, ok)
	assert.Less(t, flat.Y, tilted.Y,
		"an explicit zero tilt is honored, not replaced by the default")
}
