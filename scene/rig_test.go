// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvscene/pvscene/math32"
)

// fakeSource records handler attachment so tests can prove listeners
// never compound across mode switches.
type fakeSource struct {
	attached []Handler
}

func (fs *fakeSource) Attach(h Handler) {
	fs.attached = append(fs.attached, h)
}

func (fs *fakeSource) Detach(h Handler) {
	for i, a := range fs.attached {
		if a == h {
			fs.attached = append(fs.attached[:i], fs.attached[i+1:]...)
			return
		}
	}
}

func (fs *fakeSource) active() Handler {
	if len(fs.attached) != 1 {
		return nil
	}
	return fs.attached[0]
}

func TestModeSwitchCarriesZoomAndResetsUp(t *testing.T) {
	rg := NewRig(NewZoomCell(), 100)
	src := &fakeSource{}
	rg.AttachTo(src)

	// zoom in a few wheel ticks while in 3D
	src.active().Wheel(5)
	zoomed := rg.Zoom()
	require.Greater(t, zoomed, float32(1))

	rg.SetMode(Mode2D)
	assert.Equal(t, zoomed, rg.Zoom(), "zoom carries into 2D")
	assert.True(t, rg.Camera.Ortho)
	assert.InDelta(t, float64(rg.baseOrtho/zoomed), float64(rg.Camera.OrthoHeight), 1e-4)

	// tilt the up vector while in 2D by rotating the turntable
	src.active().PointerDown(Primary, 0, 0)
	src.active().PointerMove(0.3, 0)
	src.active().PointerUp(Primary, 0.3, 0)
	require.NotEqual(t, float32(0), rg.azimuth)

	rg.SetMode(Mode3D)
	assert.Equal(t, zoomed, rg.Zoom(), "zoom carries back into 3D")
	assert.False(t, rg.Camera.Ortho)
	assert.Equal(t, math32.Vec3(0, 1, 0), rg.Camera.UpDir,
		"leaving the turntable restores the canonical up vector")

	dist := rg.Camera.Pose.Pos.DistanceTo(rg.Camera.Target)
	assert.InDelta(t, float64(rg.baseDist/zoomed), float64(dist), 1e-3)
}

func TestModeSwitchSwapsHandlers(t *testing.T) {
	rg := NewRig(NewZoomCell(), 100)
	src := &fakeSource{}
	rg.AttachTo(src)
	require.Len(t, src.attached, 1)
	assert.Same(t, Handler(rg.orbit3D), src.active())

	rg.SetMode(Mode2D)
	require.Len(t, src.attached, 1, "old handler detached before new attaches")
	assert.Same(t, Handler(rg.turn2D), src.active())

	rg.SetMode(Mode2D) // no-op
	require.Len(t, src.attached, 1)

	rg.Teardown()
	assert.Empty(t, src.attached)
}

func TestTurntableDragFollowsPointer(t *testing.T) {
	rg := NewRig(NewZoomCell(), 100)
	rg.SetMode(Mode2D)
	tc := rg.turn2D

	// rightward drags always increase azimuth, independent of the
	// current rotation
	for i := 0; i < 4; i++ {
		before := rg.azimuth
		tc.PointerDown(Primary, 0, 0)
		tc.PointerMove(0.2, 0)
		tc.PointerUp(Primary, 0.2, 0)
		assert.Greater(t, rg.azimuth, before, "drag %d", i)
	}

	// and leftward drags decrease it
	before := rg.azimuth
	tc.PointerDown(Primary, 0, 0)
	tc.PointerMove(-0.2, 0)
	tc.PointerUp(Primary, -0.2, 0)
	assert.Less(t, rg.azimuth, before)
}

func TestWheelZoomIsUnclamped(t *testing.T) {
	rg := NewRig(NewZoomCell(), 100)
	rg.SetMode(Mode2D)

	for i := 0; i < 60; i++ {
		rg.turn2D.Wheel(5)
	}
	assert.Greater(t, rg.Zoom(), float32(1e6), "no upper clamp")

	for i := 0; i < 120; i++ {
		rg.turn2D.Wheel(-5)
	}
	assert.Less(t, rg.Zoom(), float32(1e-4), "no lower clamp")
	assert.Greater(t, rg.Zoom(), float32(0), "but never non-positive")
}

func TestZoomCellRejectsInvalid(t *testing.T) {
	z := NewZoomCell()
	z.Set(2.5)
	assert.Equal(t, float32(2.5), z.Get())

	z.Set(0)
	assert.Equal(t, float32(2.5), z.Get())
	z.Set(-3)
	assert.Equal(t, float32(2.5), z.Get())
	z.Set(math32.Infinity - math32.Infinity) // NaN
	assert.Equal(t, float32(2.5), z.Get())
}

func TestFocusOnKeepsViewOffset(t *testing.T) {
	rg := NewRig(NewZoomCell(), 100)
	offset := rg.Camera.Pose.Pos.Sub(rg.Camera.Target)

	target := math32.Vec3(40, 0, -25)
	rg.FocusOn(target)
	assert.Equal(t, target, rg.Camera.Target)
	got := rg.Camera.Pose.Pos.Sub(rg.Camera.Target)
	assert.InDelta(t, float64(offset.X), float64(got.X), 1e-3)
	assert.InDelta(t, float64(offset.Y), float64(got.Y), 1e-3)
	assert.InDelta(t, float64(offset.Z), float64(got.Z), 1e-3)
}

func TestFocusOnInTurntableStaysOverhead(t *testing.T) {
	rg := NewRig(NewZoomCell(), 100)
	rg.SetMode(Mode2D)

	target := math32.Vec3(-10, 0, 12)
	rg.FocusOn(target)
	assert.Equal(t, target, rg.Camera.Target)
	assert.InDelta(t, float64(target.X), float64(rg.Camera.Pose.Pos.X), 1e-4)
	assert.InDelta(t, float64(target.Z), float64(rg.Camera.Pose.Pos.Z), 1e-4)
	assert.Greater(t, rg.Camera.Pose.Pos.Y, target.Y)
}

func TestModeSwitchDropsOrbitMomentum(t *testing.T) {
	rg := NewRig(NewZoomCell(), 100)
	oc := rg.orbit3D

	oc.PointerDown(Primary, 0, 0)
	oc.PointerMove(0.1, 0.05)
	oc.PointerUp(Primary, 0.1, 0.05)
	require.NotEqual(t, float32(0), rg.velX)

	rg.SetMode(Mode2D)
	rg.SetMode(Mode3D)
	assert.Equal(t, float32(0), rg.velX)
	assert.Equal(t, float32(0), rg.velY)

	pos := rg.Camera.Pose.Pos
	rg.Update(1.0 / 60)
	assert.Equal(t, pos, rg.Camera.Pose.Pos, "no stale orbit resumes after the round trip")
}

func TestOrbitMomentumDecays(t *testing.T) {
	rg := NewRig(NewZoomCell(), 100)
	oc := rg.orbit3D

	oc.PointerDown(Primary, 0, 0)
	oc.PointerMove(0.1, 0.05)
	oc.PointerUp(Primary, 0.1, 0.05)
	require.NotEqual(t, float32(0), rg.velX)

	posAfterDrag := rg.Camera.Pose.Pos
	rg.Update(1.0 / 60)
	assert.NotEqual(t, posAfterDrag, rg.Camera.Pose.Pos, "residual velocity keeps orbiting")

	for i := 0; i < 300; i++ {
		rg.Update(1.0 / 60)
	}
	assert.Equal(t, float32(0), rg.velX, "velocity decays to rest")
	assert.Equal(t, float32(0), rg.velY)
}
