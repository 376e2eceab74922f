// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"log/slog"

	"github.com/pvscene/pvscene/math32"
)

// Mode is a camera rig state.
type Mode string

const (
	// Mode3D is the free damped perspective orbit.
	Mode3D Mode = "3d"

	// Mode2D is the fixed-elevation orthographic turntable.
	Mode2D Mode = "2d"
)

// ZoomCell is the single zoom scalar shared between the two camera
// modes, so the zoom level feels continuous through a mode switch.
// Exactly one handler per mode writes it; the other mode reads it
// only at mode entry.
type ZoomCell struct {
	v float32
}

// NewZoomCell returns a zoom cell at scale 1.
func NewZoomCell() *ZoomCell {
	return &ZoomCell{v: 1}
}

// Get returns the current zoom scalar, always > 0.
func (z *ZoomCell) Get() float32 {
	return z.v
}

// Set sets the zoom scalar. Non-positive values are rejected so the
// scalar can never invalidate the camera projection.
func (z *ZoomCell) Set(v float32) {
	if v <= 0 || math32.IsNaN(v) {
		slog.Warn("scene: rejecting invalid zoom scalar", "zoom", v)
		return
	}
	z.v = v
}

const (
	// wheelFactor is the per-tick multiplicative zoom step, unclamped.
	wheelFactor = 1.1

	// orbit/turntable speeds in degrees per unit of normalized drag
	orbitSpeed     = 120
	turntableSpeed = 180

	// orbitDamping is the exponential decay rate of residual orbit
	// velocity per second.
	orbitDamping = 8.0
)

// Rig is the dual-mode camera state machine. It owns the [Camera]
// exclusively; external focus requests go through exactly one entry
// point, [Rig.FocusOn].
type Rig struct {
	Camera Camera

	zoom *ZoomCell
	mode Mode

	// baseDist is the 3D orbit distance at zoom 1; baseOrtho the
	// orthographic view height at zoom 1.
	baseDist  float32
	baseOrtho float32

	// elevation of the 2D top-down camera above the target
	elev2D float32

	// azimuth is the 2D turntable rotation about the vertical axis.
	azimuth float32

	source  Source
	orbit3D *orbitControl
	turn2D  *turntableControl

	dragging bool
	dragBtn  Button
	lastX    float32
	lastY    float32

	// residual orbit velocity for damped 3D rotation
	velX float32
	velY float32
}

// NewRig returns a rig sized for a site of the given world extent,
// starting in [Mode3D] at zoom 1.
func NewRig(zoom *ZoomCell, extent float32) *Rig {
	if extent <= 0 {
		extent = 100
	}
	rg := &Rig{
		zoom:      zoom,
		mode:      Mode3D,
		baseDist:  extent * 1.5,
		baseOrtho: extent * 1.2,
		elev2D:    extent * 2,
	}
	rg.orbit3D = &orbitControl{rig: rg}
	rg.turn2D = &turntableControl{rig: rg}
	rg.Camera.Defaults()
	rg.enter3D()
	return rg
}

// Mode returns the active camera mode.
func (rg *Rig) Mode() Mode {
	return rg.mode
}

// Zoom returns the shared zoom scalar.
func (rg *Rig) Zoom() float32 {
	return rg.zoom.Get()
}

// AttachTo attaches the active mode's pointer handler to the given
// input source. Any previously attached source is detached first.
func (rg *Rig) AttachTo(src Source) {
	rg.detachActive()
	rg.source = src
	rg.attachActive()
}

// Teardown fully detaches the rig from its input source.
func (rg *Rig) Teardown() {
	rg.detachActive()
	rg.source = nil
}

func (rg *Rig) attachActive() {
	if rg.source == nil {
		return
	}
	if rg.mode == Mode2D {
		rg.source.Attach(rg.turn2D)
	} else {
		rg.source.Attach(rg.orbit3D)
	}
}

func (rg *Rig) detachActive() {
	if rg.source == nil {
		return
	}
	if rg.mode == Mode2D {
		rg.source.Detach(rg.turn2D)
	} else {
		rg.source.Detach(rg.orbit3D)
	}
}

// SetMode switches between the 3D orbit and the 2D turntable. The
// inactive mode's handler is fully detached before the new one
// attaches, and the shared zoom scalar carries across the switch.
func (rg *Rig) SetMode(mode Mode) {
	if mode == rg.mode {
		return
	}
	rg.detachActive()
	rg.dragging = false
	rg.velX, rg.velY = 0, 0 // residual momentum never crosses modes
	rg.mode = mode
	if mode == Mode2D {
		rg.enter2D()
	} else {
		rg.enter3D()
	}
	rg.attachActive()
}

// enter3D configures the perspective orbit, reading the shared zoom
// only here. Leaving the 2D turntable must reset the up-vector to
// canonical +Y; otherwise the next orbit is tilted sideways.
func (rg *Rig) enter3D() {
	cm := &rg.Camera
	cm.Ortho = false
	cm.UpDir = math32.Vector3Y

	dist := rg.baseDist / rg.zoom.Get()
	dir := math32.Vec3(0, 0.7, 1).Normal().
		MulQuat(math32.NewQuatAxisAngle(math32.Vector3Y, rg.azimuth))
	cm.Pose.Pos = cm.Target.Add(dir.MulScalar(dist))
	cm.LookAt(cm.Target, math32.Vector3Y)
}

// enter2D configures the fixed-elevation orthographic turntable,
// reading the shared zoom only here.
func (rg *Rig) enter2D() {
	cm := &rg.Camera
	cm.Ortho = true
	cm.OrthoHeight = rg.baseOrtho / rg.zoom.Get()
	rg.applyTurntable()
}

// applyTurntable places the top-down camera for the current azimuth.
func (rg *Rig) applyTurntable() {
	cm := &rg.Camera
	cm.Pose.Pos = cm.Target.Add(math32.Vec3(0, rg.elev2D, 0))
	up := math32.Vec3(-math32.Sin(rg.azimuth), 0, -math32.Cos(rg.azimuth))
	cm.LookAt(cm.Target, up)
}

// FocusOn recenters the active mode's camera target on the given
// world position without changing mode. This is the single entry
// point for external focus requests.
func (rg *Rig) FocusOn(world math32.Vector3) {
	cm := &rg.Camera
	if rg.mode == Mode2D {
		cm.Target = world
		rg.applyTurntable()
		return
	}
	offset := cm.ViewVector()
	cm.Target = world
	cm.Pose.Pos = world.Add(offset)
	cm.LookAt(cm.Target, cm.UpDir)
}

// Update advances damped camera motion by dt seconds. It is called
// once per frame from the render loop.
func (rg *Rig) Update(dt float32) {
	if rg.mode != Mode3D {
		return
	}
	if rg.velX != 0 || rg.velY != 0 {
		rg.Camera.Orbit(rg.velX*dt, rg.velY*dt)
		decay := math32.Max(0, 1-orbitDamping*dt)
		rg.velX *= decay
		rg.velY *= decay
		if math32.Abs(rg.velX) < 0.01 && math32.Abs(rg.velY) < 0.01 {
			rg.velX, rg.velY = 0, 0
		}
	}
}

// orbitControl is the 3D-perspective input mapping: primary drag
// orbits, secondary drag pans, wheel zooms toward the target.
type orbitControl struct {
	rig *Rig
}

func (oc *orbitControl) PointerDown(btn Button, x, y float32) {
	rg := oc.rig
	rg.dragging = true
	rg.dragBtn = btn
	rg.lastX, rg.lastY = x, y
}

func (oc *orbitControl) PointerMove(x, y float32) {
	rg := oc.rig
	if !rg.dragging {
		return
	}
	dx := x - rg.lastX
	dy := y - rg.lastY
	rg.lastX, rg.lastY = x, y

	switch rg.dragBtn {
	case Primary:
		rg.Camera.Orbit(-dx*orbitSpeed, dy*orbitSpeed)
		rg.velX = -dx * orbitSpeed
		rg.velY = dy * orbitSpeed
	case Secondary:
		scale := rg.baseDist / rg.zoom.Get()
		rg.Camera.Pan(dx*scale*0.5, dy*scale*0.5)
	}
}

func (oc *orbitControl) PointerUp(btn Button, x, y float32) {
	oc.rig.dragging = false
}

func (oc *orbitControl) Wheel(ticks float32) {
	rg := oc.rig
	rg.zoom.Set(rg.zoom.Get() * math32.Pow(wheelFactor, ticks))

	cm := &rg.Camera
	dist := rg.baseDist / rg.zoom.Get()
	dir := cm.ViewVector().Normal()
	if dir.IsNil() {
		dir = math32.Vec3(0, 0.7, 1).Normal()
	}
	cm.Pose.Pos = cm.Target.Add(dir.MulScalar(dist))
	cm.LookAt(cm.Target, cm.UpDir)
}

// turntableControl is the 2D top-down input mapping: primary drag
// rotates azimuth proportionally to the horizontal pointer delta,
// always in the drag direction (a generic orbit control can invert
// near the poles); secondary drag pans scaled by 1/zoom; wheel
// multiplies zoom with no clamp.
type turntableControl struct {
	rig *Rig
}

func (tc *turntableControl) PointerDown(btn Button, x, y float32) {
	rg := tc.rig
	rg.dragging = true
	rg.dragBtn = btn
	rg.lastX, rg.lastY = x, y
}

func (tc *turntableControl) PointerMove(x, y float32) {
	rg := tc.rig
	if !rg.dragging {
		return
	}
	dx := x - rg.lastX
	dy := y - rg.lastY
	rg.lastX, rg.lastY = x, y

	switch rg.dragBtn {
	case Primary:
		rg.azimuth += math32.DegToRad(dx * turntableSpeed)
		rg.applyTurntable()
	case Secondary:
		scale := rg.baseOrtho / rg.zoom.Get()
		rg.Camera.Pan(dx*scale*0.5, dy*scale*0.5)
	}
}

func (tc *turntableControl) PointerUp(btn Button, x, y float32) {
	tc.rig.dragging = false
}

func (tc *turntableControl) Wheel(ticks float32) {
	rg := tc.rig
	rg.zoom.Set(rg.zoom.Get() * math32.Pow(wheelFactor, ticks))
	rg.Camera.OrthoHeight = rg.baseOrtho / rg.zoom.Get()
	rg.Camera.UpdateMatrix()
}
