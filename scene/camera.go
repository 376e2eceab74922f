// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "github.com/pvscene/pvscene/math32"

// Camera defines the properties of the scene camera. It is owned by
// the [Rig] and all mutation goes through the rig's single update
// path on the frame loop.
type Camera struct {
	// Pose is the overall orientation and position of the camera,
	// relative to pointing at negative Z with positive Y up.
	Pose Pose

	// Target is the location the camera is pointing at; it moves with
	// panning and is reset by LookAt.
	Target math32.Vector3

	// UpDir is which way is up for the camera; defaults to positive Y
	// and must be renormalized to it when leaving the 2D turntable.
	UpDir math32.Vector3

	// Ortho makes the projection orthographic instead of perspective.
	Ortho bool

	// FOV is the perspective field of view in degrees.
	FOV float32

	// Aspect is the aspect ratio (width / height).
	Aspect float32

	// Near and Far are the clip plane distances.
	Near float32
	Far  float32

	// OrthoHeight is the world-space height of the orthographic view
	// volume; only used when Ortho is set.
	OrthoHeight float32

	// ViewMatrix is the inverse of the pose matrix.
	ViewMatrix math32.Matrix4

	// ProjMatrix is the projection transform.
	ProjMatrix math32.Matrix4

	// InvProjMatrix is the inverse of ProjMatrix.
	InvProjMatrix math32.Matrix4
}

// Defaults sets standard initial camera values.
func (cm *Camera) Defaults() {
	cm.FOV = 30
	cm.Aspect = 1.5
	cm.Near = 0.1
	cm.Far = 10000
	cm.OrthoHeight = 100
	cm.Pose.Defaults()
	cm.Pose.Pos.Set(0, 50, 100)
	cm.LookAt(math32.Vector3{}, math32.Vector3Y)
}

// UpdateMatrix updates the view and projection matrices.
func (cm *Camera) UpdateMatrix() {
	cm.Pose.UpdateMatrix()
	cm.ViewMatrix.SetInverse(&cm.Pose.Matrix)
	if cm.Ortho {
		cm.ProjMatrix.SetOrthographic(cm.OrthoHeight*cm.Aspect, cm.OrthoHeight, cm.Near, cm.Far)
	} else {
		cm.ProjMatrix.SetPerspective(cm.FOV, cm.Aspect, cm.Near, cm.Far)
	}
	cm.InvProjMatrix.SetInverse(&cm.ProjMatrix)
}

// LookAt points the camera at the given target location with the
// given up direction, setting Target and UpDir for future movements.
func (cm *Camera) LookAt(target, up math32.Vector3) {
	cm.Target = target
	if up.IsNil() {
		up = math32.Vector3Y
	}
	cm.UpDir = up
	cm.Pose.LookAt(target, up)
	cm.UpdateMatrix()
}

// ViewVector is the vector from the target to the camera position.
func (cm *Camera) ViewVector() math32.Vector3 {
	return cm.Pose.Pos.Sub(cm.Target)
}

// Orbit rotates the camera around the target by the given 2D deltas
// in degrees (delX = left/right about the up axis, delY = up/down
// about the right axis), keeping the distance to the target.
func (cm *Camera) Orbit(delX, delY float32) {
	ctdir := cm.ViewVector()
	if ctdir.IsNil() {
		ctdir.Set(0, 0, 1)
	}
	dir := ctdir.Normal()

	up := cm.UpDir
	right := cm.UpDir.Cross(dir).Normal()

	dxq := math32.NewQuatAxisAngle(up, math32.DegToRad(delX))
	dx := ctdir.MulQuat(dxq).Sub(ctdir)
	dyq := math32.NewQuatAxisAngle(right, math32.DegToRad(delY))
	dy := ctdir.MulQuat(dyq).Sub(ctdir)

	cm.Pose.Pos.SetAdd(dx.Add(dy))
	cm.UpDir.SetMulQuat(dyq) // only the vertical orbit tilts up

	// the additive deltas drift the radius for large combined angles;
	// snap back to the pre-orbit distance
	v := cm.Pose.Pos.Sub(cm.Target)
	if !v.IsNil() {
		cm.Pose.Pos = cm.Target.Add(v.Normal().MulScalar(ctdir.Length()))
	}

	cm.LookAt(cm.Target, cm.UpDir)
}

// Pan moves the camera and its target along the camera-relative X and
// Y axes, staying in the plane of the current view.
func (cm *Camera) Pan(delX, delY float32) {
	dx := math32.Vec3(-delX, 0, 0).MulQuat(cm.Pose.Quat)
	dy := math32.Vec3(0, -delY, 0).MulQuat(cm.Pose.Quat)
	td := dx.Add(dy)
	cm.Pose.Pos.SetAdd(td)
	cm.Target.SetAdd(td)
	cm.UpdateMatrix()
}

// Ray returns the world-space ray through the given normalized device
// coordinate (x, y in [-1, 1], y up).
func (cm *Camera) Ray(ndc math32.Vector2) math32.Ray {
	nearView := math32.Vec3(ndc.X, ndc.Y, -1).MulProjection(&cm.InvProjMatrix)
	nearWorld := nearView.MulMatrix4(&cm.Pose.Matrix)
	if cm.Ortho {
		fwd := math32.Vec3(0, 0, -1).MulQuat(cm.Pose.Quat)
		return math32.NewRay(nearWorld, fwd)
	}
	return math32.NewRay(cm.Pose.Pos, nearWorld.Sub(cm.Pose.Pos))
}

// Project maps a world position to normalized frame coordinates with
// x, y in [0, 1] and the origin at the top left, plus the view-space
// depth, reporting whether the point is in front of the camera.
func (cm *Camera) Project(world math32.Vector3) (math32.Vector2, float32, bool) {
	view := world.MulMatrix4(&cm.ViewMatrix)
	if !cm.Ortho && view.Z >= 0 {
		return math32.Vector2{}, 0, false
	}
	ndc := view.MulProjection(&cm.ProjMatrix)
	return math32.Vec2(ndc.X*0.5+0.5, 0.5-ndc.Y*0.5), -view.Z, true
}
