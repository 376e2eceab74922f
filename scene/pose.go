// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "github.com/pvscene/pvscene/math32"

// Pose contains the full specification of a position and orientation.
type Pose struct {
	// Pos is the position of the center of the element.
	Pos math32.Vector3

	// Scale is the scale relative to the parent.
	Scale math32.Vector3

	// Quat is the rotation specified as a quaternion.
	Quat math32.Quat

	// Matrix contains the full local transform; updated by
	// [Pose.UpdateMatrix].
	Matrix math32.Matrix4
}

// Defaults sets defaults only if current values are nil.
func (ps *Pose) Defaults() {
	if ps.Scale.IsNil() {
		ps.Scale.Set(1, 1, 1)
	}
	if ps.Quat.IsNil() {
		ps.Quat.SetIdentity()
	}
}

// UpdateMatrix updates the transform matrix from position, quaternion
// and scale, checking for degenerate nil values.
func (ps *Pose) UpdateMatrix() {
	ps.Defaults()
	ps.Matrix.SetTransform(ps.Pos, ps.Quat, ps.Scale)
}

// LookAt points the pose at the target position from its current
// position, using the given up direction.
func (ps *Pose) LookAt(target, up math32.Vector3) {
	ps.Defaults()
	var rot math32.Matrix4
	rot.SetLookAt(ps.Pos, target, up)
	ps.Quat.SetFromRotationMatrix(&rot)
	ps.UpdateMatrix()
}
