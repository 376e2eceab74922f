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

func perspCamera() *Camera {
	cm := &Camera{}
	cm.Defaults()
	cm.Aspect = 1
	cm.Pose.Pos = math32.Vec3(0, 20, 40)
	cm.LookAt(math32.Vector3{}, math32.Vector3Y)
	return cm
}

func orthoCamera() *Camera {
	cm := &Camera{}
	cm.Defaults()
	cm.Aspect = 1
	cm.Ortho = true
	cm.OrthoHeight = 100
	cm.Pose.Pos = math32.Vec3(0, 200, 0)
	cm.LookAt(math32.Vector3{}, math32.Vec3(0, 0, -1))
	return cm
}

func TestProjectTargetIsScreenCenter(t *testing.T) {
	for name, cm := range map[string]*Camera{"persp": perspCamera(), "ortho": orthoCamera()} {
		pt, depth, ok := cm.Project(cm.Target)
		require.True(t, ok, name)
		assert.InDelta(t, 0.5, float64(pt.X), 1e-4, name)
		assert.InDelta(t, 0.5, float64(pt.Y), 1e-4, name)
		assert.Greater(t, depth, float32(0), name)
	}
}

func TestProjectBehindCameraRejected(t *testing.T) {
	cm := perspCamera()
	behind := cm.Pose.Pos.Add(cm.Pose.Pos.Sub(cm.Target))
	_, _, ok := cm.Project(behind)
	assert.False(t, ok)
}

func TestRayThroughCenterHitsTarget(t *testing.T) {
	for name, cm := range map[string]*Camera{"persp": perspCamera(), "ortho": orthoCamera()} {
		ray := cm.Ray(math32.Vec2(0, 0))
		// nearest point on the ray to the target should be the target
		toTarget := cm.Target.Sub(ray.Origin)
		along := ray.Dir.MulScalar(toTarget.Dot(ray.Dir))
		miss := toTarget.Sub(along).Length()
		assert.InDelta(t, 0, float64(miss), 1e-3, name)
	}
}

func TestRayProjectRoundTrip(t *testing.T) {
	cm := perspCamera()
	world := math32.Vec3(8, 0, -5)
	pt, _, ok := cm.Project(world)
	require.True(t, ok)

	// back to NDC, y flipped
	ray := cm.Ray(math32.Vec2(pt.X*2-1, 1-pt.Y*2))
	toWorld := world.Sub(ray.Origin)
	along := ray.Dir.MulScalar(toWorld.Dot(ray.Dir))
	miss := toWorld.Sub(along).Length()
	assert.InDelta(t, 0, float64(miss), 1e-2)
}

func TestOrbitKeepsDistance(t *testing.T) {
	cm := perspCamera()
	dist := cm.Pose.Pos.DistanceTo(cm.Target)
	cm.Orbit(35, 10)
	assert.InDelta(t, float64(dist), float64(cm.Pose.Pos.DistanceTo(cm.Target)), 1e-3)

	// large combined deltas must not drift the radius either
	cm.Orbit(80, -25)
	assert.InDelta(t, float64(dist), float64(cm.Pose.Pos.DistanceTo(cm.Target)), 1e-3)
	assert.Equal(t, math32.Vector3{}, cm.Target, "orbit moves the eye, not the target")
}

func TestPanMovesEyeAndTargetTogether(t *testing.T) {
	cm := perspCamera()
	offset := cm.Pose.Pos.Sub(cm.Target)
	cm.Pan(5, -3)
	got := cm.Pose.Pos.Sub(cm.Target)
	assert.InDelta(t, float64(offset.X), float64(got.X), 1e-4)
	assert.InDelta(t, float64(offset.Y), float64(got.Y), 1e-4)
	assert.InDelta(t, float64(offset.Z), float64(got.Z), 1e-4)
	assert.NotEqual(t, math32.Vector3{}, cm.Target)
}
