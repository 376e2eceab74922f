// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

// Ray represents an oriented 3D line segment defined by an origin
// point and a unit direction.
type Ray struct {
	Origin Vector3
	Dir    Vector3
}

// NewRay returns a new [Ray] with the given origin and direction,
// normalizing the direction.
func NewRay(origin, dir Vector3) Ray {
	return Ray{Origin: origin, Dir: dir.Normal()}
}

// At returns the point on the ray at the given parametric distance.
func (r Ray) At(t float32) Vector3 {
	return r.Origin.Add(r.Dir.MulScalar(t))
}

// IntersectBox returns the nearest point of intersection of this ray
// with the given box, and whether it intersects at all.
func (r Ray) IntersectBox(box Box3) (Vector3, bool) {
	t, ok := r.intersectBoxT(box)
	if !ok {
		return Vector3{}, false
	}
	return r.At(t), true
}

// intersectBoxT is the slab-method box intersection returning the
// parametric distance of the nearest hit.
func (r Ray) intersectBoxT(box Box3) (float32, bool) {
	var tmin, tmax, tymin, tymax, tzmin, tzmax float32

	invdirx := 1 / r.Dir.X
	invdiry := 1 / r.Dir.Y
	invdirz := 1 / r.Dir.Z

	if invdirx >= 0 {
		tmin = (box.Min.X - r.Origin.X) * invdirx
		tmax = (box.Max.X - r.Origin.X) * invdirx
	} else {
		tmin = (box.Max.X - r.Origin.X) * invdirx
		tmax = (box.Min.X - r.Origin.X) * invdirx
	}

	if invdiry >= 0 {
		tymin = (box.Min.Y - r.Origin.Y) * invdiry
		tymax = (box.Max.Y - r.Origin.Y) * invdiry
	} else {
		tymin = (box.Max.Y - r.Origin.Y) * invdiry
		tymax = (box.Min.Y - r.Origin.Y) * invdiry
	}

	if tmin > tymax || tymin > tmax {
		return 0, false
	}
	// these lines also handle the case where tmin or tmax is NaN
	// (result of 0 * Inf), which is not a hit
	if tymin > tmin || IsNaN(tmin) {
		tmin = tymin
	}
	if tymax < tmax || IsNaN(tmax) {
		tmax = tymax
	}

	if invdirz >= 0 {
		tzmin = (box.Min.Z - r.Origin.Z) * invdirz
		tzmax = (box.Max.Z - r.Origin.Z) * invdirz
	} else {
		tzmin = (box.Max.Z - r.Origin.Z) * invdirz
		tzmax = (box.Min.Z - r.Origin.Z) * invdirz
	}

	if tmin > tzmax || tzmin > tmax {
		return 0, false
	}
	if tzmin > tmin || IsNaN(tmin) {
		tmin = tzmin
	}
	if tzmax < tmax || IsNaN(tmax) {
		tmax = tzmax
	}

	if tmax < 0 {
		// box is behind the ray
		return 0, false
	}
	if tmin >= 0 {
		return tmin, true
	}
	return tmax, true
}

// IntersectPlaneY returns the point where this ray crosses the
// horizontal plane at the given Y, and whether it does so in the
// forward direction.
func (r Ray) IntersectPlaneY(y float32) (Vector3, bool) {
	if r.Dir.Y == 0 {
		return Vector3{}, false
	}
	t := (y - r.Origin.Y) / r.Dir.Y
	if t < 0 {
		return Vector3{}, false
	}
	return r.At(t), true
}
