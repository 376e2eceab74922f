// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"image/color"

	"github.com/pvscene/pvscene/math32"
)

// markerHeight is how far above an element its comment badge floats.
const markerHeight = 3.0

// markerSize is the world-space size of a badge quad.
const markerSize = 1.6

// markerSet renders the persistent comment-count badges floating
// above elements with open comments, and hit-tests badge activation.
type markerSet struct {
	markers []marker
}

type marker struct {
	anchor ElementAnchor
	count  int
	pos    math32.Vector3
	bound  math32.Box3
}

func newMarkerSet() *markerSet {
	return &markerSet{}
}

// rebuild places one badge per anchored element with open comments.
// Anchors that no longer resolve in the current layout are skipped.
func (ms *markerSet) rebuild(sc *Scene, counts map[string]int) {
	ms.markers = ms.markers[:0]
	for key, count := range counts {
		if count <= 0 {
			continue
		}
		anchor, ok := ParseAnchorKey(key)
		if !ok {
			continue
		}
		base, ok := sc.Locate(anchor)
		if !ok {
			continue // stale anchor
		}
		pos := base.Add(math32.Vec3(0, markerHeight, 0))
		b := math32.Box3{}
		b.SetFromCenterAndSize(pos, math32.Vec3(markerSize, markerSize, markerSize))
		ms.markers = append(ms.markers, marker{anchor: anchor, count: count, pos: pos, bound: b})
	}
}

func (ms *markerSet) render(d Drawer) {
	tint := color.RGBA{R: 0x20, G: 0x78, B: 0xd8, A: 0xe0}
	one := math32.Vec3(1, 1, 1)
	ident := math32.Quat{}
	ident.SetIdentity()
	for i := range ms.markers {
		var tr math32.Matrix4
		tr.SetTransform(ms.markers[i].pos, ident, one)
		d.DrawQuad(&tr, math32.Vec2(markerSize, markerSize), "", tint)
	}
}

// hit returns the badge anchor under the ray, if any.
func (ms *markerSet) hit(ray math32.Ray) (ElementAnchor, bool) {
	best := -1
	bestDist := math32.Infinity
	for i := range ms.markers {
		pt, ok := ray.IntersectBox(ms.markers[i].bound)
		if !ok {
			continue
		}
		if d := pt.DistanceTo(ray.Origin); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return ElementAnchor{}, false
	}
	return ms.markers[best].anchor, true
}
