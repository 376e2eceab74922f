// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"image/color"

	"github.com/pvscene/pvscene/layout"
	"github.com/pvscene/pvscene/math32"
	"github.com/pvscene/pvscene/texgen"
	"github.com/pvscene/pvscene/xform"
)

// treeSet renders trees as simple canopy solids sized from the record.
type treeSet struct {
	transforms []math32.Matrix4
	sizes      []math32.Vector3
}

func newTreeSet() *treeSet {
	return &treeSet{}
}

func (ts *treeSet) rebuild(recs []layout.TreeRecord) {
	ts.transforms = ts.transforms[:0]
	ts.sizes = ts.sizes[:0]

	one := math32.Vec3(1, 1, 1)
	ident := math32.Quat{}
	ident.SetIdentity()

	for i := range recs {
		rec := &recs[i]
		canopy := rec.Canopy
		if canopy <= 0 {
			canopy = 4
		}
		height := rec.Height
		if height <= 0 {
			height = 6
		}
		center := xform.ToRender(rec.Position).
			Add(math32.Vec3(0, float32(height)/2, 0))

		var tr math32.Matrix4
		tr.SetTransform(center, ident, one)
		ts.transforms = append(ts.transforms, tr)
		ts.sizes = append(ts.sizes, math32.Vec3(float32(canopy), float32(height), float32(canopy)))
	}
}

func (ts *treeSet) render(d Drawer) {
	tint := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	for i := range ts.transforms {
		d.DrawBox(&ts.transforms[i], ts.sizes[i], string(texgen.TreeCanopy), tint)
	}
}
