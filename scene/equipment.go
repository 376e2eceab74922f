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

// equipmentSet renders the placed (non line-like) electrical
// equipment as individual solids. Equipment counts are small, so no
// instancing is needed here.
type equipmentSet struct {
	cfg *xform.Config

	recs       []layout.EquipmentRecord
	transforms []math32.Matrix4
	sizes      []math32.Vector3
	bounds     []math32.Box3
	byID       map[string]int

	tints map[string]color.RGBA

	// selected holds the ID of the highlighted record, empty for none.
	// Kept apart from tints so clearing a highlight leaves telemetry
	// coloring alone.
	selected string
}

func newEquipmentSet(cfg *xform.Config) *equipmentSet {
	return &equipmentSet{
		cfg:   cfg,
		byID:  map[string]int{},
		tints: map[string]color.RGBA{},
	}
}

func (es *equipmentSet) rebuild(recs []layout.EquipmentRecord) {
	es.recs = es.recs[:0]
	es.transforms = es.transforms[:0]
	es.sizes = es.sizes[:0]
	es.bounds = es.bounds[:0]
	es.byID = map[string]int{}

	one := math32.Vec3(1, 1, 1)
	for i := range recs {
		rec := &recs[i]
		if rec.Type.IsLine() {
			continue // cableSet owns line-like runs
		}
		pos := xform.EquipmentCenter(rec, es.cfg)
		rot := xform.EquipmentRotation(rec)
		dims := es.cfg.DimsFor(rec)
		size := math32.Vec3(float32(dims.Width), float32(dims.Height), float32(dims.Depth))

		var tr math32.Matrix4
		tr.SetTransform(pos, rot, one)

		lb := math32.Box3{}
		lb.SetFromCenterAndSize(math32.Vector3{}, size)

		es.byID[rec.ID] = len(es.recs)
		es.recs = append(es.recs, *rec)
		es.transforms = append(es.transforms, tr)
		es.sizes = append(es.sizes, size)
		es.bounds = append(es.bounds, lb.MulMatrix4(&tr))
	}
}

func (es *equipmentSet) render(d Drawer) {
	for i := range es.recs {
		tint := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
		if t, ok := es.tints[es.recs[i].ID]; ok {
			tint = t
		}
		if es.recs[i].ID == es.selected && es.selected != "" {
			tint = highlightTint
		}
		d.DrawBox(&es.transforms[i], es.sizes[i], string(texgen.Metal), tint)
	}
}

// pick returns the hit equipment record nearest to the ray origin.
func (es *equipmentSet) pick(ray math32.Ray) (*layout.EquipmentRecord, math32.Vector3, bool) {
	best := -1
	var bestPt math32.Vector3
	bestDist := math32.Infinity
	for i := range es.bounds {
		pt, hit := ray.IntersectBox(es.bounds[i])
		if !hit {
			continue
		}
		if d := pt.DistanceTo(ray.Origin); d < bestDist {
			best, bestPt, bestDist = i, pt, d
		}
	}
	if best < 0 {
		return nil, math32.Vector3{}, false
	}
	return &es.recs[best], bestPt, true
}

// center returns the world center for the equipment with the given
// parser id, ok=false when the id does not resolve.
func (es *equipmentSet) center(id string) (math32.Vector3, bool) {
	i, ok := es.byID[id]
	if !ok {
		return math32.Vector3{}, false
	}
	return es.transforms[i].Pos(), true
}

// centers returns the world center of every placed equipment solid,
// keyed by parser id.
func (es *equipmentSet) centers() map[string]math32.Vector3 {
	out := make(map[string]math32.Vector3, len(es.recs))
	for id, i := range es.byID {
		out[id] = es.transforms[i].Pos()
	}
	return out
}

func (es *equipmentSet) setTint(id string, tint color.RGBA) {
	if tint.A == 0 {
		delete(es.tints, id)
		return
	}
	es.tints[id] = tint
}
