// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"image/color"
	"time"

	"log/slog"

	"github.com/pvscene/pvscene/layout"
	"github.com/pvscene/pvscene/math32"
	"github.com/pvscene/pvscene/texgen"
	"github.com/pvscene/pvscene/xform"
)

// PanelMesh is the instanced mesh name for panel tables.
const PanelMesh = "panel-table"

// panelSet renders all panel tables as one instanced draw call.
// Transforms are rebuilt only when the panel list identity changes,
// never per frame; the rebuild also recomputes the per-instance world
// bounds used for pointer-ray hit testing.
type panelSet struct {
	panels []layout.PanelRecord
	cfg    *xform.Config

	// transforms has exactly one entry per panel, uploaded to the
	// drawer in one batch. Written only by rebuild, read only by
	// render and pick passes.
	transforms []math32.Matrix4

	// bounds is the world AABB per instance for ray hit testing.
	bounds []math32.Box3

	// worldBox is the aggregate bound of all panels.
	worldBox math32.Box3

	// hovered and selected are instance indices, -1 for none.
	hovered  int
	selected int

	// tints are telemetry color overrides by instance index.
	tints map[int]color.RGBA

	// dirty marks the transform batch as needing re-upload.
	dirty bool
}

func newPanelSet(cfg *xform.Config) *panelSet {
	return &panelSet{
		cfg:      cfg,
		hovered:  -1,
		selected: -1,
		tints:    map[int]color.RGBA{},
	}
}

// rebuild recomputes every panel transform through the shared xform
// functions. O(N); called only on layout identity change.
func (ps *panelSet) rebuild(panels []layout.PanelRecord) {
	start := time.Now()
	ps.panels = panels
	ps.transforms = make([]math32.Matrix4, len(panels))
	ps.bounds = make([]math32.Box3, len(panels))
	ps.worldBox.SetEmpty()
	ps.hovered = -1
	ps.selected = -1

	// per-panel dimensions bake into the transform scale against a
	// unit mesh, so one instance batch renders heterogeneous table
	// sizes and the pick AABB matches the rendered slab exactly
	unit := math32.Box3{}
	unit.SetFromCenterAndSize(math32.Vector3{}, math32.Vec3(1, 1, 1))
	for i := range panels {
		rec := &panels[i]
		g := xform.ResolvePanel(rec, ps.cfg)
		pos := xform.PanelCenter(rec, ps.cfg)
		rot := xform.PanelRotation(rec, ps.cfg)
		scale := math32.Vec3(float32(g.TableWidth), xform.PanelThickness, float32(g.TableHeight))
		ps.transforms[i].SetTransform(pos, rot, scale)
		ps.bounds[i] = unit.MulMatrix4(&ps.transforms[i])
		ps.worldBox.ExpandByBox(ps.bounds[i])
	}
	ps.dirty = true
	slog.Debug("scene: rebuilt panel instances",
		"panels", len(panels), "elapsed", time.Since(start))
}

// render uploads the instance batch and issues the single draw call,
// plus at most one translucent overlay quad for hover/selection
// emphasis, positioned at that panel's transform.
func (ps *panelSet) render(d Drawer) {
	if ps.dirty {
		d.SetInstances(PanelMesh, math32.Vec3(1, 1, 1), ps.transforms)
		ps.dirty = false
	}
	d.DrawInstanced(PanelMesh, len(ps.transforms), string(texgen.PanelGlass), ps.baseTint())

	// sparse telemetry tints draw as translucent overlays rather than
	// per-instance color branching
	for idx, tint := range ps.tints {
		ps.overlay(d, idx, tint)
	}

	for _, idx := range []int{ps.selected, ps.hovered} {
		if idx >= 0 {
			ps.overlay(d, idx, color.RGBA{R: 0xff, G: 0xb3, B: 0x00, A: 0x60})
			break
		}
	}
}

// overlay draws one translucent quad at the given panel's transform.
// The transform's scale carries the table dimensions, so the quad is
// unit-sized in local space.
func (ps *panelSet) overlay(d Drawer, idx int, tint color.RGBA) {
	if idx < 0 || idx >= len(ps.transforms) {
		return
	}
	d.DrawQuad(&ps.transforms[idx], math32.Vec2(1, 1), "", tint)
}

func (ps *panelSet) baseTint() color.RGBA {
	return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
}

// pick returns the index of the nearest panel whose bound the ray
// hits, with the hit point, or ok=false when the ray misses all
// panels (not an error; no selection change).
func (ps *panelSet) pick(ray math32.Ray) (int, math32.Vector3, bool) {
	if _, hit := ray.IntersectBox(ps.worldBox); !hit {
		return -1, math32.Vector3{}, false
	}
	best := -1
	var bestPt math32.Vector3
	bestDist := math32.Infinity
	for i := range ps.bounds {
		pt, hit := ray.IntersectBox(ps.bounds[i])
		if !hit {
			continue
		}
		d := pt.DistanceTo(ray.Origin)
		if d < bestDist {
			best, bestPt, bestDist = i, pt, d
		}
	}
	if best < 0 {
		return -1, math32.Vector3{}, false
	}
	return best, bestPt, true
}

// center returns the world center of the panel at the given index,
// ok=false when the index does not resolve in the current layout.
func (ps *panelSet) center(index int) (math32.Vector3, bool) {
	if index < 0 || index >= len(ps.panels) {
		return math32.Vector3{}, false
	}
	return xform.PanelCenter(&ps.panels[index], ps.cfg), true
}

func (ps *panelSet) setTint(index int, tint color.RGBA) {
	if index < 0 || index >= len(ps.panels) {
		return
	}
	if tint.A == 0 {
		delete(ps.tints, index)
		return
	}
	ps.tints[index] = tint
}
