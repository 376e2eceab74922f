// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene renders a parsed solar CAD layout as an interactive
// 3D/2D scene: instanced panel tables, equipment solids, boundary and
// cable polylines, basemap ground tiles, a dual-mode camera rig, and
// element picking for comment anchoring.
package scene

import (
	"image"
	"image/color"
	"log/slog"

	"github.com/pvscene/pvscene/layout"
	"github.com/pvscene/pvscene/math32"
	"github.com/pvscene/pvscene/sunpos"
	"github.com/pvscene/pvscene/texgen"
	"github.com/pvscene/pvscene/xform"
)

// Scene composes the per-type renderers over one layout snapshot and
// owns layer visibility, the highlight state, and the picking mode.
// All updates happen synchronously on the frame loop.
type Scene struct {
	cfg    *xform.Config
	drawer Drawer
	tex    *texgen.Cache

	// Rig owns the camera exclusively.
	Rig  *Rig
	zoom *ZoomCell

	layout *layout.ParsedLayout

	panels     *panelSet
	equipment  *equipmentSet
	cables     *cableSet
	boundaries *boundarySet
	trees      *treeSet
	ground     *groundSet
	markers    *markerSet

	visible    map[Layer]bool
	background color.RGBA

	// placement gates comment-placement picking; outside it the same
	// clicks drive ordinary inspection.
	placement bool

	hour     float32
	lighting Lighting

	onSelected []func(ElementAnchor)
	onBadge    []func(elementType, elementID string)
}

// Option configures a [Scene] at construction.
type Option func(*Scene)

// WithConfig overrides the geometry/offsets configuration.
func WithConfig(cfg *xform.Config) Option {
	return func(sc *Scene) { sc.cfg = cfg }
}

// WithBackground sets the clear color.
func WithBackground(c color.RGBA) Option {
	return func(sc *Scene) { sc.background = c }
}

// New returns a scene rendering through the given drawer, along with
// the [Handle] exposing the imperative control surface consumed by
// the outer controller.
func New(drawer Drawer, opts ...Option) (*Scene, *Handle) {
	sc := &Scene{
		cfg:        xform.DefaultConfig(),
		drawer:     drawer,
		tex:        &texgen.Cache{},
		zoom:       NewZoomCell(),
		cables:     newCableSet(),
		boundaries: newBoundarySet(),
		trees:      newTreeSet(),
		ground:     newGroundSet(),
		markers:    newMarkerSet(),
		visible:    defaultVisibility(),
		background: color.RGBA{R: 0x87, G: 0xb5, B: 0xd8, A: 0xff},
		hour:       12,
		lighting:   defaultLighting(),
	}
	for _, opt := range opts {
		opt(sc)
	}
	sc.panels = newPanelSet(sc.cfg)
	sc.equipment = newEquipmentSet(sc.cfg)
	sc.Rig = NewRig(sc.zoom, 100)

	for _, kind := range []texgen.Kind{texgen.PanelGlass, texgen.Ground, texgen.Metal, texgen.TreeCanopy} {
		drawer.SetTexture(string(kind), sc.tex.Get(kind))
	}
	return sc, &Handle{sc: sc}
}

// SetLayout replaces the layout snapshot and rebuilds the whole
// scene: every panel transform is recomputed, equipment and line
// geometry regenerated, and stale markers dropped. The camera rig is
// resized to the new extent, keeping the shared zoom scalar.
func (sc *Scene) SetLayout(pl *layout.ParsedLayout) {
	sc.layout = pl
	sc.panels.rebuild(pl.Panels)
	sc.equipment.rebuild(pl.Electrical)
	sc.cables.rebuild(pl.Electrical)
	sc.boundaries.rebuild(pl.Boundaries)
	sc.trees.rebuild(pl.Trees)
	sc.markers.rebuild(sc, nil)

	// the rig is resized for the new extent but the user's view state
	// survives the swap: mode, turntable azimuth and the shared zoom
	// all carry over
	ext := float32(maxf(pl.Bounds.Extents.X, pl.Bounds.Extents.Y)) * 2
	mode := sc.Rig.Mode()
	azimuth := sc.Rig.azimuth
	src := sc.Rig.source
	sc.Rig.Teardown()
	sc.Rig = NewRig(sc.zoom, ext)
	sc.Rig.azimuth = azimuth
	if mode == Mode2D {
		sc.Rig.SetMode(Mode2D)
	} else {
		sc.Rig.enter3D()
	}
	if src != nil {
		sc.Rig.AttachTo(src)
	}
	sc.Rig.FocusOn(xform.ToRender(pl.Bounds.Center))

	slog.Info("scene: layout loaded",
		"panels", len(pl.Panels), "equipment", len(pl.Electrical),
		"boundaries", len(pl.Boundaries), "trees", len(pl.Trees))
}

// Layout returns the current layout snapshot, nil before SetLayout.
func (sc *Scene) Layout() *layout.ParsedLayout {
	return sc.layout
}

// SetHour sets the time of day driving the sun light, decimal hours.
func (sc *Scene) SetHour(hour float32) {
	sc.hour = hour
}

// SetPlacementMode engages or releases comment-placement picking.
func (sc *Scene) SetPlacementMode(on bool) {
	sc.placement = on
}

// RenderFrame draws one frame, advancing damped camera motion by dt
// seconds. The returned image is whatever the backend yields from
// End; presenting backends return nil.
func (sc *Scene) RenderFrame(dt float32) *image.RGBA {
	sc.Rig.Update(dt)
	sc.drawer.Begin(&sc.Rig.Camera, sc.background)

	// tile textures queued by fetch goroutines register here, so the
	// drawer is only ever touched from this goroutine
	sc.ground.flush(sc.drawer)

	sun := sunpos.At(sc.hour)
	sc.drawer.SetSun(sun.Direction, sun.Intensity*sc.lighting.SunScale+sc.lighting.Ambient)

	if sc.visible[LayerBasemap] {
		sc.ground.render(sc.drawer)
	}
	if sc.visible[LayerBoundaries] {
		sc.boundaries.render(sc.drawer)
	}
	if sc.visible[LayerCables] {
		sc.cables.render(sc.drawer)
	}
	if sc.visible[LayerPanels] {
		sc.panels.render(sc.drawer)
	}
	if sc.visible[LayerEquipment] {
		sc.equipment.render(sc.drawer)
	}
	if sc.visible[LayerTrees] {
		sc.trees.render(sc.drawer)
	}
	if sc.visible[LayerMarkers] {
		sc.markers.render(sc.drawer)
	}
	return sc.drawer.End()
}

// SetHighlight highlights the element addressed by a "type:id" key,
// clearing any previous highlight. An empty key clears only. Keys
// addressing elements absent from the current layout log and no-op.
func (sc *Scene) SetHighlight(key string) {
	sc.panels.selected = -1
	sc.equipment.selected = ""
	if key == "" {
		return
	}
	anchor, ok := ParseAnchorKey(key)
	if !ok {
		slog.Warn("scene: bad highlight key", "key", key)
		return
	}
	switch anchor.Type {
	case PanelElement:
		idx, ok := layout.PanelIndex(anchor.ID)
		if !ok || idx < 0 || idx >= len(sc.panels.panels) {
			slog.Warn("scene: highlight of missing panel", "id", anchor.ID)
			return
		}
		sc.panels.selected = idx
	default:
		if _, ok := sc.equipment.center(anchor.ID); !ok {
			slog.Warn("scene: highlight of missing equipment", "id", anchor.ID)
			return
		}
		sc.equipment.selected = anchor.ID
	}
}

var highlightTint = color.RGBA{R: 0xff, G: 0xa0, B: 0x20, A: 0x90}

// PointerSelect resolves a primary click at the given normalized
// device coordinate. Marker badges take priority; in placement mode
// the nearest pickable element is reported to the selection
// callbacks; otherwise the click drives ordinary inspection
// selection.
func (sc *Scene) PointerSelect(ndc math32.Vector2) {
	ray := sc.Rig.Camera.Ray(ndc)

	if sc.visible[LayerMarkers] {
		if anchor, ok := sc.markers.hit(ray); ok {
			for _, fn := range sc.onBadge {
				fn(anchor.Type, anchor.ID)
			}
			return
		}
	}

	anchor, ok := sc.Pick(ray)
	if sc.placement {
		if !ok {
			return
		}
		for _, fn := range sc.onSelected {
			fn(anchor)
		}
		return
	}

	// Inspection: clicking selects, clicking empty space clears.
	if ok {
		sc.SetHighlight(anchor.Key())
	} else {
		sc.SetHighlight("")
	}
}

// PointerHover updates the hover highlight from a pointer move in
// normalized device coordinates.
func (sc *Scene) PointerHover(ndc math32.Vector2) {
	ray := sc.Rig.Camera.Ray(ndc)
	if idx, _, ok := sc.panels.pick(ray); ok {
		sc.panels.hovered = idx
	} else {
		sc.panels.hovered = -1
	}
}
