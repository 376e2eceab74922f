// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"image/color"
	"log/slog"

	"github.com/pvscene/pvscene/layout"
	"github.com/pvscene/pvscene/math32"
)

// Handle is the narrow control surface handed to the embedding
// application. Everything the outer UI needs to do to the scene
// between frames goes through here; the [Scene] itself stays
// internal to the frame loop.
//
// Handle methods are not safe for concurrent use with the frame
// loop; call them from the same goroutine that calls RenderFrame.
type Handle struct {
	sc *Scene
}

// FocusOn moves the camera to the element addressed by type and ID,
// keeping the current view mode and orientation. If the element no
// longer exists in the loaded layout the camera is left untouched.
func (h *Handle) FocusOn(elementType, elementID string) {
	pos, ok := h.sc.Locate(ElementAnchor{Type: elementType, ID: elementID})
	if !ok {
		slog.Info("scene: focus target missing", "type", elementType, "id", elementID)
		return
	}
	h.sc.Rig.FocusOn(pos)
}

// SetHighlight highlights the element with the given "type:id" key;
// an empty key clears the highlight.
func (h *Handle) SetHighlight(key string) {
	h.sc.SetHighlight(key)
}

// SetLayerVisible toggles a render layer.
func (h *Handle) SetLayerVisible(layer Layer, visible bool) {
	h.sc.SetLayerVisible(layer, visible)
}

// SetPlacementMode switches element picking between comment
// placement and plain inspection.
func (h *Handle) SetPlacementMode(on bool) {
	h.sc.SetPlacementMode(on)
}

// SetHour sets the sun time of day in decimal hours.
func (h *Handle) SetHour(hour float32) {
	h.sc.SetHour(hour)
}

// SetPanelTint applies a telemetry color to one panel table,
// identified by its panel ID. A zero-alpha tint clears it.
func (h *Handle) SetPanelTint(panelID string, tint color.RGBA) {
	idx, ok := layout.PanelIndex(panelID)
	if !ok {
		slog.Warn("scene: tint of unparseable panel id", "id", panelID)
		return
	}
	h.sc.panels.setTint(idx, tint)
}

// SetEquipmentTint applies a telemetry color to one equipment solid.
// A zero-alpha tint clears it.
func (h *Handle) SetEquipmentTint(equipmentID string, tint color.RGBA) {
	h.sc.equipment.setTint(equipmentID, tint)
}

// Capture renders a single frame to an image.
func (h *Handle) Capture(opts CaptureOptions) (*CaptureResult, error) {
	return h.sc.Capture(opts)
}

// ProjectedElement is an element center projected onto the current
// viewport, with Pos in normalized [0,1]² coordinates, origin at the
// top left.
type ProjectedElement struct {
	Type  string
	ID    string
	Pos   math32.Vector2
	Depth float32
}

// ProjectEquipment projects the centers of all placed equipment into
// viewport coordinates for 2D overlay labeling. Elements behind the
// camera or outside the frustum are omitted.
func (h *Handle) ProjectEquipment() []ProjectedElement {
	cam := &h.sc.Rig.Camera
	centers := h.sc.equipment.centers()
	out := make([]ProjectedElement, 0, len(centers))
	for id, pos := range centers {
		pt, depth, ok := cam.Project(pos)
		if !ok || pt.X < 0 || pt.X > 1 || pt.Y < 0 || pt.Y > 1 {
			continue
		}
		rec, _ := h.sc.layoutEquipment(id)
		elemType := ""
		if rec != nil {
			elemType = string(rec.Type)
		}
		out = append(out, ProjectedElement{Type: elemType, ID: id, Pos: pt, Depth: depth})
	}
	return out
}

// OnElementSelected registers a callback fired when placement-mode
// picking resolves an element.
func (h *Handle) OnElementSelected(fn func(ElementAnchor)) {
	h.sc.onSelected = append(h.sc.onSelected, fn)
}

// OnBadgeClick registers a callback fired when a comment marker
// badge is clicked.
func (h *Handle) OnBadgeClick(fn func(elementType, elementID string)) {
	h.sc.onBadge = append(h.sc.onBadge, fn)
}

func (sc *Scene) layoutEquipment(id string) (*layout.EquipmentRecord, bool) {
	if sc.layout == nil {
		return nil, false
	}
	rec := sc.layout.Equipment(id)
	return rec, rec != nil
}
