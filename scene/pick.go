// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"strings"

	"github.com/pvscene/pvscene/layout"
	"github.com/pvscene/pvscene/math32"
)

// PanelElement is the element type of panel anchors; equipment
// anchors use the equipment's own type string.
const PanelElement = "panel"

// ElementAnchor is the stable identity of a commentable scene
// element, shared with the external comment subsystem. For panels the
// ID is the string-encoded positional index; for equipment it is the
// parser-assigned id.
type ElementAnchor struct {
	Type  string
	ID    string
	Label string
}

// Key returns the "type:id" form used by the comment subsystem for
// highlighted-element keys.
func (a ElementAnchor) Key() string {
	return a.Type + ":" + a.ID
}

// ParseAnchorKey splits a "type:id" highlighted-element key.
func ParseAnchorKey(key string) (ElementAnchor, bool) {
	typ, id, ok := strings.Cut(key, ":")
	if !ok || typ == "" || id == "" {
		return ElementAnchor{}, false
	}
	return ElementAnchor{Type: typ, ID: id}, true
}

// panelAnchor builds the anchor for a panel index.
func panelAnchor(index int) ElementAnchor {
	return ElementAnchor{
		Type:  PanelElement,
		ID:    layout.PanelID(index),
		Label: fmt.Sprintf("Panel %d", index+1),
	}
}

// equipmentAnchor builds the anchor for an equipment record.
func equipmentAnchor(rec *layout.EquipmentRecord) ElementAnchor {
	name := string(rec.Type)
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return ElementAnchor{
		Type:  string(rec.Type),
		ID:    rec.ID,
		Label: fmt.Sprintf("%s %s", name, rec.ID),
	}
}

// Pick resolves a pointer ray to the nearest commentable element.
// ok=false when the ray hits nothing, which is not an error: the
// caller simply leaves the selection unchanged.
func (sc *Scene) Pick(ray math32.Ray) (ElementAnchor, bool) {
	pidx, ppt, phit := sc.panels.pick(ray)
	erec, ept, ehit := sc.equipment.pick(ray)

	switch {
	case phit && ehit:
		if ppt.DistanceTo(ray.Origin) <= ept.DistanceTo(ray.Origin) {
			return panelAnchor(pidx), true
		}
		return equipmentAnchor(erec), true
	case phit:
		return panelAnchor(pidx), true
	case ehit:
		return equipmentAnchor(erec), true
	}
	return ElementAnchor{}, false
}

// Locate re-derives the world position for an anchor using the same
// transform logic as the renderers. ok=false means the id no longer
// resolves in the current layout (a stale anchor after a layout
// change); callers must treat that as "cannot focus", never as the
// origin.
func (sc *Scene) Locate(anchor ElementAnchor) (math32.Vector3, bool) {
	if anchor.Type == PanelElement {
		idx, ok := layout.PanelIndex(anchor.ID)
		if !ok {
			return math32.Vector3{}, false
		}
		return sc.panels.center(idx)
	}
	return sc.equipment.center(anchor.ID)
}
