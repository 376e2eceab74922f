// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

// Layer identifies a toggleable render layer.
type Layer string

const (
	LayerPanels     Layer = "panels"
	LayerEquipment  Layer = "equipment"
	LayerCables     Layer = "cables"
	LayerBoundaries Layer = "boundaries"
	LayerTrees      Layer = "trees"
	LayerBasemap    Layer = "basemap"
	LayerMarkers    Layer = "markers"
)

// AuxLayers are the auxiliary layers hidden for a "clean" frame
// capture.
var AuxLayers = []Layer{LayerCables, LayerBoundaries, LayerMarkers}

// allLayers is the full set, all visible by default.
var allLayers = []Layer{
	LayerPanels, LayerEquipment, LayerCables, LayerBoundaries,
	LayerTrees, LayerBasemap, LayerMarkers,
}

func defaultVisibility() map[Layer]bool {
	m := make(map[Layer]bool, len(allLayers))
	for _, l := range allLayers {
		m[l] = true
	}
	return m
}

// SetLayerVisible toggles a render layer.
func (sc *Scene) SetLayerVisible(layer Layer, visible bool) {
	sc.visible[layer] = visible
}

// LayerVisible reports whether a layer is currently rendered.
func (sc *Scene) LayerVisible(layer Layer) bool {
	return sc.visible[layer]
}
