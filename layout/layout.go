// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layout defines the parsed CAD layout data model consumed by
// the scene. A [ParsedLayout] is produced by the external CAD parser
// and is read-only here; replacing it rebuilds the whole scene.
package layout

import "strconv"

// Point3 is a point in CAD space: x, y in the horizontal drawing plane,
// with Z the separate height field.
type Point3 struct {
	X float64
	Y float64
	Z float64
}

// Dims are the physical dimensions of a piece of equipment in meters.
type Dims struct {
	Width  float64
	Depth  float64
	Height float64
}

// EquipmentType identifies the kind of an [EquipmentRecord].
type EquipmentType string

const (
	Inverter    EquipmentType = "inverter"
	Transformer EquipmentType = "transformer"
	Combiner    EquipmentType = "combiner"
	Cable       EquipmentType = "cable"
	String      EquipmentType = "string"
	Trench      EquipmentType = "trench"
	ACCable     EquipmentType = "ac_cable"
)

// IsLine returns whether this equipment type is a line-like run
// described by vertices rather than a placed solid.
func (et EquipmentType) IsLine() bool {
	switch et {
	case Cable, String, Trench, ACCable:
		return true
	}
	return false
}

// PanelRecord is one solar panel table as parsed from the CAD file.
// The insert position is the table's front-left corner, not its center.
// A panel's identity is its positional index in [ParsedLayout.Panels];
// that index is the element id used for picking and comment anchoring
// and stays stable for a given layout snapshot.
type PanelRecord struct {
	// Insert is the CAD-space insert position of the table's
	// front-left corner.
	Insert Point3

	// AzimuthRadians is the table rotation about the vertical axis.
	AzimuthRadians float64

	// TiltDeg is the table tilt angle in degrees; nil falls back to
	// the configured default. 0 is a valid flat table.
	TiltDeg *float64

	// TableWidth is the width of the table along its azimuth in
	// meters; nil falls back to the configured default.
	TableWidth *float64

	// TableHeight is the slant length of the table surface in meters;
	// nil falls back to the configured default.
	TableHeight *float64

	// MountingHeight is the height of the table's lower edge above
	// ground in meters; nil falls back to the configured default.
	MountingHeight *float64
}

// EquipmentRecord is one piece of electrical equipment. The ID is
// assigned by the parser and is stable across a layout snapshot.
type EquipmentRecord struct {
	ID     string
	Type   EquipmentType
	Insert Point3

	// Vertices describe line-like types (cables, trenches); empty for
	// placed solids.
	Vertices []Point3

	// Dimensions is the physical size; nil falls back to the
	// per-type default.
	Dimensions *Dims

	// YawRadians is the rotation of placed solids about the vertical
	// axis, 0 when the parser could not determine one.
	YawRadians float64
}

// BoundaryRecord is a polyline boundary with a category tag that
// controls its render style.
type BoundaryRecord struct {
	Category string
	Points   []Point3
	Closed   bool
}

// TreeRecord is a single tree with a category tag that controls its
// render style.
type TreeRecord struct {
	Category string
	Position Point3
	Canopy   float64
	Height   float64
}

// Bounds is the overall extent of the layout in CAD space.
type Bounds struct {
	Center  Point3
	Extents Point3
}

// GeoData georeferences the layout: the GPS coordinate of the layout
// center, when the CAD file carried one.
type GeoData struct {
	Lat float64
	Lon float64
}

// ParsedLayout is the complete parsed CAD layout. It is produced by
// the external parser, is read-only to the scene, and lives for one
// viewed design version.
type ParsedLayout struct {
	Panels     []PanelRecord
	Electrical []EquipmentRecord
	Boundaries []BoundaryRecord
	Trees      []TreeRecord
	Bounds     Bounds
	Geo        *GeoData
}

// PanelID returns the string-encoded element id for the panel at the
// given positional index.
func PanelID(index int) string {
	return strconv.Itoa(index)
}

// PanelIndex parses a string-encoded panel element id back to its
// positional index, reporting whether the id is well formed.
func PanelIndex(id string) (int, bool) {
	n, err := strconv.Atoi(id)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Equipment returns the equipment record with the given parser id,
// or nil if no such record exists in this layout.
func (pl *ParsedLayout) Equipment(id string) *EquipmentRecord {
	for i := range pl.Electrical {
		if pl.Electrical[i].ID == id {
			return &pl.Electrical[i]
		}
	}
	return nil
}
