// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xform converts CAD-space layout records into render-space
// positions and orientations, and centralizes all empirical offset
// corrections. CAD space is a horizontal x,y plane with a separate
// height; render space is y-up with z = -CAD y.
package xform

import (
	"log/slog"
	"math"

	"github.com/pvscene/pvscene/layout"
	"github.com/pvscene/pvscene/math32"
)

// ToRender converts a CAD-space point to a render-space position.
func ToRender(p layout.Point3) math32.Vector3 {
	return math32.Vec3(float32(p.X), float32(p.Z), float32(-p.Y))
}

// PanelGeom is a [layout.PanelRecord] with all optional fields
// resolved against a [Config].
type PanelGeom struct {
	Insert         layout.Point3
	Azimuth        float64 // radians about vertical
	TiltRad        float64
	TableWidth     float64
	TableHeight    float64 // slant length of the table surface
	MountingHeight float64
}

// ResolvePanel fills in defaulted fields of the given panel record.
// Missing optionals are recovered locally and never surfaced as errors.
func ResolvePanel(rec *layout.PanelRecord, cfg *Config) PanelGeom {
	g := PanelGeom{
		Insert:         rec.Insert,
		Azimuth:        rec.AzimuthRadians,
		TiltRad:        cfg.Panel.TiltDeg * math.Pi / 180,
		TableWidth:     cfg.Panel.TableWidth,
		TableHeight:    cfg.Panel.TableHeight,
		MountingHeight: cfg.Panel.MountingHeight,
	}
	if rec.TiltDeg != nil {
		g.TiltRad = *rec.TiltDeg * math.Pi / 180
	}
	if rec.TableWidth != nil {
		g.TableWidth = *rec.TableWidth
	}
	if rec.TableHeight != nil {
		g.TableHeight = *rec.TableHeight
	}
	if rec.MountingHeight != nil {
		g.MountingHeight = *rec.MountingHeight
	}
	if g.TableWidth <= 0 || g.TableHeight <= 0 {
		slog.Debug("xform: non-positive panel table size, using defaults",
			"width", g.TableWidth, "height", g.TableHeight)
		g.TableWidth = cfg.Panel.TableWidth
		g.TableHeight = cfg.Panel.TableHeight
	}
	return g
}

// PanelCenter returns the render-space center of the given panel
// table. The CAD insert point is the table's front-left corner; the
// center offset is the half-width / half-depth vector rotated by the
// azimuth, added to the insert position, with the center height at
// MountingHeight + (TableHeight/2)*sin(tilt).
//
// This is the single shared implementation used by the instanced
// renderer, the selection overlay, and position lookup; keep it that
// way or the render and anchor positions will drift apart.
func PanelCenter(rec *layout.PanelRecord, cfg *Config) math32.Vector3 {
	g := ResolvePanel(rec, cfg)
	halfW := g.TableWidth / 2
	halfD := g.TableHeight * math.Cos(g.TiltRad) / 2

	sin, cos := math.Sincos(g.Azimuth)
	cx := g.Insert.X + halfW*cos - halfD*sin
	cy := g.Insert.Y + halfW*sin + halfD*cos
	cz := g.Insert.Z + g.MountingHeight + (g.TableHeight/2)*math.Sin(g.TiltRad)

	return ToRender(layout.Point3{X: cx, Y: cy, Z: cz})
}

// PanelRotation returns the render-space rotation of the given panel:
// yaw by the azimuth about the vertical axis, then pitch by the tilt
// about the table's local width axis.
func PanelRotation(rec *layout.PanelRecord, cfg *Config) math32.Quat {
	g := ResolvePanel(rec, cfg)
	yaw := math32.NewQuatAxisAngle(math32.Vector3Y, float32(g.Azimuth))
	pitch := math32.NewQuatAxisAngle(math32.Vec3(1, 0, 0), float32(g.TiltRad))
	return yaw.Mul(pitch)
}

// PanelLocalBox returns the local-space bounding box of a panel table
// centered at its origin: width along x, table slant length along z,
// and the surface thickness along y.
func PanelLocalBox(rec *layout.PanelRecord, cfg *Config) math32.Box3 {
	g := ResolvePanel(rec, cfg)
	b := math32.Box3{}
	b.SetFromCenterAndSize(math32.Vector3{},
		math32.Vec3(float32(g.TableWidth), PanelThickness, float32(g.TableHeight)))
	return b
}

// PanelThickness is the render thickness of a panel table surface.
const PanelThickness = 0.15

// EquipmentCenter returns the render-space center of a placed piece of
// equipment: the CAD insert corrected by the type's empirical offset
// (rotated by the equipment yaw) and raised by half its height.
func EquipmentCenter(rec *layout.EquipmentRecord, cfg *Config) math32.Vector3 {
	off := cfg.OffsetFor(rec.Type)
	dims := cfg.DimsFor(rec)

	sin, cos := math.Sincos(rec.YawRadians)
	cx := rec.Insert.X + off.Lateral*cos - off.Forward*sin
	cy := rec.Insert.Y + off.Lateral*sin + off.Forward*cos
	cz := rec.Insert.Z + dims.Height/2

	return ToRender(layout.Point3{X: cx, Y: cy, Z: cz})
}

// EquipmentRotation returns the render-space rotation of a placed
// piece of equipment from its yaw.
func EquipmentRotation(rec *layout.EquipmentRecord) math32.Quat {
	return math32.NewQuatAxisAngle(math32.Vector3Y, float32(rec.YawRadians))
}
