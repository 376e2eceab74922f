// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"image/color"

	"github.com/pvscene/pvscene/layout"
	"github.com/pvscene/pvscene/math32"
	"github.com/pvscene/pvscene/xform"
)

// cableStyle is the render style for one line-like equipment type.
type cableStyle struct {
	width float32
	tint  color.RGBA
}

var cableStyles = map[layout.EquipmentType]cableStyle{
	layout.Cable:   {width: 0.2, tint: color.RGBA{R: 0xc8, G: 0x32, B: 0x28, A: 0xff}},
	layout.String:  {width: 0.1, tint: color.RGBA{R: 0xe0, G: 0x9a, B: 0x20, A: 0xff}},
	layout.Trench:  {width: 0.6, tint: color.RGBA{R: 0x6b, G: 0x4f, B: 0x32, A: 0xff}},
	layout.ACCable: {width: 0.3, tint: color.RGBA{R: 0x28, G: 0x50, B: 0xc8, A: 0xff}},
}

// cableSet renders line-like equipment (cables, strings, trenches)
// as polylines through their vertices.
type cableSet struct {
	runs []cableRun
}

type cableRun struct {
	id     string
	style  cableStyle
	points []math32.Vector3
}

func newCableSet() *cableSet {
	return &cableSet{}
}

func (cs *cableSet) rebuild(recs []layout.EquipmentRecord) {
	cs.runs = cs.runs[:0]
	for i := range recs {
		rec := &recs[i]
		if !rec.Type.IsLine() || len(rec.Vertices) < 2 {
			continue
		}
		style, ok := cableStyles[rec.Type]
		if !ok {
			style = cableStyle{width: 0.2, tint: color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}}
		}
		pts := make([]math32.Vector3, len(rec.Vertices))
		for j, v := range rec.Vertices {
			pts[j] = xform.ToRender(v)
		}
		cs.runs = append(cs.runs, cableRun{id: rec.ID, style: style, points: pts})
	}
}

func (cs *cableSet) render(d Drawer) {
	for i := range cs.runs {
		run := &cs.runs[i]
		d.DrawLines(run.points, run.style.width, run.style.tint)
	}
}
