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

var boundaryColors = map[string]color.RGBA{
	"site":      {R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff},
	"fence":     {R: 0xa0, G: 0xa0, B: 0xa0, A: 0xff},
	"exclusion": {R: 0xd8, G: 0x40, B: 0x40, A: 0xff},
	"setback":   {R: 0xd8, G: 0xa0, B: 0x40, A: 0xff},
}

// boundarySet renders boundary polylines styled by category.
type boundarySet struct {
	lines []boundaryLine
}

type boundaryLine struct {
	tint   color.RGBA
	points []math32.Vector3
}

func newBoundarySet() *boundarySet {
	return &boundarySet{}
}

func (bs *boundarySet) rebuild(recs []layout.BoundaryRecord) {
	bs.lines = bs.lines[:0]
	for i := range recs {
		rec := &recs[i]
		if len(rec.Points) < 2 {
			continue
		}
		tint, ok := boundaryColors[rec.Category]
		if !ok {
			tint = boundaryColors["site"]
		}
		pts := make([]math32.Vector3, 0, len(rec.Points)+1)
		for _, p := range rec.Points {
			pts = append(pts, xform.ToRender(p))
		}
		if rec.Closed {
			pts = append(pts, pts[0])
		}
		bs.lines = append(bs.lines, boundaryLine{tint: tint, points: pts})
	}
}

func (bs *boundarySet) render(d Drawer) {
	for i := range bs.lines {
		d.DrawLines(bs.lines[i].points, 0.3, bs.lines[i].tint)
	}
}
