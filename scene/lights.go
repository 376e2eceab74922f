// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

// Lighting is the frame light rig: one directional sun driven by the
// time-of-day solver, plus a flat ambient term added to its
// intensity, and a scale for the sun contribution.
type Lighting struct {
	Ambient  float32
	SunScale float32
}

func defaultLighting() Lighting {
	return Lighting{Ambient: 0, SunScale: 1}
}

// SetLighting replaces the light rig parameters.
func (h *Handle) SetLighting(l Lighting) {
	if l.SunScale <= 0 {
		l.SunScale = 1
	}
	h.sc.lighting = l
}
